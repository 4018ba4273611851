package system

import (
	"time"

	coresys "github.com/dcbact/engine/internal/core/system"
	"github.com/dcbact/engine/internal/render"
	"go.uber.org/zap"
)

// PresentSystem flips the tick's dirty rectangles to the display.
// Phase 3 (Present).
type PresentSystem struct {
	screen *render.Screen
	sink   render.Presenter
	log    *zap.Logger
}

func NewPresentSystem(screen *render.Screen, sink render.Presenter, log *zap.Logger) *PresentSystem {
	return &PresentSystem{screen: screen, sink: sink, log: log}
}

func (s *PresentSystem) Phase() coresys.Phase { return coresys.PhasePresent }

func (s *PresentSystem) Update(_ time.Duration) {
	if err := s.screen.Present(s.sink); err != nil {
		s.log.Error("present failed", zap.Error(err))
	}
}
