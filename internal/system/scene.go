package system

import (
	"github.com/dcbact/engine/internal/config"
	"github.com/dcbact/engine/internal/data"
	"github.com/dcbact/engine/internal/render"
	"go.uber.org/zap"
)

// Scene keeps the screen in step with the location the lead stands in.
type Scene struct {
	screen   *render.Screen
	masksDir string
	width    int
	height   int
	log      *zap.Logger

	Location int
}

func NewScene(screen *render.Screen, cfg *config.Config, log *zap.Logger) *Scene {
	return &Scene{
		screen:   screen,
		masksDir: cfg.Data.MasksDir,
		width:    cfg.Screen.Width,
		height:   cfg.Screen.MaskHeight,
		log:      log,
		Location: -1,
	}
}

// Enter shows a location: its occlusion mask is installed and the next
// present copies the whole screen.
func (s *Scene) Enter(loc int) error {
	mask, err := data.LoadMask(s.masksDir, loc, s.width, s.height)
	if err != nil {
		return err
	}
	s.screen.SetMask(mask)
	s.screen.SetBackground(nil)
	s.Location = loc
	s.log.Info("scene entered", zap.Int("location", loc), zap.Bool("mask", mask != nil))
	return nil
}

// Follow enters loc unless it is already shown. A failed load is logged and
// the previous mask stays installed.
func (s *Scene) Follow(loc int) {
	if loc == s.Location {
		return
	}
	if err := s.Enter(loc); err != nil {
		s.log.Error("scene load failed", zap.Int("location", loc), zap.Error(err))
	}
}
