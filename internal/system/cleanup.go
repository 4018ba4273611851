package system

import (
	"time"

	"github.com/dcbact/engine/internal/anim"
	coresys "github.com/dcbact/engine/internal/core/system"
)

// CleanupSystem releases the actors unloaded during the tick, once nothing
// can draw them any more.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	actors *anim.Manager
}

func NewCleanupSystem(actors *anim.Manager) *CleanupSystem {
	return &CleanupSystem{actors: actors}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.actors.Flush()
}
