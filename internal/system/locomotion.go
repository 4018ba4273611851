package system

import (
	"time"

	coresys "github.com/dcbact/engine/internal/core/system"
	"github.com/dcbact/engine/internal/locomotion"
	"github.com/dcbact/engine/internal/world"
)

// LocomotionSystem moves every enabled character once, in character-table
// order, so later characters see the boxes earlier ones moved into.
// Phase 1 (Locomotion).
type LocomotionSystem struct {
	world *world.State
	ctrl  *locomotion.Controller
}

func NewLocomotionSystem(ws *world.State, ctrl *locomotion.Controller) *LocomotionSystem {
	return &LocomotionSystem{world: ws, ctrl: ctrl}
}

func (s *LocomotionSystem) Phase() coresys.Phase { return coresys.PhaseLocomotion }

func (s *LocomotionSystem) Update(_ time.Duration) {
	s.world.GameLoopTimer++
	s.world.AllCharacters(s.ctrl.MoveChar)
}
