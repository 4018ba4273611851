package locomotion

import (
	"github.com/dcbact/engine/internal/world"
	"go.uber.org/zap"
)

// Scope slots every walking character defines. Slots 9 and up are free for
// authored animations (talking, picking up, ...).
const (
	ScopeWalkLeft = iota
	ScopeWalkRight
	ScopeWalkBack
	ScopeWalkFront
	ScopeStandLeft
	ScopeStandRight
	ScopeStandBack
	ScopeStandFront
	ScopeSpell
)

// Hysteresis of the lead character's direction, in ×256 units of depth
// corrected movement over two ticks.
const (
	jitterBand   = 4   // smaller moves keep no direction
	verticalBias = 127 // how much the vertical axis must win by to turn
)

// wantedScope maps (direction, lastDirection) to a scope. A walk that
// changes direction first shows one tick of the old facing.
var wantedScope = [5][5]int{
	world.DirNone:  {ScopeStandFront, ScopeStandLeft, ScopeStandRight, ScopeStandBack, ScopeStandFront},
	world.DirLeft:  {ScopeWalkLeft, ScopeWalkLeft, ScopeStandRight, ScopeStandBack, ScopeStandFront},
	world.DirRight: {ScopeWalkRight, ScopeStandLeft, ScopeWalkRight, ScopeStandBack, ScopeStandFront},
	world.DirBack:  {ScopeWalkBack, ScopeStandLeft, ScopeStandRight, ScopeWalkBack, ScopeStandFront},
	world.DirFront: {ScopeWalkFront, ScopeStandLeft, ScopeStandRight, ScopeStandBack, ScopeWalkFront},
}

// classify derives the direction of the tick that just ran. The lead
// character is judged on its movement over the last two ticks with
// hysteresis; everyone else on the step it just took.
func (c *Controller) classify(ch *world.Character) int {
	var dx, dy int64
	vertical := false
	if c.world.IsLead(ch) {
		depth := int64(ch.Start5)
		dx = int64(ch.Start3-ch.Start3PrevPrev) * world.FixedOne / depth
		dy = int64(ch.Start4-ch.Start4PrevPrev) * 2 * world.FixedOne / depth
		ax, ay := abs64(dx), abs64(dy)
		if ax <= jitterBand && ay <= jitterBand {
			return world.DirNone
		}
		if ch.Direction == world.DirBack || ch.Direction == world.DirFront {
			vertical = ay+verticalBias > ax
		} else {
			vertical = ay > ax+verticalBias
		}
	} else {
		dx, dy = int64(ch.SomethingX), int64(ch.SomethingY)*2
		if dx == 0 && dy == 0 {
			return world.DirNone
		}
		vertical = abs64(dy) > abs64(dx)
	}

	switch {
	case vertical && dy < 0:
		return world.DirBack
	case vertical:
		return world.DirFront
	case dx < 0:
		return world.DirLeft
	default:
		return world.DirRight
	}
}

// updateScope classifies the direction, latches it and applies the wanted
// scope to the character's actor.
func (c *Controller) updateScope(ch *world.Character) {
	dir := c.classify(ch)
	wanted := wantedScope[dir][ch.LastDirection]
	ch.Direction = dir
	if dir != world.DirNone {
		ch.LastDirection = dir
	}
	if dir == world.DirNone && c.world.SpellMode && c.world.IsLead(ch) && c.hasScope(ch, ScopeSpell) {
		wanted = ScopeSpell
	}
	ch.ScopeWanted = wanted
	if err := c.SetScopeX(ch, wanted); err != nil {
		c.log.Debug("scope not applied", zap.Int("char", ch.ID), zap.Int("scope", wanted), zap.Error(err))
	}
}
