package locomotion

import (
	"github.com/dcbact/engine/internal/anim"
	"github.com/dcbact/engine/internal/core/event"
	"github.com/dcbact/engine/internal/world"
	"go.uber.org/zap"
)

// teleportTicks is how long a character stays see-through after being
// moved out of an overfull room.
const teleportTicks = 12

// HitExit moves a character standing on an exit box into the destination
// location: position at the destination box centre, fresh history, depth and
// priority from the new box. The walk goal is kept so a character passing
// through keeps going. Returns false when the box has no exit.
func (c *Controller) HitExit(ch *world.Character) bool {
	destLoc, destBox, ok := c.graph.ExitFor(ch.Location, ch.Box)
	if !ok {
		return false
	}
	from := ch.Location
	goalLoc, goalX, goalY := ch.DestLoc, ch.DestX, ch.DestY

	c.relocate(ch, destLoc, destBox)
	ch.DestLoc, ch.DestX, ch.DestY = goalLoc, goalX, goalY
	if goalLoc == destLoc && goalX == ch.ScreenX && goalY == ch.ScreenY {
		ch.Stopped = true
	}

	event.Emit(c.bus, event.LocationChanged{CharID: ch.ID, From: from, To: destLoc, Box: destBox})
	c.log.Debug("exit crossed",
		zap.Int("char", ch.ID), zap.Int("from", from), zap.Int("to", destLoc), zap.Int("box", destBox))

	c.HousingProblem(destLoc)
	return true
}

// relocate puts a character at the centre of a box of another location.
func (c *Controller) relocate(ch *world.Character, loc, box int) {
	c.world.MoveTo(ch, loc, box)
	p := c.graph.Center(loc, box)
	ch.Place(int32(p.X), int32(p.Y))
	ch.DestLoc = loc
	ch.LastBox = box
	c.refreshDepth(ch)
}

// HousingProblem enforces the capacity of a location. While it holds more
// characters than allowed the newest arrival other than the lead is sent
// away: where the Housing hook says, else back to the room it came from.
// Returns how many characters were moved.
func (c *Controller) HousingProblem(loc int) int {
	moved := 0
	for {
		count := c.world.Headcount(loc)
		if count <= c.cfg.MaxPerLocation {
			return moved
		}
		victim := c.newestGuest(loc)
		if victim == nil {
			return moved
		}

		destLoc, destBox := victim.PrevLocation, victim.PrevBox
		if c.housing != nil {
			if l, b, ok := c.housing.HousingProblem(loc, victim.ID, count); ok {
				destLoc, destBox = l, b
			}
		}
		if destLoc == loc || !c.graph.HasLocation(destLoc) || destBox < 0 || destBox >= c.graph.BoxCount(destLoc) {
			c.log.Warn("no room to send overflow to",
				zap.Int("loc", loc), zap.Int("char", victim.ID),
				zap.Int("dest_loc", destLoc), zap.Int("dest_box", destBox))
			return moved
		}

		c.relocate(victim, destLoc, destBox)
		c.StopChar(victim)
		victim.TeleportTicks = teleportTicks
		if a, err := c.actors.Get(victim.Actor); err == nil {
			a.Effect = anim.EffectInvisible
		}
		event.Emit(c.bus, event.HousingOverflow{Location: loc, CharID: victim.ID, DestLoc: destLoc, DestBox: destBox})
		c.log.Info("housing overflow",
			zap.Int("loc", loc), zap.Int("count", count), zap.Int("char", victim.ID),
			zap.Int("dest_loc", destLoc), zap.Int("dest_box", destBox))
		moved++
	}
}

// newestGuest returns the latest arrival of loc that is not the lead.
func (c *Controller) newestGuest(loc int) *world.Character {
	occ := c.world.Occupants(loc)
	for i := len(occ) - 1; i >= 0; i-- {
		if !c.world.IsLead(occ[i]) {
			return occ[i]
		}
	}
	return nil
}

// tickTeleport counts down the teleport effect and restores the normal one.
func (c *Controller) tickTeleport(ch *world.Character) {
	if ch.TeleportTicks == 0 {
		return
	}
	ch.TeleportTicks--
	if ch.TeleportTicks > 0 {
		return
	}
	if a, err := c.actors.Get(ch.Actor); err == nil {
		a.Effect = c.baseEffect(ch)
	}
}
