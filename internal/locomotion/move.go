package locomotion

import (
	"github.com/dcbact/engine/internal/data"
	"github.com/dcbact/engine/internal/nav"
	"github.com/dcbact/engine/internal/world"
	"go.uber.org/zap"
)

// waypoint is where a character heads this tick. exit is the exit box being
// walked to when the goal lies in another location, else NoBox.
type waypoint struct {
	x, y int
	exit int
}

// MoveChar advances one character by one tick.
func (c *Controller) MoveChar(ch *world.Character) {
	if !ch.Enabled {
		return
	}
	c.tickTeleport(ch)
	ch.PushHistory()
	if !ch.Stopped {
		c.walk(ch)
	}
	c.updateScope(ch)
}

func (c *Controller) walk(ch *world.Character) {
	wp, ok := c.waypoint(ch)
	if !ok {
		// no route: stand still this tick but keep the goal
		ch.SomethingX, ch.SomethingY = 0, 0
		return
	}
	if wp.exit != nav.NoBox && ch.Box == wp.exit {
		c.HitExit(ch)
		return
	}

	dx := int64(wp.x) - int64(ch.ScreenX)
	dy := (int64(wp.y) - int64(ch.ScreenY)) * 2 // 2:1 pixel aspect
	total := abs64(dx) + abs64(dy)
	if total == 0 {
		c.arrive(ch)
		return
	}

	// speed / distance ×65536, then divided by depth ×256; the >>18 below
	// drops the 65536 and the 4 the 1024-based relative speed adds on top
	// of the ×256 step unit.
	scale := (int64(ch.WalkSpeed) * int64(ch.RelativeSpeed) << 16) / total
	scale = (scale << 8) / int64(ch.Start5)
	stepX := (dx * scale) >> 18
	stepY := (dy * scale) >> 18
	if abs64(stepX) > abs64(dx)*world.FixedOne {
		stepX = dx * world.FixedOne
	}
	if abs64(stepY) > abs64(dy)*world.FixedOne {
		stepY = dy * world.FixedOne
	}
	stepY /= 2
	if stepX == 0 && stepY == 0 {
		c.arrive(ch)
		return
	}

	c.step(ch, int32(stepX), int32(stepY))
	c.refreshDepth(ch)

	if wp.exit != nav.NoBox && ch.Box == wp.exit {
		c.HitExit(ch)
	}
}

// arrive stops a character that has nowhere left to go this tick.
func (c *Controller) arrive(ch *world.Character) {
	ch.SomethingX, ch.SomethingY = 0, 0
	ch.Direction = world.DirNone
	ch.Stopped = true
}

// step applies a move, switching to a linked walkable box when the projected
// position leaves the current one and clamping each offending axis to the
// box edge otherwise.
func (c *Controller) step(ch *world.Character, sx, sy int32) {
	nx, ny := ch.Start3+sx, ch.Start4+sy
	px, py := int(nx>>8), int(ny>>8)

	box := c.graph.Box(ch.Location, ch.Box)
	if !box.Contains(px, py) {
		nb := c.graph.BoxAtLinked(ch.Location, ch.Box, px, py)
		if nb != nav.NoBox && nb != ch.Box && c.graph.Box(ch.Location, nb).Attrib != data.AttribBlocked {
			ch.LastBox = ch.Box
			ch.Box = nb
		} else {
			switch {
			case px < box.X1:
				nx = int32(box.X1) << 8
			case px > box.X2:
				nx = int32(box.X2) << 8
			}
			switch {
			case py < box.Y1:
				ny = int32(box.Y1) << 8
			case py > box.Y2:
				ny = int32(box.Y2) << 8
			}
		}
	}

	ch.SomethingX, ch.SomethingY = nx-ch.Start3, ny-ch.Start4
	ch.Start3, ch.Start4 = nx, ny
	ch.ScreenX, ch.ScreenY = nx>>8, ny>>8
}

// waypoint resolves the goal, the sub-goal box and the point to aim at.
func (c *Controller) waypoint(ch *world.Character) (waypoint, bool) {
	loc := ch.Location
	wp := waypoint{exit: nav.NoBox}
	var sub int

	if ch.DestLoc != loc {
		hop := c.graph.RouteBetweenLocations(loc, ch.DestLoc)
		switch {
		case hop == nav.NoBox:
			sub = ch.LastBox
			p := c.graph.Center(loc, sub)
			wp.x, wp.y = p.X, p.Y
		case c.graph.ExitToward(loc, hop) != nav.NoBox:
			sub = c.graph.ExitToward(loc, hop)
			wp.exit = sub
			p := c.graph.Center(loc, sub)
			wp.x, wp.y = p.X, p.Y
		default:
			wp.x, wp.y = c.cfg.FallbackX, c.cfg.FallbackY
			sub = c.graph.BoxAt(loc, wp.x, wp.y)
		}
	} else {
		wp.x, wp.y = int(ch.DestX), int(ch.DestY)
		sub = c.graph.BoxAt(loc, wp.x, wp.y)
	}
	if sub == nav.NoBox {
		c.log.Debug("no sub-goal box",
			zap.Int("char", ch.ID), zap.Int("loc", loc), zap.Int("x", wp.x), zap.Int("y", wp.y))
		return wp, false
	}

	px, py := int(ch.ScreenX), int(ch.ScreenY)
	for i, n := 0, c.graph.BoxCount(loc); i < n; i++ {
		if ch.Box == sub {
			return wp, true
		}
		next := c.graph.RouteBetweenBoxes(loc, ch.Box, sub)
		if next == nav.NoBox {
			return wp, false
		}
		// already standing in the overlap with the next box
		if c.graph.Box(loc, next).Contains(px, py) {
			ch.LastBox = ch.Box
			ch.Box = next
			continue
		}
		centre := c.graph.Center(loc, sub)
		if c.graph.IsInLine(loc, ch.Box, sub, px, py, centre.X, centre.Y) {
			wp.x, wp.y = centre.X, centre.Y
			return wp, true
		}
		p := c.graph.MidOverlap(loc, ch.Box, next)
		wp.x, wp.y = p.X, p.Y
		return wp, true
	}
	return wp, false
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
