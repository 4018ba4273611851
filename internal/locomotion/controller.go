// Package locomotion advances characters through the box graph of their
// location and keeps their actor's scope in step with where they walk.
package locomotion

import (
	"fmt"

	"github.com/dcbact/engine/internal/anim"
	"github.com/dcbact/engine/internal/config"
	"github.com/dcbact/engine/internal/core/event"
	"github.com/dcbact/engine/internal/nav"
	"github.com/dcbact/engine/internal/sprite"
	"github.com/dcbact/engine/internal/world"
	"go.uber.org/zap"
)

// Housing decides where a character goes when its location is over
// capacity. ok = false keeps the engine default (back where it came from).
type Housing interface {
	HousingProblem(loc, charID, count int) (destLoc, destBox int, ok bool)
}

// Timing overrides the ticks per frame of a character scope.
type Timing interface {
	ScopeDuration(charID, scope, def int) int
}

// Deps are the services the controller works against. Housing and Timing
// may be nil.
type Deps struct {
	Graph   *nav.Graph
	World   *world.State
	Actors  *anim.Manager
	Sheets  *sprite.Cache
	Bus     *event.Bus
	Housing Housing
	Timing  Timing
	Config  config.MovementConfig
	Log     *zap.Logger
}

// Controller owns the position, box and scope invariants of every
// character. Single-goroutine access only (game loop).
type Controller struct {
	graph  *nav.Graph
	world  *world.State
	actors *anim.Manager
	sheets *sprite.Cache
	bus    *event.Bus

	housing Housing
	timing  Timing
	cfg     config.MovementConfig
	log     *zap.Logger
}

func NewController(d *Deps) *Controller {
	return &Controller{
		graph:   d.Graph,
		world:   d.World,
		actors:  d.Actors,
		sheets:  d.Sheets,
		bus:     d.Bus,
		housing: d.Housing,
		timing:  d.Timing,
		cfg:     d.Config,
		log:     d.Log,
	}
}

// Settle snaps a freshly created character onto the box graph: box from its
// position when the authored one does not contain it, depth and priority.
func (c *Controller) Settle(ch *world.Character) {
	if !c.graph.Box(ch.Location, ch.Box).Contains(int(ch.ScreenX), int(ch.ScreenY)) {
		if b := c.graph.BoxAt(ch.Location, int(ch.ScreenX), int(ch.ScreenY)); b != nav.NoBox {
			ch.Box = b
		}
	}
	ch.LastBox = ch.Box
	c.refreshDepth(ch)
}

// WalkTo sets a character's goal. The location must exist.
func (c *Controller) WalkTo(ch *world.Character, loc int, x, y int32) error {
	if !c.graph.HasLocation(loc) {
		return fmt.Errorf("walk character %d: unknown location %d", ch.ID, loc)
	}
	ch.SetDestination(loc, x, y)
	return nil
}

// StopChar makes the current position the goal, re-derives box, priority
// and depth from it and halts motion.
func (c *Controller) StopChar(ch *world.Character) {
	ch.DestLoc = ch.Location
	ch.DestX, ch.DestY = ch.ScreenX, ch.ScreenY
	if b := c.graph.BoxAt(ch.Location, int(ch.ScreenX), int(ch.ScreenY)); b != nav.NoBox {
		ch.Box = b
	}
	c.refreshDepth(ch)
	ch.SomethingX, ch.SomethingY = 0, 0
	ch.Direction = world.DirNone
	ch.Stopped = true
}

// Enable switches a character on or off. A disabled character stops, hides
// its actor and no longer counts towards room capacity.
func (c *Controller) Enable(ch *world.Character, on bool) {
	c.world.SetEnabled(ch, on)
	if a, err := c.actors.Get(ch.Actor); err == nil {
		a.Visible = on
	}
	if !on {
		c.StopChar(ch)
		return
	}
	c.HousingProblem(ch.Location)
}

// refreshDepth derives priority and perspective depth from the current box.
func (c *Controller) refreshDepth(ch *world.Character) {
	ch.Priority = c.graph.Priority(ch.Location, ch.Box)
	ch.Start5 = int32(c.graph.ZValue(ch.Location, ch.Box, int(ch.ScreenY)))
	if ch.Start5 <= 0 {
		ch.Start5 = world.FixedOne
	}
}
