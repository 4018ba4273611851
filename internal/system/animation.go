package system

import (
	"sort"
	"time"

	"github.com/dcbact/engine/internal/anim"
	coresys "github.com/dcbact/engine/internal/core/system"
	"github.com/dcbact/engine/internal/render"
	"github.com/dcbact/engine/internal/world"
)

// Cursor is the mouse-cursor actor, drawn above everything at X, Y.
type Cursor struct {
	Actor anim.Handle
	X, Y  int
}

// AnimationSystem composites the characters of the lead's location, back to
// front by box priority then feet row, and advances every other actor
// without drawing it. The scene is switched before compositing when the lead
// changed rooms during locomotion.
// Phase 2 (Animation).
type AnimationSystem struct {
	world  *world.State
	actors *anim.Manager
	screen *render.Screen
	scene  *Scene
	cursor *Cursor

	drawn   map[anim.Handle]bool
	sprites []drawable
}

type drawable struct {
	actor    *anim.Actor
	priority int
	y        int
}

// NewAnimationSystem creates the compositing system. scene may be nil.
func NewAnimationSystem(ws *world.State, actors *anim.Manager, screen *render.Screen, scene *Scene) *AnimationSystem {
	return &AnimationSystem{
		world:  ws,
		actors: actors,
		screen: screen,
		scene:  scene,
		drawn:  make(map[anim.Handle]bool),
	}
}

// SetCursor installs the cursor actor, nil removes it.
func (s *AnimationSystem) SetCursor(c *Cursor) {
	s.cursor = c
}

func (s *AnimationSystem) Phase() coresys.Phase { return coresys.PhaseAnimation }

func (s *AnimationSystem) Update(_ time.Duration) {
	room := -1
	if lead := s.world.Lead(); lead != nil {
		room = lead.Location
	}
	if s.scene != nil && room != -1 {
		s.scene.Follow(room)
	}

	s.screen.BeginFrame()
	clear(s.drawn)
	s.sprites = s.sprites[:0]
	s.world.AllCharacters(func(ch *world.Character) {
		a, err := s.actors.Get(ch.Actor)
		if err != nil || !ch.Enabled || ch.Location != room {
			return
		}
		syncActor(a, ch)
		s.sprites = append(s.sprites, drawable{actor: a, priority: ch.Priority, y: a.Y})
		s.drawn[ch.Actor] = true
	})

	sort.SliceStable(s.sprites, func(i, j int) bool {
		if s.sprites[i].priority != s.sprites[j].priority {
			return s.sprites[i].priority < s.sprites[j].priority
		}
		return s.sprites[i].y < s.sprites[j].y
	})
	for _, sp := range s.sprites {
		sp.actor.Display(s.screen)
	}

	if s.cursor != nil {
		if a, err := s.actors.Get(s.cursor.Actor); err == nil {
			a.X, a.Y = s.cursor.X, s.cursor.Y
			a.Display(s.screen)
			s.drawn[s.cursor.Actor] = true
		}
	}

	s.actors.Each(func(h anim.Handle, a *anim.Actor) {
		if !s.drawn[h] {
			a.Advance()
		}
	})
}

// syncActor copies position, perspective scale and depth from a character to
// its actor.
func syncActor(a *anim.Actor, ch *world.Character) {
	a.X, a.Y = int(ch.ScreenX), int(ch.ScreenY)
	scale := world.FixedOne * world.FixedOne / int(ch.Start5)
	a.ScaleX, a.ScaleY = scale, scale
	a.MaskDepth = ch.Priority
	a.Priority = ch.Priority
}
