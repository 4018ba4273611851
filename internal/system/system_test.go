package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dcbact/engine/internal/anim"
	"github.com/dcbact/engine/internal/config"
	"github.com/dcbact/engine/internal/core/event"
	coresys "github.com/dcbact/engine/internal/core/system"
	"github.com/dcbact/engine/internal/data"
	"github.com/dcbact/engine/internal/locomotion"
	"github.com/dcbact/engine/internal/nav"
	"github.com/dcbact/engine/internal/render"
	"github.com/dcbact/engine/internal/sprite"
	"github.com/dcbact/engine/internal/sprite/spritetest"
	"github.com/dcbact/engine/internal/world"
	"go.uber.org/zap"
)

type harness struct {
	cfg     *config.Config
	world   *world.State
	actors  *anim.Manager
	bus     *event.Bus
	screen  *render.Screen
	counter *render.Counter
	scene   *Scene
	anim    *AnimationSystem
	runner  *coresys.Runner
	ctrl    *locomotion.Controller
}

type enterRecorder struct {
	calls [][4]int
}

func (r *enterRecorder) OnEnterLocation(charID, from, to, box int) {
	r.calls = append(r.calls, [4]int{charID, from, to, box})
}

func sheetOf(c byte) *sprite.Sheet {
	img := spritetest.Solid(8, 8, c)
	img.XOffset, img.YOffset = -4, -8
	return spritetest.Sheet(img)
}

func newHarness(t *testing.T, rooms string, lead int, hooks RoomHooks, chars ...data.CharacterDef) *harness {
	t.Helper()
	tbl, err := data.ParseLocations([]byte(rooms))
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Defaults()
	cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.MaskHeight = 40, 40, 30
	cfg.Data.MasksDir = t.TempDir()
	log := zap.NewNop()

	sheets := sprite.NewCache(t.TempDir())
	sheets.Put("one.act", sheetOf(1))
	sheets.Put("two.act", sheetOf(2))

	h := &harness{
		cfg:     cfg,
		world:   world.NewState(lead),
		actors:  anim.NewManager(log),
		bus:     event.NewBus(),
		screen:  render.NewScreen(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.MaskHeight),
		counter: &render.Counter{},
		runner:  coresys.NewRunner(),
	}
	h.scene = NewScene(h.screen, cfg, log)
	h.ctrl = locomotion.NewController(&locomotion.Deps{
		Graph:  nav.NewGraph(tbl),
		World:  h.world,
		Actors: h.actors,
		Sheets: sheets,
		Bus:    h.bus,
		Config: cfg.Movement,
		Log:    log,
	})
	for i := range chars {
		ch := world.NewCharacter(&chars[i])
		h.world.Add(ch)
		h.ctrl.Settle(ch)
	}
	(&Handlers{World: h.world, Scene: h.scene, Hooks: hooks, Log: log}).Subscribe(h.bus)

	h.anim = NewAnimationSystem(h.world, h.actors, h.screen, h.scene)
	h.runner.Register(NewCleanupSystem(h.actors))
	h.runner.Register(NewPresentSystem(h.screen, h.counter, log))
	h.runner.Register(h.anim)
	h.runner.Register(NewLocomotionSystem(h.world, h.ctrl))
	h.runner.Register(NewEventSystem(h.bus))
	return h
}

func standing(id, loc, x, y int, sheet string) data.CharacterDef {
	return data.CharacterDef{
		ID: id, Location: loc, X: x, Y: y, WalkSpeed: 20, RelativeSpeed: 1024,
		Sheet: sheet,
		Scopes: []data.ScopeDef{
			{ID: locomotion.ScopeWalkRight},
			{ID: locomotion.ScopeStandFront},
			{ID: locomotion.ScopeStandRight},
		},
	}
}

const twoBoxes = `
locations:
  - id: 1
    boxes:
      - {x1: 0, y1: 0, x2: 9, y2: 39, priority: 2, joins: [1]}
      - {x1: 10, y1: 0, x2: 39, y2: 39, priority: 1, joins: [0]}
  - id: 2
    boxes:
      - {x1: 0, y1: 0, x2: 39, y2: 39}
`

func TestDrawOrderByPriority(t *testing.T) {
	front := standing(1, 1, 8, 10, "one.act")
	back := standing(2, 1, 11, 10, "two.act")
	away := standing(3, 2, 20, 30, "two.act")
	h := newHarness(t, twoBoxes, 1, nil, front, back, away)

	h.runner.Tick(time.Second / 24)

	px := func(x, y int) byte { return h.screen.Pix[y*h.screen.Width+x] }
	if px(9, 5) != 1 {
		t.Errorf("overlap = %d, want the priority 2 sprite", px(9, 5))
	}
	if px(13, 5) != 2 || px(5, 5) != 1 {
		t.Errorf("edges = %d / %d", px(13, 5), px(5, 5))
	}
	if px(20, 25) != 0 {
		t.Error("character of another location drawn")
	}
	if h.counter.Frames != 1 || h.counter.Pixels != 40*40 {
		t.Errorf("first present = %+v", *h.counter)
	}
	if h.actors.Len() != 3 {
		t.Errorf("actors = %d", h.actors.Len())
	}
}

func TestIdleFramesPresentSprites(t *testing.T) {
	h := newHarness(t, twoBoxes, 1, nil, standing(1, 1, 8, 10, "one.act"))
	h.runner.Tick(time.Second / 24)
	h.runner.Tick(time.Second / 24)
	// the sprite is erased and redrawn in place: only its rectangle is copied
	if h.counter.Frames != 2 || h.counter.Pixels != 40*40+8*8 {
		t.Errorf("presents = %+v", *h.counter)
	}
}

const corridor = `
locations:
  - id: 1
    boxes:
      - {x1: 0, y1: 0, x2: 19, y2: 39, joins: [1]}
      - {x1: 20, y1: 0, x2: 39, y2: 39, joins: [0]}
    exits:
      - {box: 1, dest_location: 2, dest_box: 0}
    box2box:
      - [-1, 1]
      - [0, -1]
  - id: 2
    boxes:
      - {x1: 0, y1: 0, x2: 39, y2: 39, priority: 5}
loc2loc:
  - {from: 1, to: 2, next: 2}
`

func TestLeadCrossingExitChangesScene(t *testing.T) {
	rec := &enterRecorder{}
	h := newHarness(t, corridor, 1, rec, standing(1, 1, 10, 20, "one.act"))
	lead := h.world.Lead()
	if err := h.ctrl.WalkTo(lead, 2, 30, 20); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10 && lead.Location != 2; i++ {
		h.runner.Tick(time.Second / 24)
	}
	if lead.Location != 2 || h.scene.Location != 2 {
		t.Fatalf("lead in %d, scene %d", lead.Location, h.scene.Location)
	}
	// room hooks see the crossing once the bus is dispatched
	h.runner.Tick(time.Second / 24)
	if len(rec.calls) != 1 || rec.calls[0] != [4]int{1, 1, 2, 0} {
		t.Errorf("hook calls = %v", rec.calls)
	}
	if h.scene.Location != 2 {
		t.Errorf("scene = %d after dispatch", h.scene.Location)
	}
}

func TestSceneSwitchesOnCrossingTick(t *testing.T) {
	h := newHarness(t, corridor, 1, nil, standing(1, 1, 10, 20, "one.act"))
	// room 2 hides everything above the panel from priority 5 actors
	mask := make([]byte, 40*30)
	if err := os.WriteFile(filepath.Join(h.cfg.Data.MasksDir, "2.msk"), mask, 0o644); err != nil {
		t.Fatal(err)
	}
	lead := h.world.Lead()
	if err := h.ctrl.WalkTo(lead, 2, 30, 20); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		from := lead.Location
		before := h.counter.Pixels
		h.runner.Tick(time.Second / 24)
		if from == 2 || lead.Location != 2 {
			continue
		}
		if h.scene.Location != 2 {
			t.Fatalf("scene = %d on the tick the lead entered room 2", h.scene.Location)
		}
		if got := h.counter.Pixels - before; got != 40*40 {
			t.Errorf("crossing tick copied %d pixels, want a full redraw", got)
		}
		for i, p := range h.screen.Pix {
			if p != 0 {
				t.Fatalf("pixel %d = %d drawn through room 2's mask", i, p)
			}
		}
		return
	}
	t.Fatal("lead never reached room 2")
}

func TestCursorDrawnOnTop(t *testing.T) {
	h := newHarness(t, twoBoxes, 1, nil, standing(1, 1, 8, 10, "one.act"))
	cur, a := h.actors.Load(sheetOf(9), data.MaxActorScopes)
	if err := a.DefineScopeAlias(1, []byte{0, 0}, 2); err != nil {
		t.Fatal(err)
	}
	h.anim.SetCursor(&Cursor{Actor: cur, X: 9, Y: 10})

	h.runner.Tick(time.Second / 24)
	if p := h.screen.Pix[5*h.screen.Width+9]; p != 9 {
		t.Errorf("pixel under cursor = %d", p)
	}
}
