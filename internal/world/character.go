package world

import (
	"github.com/dcbact/engine/internal/anim"
	"github.com/dcbact/engine/internal/data"
)

// Direction a character faces or walks in.
const (
	DirNone  = 0
	DirLeft  = 1
	DirRight = 2
	DirBack  = 3 // away from the camera
	DirFront = 4 // toward the camera
)

// FixedOne is 1.0 in the ×256 fixed-point used for positions and depth.
const FixedOne = 256

// Character holds the live locomotion state of one character. Accessed only
// from the game loop goroutine, no locks.
type Character struct {
	ID   int
	Name string
	Def  *data.CharacterDef

	Location int
	Box      int
	LastBox  int // box before the last transition, also the goal when no route leads out

	// Destination pixel and location.
	DestLoc int
	DestX   int32
	DestY   int32

	// Position in screen pixels and ×256 sub-pixels. Start3/Start4 are the
	// authoritative values; ScreenX/ScreenY follow them.
	ScreenX int32
	ScreenY int32
	Start3  int32
	Start4  int32
	// Depth ×256, 256 = nominal size, larger = farther away.
	Start5 int32

	// Position two ticks ago, used to smooth the lead character's direction.
	Start3Prev     int32
	Start4Prev     int32
	Start3PrevPrev int32
	Start4PrevPrev int32

	// Step applied this tick, ×256.
	SomethingX int32
	SomethingY int32

	WalkSpeed     int32
	RelativeSpeed int32 // 1024 = normal

	Direction     int
	LastDirection int

	ScopeWanted      int
	ScopeInUse       int
	Xtend            int
	LoadedScopeXtend int
	Actor            anim.Handle

	Stopped  bool
	Enabled  bool
	Priority int

	// Where the character came from, the default housing overflow target.
	PrevLocation int
	PrevBox      int
	// Remaining ticks of the teleport effect after a housing overflow.
	TeleportTicks int
}

// NewCharacter builds the runtime state from its table entry, standing still
// at the authored position.
func NewCharacter(def *data.CharacterDef) *Character {
	c := &Character{
		ID:               def.ID,
		Name:             def.Name,
		Def:              def,
		Location:         def.Location,
		Box:              def.Box,
		LastBox:          def.Box,
		WalkSpeed:        int32(def.WalkSpeed),
		RelativeSpeed:    int32(def.RelativeSpeed),
		Start5:           FixedOne,
		ScopeWanted:      anim.NoScope,
		ScopeInUse:       anim.NoScope,
		LoadedScopeXtend: -1,
		Enabled:          !def.Disabled,
		Stopped:          true,
		PrevLocation:     def.Location,
		PrevBox:          def.Box,
	}
	c.Place(int32(def.X), int32(def.Y))
	c.DestLoc = c.Location
	return c
}

// Place teleports the character to a pixel and makes it its own goal. The
// direction history is reset so no spurious direction is derived from the jump.
func (c *Character) Place(x, y int32) {
	c.ScreenX, c.ScreenY = x, y
	c.Start3, c.Start4 = x*FixedOne, y*FixedOne
	c.ResetHistory()
	c.DestX, c.DestY = x, y
	c.SomethingX, c.SomethingY = 0, 0
}

// ResetHistory forgets the previous position samples.
func (c *Character) ResetHistory() {
	c.Start3Prev, c.Start4Prev = c.Start3, c.Start4
	c.Start3PrevPrev, c.Start4PrevPrev = c.Start3, c.Start4
}

// PushHistory shifts the position samples by one tick.
func (c *Character) PushHistory() {
	c.Start3PrevPrev, c.Start4PrevPrev = c.Start3Prev, c.Start4Prev
	c.Start3Prev, c.Start4Prev = c.Start3, c.Start4
}

// SetDestination asks the character to walk to (x, y) in location loc.
func (c *Character) SetDestination(loc int, x, y int32) {
	c.DestLoc, c.DestX, c.DestY = loc, x, y
	c.Stopped = false
}

// Moving reports whether the character still has somewhere to go.
func (c *Character) Moving() bool {
	return c.Enabled && !c.Stopped
}
