package anim

import (
	"errors"
	"fmt"

	"github.com/dcbact/engine/internal/sprite"
)

// NoScope marks an actor playing its frames directly, without a scope. Only
// the mouse cursor runs like this, in its default state.
const NoScope = 255

// Unit is the fixed-point scale of ScaleX/ScaleY: 256 = 1:1.
const Unit = 256

var ErrBadScope = errors.New("anim: bad scope")

// Effect selects the compositing mode of an actor.
type Effect uint8

const (
	EffectNormal Effect = iota
	EffectGrey
	EffectInvisible
	EffectAura
)

func (e Effect) String() string {
	switch e {
	case EffectNormal:
		return "normal"
	case EffectGrey:
		return "grey"
	case EffectInvisible:
		return "invisible"
	case EffectAura:
		return "aura"
	}
	return fmt.Sprintf("effect(%d)", uint8(e))
}

// ParseEffect maps the names used in character tuning data.
func ParseEffect(s string) (Effect, error) {
	switch s {
	case "", "normal":
		return EffectNormal, nil
	case "grey":
		return EffectGrey, nil
	case "invisible":
		return EffectInvisible, nil
	case "aura":
		return EffectAura, nil
	}
	return EffectNormal, fmt.Errorf("anim: unknown effect %q", s)
}

// Scope is a playable frame range. With Alias set the logical range is
// 0..len(Alias)-1 and each step shows frame Alias[i].
type Scope struct {
	Min, Max, Start int
	Alias           []byte
	defined         bool
}

// Actor binds a sprite sheet to live playback and placement state.
type Actor struct {
	Sheet  *sprite.Sheet
	scopes []Scope

	CurrentFrame      int
	MinFrame          int
	MaxFrame          int
	ReverseAnim       bool
	AnimDuration      int // ticks per frame, 0 = frozen
	AnimDurationTimer int
	IsAnimating       bool
	Scope             int

	X, Y      int // anchor in screen pixels, frame offsets are relative to it
	ScaleX    int // x256
	ScaleY    int
	MaskDepth int
	Priority  int
	Effect    Effect
	Visible   bool
}

// NewActor creates an actor with scopeSlots scope slots (18 for characters,
// 8 for everything else), playing frame 0 without a scope.
func NewActor(sheet *sprite.Sheet, scopeSlots int) *Actor {
	return &Actor{
		Sheet:   sheet,
		scopes:  make([]Scope, scopeSlots),
		Scope:   NoScope,
		ScaleX:  Unit,
		ScaleY:  Unit,
		Visible: true,
	}
}

func (a *Actor) slot(id int) (*Scope, error) {
	if id < 0 || id >= len(a.scopes) {
		return nil, fmt.Errorf("%w: id %d outside 0..%d", ErrBadScope, id, len(a.scopes)-1)
	}
	return &a.scopes[id], nil
}

func (a *Actor) checkFrame(f int) error {
	if f < 0 || f >= len(a.Sheet.Frames) {
		return fmt.Errorf("%w: frame %d not in sheet %s (%d frames)", ErrBadScope, f, a.Sheet.Name, len(a.Sheet.Frames))
	}
	return nil
}

// DefineScope registers a playable range. min may exceed max for a range
// played backwards.
func (a *Actor) DefineScope(id, min, max, start int) error {
	s, err := a.slot(id)
	if err != nil {
		return err
	}
	for _, f := range []int{min, max, start} {
		if err := a.checkFrame(f); err != nil {
			return fmt.Errorf("scope %d: %w", id, err)
		}
	}
	*s = Scope{Min: min, Max: max, Start: start, defined: true}
	return nil
}

// DefineScopeAlias registers a scope playing alias[0..n-1] in table order.
func (a *Actor) DefineScopeAlias(id int, alias []byte, n int) error {
	s, err := a.slot(id)
	if err != nil {
		return err
	}
	if n <= 0 || n > len(alias) {
		return fmt.Errorf("%w: scope %d alias length %d of %d", ErrBadScope, id, n, len(alias))
	}
	for _, f := range alias[:n] {
		if err := a.checkFrame(int(f)); err != nil {
			return fmt.Errorf("scope %d: %w", id, err)
		}
	}
	*s = Scope{Min: 0, Max: n - 1, Start: 0, Alias: alias[:n:n], defined: true}
	return nil
}

// HasScope reports whether a scope id is defined.
func (a *Actor) HasScope(id int) bool {
	s, err := a.slot(id)
	return err == nil && s.defined
}

// SetScope switches to a defined scope and restarts it from its start frame.
// An undefined id is a programming error and panics.
func (a *Actor) SetScope(id, duration int) {
	s, err := a.slot(id)
	if err != nil || !s.defined {
		panic(fmt.Sprintf("anim: SetScope(%d) on %s: scope not defined", id, a.Sheet.Name))
	}
	a.Scope = id
	a.SetAnim(s.Min, s.Max, duration)
	a.CurrentFrame = min(max(s.Start, a.MinFrame), a.MaxFrame)
}

// ClearScope returns to direct frame playback.
func (a *Actor) ClearScope() {
	a.Scope = NoScope
}

// SetAnim sets the play range. An inverted pair is stored ascending with
// ReverseAnim set. A duration of 0 freezes the current frame. Under an
// aliased scope the range is clamped to the alias table.
func (a *Actor) SetAnim(min, max, duration int) {
	a.ReverseAnim = min > max
	if a.ReverseAnim {
		min, max = max, min
	}
	if a.Scope != NoScope {
		if alias := a.scopes[a.Scope].Alias; alias != nil {
			last := len(alias) - 1
			min, max = clamp(min, 0, last), clamp(max, 0, last)
		}
	}
	a.MinFrame, a.MaxFrame = min, max
	a.AnimDuration = duration
	a.AnimDurationTimer = duration
	a.IsAnimating = duration > 0
	if a.CurrentFrame < min || a.CurrentFrame > max {
		a.CurrentFrame = min
		if a.ReverseAnim {
			a.CurrentFrame = max
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PhysicalFrame resolves the sheet frame shown for CurrentFrame.
func (a *Actor) PhysicalFrame() int {
	if a.Scope != NoScope {
		if s := &a.scopes[a.Scope]; s.Alias != nil {
			return int(s.Alias[a.CurrentFrame])
		}
	}
	return a.CurrentFrame
}

// Advance runs the frame timer for one tick. On expiry the frame steps in the
// play direction and wraps to the opposite bound.
func (a *Actor) Advance() {
	if !a.IsAnimating || a.AnimDuration <= 0 {
		return
	}
	a.AnimDurationTimer--
	if a.AnimDurationTimer > 0 {
		return
	}
	a.AnimDurationTimer = a.AnimDuration
	if a.ReverseAnim {
		a.CurrentFrame--
		if a.CurrentFrame < a.MinFrame {
			a.CurrentFrame = a.MaxFrame
		}
		return
	}
	a.CurrentFrame++
	if a.CurrentFrame > a.MaxFrame {
		a.CurrentFrame = a.MinFrame
	}
}

// Display hands the current frame to the compositor and then advances
// playback by one tick. Empty frames and hidden actors draw nothing but
// still advance.
func (a *Actor) Display(c Compositor) {
	if a.Visible {
		if f := a.Sheet.Frame(a.PhysicalFrame()); !f.Empty() {
			c.Blit(a.blit(f))
		}
	}
	a.Advance()
}

func (a *Actor) blit(f *sprite.Frame) Blit {
	b := Blit{
		Pixels:    f.Pixels,
		SrcW:      f.Width,
		SrcH:      f.Height,
		X:         a.X + (f.XOffset*a.ScaleX)>>8,
		Y:         a.Y + (f.YOffset*a.ScaleY)>>8,
		DestW:     (f.Width * a.ScaleX) >> 8,
		DestH:     (f.Height * a.ScaleY) >> 8,
		MaskDepth: a.MaskDepth,
		Effect:    a.Effect,
	}
	switch {
	case a.Effect == EffectAura:
		b.Mode = BlitAura
	case a.ScaleX == Unit && a.ScaleY == Unit && a.MaskDepth == 0 && a.Effect == EffectNormal:
		b.Mode = BlitUnscaled
	default:
		b.Mode = BlitScaled
	}
	return b
}
