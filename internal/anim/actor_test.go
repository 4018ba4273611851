package anim

import (
	"errors"
	"testing"

	"github.com/dcbact/engine/internal/sprite"
	"github.com/dcbact/engine/internal/sprite/spritetest"
	"go.uber.org/zap"
)

type recorder struct {
	blits []Blit
}

func (r *recorder) Blit(b Blit) { r.blits = append(r.blits, b) }

// sheetOf returns a sheet whose frame i is (i+1) pixels wide, so recorded
// blits identify the physical frame through SrcW.
func sheetOf(n int) *sprite.Sheet {
	frames := make([]spritetest.Image, n)
	for i := range frames {
		frames[i] = spritetest.Solid(i+1, 1, byte(i+1))
	}
	return spritetest.Sheet(frames...)
}

func TestSetAnimNormalizesRange(t *testing.T) {
	cases := []struct {
		min, max         int
		wantMin, wantMax int
		reverse          bool
	}{
		{0, 5, 0, 5, false},
		{5, 0, 0, 5, true},
		{3, 3, 3, 3, false},
		{9, 2, 2, 9, true},
	}
	for _, tc := range cases {
		a := NewActor(sheetOf(10), 8)
		a.SetAnim(tc.min, tc.max, 2)
		if a.MinFrame != tc.wantMin || a.MaxFrame != tc.wantMax || a.ReverseAnim != tc.reverse {
			t.Errorf("SetAnim(%d,%d): got [%d,%d] reverse=%v", tc.min, tc.max, a.MinFrame, a.MaxFrame, a.ReverseAnim)
		}
		if a.MinFrame > a.MaxFrame {
			t.Errorf("SetAnim(%d,%d): min > max", tc.min, tc.max)
		}
	}
}

func TestAdvanceStaysInRangeAndWraps(t *testing.T) {
	for _, tc := range []struct {
		min, max, duration int
	}{
		{2, 6, 1}, {6, 2, 1}, {0, 3, 3}, {7, 1, 2}, {4, 4, 5},
	} {
		a := NewActor(sheetOf(10), 8)
		a.SetAnim(tc.min, tc.max, tc.duration)
		prev := a.CurrentFrame
		for tick := 0; tick < 100; tick++ {
			a.Advance()
			cur := a.CurrentFrame
			if cur < a.MinFrame || cur > a.MaxFrame {
				t.Fatalf("%+v tick %d: frame %d outside [%d,%d]", tc, tick, cur, a.MinFrame, a.MaxFrame)
			}
			if cur == prev {
				continue
			}
			want := prev + 1
			if a.ReverseAnim {
				want = prev - 1
			}
			if want > a.MaxFrame {
				want = a.MinFrame
			}
			if want < a.MinFrame {
				want = a.MaxFrame
			}
			if cur != want {
				t.Fatalf("%+v tick %d: stepped %d -> %d, want %d", tc, tick, prev, cur, want)
			}
			prev = cur
		}
	}
}

func TestAdvanceTiming(t *testing.T) {
	a := NewActor(sheetOf(4), 8)
	a.SetAnim(0, 3, 3)
	var seen []int
	for i := 0; i < 9; i++ {
		seen = append(seen, a.CurrentFrame)
		a.Advance()
	}
	want := []int{0, 0, 0, 1, 1, 1, 2, 2, 2}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("frames = %v, want %v", seen, want)
		}
	}
}

func TestZeroDurationFreezes(t *testing.T) {
	a := NewActor(sheetOf(4), 8)
	a.SetAnim(1, 3, 0)
	if a.IsAnimating {
		t.Error("IsAnimating with zero duration")
	}
	for i := 0; i < 10; i++ {
		a.Advance()
	}
	if a.CurrentFrame != 1 {
		t.Errorf("frame moved to %d", a.CurrentFrame)
	}
}

func TestAliasRoundTrip(t *testing.T) {
	alias := []byte{3, 1, 2, 1, 0}
	const duration = 2
	a := NewActor(sheetOf(4), 8)
	if err := a.DefineScopeAlias(5, alias, len(alias)); err != nil {
		t.Fatal(err)
	}
	a.SetScope(5, duration)

	var rec recorder
	for i := 0; i < len(alias)*duration; i++ {
		a.Display(&rec)
	}
	if len(rec.blits) != len(alias)*duration {
		t.Fatalf("blits = %d", len(rec.blits))
	}
	for i, b := range rec.blits {
		want := int(alias[i/duration]) + 1
		if b.SrcW != want {
			t.Fatalf("tick %d: drew frame of width %d, want %d", i, b.SrcW, want)
		}
	}
	if a.CurrentFrame != 0 {
		t.Errorf("after a full cycle CurrentFrame = %d, want wrap to 0", a.CurrentFrame)
	}
}

func TestSetScopeResetsToStart(t *testing.T) {
	a := NewActor(sheetOf(10), 18)
	if err := a.DefineScope(2, 8, 4, 6); err != nil {
		t.Fatal(err)
	}
	a.CurrentFrame = 9
	a.SetScope(2, 1)
	if a.Scope != 2 || a.CurrentFrame != 6 {
		t.Errorf("scope=%d frame=%d, want 2/6", a.Scope, a.CurrentFrame)
	}
	if !a.ReverseAnim || a.MinFrame != 4 || a.MaxFrame != 8 {
		t.Errorf("range [%d,%d] reverse=%v", a.MinFrame, a.MaxFrame, a.ReverseAnim)
	}
	a.Advance()
	if a.CurrentFrame != 5 {
		t.Errorf("reverse step gave %d, want 5", a.CurrentFrame)
	}
}

func TestDefineScopeErrors(t *testing.T) {
	a := NewActor(sheetOf(3), 8)
	if err := a.DefineScope(8, 0, 1, 0); !errors.Is(err, ErrBadScope) {
		t.Errorf("slot 8 of 8: err = %v", err)
	}
	if err := a.DefineScope(0, 0, 3, 0); !errors.Is(err, ErrBadScope) {
		t.Errorf("frame past sheet: err = %v", err)
	}
	if err := a.DefineScopeAlias(1, []byte{0, 9}, 2); !errors.Is(err, ErrBadScope) {
		t.Errorf("alias frame past sheet: err = %v", err)
	}
	if a.HasScope(0) || a.HasScope(1) {
		t.Error("failed definitions registered")
	}
}

func TestSetScopeUndefinedPanics(t *testing.T) {
	a := NewActor(sheetOf(3), 8)
	defer func() {
		if recover() == nil {
			t.Error("SetScope on undefined scope did not panic")
		}
	}()
	a.SetScope(4, 1)
}

func TestDisplaySkipsEmptyFrames(t *testing.T) {
	s := spritetest.Sheet(spritetest.Image{Width: 0, Height: 3}, spritetest.Solid(2, 2, 1))
	a := NewActor(s, 8)
	a.SetAnim(0, 1, 1)
	var rec recorder
	a.Display(&rec)
	if len(rec.blits) != 0 {
		t.Errorf("empty frame drawn: %+v", rec.blits)
	}
	if a.CurrentFrame != 1 {
		t.Errorf("empty frame did not advance, frame=%d", a.CurrentFrame)
	}
	a.Display(&rec)
	if len(rec.blits) != 1 {
		t.Errorf("blits = %d, want 1", len(rec.blits))
	}
}

func TestBlitGeometryAndMode(t *testing.T) {
	img := spritetest.Solid(20, 40, 1)
	img.XOffset, img.YOffset = -10, -40
	a := NewActor(spritetest.Sheet(img), 8)
	a.X, a.Y = 100, 200

	var rec recorder
	a.Display(&rec)
	b := rec.blits[0]
	if b.Mode != BlitUnscaled || b.X != 90 || b.Y != 160 || b.DestW != 20 || b.DestH != 40 {
		t.Errorf("unscaled blit = %+v", b)
	}

	a.ScaleX, a.ScaleY = 128, 128
	a.MaskDepth = 3
	a.Display(&rec)
	b = rec.blits[1]
	if b.Mode != BlitScaled || b.X != 95 || b.Y != 180 || b.DestW != 10 || b.DestH != 20 || b.MaskDepth != 3 {
		t.Errorf("scaled blit = %+v", b)
	}

	a.Effect = EffectAura
	a.Display(&rec)
	if rec.blits[2].Mode != BlitAura {
		t.Errorf("aura mode = %v", rec.blits[2].Mode)
	}
}

func TestNoScopeDirectPlayback(t *testing.T) {
	a := NewActor(sheetOf(4), 8)
	if err := a.DefineScopeAlias(0, []byte{3, 2}, 2); err != nil {
		t.Fatal(err)
	}
	a.SetScope(0, 1)
	if a.PhysicalFrame() != 3 {
		t.Fatalf("aliased frame = %d", a.PhysicalFrame())
	}
	a.ClearScope()
	a.CurrentFrame = 1
	if a.Scope != NoScope || a.PhysicalFrame() != 1 {
		t.Errorf("direct frame = %d", a.PhysicalFrame())
	}
}

func TestSetAnimClampsToAlias(t *testing.T) {
	a := NewActor(sheetOf(4), 8)
	if err := a.DefineScopeAlias(2, []byte{3, 1, 2}, 3); err != nil {
		t.Fatal(err)
	}
	a.SetScope(2, 1)
	a.SetAnim(0, 9, 1)
	if a.MinFrame != 0 || a.MaxFrame != 2 {
		t.Fatalf("range [%d,%d], want [0,2]", a.MinFrame, a.MaxFrame)
	}
	var rec recorder
	for i := 0; i < 6; i++ {
		a.Display(&rec)
	}
	want := []int{4, 2, 3, 4, 2, 3}
	for i, b := range rec.blits {
		if b.SrcW != want[i] {
			t.Fatalf("tick %d drew width %d, want %d", i, b.SrcW, want[i])
		}
	}
}

func TestManagerStaleHandles(t *testing.T) {
	m := NewManager(zap.NewNop())
	h, a := m.Load(sheetOf(2), 8)
	if got := m.MustGet(h); got != a {
		t.Fatal("MustGet returned another actor")
	}

	var released []Handle
	m.OnUnload(func(h Handle, _ *Actor) { released = append(released, h) })

	m.Unload(h)
	if a.Visible {
		t.Error("unloaded actor still visible")
	}
	if _, err := m.Get(h); err != nil {
		t.Errorf("handle invalid before Flush: %v", err)
	}
	m.Flush()
	if _, err := m.Get(h); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("after Flush err = %v, want ErrStaleHandle", err)
	}
	if len(released) != 1 || released[0] != h {
		t.Errorf("released = %v", released)
	}

	h2, _ := m.Load(sheetOf(2), 8)
	if h2.Index() != h.Index() {
		t.Fatalf("slot not reused")
	}
	if _, err := m.Get(h); !errors.Is(err, ErrStaleHandle) {
		t.Error("old handle resolves to reused slot")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustGet on stale handle did not panic")
		}
	}()
	m.MustGet(h)
}

func TestParseEffect(t *testing.T) {
	for _, name := range []string{"", "grey", "invisible", "aura"} {
		if _, err := ParseEffect(name); err != nil {
			t.Errorf("ParseEffect(%q): %v", name, err)
		}
	}
	if _, err := ParseEffect("sparkle"); err == nil {
		t.Error("unknown effect accepted")
	}
}
