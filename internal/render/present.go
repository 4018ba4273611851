package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// Presenter receives the back buffer and the rectangles that changed since
// the previous frame. pix is row-major with the given stride.
type Presenter interface {
	Present(pix []byte, stride int, rects []image.Rectangle) error
}

// Present hands the changed areas to p, the whole screen when FullRedraw is
// set, and starts a new dirty list.
func (s *Screen) Present(p Presenter) error {
	rects := append(s.out[:0], s.erased...)
	rects = append(rects, s.dirty...)
	if s.FullRedraw {
		rects = append(rects[:0], s.Bounds())
	} else {
		rects = Coalesce(rects)
	}
	s.out = rects
	var err error
	if len(rects) > 0 {
		err = p.Present(s.Pix, s.Width, rects)
	}
	s.prev = append(s.prev[:0], s.dirty...)
	s.dirty = s.dirty[:0]
	s.erased = s.erased[:0]
	s.FullRedraw = false
	return err
}

// Coalesce merges overlapping or touching rectangles until none remain that
// could be merged. The input slice is reused.
func Coalesce(rects []image.Rectangle) []image.Rectangle {
	out := rects[:0]
	for _, r := range rects {
		if !r.Empty() {
			out = append(out, r)
		}
	}
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if !touches(out[i], out[j]) {
					continue
				}
				out[i] = out[i].Union(out[j])
				out = append(out[:j], out[j+1:]...)
				merged = true
				j--
			}
		}
	}
	return out
}

func touches(a, b image.Rectangle) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}

// Counter is a headless Presenter that only tallies what would have been
// copied to the display.
type Counter struct {
	Frames int
	Rects  int
	Pixels int
}

func (c *Counter) Present(_ []byte, _ int, rects []image.Rectangle) error {
	c.Frames++
	c.Rects += len(rects)
	for _, r := range rects {
		c.Pixels += r.Dx() * r.Dy()
	}
	return nil
}

// Snapshot writes the back buffer as a PNG using a grey ramp palette.
func (s *Screen) Snapshot(w io.Writer) error {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}
	img := &image.Paletted{
		Pix:     s.Pix,
		Stride:  s.Width,
		Rect:    s.Bounds(),
		Palette: pal,
	}
	return png.Encode(w, img)
}
