// Package render composites actor frames into an 8-bit indexed back buffer
// and tracks which rectangles changed so only those reach the display.
package render

import (
	"image"
)

// Screen is the back buffer plus the room's occlusion mask and background.
// Rows at or below MaskHeight belong to the panel and are never occluded.
type Screen struct {
	Width      int
	Height     int
	MaskHeight int
	Pix        []byte

	// FullRedraw makes the next Present copy the whole screen, e.g. after a
	// palette change or scene load.
	FullRedraw bool
	AuraColor  byte

	background []byte
	mask       []byte
	grey       [256]byte

	dirty  []image.Rectangle // drawn this frame
	prev   []image.Rectangle // drawn last frame, erased by BeginFrame
	erased []image.Rectangle
	out    []image.Rectangle

	row     []byte
	rowOffs []int
	cols    []int
}

func NewScreen(width, height, maskHeight int) *Screen {
	s := &Screen{
		Width:      width,
		Height:     height,
		MaskHeight: maskHeight,
		Pix:        make([]byte, width*height),
		FullRedraw: true,
		dirty:      make([]image.Rectangle, 0, 32),
		prev:       make([]image.Rectangle, 0, 32),
	}
	for i := range s.grey {
		s.grey[i] = byte(i)
	}
	return s
}

// Bounds returns the screen rectangle.
func (s *Screen) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

// SetBackground installs a room picture (Width*Height indices, nil = black)
// and schedules a full redraw.
func (s *Screen) SetBackground(bg []byte) {
	if bg == nil {
		s.background = nil
		clear(s.Pix)
	} else {
		s.background = bg
		copy(s.Pix, bg)
	}
	s.prev = s.prev[:0]
	s.erased = s.erased[:0]
	s.FullRedraw = true
}

// SetMask installs the occlusion mask of the current room: Width*MaskHeight
// depth bytes. nil disables occlusion.
func (s *Screen) SetMask(mask []byte) {
	s.mask = mask
}

// SetGreyRamp maps every colour onto 32 grey levels starting at base, used
// for greyed-out actors.
func (s *Screen) SetGreyRamp(base byte) {
	for i := range s.grey {
		s.grey[i] = base + byte(i>>3)
	}
	s.grey[0] = 0
}

// Invalidate forces the next Present to copy the full screen.
func (s *Screen) Invalidate() {
	s.FullRedraw = true
}

// BeginFrame erases last frame's actors by restoring the background under
// their rectangles, which are then presented again this frame.
func (s *Screen) BeginFrame() {
	for _, r := range s.prev {
		s.restore(r)
	}
	s.erased = append(s.erased, s.prev...)
	s.prev = s.prev[:0]
}

func (s *Screen) restore(r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		line := s.Pix[y*s.Width+r.Min.X : y*s.Width+r.Max.X]
		if s.background == nil {
			clear(line)
			continue
		}
		copy(line, s.background[y*s.Width+r.Min.X:])
	}
}

// Dirty returns the rectangles actors drew into since the last Present.
func (s *Screen) Dirty() []image.Rectangle {
	return s.dirty
}

// visible applies the mask depth test at a screen pixel.
func (s *Screen) visible(x, y, depth int) bool {
	if s.mask == nil || y >= s.MaskHeight {
		return true
	}
	return int(s.mask[y*s.Width+x]) >= depth
}

func (s *Screen) scratch(w int) []byte {
	if cap(s.row) < w {
		s.row = make([]byte, w)
	}
	return s.row[:w]
}
