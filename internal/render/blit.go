package render

import (
	"image"

	"github.com/dcbact/engine/internal/anim"
	"github.com/dcbact/engine/internal/sprite"
)

// invisibleShift is how far right the invisible effect samples the already
// composed screen, giving the "heat haze" look.
const invisibleShift = 8

// Blit implements anim.Compositor.
func (s *Screen) Blit(b anim.Blit) {
	switch b.Mode {
	case anim.BlitUnscaled:
		s.DrawActorFrame(b.Pixels, b.SrcW, b.SrcH, b.X, b.Y)
	case anim.BlitScaled:
		s.DrawActorFrameScaled(b.Pixels, b.SrcW, b.SrcH, destRect(b), b.MaskDepth, b.Effect)
	case anim.BlitAura:
		s.DrawActorFrameScaledAura(b.Pixels, b.SrcW, b.SrcH, destRect(b), b.MaskDepth, s.AuraColor)
	}
}

func destRect(b anim.Blit) image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.DestW, b.Y+b.DestH)
}

// DrawActorFrame copies a frame 1:1 with its top-left corner at (x, y),
// clipped to the screen. Transparent pixels leave the screen untouched.
func (s *Screen) DrawActorFrame(pix []byte, w, h, x, y int) {
	if w <= 0 || h <= 0 {
		return
	}
	r := image.Rect(x, y, x+w, y+h).Intersect(s.Bounds())
	if r.Empty() {
		return
	}
	row := s.scratch(w)
	off := 0
	for sy := 0; sy < h; sy++ {
		dy := y + sy
		if dy >= r.Max.Y {
			break
		}
		if dy < r.Min.Y {
			off = sprite.SkipRow(pix, off, w)
			continue
		}
		off = sprite.ExpandRow(pix, off, w, row)
		line := s.Pix[dy*s.Width : (dy+1)*s.Width]
		for sx := r.Min.X - x; sx < r.Max.X-x; sx++ {
			if c := row[sx]; c != 0 {
				line[x+sx] = c
			}
		}
	}
	s.dirty = append(s.dirty, r)
}

// DrawActorFrameScaled stretches a frame onto dst, testing every written
// pixel against the room mask at maskDepth. EffectInvisible copies the screen
// pixel invisibleShift columns to the right instead of the sprite colour and
// EffectGrey remaps through the grey ramp.
func (s *Screen) DrawActorFrameScaled(pix []byte, srcW, srcH int, dst image.Rectangle, maskDepth int, effect anim.Effect) {
	s.drawScaled(pix, srcW, srcH, dst, maskDepth, effect, false, 0)
}

// DrawActorFrameScaledAura is DrawActorFrameScaled with a one pixel border of
// aura colour left and right of every opaque run.
func (s *Screen) DrawActorFrameScaledAura(pix []byte, srcW, srcH int, dst image.Rectangle, maskDepth int, aura byte) {
	s.drawScaled(pix, srcW, srcH, dst, maskDepth, anim.EffectNormal, true, aura)
}

func (s *Screen) drawScaled(pix []byte, srcW, srcH int, dst image.Rectangle, maskDepth int, effect anim.Effect, withAura bool, aura byte) {
	dw, dh := dst.Dx(), dst.Dy()
	if srcW <= 0 || srcH <= 0 || dw <= 0 || dh <= 0 {
		return
	}
	area := dst
	if withAura {
		area.Min.X--
		area.Max.X++
	}
	clip := area.Intersect(s.Bounds())
	if clip.Empty() {
		return
	}

	s.rowOffs = sprite.RowOffsets(pix, srcW, srcH, s.rowOffs)
	cols := s.columns(srcW, dw)
	row := s.scratch(srcW)

	// Step through source rows with an integer accumulator so the whole
	// destination extent is covered even when part of it is clipped.
	yStep, yRem := srcH/dh, srcH%dh
	sy, acc, loaded := 0, 0, -1
	for j := 0; j < dh; j++ {
		dy := dst.Min.Y + j
		if dy >= clip.Max.Y {
			break
		}
		if dy >= clip.Min.Y {
			if sy != loaded {
				sprite.ExpandRow(pix, s.rowOffs[sy], srcW, row)
				loaded = sy
			}
			s.scaledRow(row, cols, dst.Min.X, dy, maskDepth, effect, withAura, aura)
		}
		sy += yStep
		acc += yRem
		if acc >= dh {
			acc -= dh
			sy++
		}
	}
	s.dirty = append(s.dirty, clip)
}

// columns maps each destination column to its source column.
func (s *Screen) columns(srcW, dw int) []int {
	if cap(s.cols) < dw {
		s.cols = make([]int, dw)
	}
	cols := s.cols[:dw]
	step, rem := srcW/dw, srcW%dw
	sx, acc := 0, 0
	for i := range cols {
		cols[i] = sx
		sx += step
		acc += rem
		if acc >= dw {
			acc -= dw
			sx++
		}
	}
	return cols
}

func (s *Screen) scaledRow(row []byte, cols []int, x0, dy, maskDepth int, effect anim.Effect, withAura bool, aura byte) {
	line := s.Pix[dy*s.Width : (dy+1)*s.Width]
	inRun := false
	for i, sx := range cols {
		dx := x0 + i
		c := row[sx]
		if c == 0 {
			if inRun && withAura {
				s.plot(line, dx, dy, maskDepth, aura)
			}
			inRun = false
			continue
		}
		if !inRun && withAura {
			s.plot(line, dx-1, dy, maskDepth, aura)
		}
		inRun = true
		if dx < 0 || dx >= s.Width || !s.visible(dx, dy, maskDepth) {
			continue
		}
		switch effect {
		case anim.EffectInvisible:
			if dx+invisibleShift < s.Width {
				line[dx] = line[dx+invisibleShift]
			}
		case anim.EffectGrey:
			line[dx] = s.grey[c]
		default:
			line[dx] = c
		}
	}
	if inRun && withAura {
		s.plot(line, x0+len(cols), dy, maskDepth, aura)
	}
}

func (s *Screen) plot(line []byte, x, y, maskDepth int, c byte) {
	if x < 0 || x >= s.Width || !s.visible(x, y, maskDepth) {
		return
	}
	line[x] = c
}
