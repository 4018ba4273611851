// Package spritetest builds DCB_ACT sheets in memory for tests.
package spritetest

import (
	"encoding/binary"

	"github.com/dcbact/engine/internal/sprite"
)

// Image is an uncompressed frame: Pix is Width*Height palette indices, 0 is
// transparent.
type Image struct {
	Width, Height    int
	XOffset, YOffset int
	Pix              []byte
}

// Solid returns a w*h frame filled with colour c.
func Solid(w, h int, c byte) Image {
	pix := make([]byte, w*h)
	for i := range pix {
		pix[i] = c
	}
	return Image{Width: w, Height: h, Pix: pix}
}

// EncodeRows run-length encodes an image body.
func EncodeRows(img Image) []byte {
	var out []byte
	for y := 0; y < img.Height; y++ {
		row := img.Pix[y*img.Width : (y+1)*img.Width]
		out = append(out, encodeRow(row)...)
	}
	return out
}

func encodeRow(row []byte) []byte {
	var out []byte
	x := 0
	for x < len(row) {
		if row[x] == 0 {
			n := 0
			for x < len(row) && row[x] == 0 && n < 0x7f {
				x++
				n++
			}
			if x == len(row) {
				// trailing transparency: end the row early
				return append(out, 0)
			}
			out = append(out, byte(n))
			continue
		}
		start := x
		for x < len(row) && row[x] != 0 && x-start < 0x7f {
			x++
		}
		out = append(out, 0x80|byte(x-start))
		out = append(out, row[start:x]...)
	}
	return out
}

// Build assembles a complete sheet.
func Build(player bool, frames ...Image) []byte {
	out := []byte(sprite.Magic)
	flag := byte(0)
	if player {
		flag = 1
	}
	out = append(out, flag, byte(len(frames)), 0)

	tableEnd := len(out) + 4*len(frames)
	bodies := make([][]byte, len(frames))
	offsets := make([]uint32, len(frames))
	pos := tableEnd
	for i, f := range frames {
		rec := make([]byte, 8)
		binary.LittleEndian.PutUint16(rec[0:], uint16(f.Width))
		binary.LittleEndian.PutUint16(rec[2:], uint16(f.Height))
		binary.LittleEndian.PutUint16(rec[4:], uint16(int16(f.XOffset)))
		binary.LittleEndian.PutUint16(rec[6:], uint16(int16(f.YOffset)))
		bodies[i] = append(rec, EncodeRows(f)...)
		offsets[i] = uint32(pos + 10)
		pos += len(bodies[i])
	}
	for _, off := range offsets {
		out = binary.LittleEndian.AppendUint32(out, off)
	}
	for _, b := range bodies {
		out = append(out, b...)
	}
	return out
}

// Sheet builds and decodes a sheet, panicking on error.
func Sheet(frames ...Image) *sprite.Sheet {
	s, err := sprite.Decode(Build(false, frames...))
	if err != nil {
		panic(err)
	}
	s.Name = "test"
	return s
}
