// Package sprite decodes DCB_ACT sprite sheets: a fixed header, a table of
// frame offsets and per-frame run-length pixel records.
package sprite

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	Magic = "DCB_ACT"

	headerSize      = 10
	frameHeaderSize = 8
	// frame table offsets point this far past the start of their record
	offsetBias = 10
)

var (
	ErrBadMagic  = errors.New("sprite: bad magic")
	ErrTruncated = errors.New("sprite: truncated sheet")
)

type header struct {
	Magic  [7]byte
	Player uint8
	Frames uint8
	_      uint8
}

type frameHeader struct {
	Width   uint16
	Height  uint16
	XOffset int16
	YOffset int16
}

// Frame is one decoded frame record. Pixels holds the raw row RLE stream and
// may extend past the end of the frame; decoding stops after Height rows.
type Frame struct {
	Width   int
	Height  int
	XOffset int
	YOffset int
	Pixels  []byte
}

// Empty reports frames used as invisible placeholders.
func (f *Frame) Empty() bool { return f.Width == 0 || f.Height == 0 }

// Sheet is a decoded sprite sheet.
type Sheet struct {
	Name   string
	Player bool
	Frames []Frame
	size   int
}

// Size returns the encoded size of the sheet in bytes.
func (s *Sheet) Size() int { return s.size }

// Frame returns frame i. Out-of-range indices panic: scopes are validated
// against the sheet when they are defined.
func (s *Sheet) Frame(i int) *Frame {
	if i < 0 || i >= len(s.Frames) {
		panic(fmt.Sprintf("sprite: %s has no frame %d (of %d)", s.Name, i, len(s.Frames)))
	}
	return &s.Frames[i]
}

// Load reads and decodes a sheet file.
func Load(path string) (*Sheet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", path, err)
	}
	s, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode sheet %s: %w", path, err)
	}
	s.Name = path
	return s, nil
}

// Decode parses a sheet held in memory. Frame pixel slices alias raw.
func Decode(raw []byte) (*Sheet, error) {
	r := bytes.NewReader(raw)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	if string(h.Magic[:]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic[:])
	}

	offsets := make([]uint32, h.Frames)
	if err := binary.Read(r, binary.LittleEndian, offsets); err != nil {
		return nil, fmt.Errorf("%w: frame table: %v", ErrTruncated, err)
	}

	s := &Sheet{
		Player: h.Player != 0,
		Frames: make([]Frame, h.Frames),
		size:   len(raw),
	}
	for i, off := range offsets {
		if err := decodeFrame(raw, int64(off)-offsetBias, &s.Frames[i]); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return s, nil
}

func decodeFrame(raw []byte, start int64, f *Frame) error {
	if start < headerSize || start+frameHeaderSize > int64(len(raw)) {
		return fmt.Errorf("%w: record at %d outside %d bytes", ErrTruncated, start, len(raw))
	}
	var fh frameHeader
	rec := io.NewSectionReader(bytes.NewReader(raw), start, frameHeaderSize)
	if err := binary.Read(rec, binary.LittleEndian, &fh); err != nil {
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	*f = Frame{
		Width:   int(fh.Width),
		Height:  int(fh.Height),
		XOffset: int(fh.XOffset),
		YOffset: int(fh.YOffset),
		Pixels:  raw[start+frameHeaderSize:],
	}
	return nil
}
