package sprite

// Row stream control bytes: bit 7 clear skips that many transparent pixels,
// bit 7 set copies the low 7 bits worth of literal bytes. 0 ends the row
// early; a row also ends once Width pixels are covered.
const (
	literalFlag = 0x80
	countMask   = 0x7f
)

// ExpandRow decodes the row starting at src[off] into dst[:width], writing 0
// for transparent pixels, and returns the offset of the next row. Truncated
// streams leave the remainder transparent.
func ExpandRow(src []byte, off, width int, dst []byte) int {
	clear(dst[:width])
	return walkRow(src, off, width, dst)
}

// SkipRow returns the offset of the row following the one at src[off].
func SkipRow(src []byte, off, width int) int {
	return walkRow(src, off, width, nil)
}

func walkRow(src []byte, off, width int, dst []byte) int {
	x := 0
	for x < width && off < len(src) {
		c := src[off]
		off++
		if c == 0 {
			break
		}
		if c&literalFlag == 0 {
			x += int(c)
			continue
		}
		n := int(c & countMask)
		for i := 0; i < n && off < len(src); i++ {
			if dst != nil && x < width {
				dst[x] = src[off]
			}
			x++
			off++
		}
	}
	return off
}

// RowOffsets indexes the start of each of height rows, reusing dst.
func RowOffsets(src []byte, width, height int, dst []int) []int {
	dst = dst[:0]
	off := 0
	for y := 0; y < height; y++ {
		dst = append(dst, off)
		off = SkipRow(src, off, width)
	}
	return dst
}
