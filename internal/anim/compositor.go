package anim

// BlitMode selects one of the compositor's blit paths.
type BlitMode uint8

const (
	BlitUnscaled BlitMode = iota
	BlitScaled
	BlitAura
)

// Blit is one frame handed to the compositor: the raw row RLE stream, its
// source size and the destination rectangle.
type Blit struct {
	Mode      BlitMode
	Pixels    []byte
	SrcW      int
	SrcH      int
	X, Y      int
	DestW     int
	DestH     int
	MaskDepth int
	Effect    Effect
}

// Compositor is the sink actors draw into.
type Compositor interface {
	Blit(b Blit)
}
