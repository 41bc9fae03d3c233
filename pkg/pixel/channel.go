package pixel

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrChannelCount reports a source that lacks the channels a split requires.
var ErrChannelCount = errors.New("unexpected channel count")

// Plane is a single 8-bit channel.
type Plane struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPlane creates a plane filled with v.
func NewPlane(width, height int, v uint8) *Plane {
	p := &Plane{Width: width, Height: height, Pix: make([]uint8, width*height)}
	if v != 0 {
		for i := range p.Pix {
			p.Pix[i] = v
		}
	}
	return p
}

// Uniform reports whether every value in the plane equals v.
func (p *Plane) Uniform(v uint8) bool {
	for _, x := range p.Pix {
		if x != v {
			return false
		}
	}
	return true
}

// Split separates a buffer into its R, G, B and A planes.
func Split(b *Buffer) (r, g, bl, a *Plane) {
	w, h := b.Width(), b.Height()
	r = NewPlane(w, h, 0)
	g = NewPlane(w, h, 0)
	bl = NewPlane(w, h, 0)
	a = NewPlane(w, h, 0)
	pix := b.Pix()
	for i := range r.Pix {
		r.Pix[i] = pix[i*4+0]
		g.Pix[i] = pix[i*4+1]
		bl.Pix[i] = pix[i*4+2]
		a.Pix[i] = pix[i*4+3]
	}
	return r, g, bl, a
}

// SplitRGB separates a buffer decoded from a source with at least three
// channels. Single-channel sources yield ErrChannelCount.
func SplitRGB(b *Buffer) (r, g, bl *Plane, err error) {
	if b.Channels() < 3 {
		return nil, nil, nil, fmt.Errorf("%w: need 3 channels, got %d", ErrChannelCount, b.Channels())
	}
	r, g, bl, _ = Split(b)
	return r, g, bl, nil
}

// Merge combines four planes of equal size into a buffer.
func Merge(r, g, bl, a *Plane) (*Buffer, error) {
	for _, p := range []*Plane{g, bl, a} {
		if p.Width != r.Width || p.Height != r.Height {
			return nil, fmt.Errorf("%w: plane %dx%d does not match %dx%d",
				ErrInvalidImage, p.Width, p.Height, r.Width, r.Height)
		}
	}
	out, err := New(r.Width, r.Height)
	if err != nil {
		return nil, err
	}
	pix := out.Pix()
	for i := range r.Pix {
		pix[i*4+0] = r.Pix[i]
		pix[i*4+1] = g.Pix[i]
		pix[i*4+2] = bl.Pix[i]
		pix[i*4+3] = a.Pix[i]
	}
	return out, nil
}

// Expand turns a plane into an opaque gray buffer.
func Expand(p *Plane) (*Buffer, error) {
	out, err := New(p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	pix := out.Pix()
	for i, v := range p.Pix {
		pix[i*4+0] = v
		pix[i*4+1] = v
		pix[i*4+2] = v
		pix[i*4+3] = 255
	}
	out.channels = 1
	return out, nil
}

// LumaOf converts a color to its 8-bit grayscale intensity using ITU-R 601-2
// weights in 16.16 fixed point. Alpha is ignored.
func LumaOf(c color.NRGBA) uint8 {
	return uint8((uint32(c.R)*19595 + uint32(c.G)*38470 + uint32(c.B)*7471 + 0x8000) >> 16)
}

// Luma converts a buffer to a grayscale plane.
func Luma(b *Buffer) *Plane {
	p := NewPlane(b.Width(), b.Height(), 0)
	pix := b.Pix()
	for i := range p.Pix {
		p.Pix[i] = LumaOf(color.NRGBA{R: pix[i*4], G: pix[i*4+1], B: pix[i*4+2]})
	}
	return p
}

// Invert replaces R, G and B with 255-v. The result is opaque RGB: source
// alpha is dropped before inverting.
func Invert(b *Buffer) *Buffer {
	out := b.Clone()
	pix := out.Pix()
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = 255 - pix[i+0]
		pix[i+1] = 255 - pix[i+1]
		pix[i+2] = 255 - pix[i+2]
		pix[i+3] = 255
	}
	if out.Channels() > 3 {
		out.SetChannels(3)
	}
	return out
}
