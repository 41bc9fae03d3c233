// Package pixel provides the 8-bit texel buffers shared by every stage of the
// material conversion pipeline, together with the channel arithmetic used to
// composite them.
//
// A Buffer always stores four non-premultiplied channels (R, G, B, A). The
// number of channels present in the decoded source is remembered separately,
// since packed maps must be rejected when a channel is missing.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidImage reports a zero-dimension or otherwise unusable image.
var ErrInvalidImage = errors.New("invalid image")

// Buffer is a width×height grid of RGBA texels.
type Buffer struct {
	img      *image.NRGBA
	channels int
}

// New creates a zeroed RGBA buffer.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidImage, width, height)
	}
	return &Buffer{
		img:      image.NewNRGBA(image.Rect(0, 0, width, height)),
		channels: 4,
	}, nil
}

// Filled creates a buffer with every texel set to c.
func Filled(width, height int, c color.NRGBA) (*Buffer, error) {
	b, err := New(width, height)
	if err != nil {
		return nil, err
	}
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	return b, nil
}

// FromImage copies img into a new buffer. Grayscale sources are expanded to
// RGB with an opaque alpha channel.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	bounds := img.Bounds()
	b, err := New(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	b.channels = channelCount(img)

	if src, ok := img.(*image.NRGBA); ok {
		rowLen := bounds.Dx() * 4
		for y := 0; y < bounds.Dy(); y++ {
			srcOff := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(b.img.Pix[y*b.img.Stride:y*b.img.Stride+rowLen], src.Pix[srcOff:srcOff+rowLen])
		}
		return b, nil
	}

	offset := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			b.img.Pix[offset+0] = c.R
			b.img.Pix[offset+1] = c.G
			b.img.Pix[offset+2] = c.B
			b.img.Pix[offset+3] = c.A
			offset += 4
		}
	}
	return b, nil
}

// channelCount approximates the channel layout of the decoded source.
func channelCount(img image.Image) int {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16, *image.Alpha, *image.Alpha16:
		return 1
	case *image.YCbCr, *image.CMYK, *image.Paletted:
		return 3
	case interface{ Opaque() bool }:
		if m.Opaque() {
			return 3
		}
	}
	return 4
}

// Width returns the buffer width in texels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in texels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Channels returns the channel count of the source the buffer was built from.
func (b *Buffer) Channels() int { return b.channels }

// SetChannels records the channel count of the original source, for buffers
// rebuilt from an intermediate image.
func (b *Buffer) SetChannels(n int) { b.channels = n }

// Pix exposes the interleaved RGBA bytes, row-major with a stride of 4*Width.
func (b *Buffer) Pix() []uint8 { return b.img.Pix }

// Image returns the buffer as an image.Image sharing the same pixels.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// At returns the texel at (x, y).
func (b *Buffer) At(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

// Set writes the texel at (x, y).
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	b.img.SetNRGBA(x, y, c)
}

// SameSize reports whether both buffers have identical dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width() == o.Width() && b.Height() == o.Height()
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	img := image.NewNRGBA(b.img.Rect)
	copy(img.Pix, b.img.Pix)
	return &Buffer{img: img, channels: b.channels}
}

// Equal reports whether both buffers hold identical texels.
func (b *Buffer) Equal(o *Buffer) bool {
	if !b.SameSize(o) {
		return false
	}
	for i, v := range b.img.Pix {
		if o.img.Pix[i] != v {
			return false
		}
	}
	return true
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%dx%d, %d channels)", b.Width(), b.Height(), b.channels)
}
