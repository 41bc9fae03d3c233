// Package resample brings texture maps to a common resolution.
//
// Every map of a material is first scaled by the global input factor and then
// aligned to the resolution of the material's normal map.
package resample

import (
	"fmt"

	"github.com/anthonynsimon/bild/transform"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// Filter is the resampling filter used for every resize.
var Filter = transform.Lanczos

// ToReference resamples buf to width×height. A buffer that already has the
// requested size is returned as an identical copy.
func ToReference(buf *pixel.Buffer, width, height int) (*pixel.Buffer, error) {
	if buf == nil || buf.Width() == 0 || buf.Height() == 0 {
		return nil, fmt.Errorf("%w: empty source", pixel.ErrInvalidImage)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", pixel.ErrInvalidImage, width, height)
	}
	if buf.Width() == width && buf.Height() == height {
		return buf.Clone(), nil
	}

	resized := transform.Resize(buf.Image(), width, height, Filter)
	out, err := pixel.FromImage(resized)
	if err != nil {
		return nil, fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
	out.SetChannels(buf.Channels())
	return out, nil
}

// ScaleUniform scales both dimensions of buf by factor, truncating the new
// size to whole texels.
func ScaleUniform(buf *pixel.Buffer, factor float64) (*pixel.Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: empty source", pixel.ErrInvalidImage)
	}
	if factor < 0 {
		return nil, fmt.Errorf("%w: negative scale %g", pixel.ErrInvalidImage, factor)
	}
	width := int(float64(buf.Width()) * factor)
	height := int(float64(buf.Height()) * factor)
	return ToReference(buf, width, height)
}

// Align resamples every buffer to the size of ref. Nil entries stay nil.
func Align(ref *pixel.Buffer, bufs ...*pixel.Buffer) ([]*pixel.Buffer, error) {
	out := make([]*pixel.Buffer, len(bufs))
	for i, b := range bufs {
		if b == nil {
			continue
		}
		aligned, err := ToReference(b, ref.Width(), ref.Height())
		if err != nil {
			return nil, err
		}
		out[i] = aligned
	}
	return out, nil
}
