// Package gamma implements the midtone gamma curve applied to glossiness
// before it is packed into the normal map alpha channel.
//
// The midtone behaves like an image editor's levels slider: 128 leaves the
// image unchanged, lower values brighten and higher values darken.
package gamma

import (
	"math"
	"sync/atomic"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// Neutral is the midtone that leaves values unchanged.
const Neutral = 128

const (
	maxGamma = 9.99
	minGamma = 0.01
)

// Gamma returns the curve's gamma for the given midtone.
func Gamma(midtone uint8) float64 {
	m := float64(midtone) / 255
	switch {
	case midtone < Neutral:
		m *= 2
		return math.Min(1+9*(1-m), maxGamma)
	case midtone > Neutral:
		m = m*2 - 1
		return math.Max(1-m, minGamma)
	default:
		return 1
	}
}

// Exponent returns the power applied to normalized channel values, 1/gamma.
func Exponent(midtone uint8) float64 {
	if midtone == Neutral {
		return 1
	}
	return 1 / Gamma(midtone)
}

// Value maps a single channel value through the curve, rounding up.
func Value(v uint8, midtone uint8) uint8 {
	if midtone == Neutral {
		return v
	}
	out := math.Ceil(255 * math.Pow(float64(v)/255, Exponent(midtone)))
	if out >= 255 {
		return 255
	}
	if out <= 0 {
		return 0
	}
	return uint8(out)
}

// Table returns the curve for all 256 input values.
func Table(midtone uint8) [256]uint8 {
	var t [256]uint8
	for i := range t {
		t[i] = Value(uint8(i), midtone)
	}
	return t
}

// ProgressFunc observes the transform. done counts finished rows out of total.
// It may be called from several goroutines.
type ProgressFunc func(done, total int)

type options struct {
	progress ProgressFunc
}

// Option configures Apply.
type Option func(*options)

// WithProgress attaches a progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Apply maps the R, G and B channels of buf through the midtone curve and
// returns a new buffer. Alpha is copied unchanged. The neutral midtone returns
// an exact copy without any arithmetic.
func Apply(buf *pixel.Buffer, midtone uint8, opts ...Option) *pixel.Buffer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	out := buf.Clone()
	height := out.Height()
	if midtone == Neutral {
		if o.progress != nil {
			o.progress(height, height)
		}
		return out
	}

	table := Table(midtone)
	pix := out.Pix()
	stride := out.Width() * 4
	var done atomic.Int64

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			row := pix[y*stride : (y+1)*stride]
			for i := 0; i < len(row); i += 4 {
				row[i+0] = table[row[i+0]]
				row[i+1] = table[row[i+1]]
				row[i+2] = table[row[i+2]]
			}
		}
		if o.progress != nil {
			o.progress(int(done.Add(int64(end-start))), height)
		}
	})

	return out
}
