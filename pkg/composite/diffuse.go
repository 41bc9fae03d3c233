// Package composite builds the three channel-packed output textures of a
// material: diffuse (color + metalness alpha), specular exponent and normal
// (normal + glossiness alpha).
//
// All inputs must already share one resolution; see package resample.
package composite

import (
	"fmt"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// MaxMetallicFactor is the upper bound of the diffuse alpha blend factor.
const MaxMetallicFactor = 0.83

// glossAmbientWeight is the share of color*glossiness mixed into the diffuse
// color when no occlusion map exists.
const glossAmbientWeight = 0.3

// MetallicFactor scales a 0-255 source value into [0, MaxMetallicFactor].
func MetallicFactor(source uint8) float64 {
	return float64(source) / 255 * MaxMetallicFactor
}

// Diffuse builds the RGBA diffuse texture. When occlusion is nil the
// glossiness map stands in as a crude ambient term. The alpha channel carries
// a blend of color and metallic luma weighted by metallicFactor.
func Diffuse(color, occlusion, metallic, glossiness *pixel.Buffer, metallicFactor float64) (*pixel.Buffer, error) {
	if err := sameSize(color, occlusion, metallic, glossiness); err != nil {
		return nil, err
	}
	if metallic == nil || (occlusion == nil && glossiness == nil) {
		return nil, fmt.Errorf("%w: diffuse needs metallic and either occlusion or glossiness", pixel.ErrInvalidImage)
	}

	var rgb *pixel.Buffer
	var err error
	if occlusion != nil {
		rgb, err = pixel.Multiply(color, occlusion)
	} else {
		var shaded *pixel.Buffer
		if shaded, err = pixel.Multiply(color, glossiness); err == nil {
			rgb, err = pixel.BlendRGB(color, shaded, glossAmbientWeight)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("diffuse color: %w", err)
	}

	alpha, err := pixel.BlendPlane(pixel.Luma(color), pixel.Luma(metallic), metallicFactor)
	if err != nil {
		return nil, fmt.Errorf("diffuse alpha: %w", err)
	}

	r, g, b, _ := pixel.Split(rgb)
	return pixel.Merge(r, g, b, alpha)
}

// sameSize checks that every non-nil buffer matches the first one.
func sameSize(ref *pixel.Buffer, others ...*pixel.Buffer) error {
	if ref == nil {
		return fmt.Errorf("%w: missing reference buffer", pixel.ErrInvalidImage)
	}
	for _, o := range others {
		if o != nil && !o.SameSize(ref) {
			return fmt.Errorf("%w: %dx%d does not match %dx%d",
				pixel.ErrInvalidImage, o.Width(), o.Height(), ref.Width(), ref.Height())
		}
	}
	return nil
}
