package composite

import (
	"fmt"
	"image/color"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

var (
	// ExponentTint is the layer blended over glossiness. Its green channel
	// selects the default phong exponent.
	ExponentTint = color.NRGBA{R: 0, G: 217, B: 0, A: 100}

	// ExponentNeutral flattens the blue channel.
	ExponentNeutral = color.NRGBA{R: 0, G: 0, B: 0, A: 100}
)

// ClearedExponent is the green value written when the exponent is cleared.
const ClearedExponent = 255

// Exponent builds the specular exponent texture. Glossiness only survives in
// the red and alpha channels, half-blended with the tint layer; green holds a
// flat exponent and blue is zero.
func Exponent(glossiness *pixel.Buffer, clearExponent bool) (*pixel.Buffer, error) {
	if glossiness == nil {
		return nil, fmt.Errorf("%w: missing glossiness", pixel.ErrInvalidImage)
	}
	w, h := glossiness.Width(), glossiness.Height()

	tint, err := pixel.Filled(w, h, ExponentTint)
	if err != nil {
		return nil, err
	}
	neutral, err := pixel.Filled(w, h, ExponentNeutral)
	if err != nil {
		return nil, err
	}

	tinted, err := pixel.Blend(glossiness, tint, 0.5)
	if err != nil {
		return nil, fmt.Errorf("exponent tint: %w", err)
	}
	r, _, _, a := pixel.Split(tinted)

	_, green, blue, _ := pixel.Split(glossiness)
	greenRGBA, err := pixel.Expand(green)
	if err != nil {
		return nil, err
	}
	greenLayer, err := pixel.Blend(greenRGBA, tint, 1)
	if err != nil {
		return nil, err
	}
	g := pixel.Luma(greenLayer)
	if clearExponent {
		g = pixel.NewPlane(w, h, ClearedExponent)
	}

	blueRGBA, err := pixel.Expand(blue)
	if err != nil {
		return nil, err
	}
	blueLayer, err := pixel.Blend(blueRGBA, neutral, 1)
	if err != nil {
		return nil, err
	}
	b := pixel.Luma(blueLayer)

	return pixel.Merge(r, g, b, a)
}
