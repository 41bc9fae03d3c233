package pixel

import "fmt"

// Clamp8 truncates v toward zero and clamps it to [0,255].
func Clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// lerp8 blends a toward b by f, truncating the result.
func lerp8(a, b uint8, f float64) uint8 {
	return Clamp8(float64(a) + f*(float64(b)-float64(a)))
}

// mul8 is a*b/255 rounded to nearest.
func mul8(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8(((t >> 8) + t) >> 8)
}

func checkSize(a, b *Buffer) error {
	if !a.SameSize(b) {
		return fmt.Errorf("%w: size mismatch %dx%d vs %dx%d",
			ErrInvalidImage, a.Width(), a.Height(), b.Width(), b.Height())
	}
	return nil
}

// Multiply multiplies the RGB channels of a and b. The result is opaque.
func Multiply(a, b *Buffer) (*Buffer, error) {
	if err := checkSize(a, b); err != nil {
		return nil, err
	}
	out, err := New(a.Width(), a.Height())
	if err != nil {
		return nil, err
	}
	ap, bp, op := a.Pix(), b.Pix(), out.Pix()
	for i := 0; i < len(op); i += 4 {
		op[i+0] = mul8(ap[i+0], bp[i+0])
		op[i+1] = mul8(ap[i+1], bp[i+1])
		op[i+2] = mul8(ap[i+2], bp[i+2])
		op[i+3] = 255
	}
	return out, nil
}

// Blend linearly interpolates all four channels from a toward b by f.
func Blend(a, b *Buffer, f float64) (*Buffer, error) {
	if err := checkSize(a, b); err != nil {
		return nil, err
	}
	out, err := New(a.Width(), a.Height())
	if err != nil {
		return nil, err
	}
	ap, bp, op := a.Pix(), b.Pix(), out.Pix()
	for i := range op {
		op[i] = lerp8(ap[i], bp[i], f)
	}
	return out, nil
}

// BlendRGB interpolates the RGB channels from a toward b by f and sets the
// result opaque, matching a blend of two images converted to RGB.
func BlendRGB(a, b *Buffer, f float64) (*Buffer, error) {
	out, err := Blend(a, b, f)
	if err != nil {
		return nil, err
	}
	pix := out.Pix()
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	return out, nil
}

// BlendPlane interpolates a toward b by f.
func BlendPlane(a, b *Plane, f float64) (*Plane, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return nil, fmt.Errorf("%w: plane size mismatch %dx%d vs %dx%d",
			ErrInvalidImage, a.Width, a.Height, b.Width, b.Height)
	}
	out := NewPlane(a.Width, a.Height, 0)
	for i := range out.Pix {
		out.Pix[i] = lerp8(a.Pix[i], b.Pix[i], f)
	}
	return out, nil
}
