package material

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// ErrMissingRequiredMap is returned when a material lacks its color or normal map.
var ErrMissingRequiredMap = errors.New("missing required map")

// InputSet holds the maps of one material. Nil means the map was not supplied.
type InputSet struct {
	Color      *pixel.Buffer
	Occlusion  *pixel.Buffer
	Normal     *pixel.Buffer
	Metallic   *pixel.Buffer
	Glossiness *pixel.Buffer
}

var (
	defaultOcclusion  = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	defaultMetallic   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	defaultGlossiness = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Resolved is an InputSet with every default filled in. HasOcclusion records
// whether occlusion came from a real map.
type Resolved struct {
	InputSet
	HasOcclusion bool
}

// OcclusionOrNil returns the occlusion map only when one was supplied.
func (r *Resolved) OcclusionOrNil() *pixel.Buffer {
	if !r.HasOcclusion {
		return nil
	}
	return r.Occlusion
}

// Resolve fills absent optional maps with flat defaults at the normal map's
// size: white occlusion, black metallic and white glossiness. The color and
// normal maps are required.
func (s InputSet) Resolve() (*Resolved, error) {
	if s.Normal == nil {
		return nil, fmt.Errorf("%w: normal", ErrMissingRequiredMap)
	}
	if s.Color == nil {
		return nil, fmt.Errorf("%w: color", ErrMissingRequiredMap)
	}

	w, h := s.Normal.Width(), s.Normal.Height()
	out := &Resolved{InputSet: s, HasOcclusion: s.Occlusion != nil}

	fill := func(dst **pixel.Buffer, c color.NRGBA) error {
		if *dst != nil {
			return nil
		}
		b, err := pixel.Filled(w, h, c)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
	if err := fill(&out.Occlusion, defaultOcclusion); err != nil {
		return nil, err
	}
	if err := fill(&out.Metallic, defaultMetallic); err != nil {
		return nil, err
	}
	if err := fill(&out.Glossiness, defaultGlossiness); err != nil {
		return nil, err
	}
	return out, nil
}

// SplitORM derives occlusion (R), glossiness (inverted G) and metallic (B)
// from a packed occlusion-roughness-metallic map.
func SplitORM(orm *pixel.Buffer) (occlusion, glossiness, metallic *pixel.Buffer, err error) {
	r, g, b, err := pixel.SplitRGB(orm)
	if err != nil {
		return nil, nil, nil, err
	}
	if occlusion, err = pixel.Expand(r); err != nil {
		return nil, nil, nil, err
	}
	rough, err := pixel.Expand(g)
	if err != nil {
		return nil, nil, nil, err
	}
	glossiness = pixel.Invert(rough)
	if metallic, err = pixel.Expand(b); err != nil {
		return nil, nil, nil, err
	}
	return occlusion, glossiness, metallic, nil
}
