package composite

import (
	"fmt"

	"github.com/EchoTools/pbr2vmt/pkg/gamma"
	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// Normal packs the gamma-adjusted glossiness luma into the alpha channel of
// the normal map. The normal vectors in RGB are left untouched.
func Normal(normal, glossiness *pixel.Buffer, midtone uint8, opts ...gamma.Option) (*pixel.Buffer, error) {
	if normal == nil || glossiness == nil {
		return nil, fmt.Errorf("%w: normal packing needs normal and glossiness", pixel.ErrInvalidImage)
	}
	if err := sameSize(normal, glossiness); err != nil {
		return nil, err
	}

	curved := gamma.Apply(glossiness, midtone, opts...)
	alpha := pixel.Luma(curved)

	r, g, b, _ := pixel.Split(normal)
	return pixel.Merge(r, g, b, alpha)
}
