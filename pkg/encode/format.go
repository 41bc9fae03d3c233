// Package encode hands finished texture buffers to a texture codec.
package encode

import (
	"errors"
	"fmt"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// ErrEncode wraps every rejection by an encoder.
var ErrEncode = errors.New("texture encode failed")

// Format is a target texture format. Values match the VTF image format enum.
type Format int

const (
	RGBA8888 Format = 0
	DXT1     Format = 13
	DXT5     Format = 15
)

func (f Format) String() string {
	switch f {
	case RGBA8888:
		return "RGBA8888"
	case DXT1:
		return "DXT1"
	case DXT5:
		return "DXT5"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// VTF texture flags.
const (
	FlagNormal        uint32 = 0x0080
	FlagEightBitAlpha uint32 = 0x2000
)

// Request describes how a buffer should be encoded.
type Request struct {
	Format        Format
	Normal        bool
	EightBitAlpha bool
}

// Flags returns the VTF flag bits of the request.
func (r Request) Flags() uint32 {
	var flags uint32
	if r.Normal {
		flags |= FlagNormal
	}
	if r.EightBitAlpha {
		flags |= FlagEightBitAlpha
	}
	return flags
}

// Validate rejects unknown formats.
func (r Request) Validate() error {
	switch r.Format {
	case RGBA8888, DXT1, DXT5:
		return nil
	}
	return fmt.Errorf("%w: unsupported format %v", ErrEncode, r.Format)
}

// DiffuseRequest is always DXT5 with 8-bit alpha for the metalness mask.
func DiffuseRequest() Request {
	return Request{Format: DXT5, EightBitAlpha: true}
}

// ExponentRequest is DXT1, or DXT5 when compression is forced.
func ExponentRequest(forceCompression bool) Request {
	if forceCompression {
		return Request{Format: DXT5, EightBitAlpha: true}
	}
	return Request{Format: DXT1}
}

// NormalRequest is uncompressed RGBA8888, or DXT5 when compression is forced.
func NormalRequest(forceCompression bool) Request {
	if forceCompression {
		return Request{Format: DXT5, Normal: true, EightBitAlpha: true}
	}
	return Request{Format: RGBA8888, Normal: true, EightBitAlpha: true}
}

// Encoder writes a buffer to path in a texture format.
type Encoder interface {
	// Ext is the file extension the encoder produces, with the leading dot.
	Ext() string
	Encode(buf *pixel.Buffer, req Request, path string) error
}

func checkInput(buf *pixel.Buffer, req Request) error {
	if buf == nil || buf.Width() == 0 || buf.Height() == 0 {
		return fmt.Errorf("%w: empty buffer", ErrEncode)
	}
	return req.Validate()
}
