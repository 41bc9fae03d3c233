// Package texture writes DDS textures with DX10 headers.
//
// Pixel data is either raw R8G8B8A8 or BC1/BC3 blocks produced by
// CompressBC. Only a single mip level is written.
package texture

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DXGI_FORMAT values written by this package.
const (
	DXGI_FORMAT_UNKNOWN        = 0
	DXGI_FORMAT_R8G8B8A8_UNORM = 28
	DXGI_FORMAT_BC1_UNORM      = 71
	DXGI_FORMAT_BC3_UNORM      = 77
)

// DDS header constants
const (
	DDS_MAGIC                    = 0x20534444 // "DDS "
	DDS_HEADER_SIZE              = 124
	DDS_HEADER_FLAGS_CAPS        = 0x1
	DDS_HEADER_FLAGS_HEIGHT      = 0x2
	DDS_HEADER_FLAGS_WIDTH       = 0x4
	DDS_HEADER_FLAGS_PITCH       = 0x8
	DDS_HEADER_FLAGS_PIXELFORMAT = 0x1000
	DDS_HEADER_FLAGS_MIPMAPCOUNT = 0x20000
	DDS_HEADER_FLAGS_LINEARSIZE  = 0x80000

	DDS_SURFACE_FLAGS_TEXTURE = 0x1000

	DDS_PIXELFORMAT_SIZE = 32
	DDS_FOURCC           = 0x4

	DX10_FOURCC = 0x30315844 // "DX10"

	// HeaderSize is the magic, the DDS header and the DX10 extension.
	HeaderSize = 4 + DDS_HEADER_SIZE + 20
)

// Metadata describes a single-surface DDS texture.
type Metadata struct {
	Width      uint32
	Height     uint32
	DXGIFormat uint32
}

// String returns a human-readable representation.
func (m *Metadata) String() string {
	return fmt.Sprintf("Texture: %dx%d, format=%s, size=%d",
		m.Width, m.Height, FormatName(m.DXGIFormat), m.DataSize())
}

// DataSize is the byte length of the surface that follows the header.
func (m *Metadata) DataSize() uint32 {
	if m.DXGIFormat == DXGI_FORMAT_R8G8B8A8_UNORM {
		return m.Width * m.Height * 4
	}
	return calculateLinearSize(m.Width, m.Height, m.DXGIFormat)
}

func (m *Metadata) compressed() bool {
	return m.DXGIFormat == DXGI_FORMAT_BC1_UNORM || m.DXGIFormat == DXGI_FORMAT_BC3_UNORM
}

// FormatName returns a human-readable name for a DXGI_FORMAT value.
func FormatName(format uint32) string {
	switch format {
	case DXGI_FORMAT_BC1_UNORM:
		return "BC1_UNORM"
	case DXGI_FORMAT_BC3_UNORM:
		return "BC3_UNORM"
	case DXGI_FORMAT_R8G8B8A8_UNORM:
		return "R8G8B8A8_UNORM"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", format)
	}
}

// Write writes a DDS header followed by data.
func Write(w io.Writer, meta *Metadata, data []byte) error {
	if meta == nil {
		return fmt.Errorf("metadata is required")
	}
	if meta.Width == 0 || meta.Height == 0 {
		return fmt.Errorf("invalid dimensions %dx%d", meta.Width, meta.Height)
	}
	switch meta.DXGIFormat {
	case DXGI_FORMAT_R8G8B8A8_UNORM, DXGI_FORMAT_BC1_UNORM, DXGI_FORMAT_BC3_UNORM:
	default:
		return fmt.Errorf("unsupported format %s", FormatName(meta.DXGIFormat))
	}
	if uint32(len(data)) != meta.DataSize() {
		return fmt.Errorf("data size %d doesn't match expected size %d", len(data), meta.DataSize())
	}

	if _, err := w.Write(createDDSHeader(meta)); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// ParseHeader reads the header written by Write.
func ParseHeader(r io.Reader) (*Metadata, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != DDS_MAGIC {
		return nil, fmt.Errorf("bad magic 0x%08x", magic)
	}
	if fourCC := binary.LittleEndian.Uint32(header[84:88]); fourCC != DX10_FOURCC {
		return nil, fmt.Errorf("missing DX10 extension")
	}
	return &Metadata{
		Height:     binary.LittleEndian.Uint32(header[12:16]),
		Width:      binary.LittleEndian.Uint32(header[16:20]),
		DXGIFormat: binary.LittleEndian.Uint32(header[128:132]),
	}, nil
}

func createDDSHeader(meta *Metadata) []byte {
	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], DDS_MAGIC)

	offset := 4
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(header[offset:offset+4], v)
		offset += 4
	}

	put(DDS_HEADER_SIZE)

	flags := uint32(DDS_HEADER_FLAGS_CAPS | DDS_HEADER_FLAGS_HEIGHT | DDS_HEADER_FLAGS_WIDTH |
		DDS_HEADER_FLAGS_PIXELFORMAT | DDS_HEADER_FLAGS_MIPMAPCOUNT)
	pitch := meta.Width * 4
	if meta.compressed() {
		flags |= DDS_HEADER_FLAGS_LINEARSIZE
		pitch = meta.DataSize()
	} else {
		flags |= DDS_HEADER_FLAGS_PITCH
	}
	put(flags)
	put(meta.Height)
	put(meta.Width)
	put(pitch)
	put(0) // depth
	put(1) // mip count

	// dwReserved1[11]
	offset += 44

	// DDS_PIXELFORMAT
	put(DDS_PIXELFORMAT_SIZE)
	put(DDS_FOURCC)
	put(DX10_FOURCC)
	// bit count and masks are zero with a DX10 extension
	offset += 20

	put(DDS_SURFACE_FLAGS_TEXTURE)
	// dwCaps2-4, dwReserved2
	offset += 16

	// DX10 extension
	put(meta.DXGIFormat)
	put(3) // TEXTURE2D
	put(0)
	put(1) // array size
	put(0)

	return header
}

// calculateLinearSize calculates the linear size for a compressed texture.
func calculateLinearSize(width, height, format uint32) uint32 {
	blockSize := uint32(16)
	if format == DXGI_FORMAT_BC1_UNORM {
		blockSize = 8
	}

	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4

	return blocksWide * blocksHigh * blockSize
}
