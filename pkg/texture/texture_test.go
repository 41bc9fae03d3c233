package texture

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func solid(width, height int, r, g, b, a byte) []byte {
	pix := make([]byte, width*height*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
	}
	return pix
}

func TestWriteHeader(t *testing.T) {
	meta := &Metadata{Width: 512, Height: 256, DXGIFormat: DXGI_FORMAT_BC3_UNORM}
	data := make([]byte, meta.DataSize())

	var buf bytes.Buffer
	if err := Write(&buf, meta, data); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}

	out := buf.Bytes()
	if len(out) != HeaderSize+len(data) {
		t.Errorf("Total size: expected %d, got %d", HeaderSize+len(data), len(out))
	}
	if magic := binary.LittleEndian.Uint32(out[0:4]); magic != DDS_MAGIC {
		t.Errorf("Expected DDS magic 0x%08X, got 0x%08X", DDS_MAGIC, magic)
	}
	if size := binary.LittleEndian.Uint32(out[20:24]); size != meta.DataSize() {
		t.Errorf("Linear size: expected %d, got %d", meta.DataSize(), size)
	}

	parsed, err := ParseHeader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if *parsed != *meta {
		t.Errorf("Header mismatch: expected %v, got %v", meta, parsed)
	}
}

func TestWriteUncompressedPitch(t *testing.T) {
	meta := &Metadata{Width: 3, Height: 2, DXGIFormat: DXGI_FORMAT_R8G8B8A8_UNORM}
	var buf bytes.Buffer
	if err := Write(&buf, meta, solid(3, 2, 1, 2, 3, 4)); err != nil {
		t.Fatalf("Failed to write: %v", err)
	}
	out := buf.Bytes()
	flags := binary.LittleEndian.Uint32(out[8:12])
	if flags&DDS_HEADER_FLAGS_PITCH == 0 || flags&DDS_HEADER_FLAGS_LINEARSIZE != 0 {
		t.Errorf("Unexpected flags 0x%x", flags)
	}
	if pitch := binary.LittleEndian.Uint32(out[20:24]); pitch != 12 {
		t.Errorf("Expected pitch 12, got %d", pitch)
	}
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name string
		meta *Metadata
		data []byte
	}{
		{"NilMetadata", nil, nil},
		{"ZeroSize", &Metadata{DXGIFormat: DXGI_FORMAT_BC1_UNORM}, nil},
		{"UnknownFormat", &Metadata{Width: 4, Height: 4, DXGIFormat: 98}, make([]byte, 16)},
		{"SizeMismatch", &Metadata{Width: 4, Height: 4, DXGIFormat: DXGI_FORMAT_BC1_UNORM}, make([]byte, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Write(&bytes.Buffer{}, tt.meta, tt.data); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestParseHeaderBadMagic(t *testing.T) {
	if _, err := ParseHeader(bytes.NewReader(make([]byte, HeaderSize))); err == nil {
		t.Error("Expected error for bad magic, got nil")
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		format   uint32
		expected string
	}{
		{DXGI_FORMAT_BC1_UNORM, "BC1_UNORM"},
		{DXGI_FORMAT_BC3_UNORM, "BC3_UNORM"},
		{DXGI_FORMAT_R8G8B8A8_UNORM, "R8G8B8A8_UNORM"},
		{9999, "UNKNOWN(0x270f)"},
	}

	for _, tt := range tests {
		name := FormatName(tt.format)
		if name != tt.expected {
			t.Errorf("Format %d: expected %s, got %s", tt.format, tt.expected, name)
		}
	}
}

func TestCalculateLinearSize(t *testing.T) {
	tests := []struct {
		width    uint32
		height   uint32
		format   uint32
		expected uint32
	}{
		{512, 512, DXGI_FORMAT_BC1_UNORM, 128 * 128 * 8},
		{512, 512, DXGI_FORMAT_BC3_UNORM, 128 * 128 * 16},
		{513, 513, DXGI_FORMAT_BC3_UNORM, 129 * 129 * 16},
	}

	for _, tt := range tests {
		size := calculateLinearSize(tt.width, tt.height, tt.format)
		if size != tt.expected {
			t.Errorf("%dx%d format %d: expected %d, got %d",
				tt.width, tt.height, tt.format, tt.expected, size)
		}
	}
}

func TestCompressSolid(t *testing.T) {
	pix := solid(8, 8, 255, 0, 0, 255)
	for _, format := range []BCFormat{BC1, BC3} {
		data, err := CompressBC(pix, 8, 8, format)
		if err != nil {
			t.Fatalf("Failed to compress: %v", err)
		}
		want := uint32(DXGI_FORMAT_BC3_UNORM)
		if format == BC1 {
			want = DXGI_FORMAT_BC1_UNORM
		}
		if got := format.DXGIFormat(); got != want {
			t.Errorf("Format %d: unexpected DXGI format %s", format, FormatName(got))
		}
		if len(data) != 4*format.blockSize() {
			t.Errorf("Format %d: expected %d bytes, got %d", format, 4*format.blockSize(), len(data))
		}
		out, err := DecompressBC(data, 8, 8, format)
		if err != nil {
			t.Fatalf("Failed to decompress: %v", err)
		}
		if !bytes.Equal(out, pix) {
			t.Errorf("Format %d: solid red did not survive compression", format)
		}
	}
}

func TestCompressTwoTone(t *testing.T) {
	// 5x3 forces partial edge blocks.
	const w, h = 5, 3
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		if i%2 == 0 {
			copy(pix[i*4:], []byte{255, 255, 255, 0})
		} else {
			copy(pix[i*4:], []byte{0, 0, 0, 255})
		}
	}

	data, err := CompressBC(pix, w, h, BC3)
	if err != nil {
		t.Fatalf("Failed to compress: %v", err)
	}
	out, err := DecompressBC(data, w, h, BC3)
	if err != nil {
		t.Fatalf("Failed to decompress: %v", err)
	}
	if !bytes.Equal(out, pix) {
		t.Errorf("Endpoint colors should be exact:\nwant %v\ngot  %v", pix, out)
	}

	data, err = CompressBC(pix, w, h, BC1)
	if err != nil {
		t.Fatalf("Failed to compress: %v", err)
	}
	out, err = DecompressBC(data, w, h, BC1)
	if err != nil {
		t.Fatalf("Failed to decompress: %v", err)
	}
	for i := 0; i < w*h; i++ {
		if out[i*4] != pix[i*4] || out[i*4+3] != 255 {
			t.Errorf("Pixel %d: got %v", i, out[i*4:i*4+4])
		}
	}
}

func TestCompressErrors(t *testing.T) {
	if _, err := CompressBC(make([]byte, 10), 2, 2, BC1); err == nil {
		t.Error("Expected error for short pixel data, got nil")
	}
	if _, err := CompressBC(make([]byte, 16), 2, 2, BCFormat(7)); err == nil {
		t.Error("Expected error for unknown format, got nil")
	}
	if _, err := DecompressBC(make([]byte, 3), 4, 4, BC3); err == nil {
		t.Error("Expected error for short block data, got nil")
	}
}
