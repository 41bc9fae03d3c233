// Package archive stores texture payloads as zstd-compressed raw pixel data
// behind a fixed binary header.
package archive

import (
	"encoding/binary"
	"fmt"
)

// Magic bytes identifying a texture archive.
var Magic = [4]byte{'F', 'V', 'T', 'X'}

// Version is the current container revision.
const Version uint16 = 1

// HeaderSize is the fixed binary size of an archive header.
const HeaderSize = 36 // 4 + 2 + 2 + 4 + 4 + 4 + 8 + 8 bytes

// BytesPerPixel of the stored payload, which is always 8-bit RGBA.
const BytesPerPixel = 4

// Info describes the texture carried by an archive.
type Info struct {
	Width  uint32
	Height uint32
	Format uint16 // target codec identifier, opaque to this package
	Flags  uint32
}

// PayloadSize returns the uncompressed payload size of the texture.
func (i Info) PayloadSize() uint64 {
	return uint64(i.Width) * uint64(i.Height) * BytesPerPixel
}

// Header represents the header of a texture archive.
type Header struct {
	Magic            [4]byte
	Version          uint16
	Format           uint16
	Width            uint32
	Height           uint32
	Flags            uint32
	Length           uint64 // Uncompressed size
	CompressedLength uint64 // Compressed size
}

// NewHeader creates a header for info. The compressed size is filled in by
// the writer.
func NewHeader(info Info) *Header {
	return &Header{
		Magic:   Magic,
		Version: Version,
		Format:  info.Format,
		Width:   info.Width,
		Height:  info.Height,
		Flags:   info.Flags,
		Length:  info.PayloadSize(),
	}
}

// Info returns the texture description stored in the header.
func (h *Header) Info() Info {
	return Info{Width: h.Width, Height: h.Height, Format: h.Format, Flags: h.Flags}
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("unsupported version %d", h.Version)
	}
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("invalid dimensions %dx%d", h.Width, h.Height)
	}
	if want := h.Info().PayloadSize(); h.Length != want {
		return fmt.Errorf("payload size %d does not match %dx%d (want %d)", h.Length, h.Width, h.Height, want)
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.Format)
	binary.LittleEndian.PutUint32(buf[8:12], h.Width)
	binary.LittleEndian.PutUint32(buf[12:16], h.Height)
	binary.LittleEndian.PutUint32(buf[16:20], h.Flags)
	binary.LittleEndian.PutUint64(buf[20:28], h.Length)
	binary.LittleEndian.PutUint64(buf[28:36], h.CompressedLength)
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.Version = binary.LittleEndian.Uint16(data[4:6])
	h.Format = binary.LittleEndian.Uint16(data[6:8])
	h.Width = binary.LittleEndian.Uint32(data[8:12])
	h.Height = binary.LittleEndian.Uint32(data[12:16])
	h.Flags = binary.LittleEndian.Uint32(data[16:20])
	h.Length = binary.LittleEndian.Uint64(data[20:28])
	h.CompressedLength = binary.LittleEndian.Uint64(data[28:36])
}
