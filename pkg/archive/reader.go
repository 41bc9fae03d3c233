package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// Reader decompresses the payload of a texture archive.
type Reader struct {
	header  Header
	zReader io.ReadCloser
}

// NewReader reads and validates the header of r and returns a reader for the
// decompressed payload.
func NewReader(r io.Reader) (*Reader, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	reader := &Reader{}
	if err := reader.header.UnmarshalBinary(buf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	reader.zReader = zstd.NewReader(r)
	return reader, nil
}

// Header returns the archive header.
func (r *Reader) Header() Header {
	return r.header
}

// Read reads decompressed payload bytes into p.
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.zReader.Read(p)
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.zReader.Close()
}

// ReadAll reads a whole archive and returns its texture info and payload.
func ReadAll(r io.Reader) (Info, []byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return Info{}, nil, err
	}
	defer reader.Close()

	data := make([]byte, reader.header.Length)
	if _, err := io.ReadFull(reader, data); err != nil {
		return Info{}, nil, fmt.Errorf("read payload: %w", err)
	}
	return reader.header.Info(), data, nil
}
