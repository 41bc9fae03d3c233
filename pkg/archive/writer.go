package archive

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// DefaultCompressionLevel is the default compression level for encoding.
const DefaultCompressionLevel = zstd.BestSpeed

// Writer compresses a texture payload into an io.WriteSeeker.
type Writer struct {
	dst     io.WriteSeeker
	start   int64
	zWriter *zstd.Writer
	header  *Header
	written uint64
	level   int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the compression level for the writer.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter writes a placeholder header for info to dst and returns a writer
// for the payload.
func NewWriter(dst io.WriteSeeker, info Info, opts ...WriterOption) (*Writer, error) {
	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", info.Width, info.Height)
	}

	start, err := dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}

	w := &Writer{
		dst:    dst,
		start:  start,
		level:  DefaultCompressionLevel,
		header: NewHeader(info),
	}
	for _, opt := range opts {
		opt(w)
	}

	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	if _, err := dst.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

// Write compresses payload bytes.
func (w *Writer) Write(p []byte) (n int, err error) {
	n, err = w.zWriter.Write(p)
	w.written += uint64(n)
	return n, err
}

// Close flushes the compressor and rewrites the header with the compressed
// size.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}
	if w.written != w.header.Length {
		return fmt.Errorf("payload size mismatch: wrote %d, expected %d", w.written, w.header.Length)
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}
	w.header.CompressedLength = uint64(pos-w.start) - uint64(w.header.Size())

	if _, err := w.dst.Seek(w.start, io.SeekStart); err != nil {
		return fmt.Errorf("seek to header: %w", err)
	}
	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}
	if _, err := w.dst.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	return nil
}

// Encode compresses an RGBA payload and writes it as an archive to dst.
func Encode(dst io.WriteSeeker, info Info, pix []byte, opts ...WriterOption) error {
	if uint64(len(pix)) != info.PayloadSize() {
		return fmt.Errorf("payload is %d bytes, %dx%d needs %d", len(pix), info.Width, info.Height, info.PayloadSize())
	}

	w, err := NewWriter(dst, info, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(pix); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return w.Close()
}
