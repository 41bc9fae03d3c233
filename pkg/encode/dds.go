package encode

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
	"github.com/EchoTools/pbr2vmt/pkg/texture"
)

// DDS compresses textures in process and writes them as DDS files. DDS has
// no equivalent of the VTF normal and alpha flags, so those are dropped.
type DDS struct{}

// NewDDS returns the in-process DDS encoder.
func NewDDS() *DDS { return &DDS{} }

func (d *DDS) Ext() string { return ".dds" }

func (d *DDS) Encode(buf *pixel.Buffer, req Request, path string) error {
	if err := checkInput(buf, req); err != nil {
		return err
	}

	w, h := buf.Width(), buf.Height()
	meta := &texture.Metadata{
		Width:      uint32(w),
		Height:     uint32(h),
		DXGIFormat: texture.DXGI_FORMAT_R8G8B8A8_UNORM,
	}
	data := buf.Pix()
	if bc, ok := blockFormats[req.Format]; ok {
		var err error
		if data, err = texture.CompressBC(data, w, h, bc); err != nil {
			return fmt.Errorf("%w: %v", ErrEncode, err)
		}
		meta.DXGIFormat = bc.DXGIFormat()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err = texture.Write(bw, meta, data); err == nil {
		err = bw.Flush()
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return f.Close()
}

var blockFormats = map[Format]texture.BCFormat{
	DXT1: texture.BC1,
	DXT5: texture.BC3,
}

// ReadDDS decodes a texture written by DDS.
func ReadDDS(path string) (*pixel.Buffer, *texture.Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	meta, err := texture.ParseHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read dds %s: %w", path, err)
	}
	data := make([]byte, meta.DataSize())
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, nil, fmt.Errorf("read dds %s: %w", path, err)
	}

	w, h := int(meta.Width), int(meta.Height)
	for _, bc := range blockFormats {
		if bc.DXGIFormat() != meta.DXGIFormat {
			continue
		}
		if data, err = texture.DecompressBC(data, w, h, bc); err != nil {
			return nil, nil, err
		}
	}

	buf, err := pixel.New(w, h)
	if err != nil {
		return nil, nil, err
	}
	copy(buf.Pix(), data)
	return buf, meta, nil
}
