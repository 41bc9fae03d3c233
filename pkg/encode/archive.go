package encode

import (
	"fmt"
	"os"

	"github.com/EchoTools/pbr2vmt/pkg/archive"
	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// Archive writes textures as zstd-compressed RGBA containers. The requested
// format and flags are recorded in the header for a later codec pass.
type Archive struct {
	Level int
}

// NewArchive returns an archive encoder using the default compression level.
func NewArchive() *Archive {
	return &Archive{Level: archive.DefaultCompressionLevel}
}

func (a *Archive) Ext() string { return ".fvtx" }

func (a *Archive) Encode(buf *pixel.Buffer, req Request, path string) error {
	if err := checkInput(buf, req); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	info := archive.Info{
		Width:  uint32(buf.Width()),
		Height: uint32(buf.Height()),
		Format: uint16(req.Format),
		Flags:  req.Flags(),
	}
	if err := archive.Encode(f, info, buf.Pix(), archive.WithCompressionLevel(a.Level)); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return f.Close()
}

// ReadArchive decodes a texture written by Archive.
func ReadArchive(path string) (*pixel.Buffer, Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Request{}, err
	}
	defer f.Close()

	info, pix, err := archive.ReadAll(f)
	if err != nil {
		return nil, Request{}, fmt.Errorf("read archive %s: %w", path, err)
	}

	buf, err := pixel.New(int(info.Width), int(info.Height))
	if err != nil {
		return nil, Request{}, err
	}
	copy(buf.Pix(), pix)

	req := Request{
		Format:        Format(info.Format),
		Normal:        info.Flags&FlagNormal != 0,
		EightBitAlpha: info.Flags&FlagEightBitAlpha != 0,
	}
	return buf, req, nil
}
