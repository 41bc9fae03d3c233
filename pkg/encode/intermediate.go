package encode

import (
	"fmt"
	"os"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/ftrvxmtrx/tga"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// WriteIntermediate saves buf as a plain image, "tga" or "png".
func WriteIntermediate(buf *pixel.Buffer, path, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return imgio.Save(path, buf.Image(), imgio.PNGEncoder())
	case "tga":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := tga.Encode(f, buf.Image()); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported intermediate format %q", format)
	}
}

// IntermediateExt returns the file extension for an intermediate format.
func IntermediateExt(format string) string {
	return "." + strings.ToLower(format)
}
