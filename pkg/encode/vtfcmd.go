package encode

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/EchoTools/pbr2vmt/pkg/pixel"
)

// runFunc executes an external command and returns its combined output.
type runFunc func(name string, args ...string) ([]byte, error)

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// VTFCmd encodes through the external VTFCmd tool. Buffers are staged as TGA
// next to the destination and converted in a scratch directory.
type VTFCmd struct {
	Path string
	run  runFunc
}

// NewVTFCmd returns an encoder invoking the VTFCmd executable at path.
func NewVTFCmd(path string) *VTFCmd {
	return &VTFCmd{Path: path, run: runCommand}
}

func (v *VTFCmd) Ext() string { return ".vtf" }

// Args builds the VTFCmd command line converting input into outDir.
func (v *VTFCmd) Args(req Request, input, outDir string) []string {
	args := []string{
		"-file", input,
		"-output", outDir,
		"-format", req.Format.String(),
		"-alphaformat", req.Format.String(),
		"-resize",
		"-silent",
	}
	if req.Normal {
		args = append(args, "-flag", "NORMAL")
	}
	if req.EightBitAlpha {
		args = append(args, "-flag", "EIGHTBITALPHA")
	}
	return args
}

func (v *VTFCmd) Encode(buf *pixel.Buffer, req Request, path string) error {
	if err := checkInput(buf, req); err != nil {
		return err
	}

	scratch, err := os.MkdirTemp(filepath.Dir(path), ".vtfcmd-")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	input := filepath.Join(scratch, base+".tga")
	if err := WriteIntermediate(buf, input, "tga"); err != nil {
		return fmt.Errorf("stage %s: %w", input, err)
	}

	run := v.run
	if run == nil {
		run = runCommand
	}
	output, err := run(v.Path, v.Args(req, input, scratch)...)
	if err != nil {
		return fmt.Errorf("%w: VTFCmd failed: %v\nOutput:\n%s", ErrEncode, err, string(output))
	}

	produced := filepath.Join(scratch, base+v.Ext())
	if _, err := os.Stat(produced); err != nil {
		return fmt.Errorf("%w: VTFCmd produced no output for %s", ErrEncode, base)
	}
	if err := os.Rename(produced, path); err != nil {
		return fmt.Errorf("move %s: %w", produced, err)
	}
	return nil
}
