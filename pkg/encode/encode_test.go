package encode

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoTools/pbr2vmt/pkg/material"
	"github.com/EchoTools/pbr2vmt/pkg/pixel"
	"github.com/EchoTools/pbr2vmt/pkg/texture"
)

func testBuffer(t *testing.T) *pixel.Buffer {
	t.Helper()
	b, err := pixel.New(6, 4)
	require.NoError(t, err)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			b.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 60), B: 7, A: 255})
		}
	}
	return b
}

func TestRequests(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		want  Format
		flags uint32
	}{
		{"Diffuse", DiffuseRequest(), DXT5, FlagEightBitAlpha},
		{"Exponent", ExponentRequest(false), DXT1, 0},
		{"ExponentForced", ExponentRequest(true), DXT5, FlagEightBitAlpha},
		{"Normal", NormalRequest(false), RGBA8888, FlagNormal | FlagEightBitAlpha},
		{"NormalForced", NormalRequest(true), DXT5, FlagNormal | FlagEightBitAlpha},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Format)
			assert.Equal(t, tt.flags, tt.req.Flags())
			assert.NoError(t, tt.req.Validate())
		})
	}

	err := Request{Format: Format(99)}.Validate()
	assert.True(t, errors.Is(err, ErrEncode))
}

func TestArchiveRoundTrip(t *testing.T) {
	buf := testBuffer(t)
	enc := NewArchive()
	path := filepath.Join(t.TempDir(), "brick_n"+enc.Ext())

	require.NoError(t, enc.Encode(buf, NormalRequest(false), path))

	got, req, err := ReadArchive(path)
	require.NoError(t, err)
	assert.True(t, buf.Equal(got))
	assert.Equal(t, NormalRequest(false), req)
}

func TestArchiveRejects(t *testing.T) {
	enc := NewArchive()
	dir := t.TempDir()

	err := enc.Encode(nil, DiffuseRequest(), filepath.Join(dir, "a.fvtx"))
	assert.True(t, errors.Is(err, ErrEncode))

	err = enc.Encode(testBuffer(t), Request{Format: 7}, filepath.Join(dir, "b.fvtx"))
	assert.True(t, errors.Is(err, ErrEncode))
	_, statErr := os.Stat(filepath.Join(dir, "b.fvtx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestVTFCmdArgs(t *testing.T) {
	v := NewVTFCmd("VTFCmd")
	args := v.Args(NormalRequest(false), "in.tga", "out")
	assert.Equal(t, []string{
		"-file", "in.tga",
		"-output", "out",
		"-format", "RGBA8888",
		"-alphaformat", "RGBA8888",
		"-resize",
		"-silent",
		"-flag", "NORMAL",
		"-flag", "EIGHTBITALPHA",
	}, args)

	args = v.Args(ExponentRequest(false), "in.tga", "out")
	assert.NotContains(t, args, "-flag")
}

func TestVTFCmdEncode(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "brick_c.vtf")

	var staged string
	v := &VTFCmd{Path: "VTFCmd", run: func(name string, args ...string) ([]byte, error) {
		assert.Equal(t, "VTFCmd", name)
		staged = args[1]
		outDir := args[3]

		in, err := material.Load(staged)
		require.NoError(t, err)
		assert.Equal(t, 6, in.Width())

		return nil, os.WriteFile(filepath.Join(outDir, "brick_c.vtf"), []byte("VTF\x00"), 0644)
	}}

	require.NoError(t, v.Encode(testBuffer(t), DiffuseRequest(), dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "VTF\x00", string(data))

	_, err = os.Stat(staged)
	assert.True(t, os.IsNotExist(err), "staging directory is removed")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestVTFCmdFailure(t *testing.T) {
	dir := t.TempDir()
	v := &VTFCmd{Path: "VTFCmd", run: func(string, ...string) ([]byte, error) {
		return []byte("bad image"), errors.New("exit status 1")
	}}

	err := v.Encode(testBuffer(t), DiffuseRequest(), filepath.Join(dir, "x.vtf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEncode))
	assert.Contains(t, err.Error(), "bad image")

	v.run = func(string, ...string) ([]byte, error) { return nil, nil }
	err = v.Encode(testBuffer(t), DiffuseRequest(), filepath.Join(dir, "y.vtf"))
	assert.True(t, errors.Is(err, ErrEncode))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteIntermediate(t *testing.T) {
	dir := t.TempDir()
	buf := testBuffer(t)

	for _, format := range []string{"tga", "png"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, "brick_c"+IntermediateExt(format))
			require.NoError(t, WriteIntermediate(buf, path, format))

			got, err := material.Load(path)
			require.NoError(t, err)
			assert.True(t, buf.Equal(got))
		})
	}

	assert.Error(t, WriteIntermediate(buf, filepath.Join(dir, "x.jpg"), "jpg"))
}

func TestDDSRoundTrip(t *testing.T) {
	buf := testBuffer(t)
	enc := NewDDS()
	dir := t.TempDir()

	path := filepath.Join(dir, "brick_n"+enc.Ext())
	require.NoError(t, enc.Encode(buf, NormalRequest(false), path))
	got, meta, err := ReadDDS(path)
	require.NoError(t, err)
	assert.Equal(t, texture.DXGI_FORMAT_R8G8B8A8_UNORM, int(meta.DXGIFormat))
	assert.True(t, buf.Equal(got))

	path = filepath.Join(dir, "brick_c"+enc.Ext())
	require.NoError(t, enc.Encode(buf, DiffuseRequest(), path))
	got, meta, err = ReadDDS(path)
	require.NoError(t, err)
	assert.Equal(t, texture.DXGI_FORMAT_BC3_UNORM, int(meta.DXGIFormat))
	assert.Equal(t, buf.Width(), got.Width())
	assert.Equal(t, buf.Height(), got.Height())
	assert.Equal(t, uint8(255), got.At(5, 3).A)

	path = filepath.Join(dir, "brick_m"+enc.Ext())
	require.NoError(t, enc.Encode(buf, ExponentRequest(false), path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	// Two 4x4 blocks of 8 bytes after the header.
	assert.Equal(t, int64(texture.HeaderSize+16), info.Size())
}
