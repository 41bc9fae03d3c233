package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoTools/pbr2vmt/pkg/material"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "png", cfg.Input.Format)
	assert.Equal(t, 1.0, cfg.Input.Scale)
	assert.Equal(t, uint8(128), cfg.Midtone())
	assert.Equal(t, uint8(255), cfg.MetallicSource())
	assert.True(t, cfg.InvertRoughness())
	assert.Equal(t, BackendVTFCmd, cfg.Encoder.Backend)
	assert.Equal(t, "materials/", cfg.TexturePrefix())

	n := cfg.Naming()
	assert.Equal(t, "_ao", n.Suffix(material.RoleOcclusion))
	assert.Equal(t, "brick_normal.png", n.FileName("brick", material.RoleNormal))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fvm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  path: textures
  format: tga
output:
  midtone: 40
  material_setup: gloss
debug:
  orm: true
  metallic_factor: 100
encoder:
  backend: archive
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "textures", cfg.Input.Path)
	assert.Equal(t, "tga", cfg.Input.Format)
	assert.Equal(t, "_color", cfg.Input.Color, "unset keys keep defaults")
	assert.Equal(t, uint8(40), cfg.Midtone())
	assert.False(t, cfg.InvertRoughness())
	assert.True(t, cfg.Debug.ORM)
	assert.Equal(t, BackendArchive, cfg.Encoder.Backend)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output:\n  colour: red\n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	cfg, err := Load(empty)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"MidtoneHigh", func(c *Config) { c.Output.Midtone = 256 }, "output.midtone"},
		{"MidtoneLow", func(c *Config) { c.Output.Midtone = -1 }, "output.midtone"},
		{"NegativeScale", func(c *Config) { c.Input.Scale = -0.5 }, "input.scale"},
		{"MetallicFactor", func(c *Config) { c.Debug.MetallicFactor = 300 }, "debug.metallic_factor"},
		{"Setup", func(c *Config) { c.Output.MaterialSetup = "shiny" }, "output.material_setup"},
		{"Backend", func(c *Config) { c.Encoder.Backend = "squish" }, "encoder.backend"},
		{"Intermediate", func(c *Config) { c.Output.IntermediateFormat = "jpg" }, "output.intermediate_format"},
		{"NoNormalSuffix", func(c *Config) { c.Input.Normal = "" }, "input.normal"},
		{"NoOutput", func(c *Config) { c.Output.Path = "" }, "output.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	t.Run("ZeroScaleAllowed", func(t *testing.T) {
		cfg := Default()
		cfg.Input.Scale = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestTexturePrefix(t *testing.T) {
	tests := []struct {
		output, material, want string
	}{
		{"materials/", "", "materials/"},
		{"out", "", "out/"},
		{"out", "models/props", "models/props/"},
		{"out", "models/props/", "models/props/"},
		{".", "", ""},
	}
	for _, tt := range tests {
		cfg := Default()
		cfg.Output.Path = tt.output
		cfg.Output.MaterialPath = tt.material
		assert.Equal(t, tt.want, cfg.TexturePrefix(), "output %q material %q", tt.output, tt.material)
	}
}

func TestDump(t *testing.T) {
	out := Default().Dump()
	assert.True(t, strings.Contains(out, "Midtone: (int) 128"), out)
	assert.Contains(t, out, "MaterialSetup: (string) (len=5) \"rough\"")
}
