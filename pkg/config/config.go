// Package config loads and validates converter settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"github.com/EchoTools/pbr2vmt/pkg/material"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

const (
	SetupRough = "rough"
	SetupGloss = "gloss"

	BackendVTFCmd  = "vtfcmd"
	BackendArchive = "archive"
	BackendDDS     = "dds"
)

// Config is the full converter configuration. It is read-only once loaded.
type Config struct {
	Input   Input   `yaml:"input"`
	Output  Output  `yaml:"output"`
	Debug   Debug   `yaml:"debug"`
	Encoder Encoder `yaml:"encoder"`
}

type Input struct {
	Path      string  `yaml:"path"`
	Format    string  `yaml:"format"`
	Scale     float64 `yaml:"scale"`
	Color     string  `yaml:"color"`
	AO        string  `yaml:"ao"`
	Normal    string  `yaml:"normal"`
	Metallic  string  `yaml:"metallic"`
	Roughness string  `yaml:"roughness"`
}

type Output struct {
	Path string `yaml:"path"`
	// MaterialPath prefixes texture references inside descriptors.
	// Empty means Path.
	MaterialPath       string `yaml:"material_path"`
	Midtone            int    `yaml:"midtone"`
	ExportImages       bool   `yaml:"export_images"`
	IntermediateFormat string `yaml:"intermediate_format"`
	MaterialSetup      string `yaml:"material_setup"`
}

type Debug struct {
	DebugMessages    bool `yaml:"debug_messages"`
	PrintConfig      bool `yaml:"print_config"`
	ForceCompression bool `yaml:"force_compression"`
	ClearExponent    bool `yaml:"clear_exponent"`
	MetallicFactor   int  `yaml:"metallic_factor"`
	MaterialProxies  bool `yaml:"material_proxies"`
	ORM              bool `yaml:"orm"`
	PhongWarps       bool `yaml:"phongwarps"`
}

type Encoder struct {
	Backend          string `yaml:"backend"`
	VTFCmdPath       string `yaml:"vtfcmd_path"`
	PhongWarpTexture string `yaml:"phongwarp_texture"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: Input{
			Path:      "input",
			Format:    "png",
			Scale:     1,
			Color:     "_color",
			AO:        "_ao",
			Normal:    "_normal",
			Metallic:  "_metallic",
			Roughness: "_roughness",
		},
		Output: Output{
			Path:               "materials/",
			Midtone:            128,
			IntermediateFormat: "tga",
			MaterialSetup:      SetupRough,
		},
		Debug: Debug{
			MetallicFactor: 255,
		},
		Encoder: Encoder{
			Backend:          BackendVTFCmd,
			VTFCmdPath:       "VTFCmd",
			PhongWarpTexture: "phongwarp_steel.vtf",
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value; unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := Decode(f, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r into cfg. An empty document leaves cfg unchanged.
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	if c.Input.Path == "" {
		problems = append(problems, "input.path is empty")
	}
	if c.Input.Format == "" {
		problems = append(problems, "input.format is empty")
	}
	if c.Input.Scale < 0 {
		problems = append(problems, fmt.Sprintf("input.scale %v is negative", c.Input.Scale))
	}
	if c.Input.Color == "" || c.Input.Normal == "" {
		problems = append(problems, "input.color and input.normal suffixes are required")
	}
	if c.Output.Path == "" {
		problems = append(problems, "output.path is empty")
	}
	if c.Output.Midtone < 0 || c.Output.Midtone > 255 {
		problems = append(problems, fmt.Sprintf("output.midtone %d outside 0-255", c.Output.Midtone))
	}
	switch c.Output.MaterialSetup {
	case SetupRough, SetupGloss:
	default:
		problems = append(problems, fmt.Sprintf("output.material_setup %q must be %q or %q", c.Output.MaterialSetup, SetupRough, SetupGloss))
	}
	switch strings.ToLower(c.Output.IntermediateFormat) {
	case "tga", "png":
	default:
		problems = append(problems, fmt.Sprintf("output.intermediate_format %q must be tga or png", c.Output.IntermediateFormat))
	}
	if c.Debug.MetallicFactor < 0 || c.Debug.MetallicFactor > 255 {
		problems = append(problems, fmt.Sprintf("debug.metallic_factor %d outside 0-255", c.Debug.MetallicFactor))
	}
	switch c.Encoder.Backend {
	case BackendVTFCmd:
		if c.Encoder.VTFCmdPath == "" {
			problems = append(problems, "encoder.vtfcmd_path is empty")
		}
	case BackendArchive, BackendDDS:
	default:
		problems = append(problems, fmt.Sprintf("encoder.backend %q must be %q, %q or %q", c.Encoder.Backend, BackendVTFCmd, BackendArchive, BackendDDS))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Midtone returns the validated midtone as a byte.
func (c *Config) Midtone() uint8 {
	return uint8(c.Output.Midtone)
}

// MetallicSource returns the validated metallic factor source as a byte.
func (c *Config) MetallicSource() uint8 {
	return uint8(c.Debug.MetallicFactor)
}

// InvertRoughness reports whether loaded roughness maps must be inverted
// into glossiness.
func (c *Config) InvertRoughness() bool {
	return c.Output.MaterialSetup == SetupRough
}

// Naming returns the file naming scheme of the input directory.
func (c *Config) Naming() material.Naming {
	return material.Naming{
		Extension: c.Input.Format,
		Suffixes: map[material.Role]string{
			material.RoleColor:     c.Input.Color,
			material.RoleOcclusion: c.Input.AO,
			material.RoleNormal:    c.Input.Normal,
			material.RoleMetallic:  c.Input.Metallic,
			material.RoleRoughness: c.Input.Roughness,
		},
	}
}

// TexturePrefix returns the prefix for texture references inside descriptors,
// always using forward slashes and ending in one.
func (c *Config) TexturePrefix() string {
	p := c.Output.MaterialPath
	if p == "" {
		p = c.Output.Path
	}
	p = filepath.ToSlash(p)
	if p == "" || p == "." || p == "./" {
		return ""
	}
	return path.Clean(p) + "/"
}

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

// Dump renders the resolved configuration for debug output.
func (c *Config) Dump() string {
	return dumper.Sdump(c)
}
