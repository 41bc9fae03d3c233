// Package main provides a command-line tool that converts PBR texture sets into
// phong-exponent materials for Source engine games.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/EchoTools/pbr2vmt/pkg/config"
	"github.com/EchoTools/pbr2vmt/pkg/logging"
	"github.com/EchoTools/pbr2vmt/pkg/pipeline"
)

var (
	configPath       string
	inputDir         string
	outputDir        string
	materialPath     string
	inputFormat      string
	scale            float64
	midtone          int
	setup            string
	backend          string
	vtfcmdPath       string
	metallicFactor   int
	packedORM        bool
	debug            bool
	exportImages     bool
	forceCompression bool
	clearExponent    bool
	proxies          bool
	phongWarps       bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&inputDir, "input", "", "Input directory with PBR maps")
	flag.StringVar(&outputDir, "output", "", "Output directory for textures and materials")
	flag.StringVar(&materialPath, "material-path", "", "Texture path prefix written into materials (default: output)")
	flag.StringVar(&inputFormat, "format", "", "Input image extension (e.g., png, tga)")
	flag.Float64Var(&scale, "scale", 1, "Uniform scale applied to every input map")
	flag.IntVar(&midtone, "midtone", 128, "Glossiness midtone 0-255, 128 is neutral")
	flag.StringVar(&setup, "setup", "", "Material setup: rough or gloss")
	flag.StringVar(&backend, "backend", "", "Texture encoder: vtfcmd, archive or dds")
	flag.StringVar(&vtfcmdPath, "vtfcmd", "", "Path to the VTFCmd executable")
	flag.IntVar(&metallicFactor, "metallic-factor", 255, "Metalness strength 0-255")
	flag.BoolVar(&packedORM, "orm", false, "Read occlusion/roughness/metallic from one packed map")
	flag.BoolVar(&debug, "debug", false, "Enable debug messages")
	flag.BoolVar(&exportImages, "export-images", false, "Also write intermediate images")
	flag.BoolVar(&forceCompression, "force-compression", false, "Compress exponent and normal maps as DXT5")
	flag.BoolVar(&clearExponent, "clear-exponent", false, "Write a cleared exponent and a normalized material")
	flag.BoolVar(&proxies, "proxies", false, "Emit material proxies")
	flag.BoolVar(&phongWarps, "phongwarps", false, "Reference and copy the phong warp texture")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		flag.Usage()
		return err
	}

	log := logging.New(nil, cfg.Debug.DebugMessages)
	if cfg.Debug.PrintConfig {
		log.Debugf("Resolved config:\n%s", cfg.Dump())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := pipeline.New(cfg, pipeline.WithLogger(log)).Run(ctx)
	if report != nil {
		log.Infof("%d of %d material(s) converted", report.Succeeded(), len(report.Results))
	}
	return err
}

// loadConfig reads the config file and applies only the flags given on the
// command line.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = inputDir
		case "output":
			cfg.Output.Path = outputDir
		case "material-path":
			cfg.Output.MaterialPath = materialPath
		case "format":
			cfg.Input.Format = inputFormat
		case "scale":
			cfg.Input.Scale = scale
		case "midtone":
			cfg.Output.Midtone = midtone
		case "setup":
			cfg.Output.MaterialSetup = setup
		case "backend":
			cfg.Encoder.Backend = backend
		case "vtfcmd":
			cfg.Encoder.VTFCmdPath = vtfcmdPath
		case "metallic-factor":
			cfg.Debug.MetallicFactor = metallicFactor
		case "orm":
			cfg.Debug.ORM = packedORM
		case "debug":
			cfg.Debug.DebugMessages = debug
		case "export-images":
			cfg.Output.ExportImages = exportImages
		case "force-compression":
			cfg.Debug.ForceCompression = forceCompression
		case "clear-exponent":
			cfg.Debug.ClearExponent = clearExponent
		case "proxies":
			cfg.Debug.MaterialProxies = proxies
		case "phongwarps":
			cfg.Debug.PhongWarps = phongWarps
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
