package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/EchoTools/pbr2vmt/pkg/composite"
	"github.com/EchoTools/pbr2vmt/pkg/config"
	"github.com/EchoTools/pbr2vmt/pkg/encode"
	"github.com/EchoTools/pbr2vmt/pkg/gamma"
	"github.com/EchoTools/pbr2vmt/pkg/logging"
	"github.com/EchoTools/pbr2vmt/pkg/material"
	"github.com/EchoTools/pbr2vmt/pkg/pixel"
	"github.com/EchoTools/pbr2vmt/pkg/resample"
	"github.com/EchoTools/pbr2vmt/pkg/vmt"
)

const stagingPrefix = ".fvm-staging-"

// Orchestrator runs the conversion for every material in the input directory.
type Orchestrator struct {
	cfg *config.Config
	log logging.Logger
	enc encode.Encoder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) {
		o.log = l
	}
}

// WithEncoder overrides the encoder selected by the configuration.
func WithEncoder(e encode.Encoder) Option {
	return func(o *Orchestrator) {
		o.enc = e
	}
}

// New returns an orchestrator for a validated configuration.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{cfg: cfg, log: logging.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.enc == nil {
		o.enc = EncoderFor(cfg)
	}
	return o
}

// EncoderFor returns the encoder backend named by the configuration.
func EncoderFor(cfg *config.Config) encode.Encoder {
	switch cfg.Encoder.Backend {
	case config.BackendArchive:
		return encode.NewArchive()
	case config.BackendDDS:
		return encode.NewDDS()
	}
	return encode.NewVTFCmd(cfg.Encoder.VTFCmdPath)
}

// Result is the outcome of one material.
type Result struct {
	Name     string
	State    State
	Err      error
	Resolved bool     // inputs were resolved before any failure
	Outputs  []string // committed file paths
}

// Report summarizes a run.
type Report struct {
	Results []Result
}

// Succeeded counts materials that reached Done.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.State == Done {
			n++
		}
	}
	return n
}

// Resolved counts materials that got past input resolution.
func (r *Report) Resolved() int {
	n := 0
	for _, res := range r.Results {
		if res.Resolved {
			n++
		}
	}
	return n
}

// Run converts every discovered material. Per-material failures are logged
// and recorded in the report. The error is non-nil when discovery fails, when
// ctx is cancelled, or when no material got past input resolution.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	names, err := material.Discover(o.cfg.Input.Path, o.cfg.Naming())
	if err != nil {
		return nil, err
	}
	o.log.Infof("Found %d material(s) in %s", len(names), o.cfg.Input.Path)

	outDir := o.cfg.Output.Path
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	staging := filepath.Join(outDir, stagingPrefix+uuid.NewString())
	if err := os.MkdirAll(staging, 0755); err != nil {
		return nil, errors.Wrap(err, "create staging directory")
	}
	defer os.RemoveAll(staging)

	if o.cfg.Debug.PhongWarps {
		if err := o.copyPhongWarp(outDir); err != nil {
			o.log.Warnf("Phong warp texture not copied: %v", err)
		}
	}

	report := &Report{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res := o.Process(name, staging)
		report.Results = append(report.Results, res)
		if res.Err != nil {
			o.log.Errorf("Material '%s' failed (%s): %v", name, res.State, res.Err)
			if res.State == ChannelSplitFailure {
				o.log.Errorf("Material '%s': check the ORM map for empty channels", name)
			}
			continue
		}
		o.log.Infof("Conversion for material '%s' finished, files saved to '%s'", name, outDir)
	}

	if report.Resolved() == 0 {
		return report, ErrNoneResolved
	}
	return report, nil
}

// outputs collects the buffers and files of one material.
type outputs struct {
	diffuse, exponent, normal *pixel.Buffer
}

// Process converts one material, staging its files under stagingRoot before
// committing them to the output directory.
func (o *Orchestrator) Process(name, stagingRoot string) Result {
	res := Result{Name: name, State: Discovered}
	o.log.Debugf("Processing material '%s'", name)

	dir := filepath.Join(stagingRoot, name)
	fail := func(err error) Result {
		os.RemoveAll(dir)
		res.Err = err
		res.State = Classify(err)
		return res
	}

	inputs, err := o.resolveInputs(name)
	if err != nil {
		return fail(err)
	}
	res.State = InputsResolved
	res.Resolved = true

	resolved, err := o.align(inputs)
	if err != nil {
		return fail(err)
	}
	res.State = Aligned

	out, err := o.composite(name, resolved)
	if err != nil {
		return fail(err)
	}
	res.State = Composited

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(errors.Wrap(err, "create material staging directory"))
	}
	if err := o.encode(name, dir, out); err != nil {
		return fail(err)
	}
	res.State = Encoded

	if err := o.writeDescriptor(name, dir); err != nil {
		return fail(err)
	}
	res.State = DescriptorWritten

	committed, err := commit(dir, o.cfg.Output.Path)
	if err != nil {
		return fail(err)
	}
	os.RemoveAll(dir)
	res.Outputs = committed
	res.State = Done
	return res
}

func (o *Orchestrator) load(files material.Files, role material.Role) (*pixel.Buffer, error) {
	path, ok := files[role]
	if !ok {
		return nil, nil
	}
	buf, err := material.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s map", role)
	}
	if o.cfg.Input.Scale != 1 {
		buf, err = resample.ScaleUniform(buf, o.cfg.Input.Scale)
		if err != nil {
			return nil, errors.Wrapf(err, "scale %s map", role)
		}
	}
	o.log.Debugf("Loaded %s map %s (%s)", role, path, buf)
	return buf, nil
}

func (o *Orchestrator) resolveInputs(name string) (material.InputSet, error) {
	var set material.InputSet
	files, err := material.Locate(o.cfg.Input.Path, name, o.cfg.Naming())
	if err != nil {
		return set, err
	}

	if _, ok := files[material.RoleNormal]; !ok {
		return set, errors.Wrapf(material.ErrMissingRequiredMap, "no normal map for '%s'", name)
	}
	if _, ok := files[material.RoleColor]; !ok {
		return set, errors.Wrapf(material.ErrMissingRequiredMap, "no color map for '%s'", name)
	}

	if set.Normal, err = o.load(files, material.RoleNormal); err != nil {
		return set, err
	}
	if set.Color, err = o.load(files, material.RoleColor); err != nil {
		return set, err
	}

	if o.cfg.Debug.ORM {
		orm, err := o.load(files, material.RoleRoughness)
		if err != nil {
			return set, err
		}
		if orm == nil {
			o.log.Warnf("Material '%s' has no ORM map, using defaults", name)
			return set, nil
		}
		set.Occlusion, set.Glossiness, set.Metallic, err = material.SplitORM(orm)
		if err != nil {
			return set, errors.Wrapf(err, "split ORM map of '%s'", name)
		}
		return set, nil
	}

	if set.Occlusion, err = o.load(files, material.RoleOcclusion); err != nil {
		return set, err
	}
	if set.Metallic, err = o.load(files, material.RoleMetallic); err != nil {
		return set, err
	}
	if set.Glossiness, err = o.load(files, material.RoleRoughness); err != nil {
		return set, err
	}
	if set.Glossiness != nil && o.cfg.InvertRoughness() {
		set.Glossiness = pixel.Invert(set.Glossiness)
	}
	return set, nil
}

// align resamples every map to the normal map and fills in defaults.
func (o *Orchestrator) align(set material.InputSet) (*material.Resolved, error) {
	maps, err := resample.Align(set.Normal, set.Color, set.Occlusion, set.Metallic, set.Glossiness)
	if err != nil {
		return nil, errors.Wrap(err, "align maps")
	}
	set.Color, set.Occlusion, set.Metallic, set.Glossiness = maps[0], maps[1], maps[2], maps[3]
	return set.Resolve()
}

func (o *Orchestrator) composite(name string, r *material.Resolved) (*outputs, error) {
	var out outputs
	var err error

	factor := composite.MetallicFactor(o.cfg.MetallicSource())
	if !r.HasOcclusion {
		o.log.Debugf("Material '%s' has no occlusion map, blending glossiness into diffuse", name)
	}
	if out.diffuse, err = composite.Diffuse(r.Color, r.OcclusionOrNil(), r.Metallic, r.Glossiness, factor); err != nil {
		return nil, errors.Wrap(err, "diffuse")
	}
	if out.exponent, err = composite.Exponent(r.Glossiness, o.cfg.Debug.ClearExponent); err != nil {
		return nil, errors.Wrap(err, "exponent")
	}
	if out.normal, err = composite.Normal(r.Normal, r.Glossiness, o.cfg.Midtone(), gamma.WithProgress(o.progress(name))); err != nil {
		return nil, errors.Wrap(err, "normal")
	}
	return &out, nil
}

// progress logs the gamma pass in ten percent steps.
func (o *Orchestrator) progress(name string) gamma.ProgressFunc {
	if !o.log.DebugEnabled() {
		return nil
	}
	var mu sync.Mutex
	lastStep := -1
	return func(done, total int) {
		pct := done * 100 / total
		mu.Lock()
		defer mu.Unlock()
		if pct/10 <= lastStep {
			return
		}
		lastStep = pct / 10
		o.log.Debugf("Normal conversion of '%s': %d%%", name, pct)
	}
}

func (o *Orchestrator) encode(name, dir string, out *outputs) error {
	force := o.cfg.Debug.ForceCompression
	textures := []struct {
		suffix string
		buf    *pixel.Buffer
		req    encode.Request
	}{
		{vmt.SuffixDiffuse, out.diffuse, encode.DiffuseRequest()},
		{vmt.SuffixExponent, out.exponent, encode.ExponentRequest(force)},
		{vmt.SuffixNormal, out.normal, encode.NormalRequest(force)},
	}

	for _, tex := range textures {
		base := name + tex.suffix
		if o.cfg.Output.ExportImages {
			format := o.cfg.Output.IntermediateFormat
			path := filepath.Join(dir, base+encode.IntermediateExt(format))
			if err := encode.WriteIntermediate(tex.buf, path, format); err != nil {
				return errors.Wrapf(err, "export %s", base)
			}
		}
		o.log.Infof("Exporting %s (%s)", base, tex.req.Format)
		if err := o.enc.Encode(tex.buf, tex.req, filepath.Join(dir, base+o.enc.Ext())); err != nil {
			return errors.Wrapf(err, "encode %s", base)
		}
	}
	return nil
}

func (o *Orchestrator) writeDescriptor(name, dir string) error {
	p := vmt.Params{
		Name:           name,
		TexturePrefix:  o.cfg.TexturePrefix(),
		MetallicFactor: composite.MetallicFactor(o.cfg.MetallicSource()),
		Midtone:        o.cfg.Midtone(),
		Proxies:        o.cfg.Debug.MaterialProxies,
		PhongWarp:      o.cfg.Debug.PhongWarps,
	}
	m := vmt.Standard(p)
	normalized := o.cfg.Debug.ClearExponent
	if normalized {
		m = vmt.Normalized(p)
	}
	path := filepath.Join(dir, vmt.FileName(name, normalized))
	if err := vmt.EncodeFile(path, m, nil); err != nil {
		return errors.Wrapf(err, "write descriptor %s", path)
	}
	o.log.Debugf("Descriptor written to %s", path)
	return nil
}

// rename is replaced in tests to fail part way through a commit.
var rename = os.Rename

// commit moves every staged file into outDir. Files it replaces are parked in
// dir until every move succeeded; on error the moved files are removed and
// the parked ones restored, so outDir is left as it was.
func commit(dir, outDir string) (committed []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read staging directory")
	}
	parked := filepath.Join(dir, ".replaced")
	if err := os.Mkdir(parked, 0755); err != nil {
		return nil, errors.Wrap(err, "create replaced directory")
	}

	var replaced []string
	defer func() {
		if err == nil {
			os.RemoveAll(parked)
			return
		}
		for _, dst := range committed {
			os.Remove(dst)
		}
		for _, name := range replaced {
			os.Rename(filepath.Join(parked, name), filepath.Join(outDir, name))
		}
		committed = nil
	}()

	for _, e := range entries {
		name := e.Name()
		dst := filepath.Join(outDir, name)
		if err := rename(dst, filepath.Join(parked, name)); err == nil {
			replaced = append(replaced, name)
		} else if !os.IsNotExist(err) {
			return committed, errors.Wrapf(err, "replace %s", dst)
		}
		if err := rename(filepath.Join(dir, name), dst); err != nil {
			return committed, errors.Wrapf(err, "commit %s", dst)
		}
		committed = append(committed, dst)
	}
	return committed, nil
}

func (o *Orchestrator) copyPhongWarp(outDir string) error {
	src := o.cfg.Encoder.PhongWarpTexture
	if src == "" {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	dst := filepath.Join(outDir, vmt.PhongWarp+filepath.Ext(src))
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
