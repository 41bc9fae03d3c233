package vmt

import (
	"strconv"
)

// Version is stamped into generated descriptors.
var Version = "1.0.0"

const (
	ShaderVertexLitGeneric = "VertexLitGeneric"

	// PhongWarp is the name of the shared phong warp texture.
	PhongWarp = "phongwarp_steel"

	SuffixDiffuse  = "_c"
	SuffixExponent = "_m"
	SuffixNormal   = "_n"
)

// Params are the inputs of a descriptor.
type Params struct {
	Name string
	// TexturePrefix is prepended to texture names, e.g. "materials/".
	TexturePrefix  string
	MetallicFactor float64 // scaled factor in [0, 0.83]
	Midtone        uint8
	Proxies        bool
	PhongWarp      bool
}

// TextureName returns the engine path of one of the material's textures.
func (p Params) TextureName(suffix string) string {
	return p.TexturePrefix + p.Name + suffix
}

// FileName returns the descriptor file name of a material.
func FileName(name string, normalized bool) string {
	if normalized {
		return name + "_s.vmt"
	}
	return name + ".vmt"
}

func envMapTintProxy() []Block {
	return []Block{{
		Name: "MwEnvMapTint",
		Params: []Param{
			{"min", "0"},
			{"max", "0.015"},
		},
	}}
}

func (p Params) textures() []Param {
	return []Param{
		{"$basetexture", p.TextureName(SuffixDiffuse)},
		{"$bumpmap", p.TextureName(SuffixNormal)},
		{"$phongexponenttexture", p.TextureName(SuffixExponent)},
	}
}

// Standard builds the regular phong material.
func Standard(p Params) *Material {
	m := &Material{
		Comments: []string{
			"Generated by pbr2vmt v" + Version,
			"METALNESS: \"" + strconv.FormatFloat(p.MetallicFactor*255, 'f', -1, 64) + "\" GAMMA: \"" + strconv.Itoa(int(p.Midtone)) + "\"",
		},
		Shader: ShaderVertexLitGeneric,
		Params: p.textures(),
	}
	m.Params = append(m.Params,
		Param{"$color2", "[ .1 .1 .1 ]"},
		Param{"$blendtintbybasealpha", "1"},
		Param{"$phong", "1"},
		Param{"$phongboost", "10"},
		Param{"$phongalbedotint", "1"},
	)
	if p.PhongWarp {
		m.Params = append(m.Params, Param{"$phongwarptexture", p.TexturePrefix + PhongWarp})
	} else {
		m.Params = append(m.Params, Param{"$PhongFresnelRanges", "[ 4 3 10 ]"})
	}
	m.Params = append(m.Params,
		Param{"$envmap", "env_cubemap"},
		Param{"$basemapalphaenvmapmask", "1"},
		Param{"$envmapfresnel", "0.4"},
		Param{"$envmaptint", "[ .1 .1 .1 ]"},
	)
	if p.Proxies {
		m.Proxies = envMapTintProxy()
	}
	return m
}

// Normalized builds the additive variant used with a cleared exponent.
func Normalized(p Params) *Material {
	m := &Material{
		Comments: []string{
			"Generated by pbr2vmt v" + Version,
			"NORMALIZED MATERIAL!",
		},
		Shader: ShaderVertexLitGeneric,
		Params: p.textures(),
	}
	m.Params = append(m.Params,
		Param{"$phong", "1"},
		Param{"$phongboost", "1"},
		Param{"$color2", "[ 0 0 0 ]"},
		Param{"$phongexponent", "24"},
		Param{"$phongalbedotint", "1"},
		Param{"$additive", "1"},
		Param{"$PhongFresnelRanges", "[ 2 4 6 ]"},
	)
	if p.Proxies {
		m.Proxies = envMapTintProxy()
	}
	return m
}
