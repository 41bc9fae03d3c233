package vmt

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	Version = "test"
}

const standardGolden = `// Generated by pbr2vmt vtest
// METALNESS: "0" GAMMA: "128"
"VertexLitGeneric"
{
	"$basetexture" "materials/brick_c"
	"$bumpmap" "materials/brick_n"
	"$phongexponenttexture" "materials/brick_m"
	"$color2" "[ .1 .1 .1 ]"
	"$blendtintbybasealpha" "1"
	"$phong" "1"
	"$phongboost" "10"
	"$phongalbedotint" "1"
	"$PhongFresnelRanges" "[ 4 3 10 ]"
	"$envmap" "env_cubemap"
	"$basemapalphaenvmapmask" "1"
	"$envmapfresnel" "0.4"
	"$envmaptint" "[ .1 .1 .1 ]"
}
`

const normalizedGolden = `// Generated by pbr2vmt vtest
// NORMALIZED MATERIAL!
"VertexLitGeneric"
{
	"$basetexture" "materials/brick_c"
	"$bumpmap" "materials/brick_n"
	"$phongexponenttexture" "materials/brick_m"
	"$phong" "1"
	"$phongboost" "1"
	"$color2" "[ 0 0 0 ]"
	"$phongexponent" "24"
	"$phongalbedotint" "1"
	"$additive" "1"
	"$PhongFresnelRanges" "[ 2 4 6 ]"
	"Proxies"
	{
		"MwEnvMapTint"
		{
			"min" "0"
			"max" "0.015"
		}
	}
}
`

// param returns the value of key, comparing keys like the engine does.
func param(m *Material, key string) (string, bool) {
	for _, p := range m.Params {
		if strings.EqualFold(p.Key, key) {
			return p.Value, true
		}
	}
	return "", false
}

func params() Params {
	return Params{Name: "brick", TexturePrefix: "materials/", Midtone: 128}
}

func TestStandardGolden(t *testing.T) {
	b, err := Format(Standard(params()), nil)
	require.NoError(t, err)
	assert.Equal(t, standardGolden, string(b))
}

func TestNormalizedGolden(t *testing.T) {
	p := params()
	p.Proxies = true
	b, err := Format(Normalized(p), nil)
	require.NoError(t, err)
	assert.Equal(t, normalizedGolden, string(b))
}

func TestStandardOptions(t *testing.T) {
	p := params()
	p.PhongWarp = true
	p.Proxies = true
	p.MetallicFactor = 0.5
	p.Midtone = 40
	m := Standard(p)

	v, ok := param(m, "$phongwarptexture")
	require.True(t, ok)
	assert.Equal(t, "materials/phongwarp_steel", v)
	_, ok = param(m, "$phongfresnelranges")
	assert.False(t, ok)
	require.Len(t, m.Proxies, 1)
	assert.Equal(t, "MwEnvMapTint", m.Proxies[0].Name)
	assert.Equal(t, `METALNESS: "127.5" GAMMA: "40"`, m.Comments[1])
}

func TestIndentOption(t *testing.T) {
	b, err := Format(Standard(params()), &FormatOptions{Indent: "    "})
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n    \"$phong\" \"1\"\n")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    *Material
	}{
		{"Nil", nil},
		{"NoShader", &Material{}},
		{"EmptyKey", &Material{Shader: "x", Params: []Param{{"", "1"}}}},
		{"QuoteInValue", &Material{Shader: "x", Params: []Param{{"$a", `b"c`}}}},
		{"NewlineInComment", &Material{Shader: "x", Comments: []string{"a\nb"}}},
		{"BadProxy", &Material{Shader: "x", Proxies: []Block{{Name: ""}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Format(tt.m, nil)
			assert.True(t, errors.Is(err, ErrInvalidMaterial))
		})
	}
}

func TestEncodeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName("brick", true))
	assert.True(t, strings.HasSuffix(path, "brick_s.vmt"))
	assert.Equal(t, "brick.vmt", FileName("brick", false))

	require.NoError(t, EncodeFile(path, Normalized(params()), nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "// Generated by pbr2vmt"))
	assert.NotContains(t, string(data), "Proxies")
}
