package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoTools/pbr2vmt/pkg/config"
)

func TestLoadConfigFlagOverrides(t *testing.T) {
	require.NoError(t, flag.Set("input", "textures"))
	require.NoError(t, flag.Set("midtone", "40"))
	require.NoError(t, flag.Set("orm", "true"))
	require.NoError(t, flag.Set("backend", config.BackendArchive))

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "textures", cfg.Input.Path)
	assert.Equal(t, 40, cfg.Output.Midtone)
	assert.True(t, cfg.Debug.ORM)
	assert.Equal(t, config.BackendArchive, cfg.Encoder.Backend)
	assert.Equal(t, "_normal", cfg.Input.Normal, "unset flags keep config values")
	assert.Equal(t, 255, cfg.Debug.MetallicFactor)

	require.NoError(t, flag.Set("midtone", "300"))
	_, err = loadConfig()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	require.NoError(t, flag.Set("midtone", "128"))
}
