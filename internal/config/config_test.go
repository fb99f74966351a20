package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.test.json"), []byte(content), 0o644))
	t.Setenv("CONFIG_DIR", dir)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_GATEWAY_TOKEN", "s3cret")
	writeConfig(t, `{
		"mongodb": {"uri": "mongodb://localhost:27017", "database": "test"},
		"gateway": {"url": "ws://localhost:9090/gateway", "token": "${TEST_GATEWAY_TOKEN}"}
	}`)

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "s3cret", cfg.Gateway.Token)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	writeConfig(t, `{}`)

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Arena.TeamSize)
	assert.Equal(t, 20, cfg.Arena.RatingDelta)
	assert.Equal(t, 1000, cfg.Arena.DefaultRating)
	assert.Equal(t, 0, cfg.Arena.SubmitMin)
	assert.Equal(t, 5000, cfg.Arena.SubmitMax)
	assert.Equal(t, "#ff0000", cfg.Panel.Color)
	assert.Equal(t, ResetOff, cfg.Reset.Mode)
}

func TestLoad_KeepsExplicitValues(t *testing.T) {
	writeConfig(t, `{
		"arena": {"teamSize": 3, "ratingDelta": 25, "defaultRating": 1200, "submitMin": 100, "submitMax": 3000},
		"reset": {"mode": "standings"}
	}`)

	cfg, err := Load("test")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Arena.TeamSize)
	assert.Equal(t, 25, cfg.Arena.RatingDelta)
	assert.Equal(t, 1200, cfg.Arena.DefaultRating)
	assert.Equal(t, 100, cfg.Arena.SubmitMin)
	assert.Equal(t, 3000, cfg.Arena.SubmitMax)
	assert.Equal(t, ResetStandings, cfg.Reset.Mode)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_DIR", t.TempDir())
	_, err := Load("test")
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ARENA_ENV", "")
	assert.Equal(t, "dev", GetEnv())

	t.Setenv("ARENA_ENV", "prod")
	assert.Equal(t, "prod", GetEnv())
}
