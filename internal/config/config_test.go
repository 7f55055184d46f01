package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `{
		"provider": "ollama",
		"model": "vofc-engine:latest",
		"pacing_millis": 300,
		"dry_run": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.Provider)
	assert.Equal(t, "vofc-engine:latest", cfg.Model)
	assert.Equal(t, 300, cfg.PacingMillis)
	assert.True(t, cfg.DryRun)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"provider": `)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	assert.Error(t, (&Config{Provider: "openai"}).Validate())
	assert.Error(t, (&Config{PacingMillis: -1}).Validate())
	assert.Error(t, (&Config{Temperature: 3}).Validate())
	assert.NoError(t, (&Config{}).Validate())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("VOFC_MODEL", "mistral:latest")
	t.Setenv("DATABASE_URL", "postgres://localhost/vofc")

	cfg := &Config{Model: "from-file"}
	cfg.LoadFromEnv()
	assert.Equal(t, "mistral:latest", cfg.Model)
	assert.Equal(t, "postgres://localhost/vofc", cfg.DatabaseURL)
}
