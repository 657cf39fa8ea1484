package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewlens/internal/ai/langchain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviewlens.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.General.DefaultHost)
	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, langchain.VendorOpenAI, cfg.AI.Vendor)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[general]
default_host = "gitlab"
log_level = "debug"

[hosts.gitlab]
url = "https://gitlab.example.com"
token = "glpat-x"

[ai]
vendor = "anthropic"
api_key = "sk-x"
model = "claude-sonnet-4-20250514"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gitlab", cfg.General.DefaultHost)
	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, "glpat-x", cfg.Hosts["gitlab"].Token)
	assert.Equal(t, langchain.VendorAnthropic, cfg.AI.Vendor)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.AI.Model)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[ai]
vendor = "openai"
api_key = "from-file"
`)
	t.Setenv("REVIEWLENS_AI__VENDOR", "ollama")
	t.Setenv("REVIEWLENS_AI__API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, langchain.VendorOllama, cfg.AI.Vendor)
	assert.Equal(t, "from-env", cfg.AI.APIKey, "underscored keys must be reachable from env")
}

func TestLoadEnvUnderscoredSegments(t *testing.T) {
	t.Setenv("REVIEWLENS_GENERAL__DEFAULT_HOST", "gitlab")
	t.Setenv("REVIEWLENS_GENERAL__LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gitlab", cfg.General.DefaultHost)
	assert.Equal(t, "debug", cfg.General.LogLevel)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{Hosts: map[string]HostConfig{
			"github": {Token: "t"},
		}}
		cfg.General.DefaultHost = "github"
		cfg.AI.Vendor = langchain.VendorOpenAI
		cfg.AI.APIKey = "k"
		return cfg
	}

	require.NoError(t, Validate(base()))

	cfg := base()
	cfg.General.DefaultHost = "sourcehut"
	assert.ErrorContains(t, Validate(cfg), "unsupported host")

	cfg = base()
	cfg.Hosts["github"] = HostConfig{}
	assert.ErrorContains(t, Validate(cfg), "token is required")

	cfg = base()
	cfg.General.DefaultHost = "gitlab"
	cfg.Hosts["gitlab"] = HostConfig{Token: "t"}
	assert.ErrorContains(t, Validate(cfg), "gitlab url is required")

	cfg = base()
	cfg.General.DefaultHost = "bitbucket"
	cfg.Hosts["bitbucket"] = HostConfig{Token: "t"}
	assert.ErrorContains(t, Validate(cfg), "bitbucket username is required")

	cfg = base()
	cfg.AI.APIKey = ""
	assert.ErrorContains(t, Validate(cfg), "api_key is required")

	cfg = base()
	cfg.AI.Vendor = langchain.VendorOllama
	cfg.AI.APIKey = ""
	assert.NoError(t, Validate(cfg), "ollama needs no api key")
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := writeConfig(t, "# existing")
	assert.Error(t, Init(path))
}

func TestInitWritesLoadableSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewlens.toml")
	require.NoError(t, Init(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.General.DefaultHost)
	assert.Equal(t, "your-github-token", cfg.Hosts["github"].Token)
}
