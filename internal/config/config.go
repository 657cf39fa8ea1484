// Package config loads reviewlens configuration from defaults, a TOML file,
// and REVIEWLENS_ environment variables, in that order of precedence. Env
// keys use a double underscore between path segments (REVIEWLENS_AI__MODEL
// sets ai.model).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/reviewlens/internal/ai/langchain"
)

// HostConfig holds the credentials and endpoint for one code host.
type HostConfig struct {
	URL      string `koanf:"url"`
	Token    string `koanf:"token"`
	Username string `koanf:"username"` // bitbucket app-password auth
}

// Config is the application configuration.
type Config struct {
	General struct {
		DefaultHost string `koanf:"default_host"`
		LogLevel    string `koanf:"log_level"`
	} `koanf:"general"`

	Hosts map[string]HostConfig `koanf:"hosts"`
	AI    langchain.Options     `koanf:"ai"`
}

// Load reads configuration. An explicit path is required to exist; otherwise
// the default locations are tried in order and silently skipped when absent.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"general.default_host": "github",
		"general.log_level":    "info",
		"ai.vendor":            "openai",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
	} else {
		defaultPaths := []string{"./reviewlens.toml", "$HOME/.reviewlens.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Double underscore separates path segments so keys that themselves
	// contain underscores stay reachable: REVIEWLENS_AI__API_KEY ->
	// ai.api_key, REVIEWLENS_GENERAL__DEFAULT_HOST -> general.default_host.
	k.Load(env.Provider("REVIEWLENS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "REVIEWLENS_")), "__", ".")
	}), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the selected host and the model vendor are usable.
func Validate(cfg *Config) error {
	host := cfg.General.DefaultHost
	if host == "" {
		return fmt.Errorf("default host is required")
	}
	switch host {
	case "github", "gitlab", "bitbucket":
	default:
		return fmt.Errorf("unsupported host: %q", host)
	}

	hostCfg, ok := cfg.Hosts[host]
	if !ok {
		return fmt.Errorf("configuration for host %s not found", host)
	}
	if hostCfg.Token == "" {
		return fmt.Errorf("%s token is required", host)
	}
	if host == "gitlab" && hostCfg.URL == "" {
		return fmt.Errorf("gitlab url is required")
	}
	if host == "bitbucket" && hostCfg.Username == "" {
		return fmt.Errorf("bitbucket username is required")
	}

	if cfg.AI.Vendor == "" {
		return fmt.Errorf("ai vendor is required")
	}
	if cfg.AI.Vendor != langchain.VendorOllama && cfg.AI.APIKey == "" {
		return fmt.Errorf("ai api_key is required for vendor %s", cfg.AI.Vendor)
	}

	return nil
}

// Init writes a sample configuration file, refusing to overwrite one that
// already exists.
func Init(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sample := `# reviewlens configuration

[general]
default_host = "github"
log_level = "info"

[hosts.github]
token = "your-github-token"

[hosts.gitlab]
url = "https://gitlab.example.com"
token = "your-gitlab-token"

[hosts.bitbucket]
username = "your-username"
token = "your-app-password"

[ai]
vendor = "openai"
api_key = "your-api-key"
model = "gpt-4o"
temperature = 0.2
`

	return os.WriteFile(configPath, []byte(sample), 0644)
}
