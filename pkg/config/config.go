package config

import (
	_ "embed"
	"os"
	"path/filepath"

	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/shellstrap/pkg/errors"
	"github.com/arthur-debert/shellstrap/pkg/settings"
	"github.com/arthur-debert/shellstrap/pkg/types"
)

//go:embed defaults.toml
var defaultConfig []byte

// Network holds endpoint and timeout settings for the best-effort
// network features.
type Network struct {
	TimeoutSeconds int      `koanf:"timeout_seconds"`
	IPEndpoints    []string `koanf:"ip_endpoints"`
	ThemeURL       string   `koanf:"theme_url"`
	ThemeName      string   `koanf:"theme_name"`
}

// Settings groups the patch assignments per target application.
type Settings struct {
	Terminal []settings.Assignment `koanf:"terminal"`
	Editor   []settings.Assignment `koanf:"editor"`
}

// Config is the full provisioning configuration: the package manager,
// the ordered tool list, network endpoints, and settings patches.
type Config struct {
	Manager  types.Manager `koanf:"manager"`
	Tools    []types.Tool  `koanf:"tools"`
	Network  Network       `koanf:"network"`
	Settings Settings      `koanf:"settings"`
}

// Load returns the effective configuration: embedded defaults with the
// user's override file (if any) merged on top.
func Load(configDir string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load the user override if one exists; TOML wins over YAML
	overrides := []struct {
		name   string
		parser koanf.Parser
	}{
		{"shellstrap.toml", toml.Parser()},
		{"shellstrap.yaml", yaml.Parser()},
	}
	for _, o := range overrides {
		path := filepath.Join(configDir, o.name)
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), o.parser); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
			break
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal config")
	}
	return &cfg, nil
}

// rawBytesProvider implements koanf.Provider for in-memory bytes
type rawBytesProvider struct {
	bytes []byte
}

func (r *rawBytesProvider) ReadBytes() ([]byte, error) {
	return r.bytes, nil
}

func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "rawBytesProvider does not support Read()")
}
