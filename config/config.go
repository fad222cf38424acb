package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/alfred/core/metrics"
)

// Config is the service configuration used by `alfred serve`.
type Config struct {
	HTTP    HTTPConfig     `json:"http"`
	Metrics metrics.Config `json:"metrics"`
	Logging LoggingConfig  `json:"logging"`
}

// EnvPrefix selects the environment variables overriding the service file,
// e.g. K_HTTP__ADDRESS=:9000.
const EnvPrefix = "K_"

// Load reads a YAML or JSON file and applies environment overrides.
func Load(path string) (*Config, error) {
	k, err := load(path, EnvPrefix)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.HTTP.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.HTTP.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.HTTP.SetDefaults()
	cfg.Logging.SetDefaults()
	return &cfg
}

func parserFor(path string) (koanf.Parser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

// load reads path then overlays variables starting with prefix, where a
// double underscore separates nested keys.
func load(path, prefix string) (*koanf.Koanf, error) {
	k := koanf.New(".")
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	lower := strings.ToLower(prefix)
	if err := k.Load(env.Provider(prefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), lower)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	return k, nil
}
