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

	"github.com/kilianp07/hmcmod/infra/reader"
)

// MetricsSection is the section naming the metrics recorder module.
const MetricsSection = "metrics"

const envPrefix = "K_"

// Config holds the driver settings. Module sections are read through Reader.
type Config struct {
	Logging LoggingConfig `json:"logging"`
	Run     RunConfig     `json:"run"`

	k *koanf.Koanf
}

// Load reads a yaml or json file and applies K_ environment overrides, e.g.
// K_LOGGING__LEVEL=debug or K_MODULES__Actions__gauge__beta=6.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.k = k
	cfg.Logging.SetDefaults()
	cfg.Run.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Run.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Reader returns a reader positioned on the module tree.
func (c *Config) Reader() (*reader.Koanf, error) {
	return reader.New(c.k, c.Run.Modules)
}

// MetricsReader returns a reader positioned on the whole document, or false
// when no metrics section is configured.
func (c *Config) MetricsReader() (*reader.Koanf, bool, error) {
	if !c.k.Exists(MetricsSection) {
		return nil, false, nil
	}
	r, err := reader.New(c.k, "")
	return r, err == nil, err
}

// envKey maps K_SECTION__Key__sub to section.Key.sub. Only the top-level
// section is lowercased; module tree keys keep their case.
func envKey(s string) string {
	parts := strings.Split(strings.TrimPrefix(s, envPrefix), "__")
	parts[0] = strings.ToLower(parts[0])
	return strings.Join(parts, ".")
}
