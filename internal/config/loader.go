package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	PythonBin    string `json:"python_bin" yaml:"python_bin" toml:"python_bin"`
	ScriptsDir   string `json:"scripts_dir" yaml:"scripts_dir" toml:"scripts_dir"`
	WeightsDir   string `json:"weights_dir" yaml:"weights_dir" toml:"weights_dir"`
	DefaultModel string `json:"default_model" yaml:"default_model" toml:"default_model"`
	PortStart    int    `json:"port_start" yaml:"port_start" toml:"port_start"`
	PortEnd      int    `json:"port_end" yaml:"port_end" toml:"port_end"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
