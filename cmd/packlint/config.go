package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/packlint/packlint/pkg/discover"
	"github.com/packlint/packlint/pkg/typecheck"
)

const defaultConfigPath = ".packlint.yaml"

// ProjectConfig holds the contents of .packlint.yaml.
type ProjectConfig struct {
	// Mode is "lenient" or "fail-fast". The --strict flag overrides it.
	Mode string `yaml:"mode"`

	// NoCheck skips the type-check pass.
	NoCheck bool `yaml:"no_check"`

	// Discovery patterns for directory arguments.
	Discover discover.Options `yaml:"discover"`

	// TypeCheck is forwarded to the external type-checking engine.
	TypeCheck typecheck.Options `yaml:"typecheck"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// loadProjectConfig reads the config file. Returns a zero config (no
// error) if the file does not exist.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	if path == "" {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
