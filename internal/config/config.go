// Package config provides configuration loading and management for the
// tool manager.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. THV_TOOLS_EXPERIMENTAL, THV_TOOLS_CARGO_BINSTALL.
	EnvPrefix = "THV_TOOLS"

	// AppName is the directory name used under the XDG base directories
	AppName = "thv-tool-manager"

	// githubTokenEnv is the environment variable holding the optional
	// GitHub bearer token passed through to accelerated installs
	githubTokenEnv = "GITHUB_TOKEN"
)

// Config represents the root configuration structure
type Config struct {
	// Experimental enables backends that execute registry-sourced build
	// scripts. Backends guarded by this flag refuse to install until it
	// is set.
	Experimental bool `yaml:"experimental,omitempty"`

	// Cargo holds cargo backend settings
	Cargo CargoConfig `yaml:"cargo,omitempty"`
}

// CargoConfig defines cargo backend settings
type CargoConfig struct {
	// Binstall enables the cargo-binstall accelerated install path when
	// the binary is present on PATH
	Binstall bool `yaml:"binstall"`
}

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) && !filepath.IsLocal(realPath) {
			return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
		}

		cfg.path = realPath
		return nil
	}
}

// DefaultConfigPath returns the default config file location under the
// XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// defaults returns the built-in configuration
func defaults() *Config {
	return &Config{
		Experimental: false,
		Cargo: CargoConfig{
			Binstall: true,
		},
	}
}

// LoadConfig loads configuration with the following precedence:
// environment variables, then the YAML file (explicit path or the
// default location), then built-in defaults. A missing file at the
// default location is not an error.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	config := defaults()

	path := loaderCfg.path
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case os.IsNotExist(err) && !explicit:
		// no config file, defaults plus env overrides apply
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides overlays THV_TOOLS_* environment variables on top
// of the loaded file values.
func applyEnvOverrides(config *Config) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("experimental", config.Experimental)
	v.SetDefault("cargo.binstall", config.Cargo.Binstall)

	config.Experimental = v.GetBool("experimental")
	config.Cargo.Binstall = v.GetBool("cargo.binstall")
}

// GitHubToken returns the optional GitHub token from the environment,
// or empty when unset.
func GitHubToken() string {
	return os.Getenv(githubTokenEnv)
}
