// Package config holds defaults and the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is the default port of the local HTTP server.
	DefaultPort = "8080"

	// DefaultAPIURL is the base URL of the remote task API.
	DefaultAPIURL = "https://momentum.redberryinternship.ge/api"

	// DefaultLogLevel is used when neither flag nor file sets a level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is used when neither flag nor file sets a format.
	DefaultLogFormat = "text"

	// DefaultRequestTimeout bounds every call to the remote API, in seconds.
	DefaultRequestTimeout = 15

	appDir         = "momentum"
	configFileName = "config.yaml"
	stateFileName  = "state.db"
)

// Config is the on-disk configuration. Flags and environment override it.
type Config struct {
	APIURL         string `yaml:"api_url" validate:"required,url"`
	Token          string `yaml:"token"`
	StateURL       string `yaml:"state_url" validate:"required"`
	Port           string `yaml:"port" validate:"required,numeric"`
	AccessToken    string `yaml:"access_token"`
	LogLevel       string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string `yaml:"log_format" validate:"oneof=json text"`
	RequestTimeout int    `yaml:"request_timeout" validate:"gte=1,lte=300"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		StateURL:       DefaultStatePath(),
		Port:           DefaultPort,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Dir returns the per-user directory holding config and state.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appDir)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}

// DefaultStatePath returns the default sqlite state file location.
func DefaultStatePath() string {
	return filepath.Join(Dir(), stateFileName)
}

// Load reads the YAML file at path on top of the defaults.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// EnsureDir creates the parent directory of path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
