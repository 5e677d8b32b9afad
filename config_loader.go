package stegx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfigFromEnvironment loads configuration from environment variables.
//
// All variables are optional:
//   - STEGX_PLACEMENT: "sequential" (default) or "permuted"
//   - STEGX_SCRAMBLE: "true"/"1"/"yes"/"on" to enable block scrambling
//   - STEGX_KDF_ITERATIONS: PBKDF2 iteration count (default 100000)
//
// The returned Config is validated and has defaults applied.
func LoadConfigFromEnvironment() (Config, error) {
	var cfg Config

	if err := applyEnvironment(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: configuration validation failed: %w", ErrInvalidConfiguration, err)
	}
	return cfg, nil
}

// applyEnvironment overlays any set STEGX_* variables onto cfg.
func applyEnvironment(cfg *Config) error {
	if v := os.Getenv(EnvPlacement); v != "" {
		p, err := ParsePlacement(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPlacement, err)
		}
		cfg.Placement = p
	}

	if v := os.Getenv(EnvScramble); v != "" {
		enabled, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfiguration, EnvScramble, err)
		}
		cfg.Scramble = enabled
	}

	if v := os.Getenv(EnvKDFIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidConfiguration, EnvKDFIterations, v)
		}
		cfg.KDFIterations = n
	}
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", s)
	}
}

// FileConfig is the YAML representation of a Config plus logging settings
// used by the CLI.
//
//	placement: permuted
//	scramble: true
//	kdf_iterations: 100000
//	log_level: debug
//	log_format: json
type FileConfig struct {
	Placement     string `yaml:"placement"`
	Scramble      bool   `yaml:"scramble"`
	KDFIterations int    `yaml:"kdf_iterations"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
}

// LoadConfigFile reads and decodes a YAML configuration file. Unknown keys
// are rejected.
func LoadConfigFile(path string) (FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("%w: decode %s: %w", ErrInvalidConfiguration, path, err)
	}
	return fc, nil
}

// Apply overlays the codec fields of the file onto cfg.
func (f FileConfig) Apply(cfg *Config) error {
	if f.Placement != "" {
		p, err := ParsePlacement(f.Placement)
		if err != nil {
			return err
		}
		cfg.Placement = p
	}
	if f.Scramble {
		cfg.Scramble = true
	}
	if f.KDFIterations != 0 {
		cfg.KDFIterations = f.KDFIterations
	}
	return nil
}

// LoadConfig builds a Config from an optional YAML file and then the
// environment; environment variables take precedence.
func LoadConfig(path string) (Config, FileConfig, error) {
	var (
		cfg Config
		fc  FileConfig
		err error
	)
	if path != "" {
		fc, err = LoadConfigFile(path)
		if err != nil {
			return Config{}, FileConfig{}, err
		}
		if err := fc.Apply(&cfg); err != nil {
			return Config{}, FileConfig{}, err
		}
	}
	if err := applyEnvironment(&cfg); err != nil {
		return Config{}, FileConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, FileConfig{}, fmt.Errorf("%w: configuration validation failed: %w", ErrInvalidConfiguration, err)
	}
	return cfg, fc, nil
}
