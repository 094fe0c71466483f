package config

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the pxdgen configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the pxdgen configuration directory
const ConfigDirName = ".pxdgen"

// Config holds all pxdgen configuration
type Config struct {
	Filter   FilterConfig   `yaml:"filter"`
	Emit     EmitConfig     `yaml:"emit"`
	Preamble PreambleConfig `yaml:"preamble"`
	Log      LogConfig      `yaml:"log"`
}

// FilterConfig holds the name tables that decide which top-level
// declarations are emitted.
type FilterConfig struct {
	// Prefix is the public prefix of the wrapped library.
	Prefix string `yaml:"prefix"`
	// DebugPrefixes are library-internal prefixes that are never emitted,
	// even though they also carry Prefix.
	DebugPrefixes []string `yaml:"debug_prefixes"`
	// Include lists names emitted regardless of prefix.
	Include []string `yaml:"include"`
	// Exclude lists names never emitted. It wins over every other rule.
	Exclude []string `yaml:"exclude"`
}

// EmitConfig holds configuration for declaration emission
type EmitConfig struct {
	// Omit lists aggregate names whose plain `cdef` block is suppressed
	// because a ctypedef of the same name follows.
	Omit []string `yaml:"omit"`
	// Constants maps array bound macros to the literal printed instead.
	Constants map[string]string `yaml:"constants"`
}

// PreambleConfig holds the static text written before the declarations
type PreambleConfig struct {
	Header   string   `yaml:"header"`
	WithGIL  bool     `yaml:"with_gil"`
	Cimports []string `yaml:"cimports"`
	Forward  []string `yaml:"forward"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .pxdgen/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .pxdgen directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .pxdgen directory if it doesn't exist.
// Returns the path to the .pxdgen directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if cfg.Filter.Prefix == "" {
		return fmt.Errorf("%w: filter.prefix must not be empty", ErrInvalidConfig)
	}

	for _, p := range cfg.Filter.DebugPrefixes {
		if p == "" {
			return fmt.Errorf("%w: filter.debug_prefixes must not contain empty entries", ErrInvalidConfig)
		}
	}

	for k := range cfg.Emit.Constants {
		if k == "" {
			return fmt.Errorf("%w: emit.constants keys must not be empty", ErrInvalidConfig)
		}
	}

	if cfg.Preamble.Header == "" {
		return fmt.Errorf("%w: preamble.header must not be empty", ErrInvalidConfig)
	}

	if !IsValidLogLevel(cfg.Log.Level) {
		return fmt.Errorf("%w: log.level must be one of %v, got %q",
			ErrInvalidConfig, ValidLogLevels, cfg.Log.Level)
	}

	return nil
}

// SaveDefault writes the default configuration to .pxdgen/config.yaml in
// workDir. Creates the .pxdgen directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# pxdgen configuration\n# Name tables and preamble for the generated .pxd listing\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}

// Fingerprint returns a stable hash of the settings that affect generated
// output. Logging settings are not part of it.
func (c *Config) Fingerprint() (string, error) {
	out := struct {
		Filter   FilterConfig   `yaml:"filter"`
		Emit     EmitConfig     `yaml:"emit"`
		Preamble PreambleConfig `yaml:"preamble"`
	}{c.Filter, c.Emit, c.Preamble}

	data, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
