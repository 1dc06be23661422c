// Package config loads user configuration from a YAML file under the XDG
// config directory, with environment-variable fallbacks for individual
// values. Flags override config, config overrides environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable fallbacks.
const (
	EnvOutputDir = "VIDEODIGEST_OUTPUT_DIR"
	EnvTempDir   = "VIDEODIGEST_TEMP_DIR"
)

// Defaults applied by Validate.
const (
	defaultStyle    = "detailed"
	defaultVoice    = "nova"
	defaultParallel = 4
)

// Config holds user configuration loaded from
// ~/.config/videodigest/config.yaml.
type Config struct {
	// OutputDir is where reports and audio summaries are written.
	// Empty means the current working directory.
	OutputDir string `yaml:"output_dir"`

	// TempDir is where downloaded media and audio segments are staged.
	// Empty means the OS temp directory.
	TempDir string `yaml:"temp_dir"`

	// Style is the default summary style: brief, detailed, or bullet.
	Style string `yaml:"style"`

	// Voice is the default voice for audio summaries.
	Voice string `yaml:"voice"`

	// Parallel is the default number of concurrent transcription requests.
	Parallel int `yaml:"parallel"`
}

// Validate applies defaults for unset fields.
func (c *Config) Validate() {
	if c.Style == "" {
		c.Style = defaultStyle
	}
	if c.Voice == "" {
		c.Voice = defaultVoice
	}
	if c.Parallel <= 0 {
		c.Parallel = defaultParallel
	}
}

// dir returns the configuration directory path.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/videodigest.
func dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "videodigest"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "videodigest"), nil
}

// path returns the full path to the config file.
func path() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// Load reads the configuration file and environment variables.
// Returns a defaulted Config if the file doesn't exist (not an error).
func Load() (Config, error) {
	var cfg Config

	p, err := path()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(p) // #nosec G304 -- config path is constructed from home dir
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment fallbacks, only for values the file left unset.
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.Getenv(EnvOutputDir)
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.Getenv(EnvTempDir)
	}

	cfg.Validate()
	return cfg, nil
}

// Save writes the full config back to the config file, creating the
// directory if needed.
func Save(cfg Config) error {
	p, err := path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(p, data, 0644); err != nil { // #nosec G306 -- user config file
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// ResolveOutputPath resolves the final output path:
//  1. If output is absolute, use it as-is.
//  2. If output is relative and outputDir is set, join them.
//  3. If output is empty, use defaultName in outputDir (or cwd if no outputDir).
func ResolveOutputPath(output, outputDir, defaultName string) string {
	if output != "" && filepath.IsAbs(output) {
		return filepath.Clean(output)
	}

	if output != "" {
		if outputDir != "" {
			return filepath.Clean(filepath.Join(outputDir, output))
		}
		return filepath.Clean(output)
	}

	if outputDir != "" {
		return filepath.Clean(filepath.Join(outputDir, defaultName))
	}
	return filepath.Clean(defaultName)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// Path returns the config file path (exported for the config command).
func Path() (string, error) {
	return path()
}
