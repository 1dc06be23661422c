package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alnah/go-videodigest/internal/config"
	"github.com/alnah/go-videodigest/internal/speech"
	"github.com/alnah/go-videodigest/internal/summarize"
)

// Configuration keys exposed by the config command.
const (
	keyOutputDir = "output-dir"
	keyTempDir   = "temp-dir"
	keyStyle     = "style"
	keyVoice     = "voice"
	keyParallel  = "parallel"
)

// validConfigKeys lists all supported configuration keys in display order.
var validConfigKeys = []string{
	keyOutputDir,
	keyTempDir,
	keyStyle,
	keyVoice,
	keyParallel,
}

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/videodigest/config.yaml.
Some settings can also be set via environment variables.

Supported settings:
  output-dir    Where reports are written (env: VIDEODIGEST_OUTPUT_DIR)
  temp-dir      Where downloads and segments are staged (env: VIDEODIGEST_TEMP_DIR)
  style         Default summary style: brief, detailed, bullet
  voice         Default voice for audio summaries
  parallel      Default concurrent transcription requests (1-10)`,
		Example: `  videodigest config set output-dir ~/Documents/digests
  videodigest config get style
  videodigest config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "set <key> <value>",
		Short:   "Set a configuration value",
		Example: `  videodigest config set style bullet`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "get <key>",
		Short:   "Get a configuration value",
		Example: `  videodigest config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List all configuration values",
		Example: `  videodigest config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet validates the value for its key, then writes the whole
// config back.
func runConfigSet(env *Env, key, value string) error {
	if !slices.Contains(validConfigKeys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}

	switch key {
	case keyOutputDir:
		cfg.OutputDir = config.ExpandPath(value)
		value = cfg.OutputDir
	case keyTempDir:
		cfg.TempDir = config.ExpandPath(value)
		value = cfg.TempDir
	case keyStyle:
		if _, err := summarize.ParseStyle(value); err != nil {
			return err
		}
		cfg.Style = value
	case keyVoice:
		if err := speech.ValidateVoice(value); err != nil {
			return err
		}
		cfg.Voice = value
	case keyParallel:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("parallel must be a positive integer, got %q", value)
		}
		cfg.Parallel = clampParallel(n)
	}

	if err := env.ConfigLoader.Save(cfg); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

func runConfigGet(env *Env, key string) error {
	if !slices.Contains(validConfigKeys, key) {
		return fmt.Errorf("unknown config key %q (valid keys: %v)", key, validConfigKeys)
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}

	if value := configValue(cfg, key); value != "" {
		fmt.Println(value)
	}
	return nil
}

func runConfigList(env *Env) error {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}

	for _, key := range validConfigKeys {
		if value := configValue(cfg, key); value != "" {
			fmt.Printf("%s=%s\n", key, value)
		}
	}
	return nil
}

// configValue maps a key to its value in the loaded config.
func configValue(cfg config.Config, key string) string {
	switch key {
	case keyOutputDir:
		return cfg.OutputDir
	case keyTempDir:
		return cfg.TempDir
	case keyStyle:
		return cfg.Style
	case keyVoice:
		return cfg.Voice
	case keyParallel:
		return strconv.Itoa(cfg.Parallel)
	}
	return ""
}
