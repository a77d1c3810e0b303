/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Relish commands. Provides configuration loading,
logging setup, grammar resolution and literal parsing used across all command
implementations.
*/

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kleascm/relish/pkg/config"
	"github.com/kleascm/relish/pkg/grammar"
	"github.com/kleascm/relish/pkg/logging"
	"github.com/kleascm/relish/pkg/program"
	"github.com/kleascm/relish/pkg/value"
)

// Version is the release reported by the CLI and written into reports
const Version = "1.0.0"

// LoadConfig loads configuration from files, environment and flags
func LoadConfig() (*config.Config, error) {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("RELISH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	cfg := config.Default()
	setDefaults(cfg)
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every config key so environment variables can override
// keys missing from flags and config files
func setDefaults(cfg *config.Config) {
	viper.SetDefault("int_max", cfg.IntMax)
	viper.SetDefault("default_value", cfg.DefaultValue)
	viper.SetDefault("initial_size_limit", cfg.InitialSizeLimit)
	viper.SetDefault("max_size_limit", cfg.MaxSizeLimit)
	viper.SetDefault("enumerate_limit", cfg.EnumerateLimit)
	viper.SetDefault("examples.count", cfg.Examples.Count)
	viper.SetDefault("examples.min_length", cfg.Examples.MinLength)
	viper.SetDefault("examples.max_length", cfg.Examples.MaxLength)
	viper.SetDefault("examples.int_min", cfg.Examples.IntMin)
	viper.SetDefault("examples.int_max", cfg.Examples.IntMax)
	viper.SetDefault("examples.seed", cfg.Examples.Seed)
	viper.SetDefault("verbose", cfg.Verbose)
	viper.SetDefault("log_level", cfg.LogLevel)
}

// SetupLogging creates the logger described by the logging options and prunes
// old log files
func SetupLogging(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.DefaultLoggerConfig()
	logCfg.Level = logging.LogLevel(cfg.LogLevel)
	if format := viper.GetString("log_format"); format != "" {
		logCfg.Format = logging.LogFormat(format)
	}
	logCfg.OutputDir = viper.GetString("log_dir")
	logCfg.Caller = viper.GetBool("log_caller")

	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	if logCfg.OutputDir != "" {
		manager := logging.NewLogManager(logCfg.OutputDir, viper.GetInt("log_max_files"), viper.GetBool("log_compress"))
		if removed, err := manager.Cleanup(logger.LogFile()); err != nil {
			logger.GetLogger().WithError(err).Warn("Log cleanup failed")
		} else if stats, err := manager.Stats(); err == nil {
			logger.GetLogger().WithFields(logrus.Fields{
				"removed":    removed,
				"files":      stats.Files,
				"compressed": stats.Compressed,
				"total_size": stats.TotalSize,
			}).Debug("Log directory maintained")
		}
	}
	return logger, nil
}

// loadGrammar resolves a builtin grammar name or a grammar file path
func loadGrammar(name string) (*grammar.Grammar, error) {
	if _, err := os.Stat(name); err == nil {
		return grammar.LoadFile(name)
	}
	for _, builtin := range grammar.Available() {
		if builtin == name {
			return grammar.Load(name)
		}
	}
	return nil, fmt.Errorf("grammar %q is neither a file nor a builtin grammar (available: %s)",
		name, strings.Join(grammar.Available(), ", "))
}

// parseTypes converts parameter type names
func parseTypes(names []string) ([]value.Type, error) {
	types := make([]value.Type, 0, len(names))
	for _, name := range names {
		t, ok := value.ParseType(strings.TrimSpace(name))
		if !ok || (t != value.TypeInt && t != value.TypeList) {
			return nil, fmt.Errorf("unsupported parameter type %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

// parseArguments parses a space separated list of literals such as "[1,2] 3"
func parseArguments(s string) ([]value.Value, error) {
	fields := strings.Fields(s)
	args := make([]value.Value, len(fields))
	for i, field := range fields {
		v, ok := parseLiteral(field)
		if !ok {
			return nil, fmt.Errorf("invalid literal %q", field)
		}
		args[i] = v
	}
	return args, nil
}

func parseLiteral(s string) (value.Value, bool) {
	if s == "[]" {
		return value.List(nil), true
	}
	return program.ParseLiteral(s)
}
