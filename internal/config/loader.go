package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	boterrors "github.com/edgard/gubot/internal/errors"
)

// EnvPrefix is the prefix for non-credential settings taken from the environment.
const EnvPrefix = "GUBOT"

// Load loads and validates configuration from:
// 1. Default values
// 2. the optional YAML file at configPath
// 3. the optional dotenv file at envPath (never overrides variables already set)
// 4. GUBOT_* environment variables and the credential variables
//
// Missing files are not an error.
func Load(configPath, envPath string) (*Config, error) {
	if err := loadDotEnv(envPath); err != nil {
		return nil, boterrors.NewConfigError("failed to load env file", err)
	}

	v, err := newViper(configPath)
	if err != nil {
		return nil, boterrors.NewConfigError("failed to load config file", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, boterrors.NewConfigError("failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("configuration loaded",
		"config_file", v.ConfigFileUsed(),
		"poll_interval", cfg.Bot.PollInterval,
		"processed_file", cfg.Bot.ProcessedFile,
		"chain_id", cfg.Chain.ChainID)

	return cfg, nil
}

func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// newViper initializes a viper instance with defaults, env bindings and the config file.
func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath == "" {
		return v, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Config file not found is okay, we'll use defaults and the environment
			return v, nil
		}
		return nil, err
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return v, nil
}
