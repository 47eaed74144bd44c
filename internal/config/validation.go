package config

import (
	"strings"

	"github.com/go-playground/validator/v10"

	boterrors "github.com/edgard/gubot/internal/errors"
)

// Validate checks the configuration. A missing signing key is reported on its own,
// before any other rule, since nothing useful can run without it.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Chain.PrivateKey) == "" {
		return boterrors.NewConfigError(EnvPrivateKey+" is not set in the environment variables", nil)
	}

	if err := validator.New().Struct(c); err != nil {
		return boterrors.NewConfigError("configuration validation failed", err)
	}

	return nil
}
