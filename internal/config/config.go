// Package config manages application configuration from environment variables,
// an optional .env file, an optional config file, and default values.
package config

import "time"

// Config defines the application configuration. Credentials keep the environment
// names of the existing deployment (PRIVATE_KEY, WEB3_PROVIDER, TWITTER_*); everything
// else can be set through config.yaml or GUBOT_ prefixed variables (e.g. GUBOT_BOT_POLL_INTERVAL).
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Bot     BotConfig     `mapstructure:"bot"`
	Twitter TwitterConfig `mapstructure:"twitter"`
	Chain   ChainConfig   `mapstructure:"chain"`
}

// LogConfig controls the slog handler and the optional rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"        validate:"required,oneof=debug info warn error"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"  validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups"  validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// BotConfig controls the poll loop and the processed-mentions file.
type BotConfig struct {
	PollInterval      time.Duration `mapstructure:"poll_interval"       validate:"min=1s,max=1h"`
	RateLimitCooldown time.Duration `mapstructure:"rate_limit_cooldown" validate:"min=1s,max=24h"`
	MentionPageSize   int           `mapstructure:"mention_page_size"   validate:"min=5,max=100"`
	ProcessedFile     string        `mapstructure:"processed_file"      validate:"required"`
}

// TwitterConfig holds the X API v2 credentials. The bearer token is used for reads;
// the OAuth 1.0a consumer and access tokens act as the bot account.
type TwitterConfig struct {
	APIHost           string `mapstructure:"api_host"            validate:"required,url"`
	BearerToken       string `mapstructure:"bearer_token"`
	APIKey            string `mapstructure:"api_key"`
	APISecret         string `mapstructure:"api_secret"`
	AccessToken       string `mapstructure:"access_token"`
	AccessTokenSecret string `mapstructure:"access_token_secret"`
}

// ChainConfig holds the RPC endpoint, signing key and fixed transaction parameters
// used to call the token factory.
type ChainConfig struct {
	RPCURL         string  `mapstructure:"rpc_url"         validate:"required,url"`
	PrivateKey     string  `mapstructure:"private_key"     validate:"required"`
	FactoryAddress string  `mapstructure:"factory_address" validate:"required,eth_addr"`
	ChainID        int64   `mapstructure:"chain_id"        validate:"gt=0"`
	GasLimit       uint64  `mapstructure:"gas_limit"       validate:"gt=0"`
	GasPriceGwei   float64 `mapstructure:"gas_price_gwei"  validate:"gt=0"`
}

// HasUserContext reports whether all four OAuth 1.0a values are present.
func (c TwitterConfig) HasUserContext() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}
