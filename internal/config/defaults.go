package config

import "time"

// Default values for configuration
const (
	// Log defaults
	DefaultLogLevel      = "info"
	DefaultLogJSON       = false
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28

	// Bot defaults
	DefaultBotPollInterval      = 60 * time.Second
	DefaultBotRateLimitCooldown = 900 * time.Second // one full X API rate-limit window
	DefaultBotMentionPageSize   = 5
	DefaultBotProcessedFile     = "processed_tweets.txt"

	// Twitter defaults
	DefaultTwitterAPIHost = "https://api.twitter.com"

	// Chain defaults (Arbitrum One)
	DefaultChainID      = 42161
	DefaultGasLimit     = 500000
	DefaultGasPriceGwei = 5.0
)

// Environment variable names for credentials. These are read without the GUBOT_ prefix.
const (
	EnvTwitterBearerToken       = "TWITTER_BEARER_TOKEN"
	EnvTwitterAPIKey            = "TWITTER_API_KEY"
	EnvTwitterAPISecret         = "TWITTER_API_SECRET_KEY"
	EnvTwitterAccessToken       = "TWITTER_ACCESS_TOKEN"
	EnvTwitterAccessTokenSecret = "TWITTER_ACCESS_TOKEN_SECRET"
	EnvWeb3Provider             = "WEB3_PROVIDER"
	EnvPrivateKey               = "PRIVATE_KEY"
	EnvFactoryAddress           = "GU_FACTORY_ADDRESS"
)

var defaults = map[string]any{
	"log.level":        DefaultLogLevel,
	"log.json":         DefaultLogJSON,
	"log.file":         "",
	"log.max_size_mb":  DefaultLogMaxSizeMB,
	"log.max_backups":  DefaultLogMaxBackups,
	"log.max_age_days": DefaultLogMaxAgeDays,

	"bot.poll_interval":       DefaultBotPollInterval,
	"bot.rate_limit_cooldown": DefaultBotRateLimitCooldown,
	"bot.mention_page_size":   DefaultBotMentionPageSize,
	"bot.processed_file":      DefaultBotProcessedFile,

	"twitter.api_host": DefaultTwitterAPIHost,

	"chain.chain_id":       DefaultChainID,
	"chain.gas_limit":      DefaultGasLimit,
	"chain.gas_price_gwei": DefaultGasPriceGwei,
}

var envBindings = map[string]string{
	"twitter.bearer_token":        EnvTwitterBearerToken,
	"twitter.api_key":             EnvTwitterAPIKey,
	"twitter.api_secret":          EnvTwitterAPISecret,
	"twitter.access_token":        EnvTwitterAccessToken,
	"twitter.access_token_secret": EnvTwitterAccessTokenSecret,
	"chain.rpc_url":               EnvWeb3Provider,
	"chain.private_key":           EnvPrivateKey,
	"chain.factory_address":       EnvFactoryAddress,
}
