package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Market  MarketConfig  `mapstructure:"market"`
	Solana  SolanaConfig  `mapstructure:"solana"`
	Moralis MoralisConfig `mapstructure:"moralis"`
	AI      AIConfig      `mapstructure:"ai"`
	Prices  PricesConfig  `mapstructure:"prices"`
}

// AppConfig represents application-specific configuration
type AppConfig struct {
	Env       string `mapstructure:"env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	HTTPAddr  string `mapstructure:"http_addr"`
}

// MarketConfig points at the DexScreener API.
type MarketConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// SolanaConfig represents the Solana JSON-RPC endpoint
type SolanaConfig struct {
	RPCURL string `mapstructure:"rpc_url"`
	APIKey string `mapstructure:"api_key"`
}

// MoralisConfig represents the Moralis EVM API
type MoralisConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// AIConfig represents the OpenAI-compatible text generation backend
type AIConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
}

// PricesConfig holds native asset prices used for USD conversion.
// When RedisURL is set, Redis values take precedence over the static ones.
type PricesConfig struct {
	SolanaUSD   float64            `mapstructure:"solana_usd"`
	EVMUSD      float64            `mapstructure:"evm_usd"`
	Overrides   map[string]float64 `mapstructure:"overrides"`
	RedisURL    string             `mapstructure:"redis_url"`
	RedisPrefix string             `mapstructure:"redis_prefix"`
}

// Load reads config.yaml from the given directories (default "." and
// "./config"), then applies environment variables on top.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")
	v.SetDefault("app.http_addr", ":8080")

	v.SetDefault("market.base_url", "https://api.dexscreener.com")

	v.SetDefault("solana.rpc_url", "https://mainnet.helius-rpc.com/")
	v.SetDefault("solana.api_key", "")

	v.SetDefault("moralis.base_url", "https://deep-index.moralis.io/api/v2.2")
	v.SetDefault("moralis.api_key", "")

	// AI defaults
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("ai.model", "claude-3-5-sonnet-20240620")
	v.SetDefault("ai.max_tokens", 800)

	// Price defaults
	v.SetDefault("prices.solana_usd", 150.0)
	v.SetDefault("prices.evm_usd", 2000.0)
	v.SetDefault("prices.overrides", map[string]float64{})
	v.SetDefault("prices.redis_url", "")
	v.SetDefault("prices.redis_prefix", "pumpbrain:price:")
}

// bindEnv maps the conventional provider variables onto their keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"solana.api_key":   {"SOLANA_API_KEY", "HELIUS_API_KEY"},
		"moralis.api_key":  {"MORALIS_API_KEY"},
		"ai.api_key":       {"AI_API_KEY", "ANTHROPIC_API_KEY"},
		"prices.redis_url": {"PRICES_REDIS_URL", "REDIS_URL"},
		"app.http_addr":    {"APP_HTTP_ADDR", "HTTP_ADDR"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}
