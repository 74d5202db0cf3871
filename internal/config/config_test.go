package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SOLANA_API_KEY", "HELIUS_API_KEY", "MORALIS_API_KEY", "AI_API_KEY", "ANTHROPIC_API_KEY",
		"PRICES_REDIS_URL", "REDIS_URL", "APP_HTTP_ADDR", "HTTP_ADDR", "AI_MODEL", "PRICES_SOLANA_USD",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.LogFormat)
	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, "https://api.dexscreener.com", cfg.Market.BaseURL)
	assert.Equal(t, "https://mainnet.helius-rpc.com/", cfg.Solana.RPCURL)
	assert.Equal(t, "https://deep-index.moralis.io/api/v2.2", cfg.Moralis.BaseURL)
	assert.Equal(t, "https://api.anthropic.com/v1", cfg.AI.BaseURL)
	assert.Equal(t, "claude-3-5-sonnet-20240620", cfg.AI.Model)
	assert.Equal(t, 800, cfg.AI.MaxTokens)
	assert.Equal(t, 150.0, cfg.Prices.SolanaUSD)
	assert.Equal(t, 2000.0, cfg.Prices.EVMUSD)
	assert.Empty(t, cfg.Prices.Overrides)
	assert.Empty(t, cfg.Prices.RedisURL)
	assert.Empty(t, cfg.Solana.APIKey)
}

func TestLoad_ProviderEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("HELIUS_API_KEY", "helius")
	t.Setenv("MORALIS_API_KEY", "moralis")
	t.Setenv("AI_API_KEY", "ai")
	t.Setenv("AI_MODEL", "gpt-4o-mini")
	t.Setenv("PRICES_SOLANA_USD", "175.5")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "helius", cfg.Solana.APIKey)
	assert.Equal(t, "moralis", cfg.Moralis.APIKey)
	assert.Equal(t, "ai", cfg.AI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 175.5, cfg.Prices.SolanaUSD)
}

func TestLoad_FileWithEnvOnTop(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := `
app:
  http_addr: ":9000"
  log_level: debug
prices:
  evm_usd: 2500
  redis_url: redis://localhost:6379/0
  overrides:
    base: 3100
    polygon: 0.7
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("HTTP_ADDR", ":7000")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 2500.0, cfg.Prices.EVMUSD)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Prices.RedisURL)
	assert.Equal(t, map[string]float64{"base": 3100, "polygon": 0.7}, cfg.Prices.Overrides)
}

func TestLoad_MalformedFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("app: [unterminated"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}
