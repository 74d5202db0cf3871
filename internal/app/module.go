// Package app assembles the adapters and services with fx.
package app

import (
	"context"
	"fmt"

	"github.com/pumpbrain/pumpbrain/internal/adapters/chain"
	"github.com/pumpbrain/pumpbrain/internal/adapters/llm"
	"github.com/pumpbrain/pumpbrain/internal/adapters/price"
	"github.com/pumpbrain/pumpbrain/internal/config"
	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/core/service"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the three analysis services. It expects *config.Config
// and *logger.Logger to be supplied.
var Module = fx.Options(
	fx.Provide(
		newMarketData,
		newPriceOracle,
		newChainProviders,
		newTextGenerator,
	),
	fx.Provide(
		service.NewTokenService,
		service.NewTransactionService,
		service.NewWalletService,
	),
)

func newMarketData(cfg *config.Config) domain.MarketDataService {
	return price.NewDexScreenerService(cfg.Market.BaseURL)
}

// newChainProviders orders providers by lookup priority.
func newChainProviders(cfg *config.Config, log *logger.Logger) []domain.ChainDataProvider {
	return []domain.ChainDataProvider{
		chain.NewNativeChainProvider(cfg.Solana.RPCURL, cfg.Solana.APIKey, log),
		chain.NewIndexedChainProvider(cfg.Moralis.BaseURL, cfg.Moralis.APIKey, log),
	}
}

func newTextGenerator(cfg *config.Config) domain.TextGenerator {
	return llm.NewOpenAIGenerator(llm.Options{
		APIKey:    cfg.AI.APIKey,
		BaseURL:   cfg.AI.BaseURL,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
	})
}

// newPriceOracle layers Redis over the static prices when a Redis URL is configured.
func newPriceOracle(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (domain.PriceOracle, error) {
	static := price.NewStaticOracle(cfg.Prices.SolanaUSD, cfg.Prices.EVMUSD, cfg.Prices.Overrides)
	if cfg.Prices.RedisURL == "" {
		return static, nil
	}

	opts, err := redis.ParseURL(cfg.Prices.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse prices.redis_url: %w", err)
	}
	client := redis.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable, static prices will be used until it recovers", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return price.NewRedisOracle(client, cfg.Prices.RedisPrefix, static, log), nil
}
