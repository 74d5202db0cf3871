package price

import (
	"context"
	"errors"
	"strings"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Rough native asset prices used when nothing else is configured.
const (
	DefaultSolanaUSD = 150.0
	DefaultEVMUSD    = 2000.0
)

// StaticOracle serves fixed native prices per chain family, with optional
// per-chain overrides.
type StaticOracle struct {
	solanaUSD decimal.Decimal
	evmUSD    decimal.Decimal
	overrides map[string]decimal.Decimal
}

func NewStaticOracle(solanaUSD, evmUSD float64, overrides map[string]float64) *StaticOracle {
	o := &StaticOracle{
		solanaUSD: decimal.NewFromFloat(solanaUSD),
		evmUSD:    decimal.NewFromFloat(evmUSD),
		overrides: make(map[string]decimal.Decimal, len(overrides)),
	}
	for chain, p := range overrides {
		o.overrides[strings.ToLower(chain)] = decimal.NewFromFloat(p)
	}
	return o
}

func (o *StaticOracle) NativePriceUSD(_ context.Context, chain string) (decimal.Decimal, error) {
	if p, ok := o.overrides[chain]; ok {
		return p, nil
	}
	if domain.ChainFamily(chain) == "solana" {
		return o.solanaUSD, nil
	}
	return o.evmUSD, nil
}

// stringGetter is the part of *redis.Client the oracle needs.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisOracle reads operator-maintained prices from Redis keys
// <prefix><chain> then <prefix><family>, and falls back to another oracle
// when neither holds a usable value.
type RedisOracle struct {
	client   stringGetter
	prefix   string
	fallback domain.PriceOracle
	log      *logger.Logger
}

func NewRedisOracle(client stringGetter, prefix string, fallback domain.PriceOracle, log *logger.Logger) *RedisOracle {
	return &RedisOracle{
		client:   client,
		prefix:   prefix,
		fallback: fallback,
		log:      log.WithComponent("price_oracle"),
	}
}

func (o *RedisOracle) NativePriceUSD(ctx context.Context, chain string) (decimal.Decimal, error) {
	for _, key := range []string{o.prefix + chain, o.prefix + domain.ChainFamily(chain)} {
		val, err := o.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			o.log.Warn("redis price lookup failed, using fallback", zap.String("key", key), zap.Error(err))
			break
		}
		p, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil || !p.IsPositive() {
			o.log.Warn("ignoring unusable price", zap.String("key", key), zap.String("value", val))
			continue
		}
		return p, nil
	}
	return o.fallback.NativePriceUSD(ctx, chain)
}
