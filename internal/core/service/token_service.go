package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"go.uber.org/zap"
)

// TokenService builds token contexts from market data and asks the model about them.
type TokenService struct {
	market   domain.MarketDataService
	narrator *narrator[domain.TokenAnalysis]
	log      *logger.Logger
}

func NewTokenService(market domain.MarketDataService, generator domain.TextGenerator, log *logger.Logger) *TokenService {
	log = log.WithComponent("token_service")
	return &TokenService{
		market: market,
		log:    log,
		narrator: &narrator[domain.TokenAnalysis]{
			generator: generator,
			log:       log,
		},
	}
}

// BuildContext maps the first pair the market-data source returns for the token.
func (s *TokenService) BuildContext(ctx context.Context, address string) (*domain.TokenContext, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: missing address", domain.ErrBadRequest)
	}

	pairs, err := s.market.GetPairs(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("get pairs for %s: %w", address, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no pairs for %s: %w", address, domain.ErrNotFound)
	}

	return tokenContextFromPair(address, pairs[0]), nil
}

// Analyze builds the token context and returns the model's opinion on it.
func (s *TokenService) Analyze(ctx context.Context, address string) (*domain.TokenAnalysis, error) {
	tc, err := s.BuildContext(ctx, address)
	if err != nil {
		return nil, err
	}

	contextJSON, err := marshalContext(tc)
	if err != nil {
		return nil, err
	}

	s.log.Debug("token context built", zap.String("address", tc.TokenAddress))

	jupiterURL := JupiterSwapURL(tc.TokenAddress)
	return s.narrator.narrate(ctx, tokenPrompt(contextJSON, tc.TokenAddress),
		func() domain.TokenAnalysis { return degradedTokenAnalysis(tc.TokenAddress) },
		func(a *domain.TokenAnalysis) {
			a.Pros = nonNil(a.Pros)
			a.Cons = nonNil(a.Cons)
			a.RiskScore = clampScore(a.RiskScore)
			a.StrengthScore = clampScore(a.StrengthScore)
			a.JupiterURL = jupiterURL
		},
	)
}

func tokenContextFromPair(address string, pair domain.TradingPair) *domain.TokenContext {
	tc := &domain.TokenContext{
		TokenAddress:  address,
		Chain:         optionalString(pair.ChainID),
		Dex:           optionalString(pair.DexID),
		PairCreatedAt: pair.PairCreatedAt,
		PriceUSD:      optionalString(pair.PriceUSD),
		FDV:           pair.FDV,
		URLs:          pairURLs(pair),
	}
	if pair.Liquidity != nil {
		tc.LiquidityUSD = pair.Liquidity.USD
	}
	if pair.Volume != nil {
		tc.Volume24hUSD = pair.Volume.H24
	}
	if pair.Txns != nil && pair.Txns.H24 != nil {
		tc.Buys24h = pair.Txns.H24.Buys
		tc.Sells24h = pair.Txns.H24.Sells
	}
	if pair.BaseToken != nil {
		tc.BaseToken = *pair.BaseToken
	}
	if pair.QuoteToken != nil {
		tc.QuoteToken = *pair.QuoteToken
	}
	return tc
}

func pairURLs(pair domain.TradingPair) map[string]string {
	urls := make(map[string]string)
	if pair.URL != "" {
		urls["dexscreener"] = pair.URL
	}
	if pair.Info == nil {
		return urls
	}
	for _, w := range pair.Info.Websites {
		if w.URL == "" {
			continue
		}
		key := strings.ToLower(w.Label)
		if key == "" {
			key = "website"
		}
		if _, ok := urls[key]; !ok {
			urls[key] = w.URL
		}
	}
	for _, sl := range pair.Info.Socials {
		if sl.URL == "" || sl.Type == "" {
			continue
		}
		key := strings.ToLower(sl.Type)
		if _, ok := urls[key]; !ok {
			urls[key] = sl.URL
		}
	}
	return urls
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func degradedTokenAnalysis(address string) domain.TokenAnalysis {
	return domain.TokenAnalysis{
		Summary:       "AI analysis failed to parse.",
		RiskScore:     7,
		StrengthScore: 5,
		MemeVibe:      "Unknown",
		Pros:          []string{},
		Cons:          []string{},
		DegenComment:  "AI fumbled the JSON but PumpBrain stays cooking.",
		JupiterURL:    JupiterSwapURL(address),
	}
}
