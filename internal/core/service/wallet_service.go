package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"go.uber.org/zap"
)

// WalletService profiles wallets from their recent activity.
type WalletService struct {
	providers []domain.ChainDataProvider
	narrator  *narrator[domain.WalletAnalysis]
	log       *logger.Logger
}

func NewWalletService(providers []domain.ChainDataProvider, generator domain.TextGenerator, log *logger.Logger) *WalletService {
	log = log.WithComponent("wallet_service")
	return &WalletService{
		providers: providers,
		log:       log,
		narrator: &narrator[domain.WalletAnalysis]{
			generator: generator,
			log:       log,
		},
	}
}

// BuildContext summarises the recent activity of address on chain.
func (s *WalletService) BuildContext(ctx context.Context, address, chain string) (*domain.WalletContext, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: missing address", domain.ErrBadRequest)
	}
	chain = domain.NormalizeChain(chain)

	provider, err := providerFor(s.providers, chain)
	if err != nil {
		return nil, err
	}

	activity, err := provider.FetchTransfers(ctx, chain, address)
	if err != nil {
		return nil, fmt.Errorf("fetch activity of %s on %s: %w", address, chain, err)
	}

	return &domain.WalletContext{
		Chain:          orDefault(activity.Chain, chain),
		Address:        address,
		TotalTxSampled: activity.Sampled,
		RecentInCount:  activity.InCount,
		RecentOutCount: activity.OutCount,
		ExampleTokens:  uniqueTruncate(activity.Tokens, domain.MaxExampleTokens),
		FirstSeenAt:    activity.FirstSeen,
		LastSeenAt:     activity.LastSeen,
	}, nil
}

// Analyze builds the wallet context and returns the model's profile of it.
func (s *WalletService) Analyze(ctx context.Context, address, chain string) (*domain.WalletAnalysis, error) {
	wc, err := s.BuildContext(ctx, address, chain)
	if err != nil {
		return nil, err
	}

	contextJSON, err := marshalContext(wc)
	if err != nil {
		return nil, err
	}

	s.log.Debug("wallet context built",
		zap.String("chain", wc.Chain),
		zap.Int("sampled", wc.TotalTxSampled),
	)

	return s.narrator.narrate(ctx, walletPrompt(contextJSON),
		degradedWalletAnalysis,
		func(a *domain.WalletAnalysis) {
			a.FavoriteThemes = nonNil(a.FavoriteThemes)
			a.Suggestions = nonNil(a.Suggestions)
			a.RiskScore = clampScore(a.RiskScore)
		},
	)
}

// RecentSignatures lists the latest transactions of address on chain, newest first.
func (s *WalletService) RecentSignatures(ctx context.Context, address, chain string) ([]domain.SignatureRef, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: missing address", domain.ErrBadRequest)
	}
	chain = domain.NormalizeChain(chain)

	provider, err := providerFor(s.providers, chain)
	if err != nil {
		return nil, err
	}
	refs, err := provider.FetchSignatures(ctx, chain, address)
	if err != nil {
		return nil, fmt.Errorf("fetch signatures of %s on %s: %w", address, chain, err)
	}
	return refs, nil
}

// uniqueTruncate keeps the first occurrence of each non-empty value, at most limit of them.
func uniqueTruncate(values []string, limit int) []string {
	out := make([]string, 0, limit)
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if len(out) == limit {
			break
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func degradedWalletAnalysis() domain.WalletAnalysis {
	return domain.WalletAnalysis{
		Personality:          "Mysterious on-chain entity.",
		TradingStyle:         "Unknown, data insufficient.",
		RiskScore:            5,
		PerformanceDirection: "unknown",
		FavoriteThemes:       []string{},
		Suggestions: []string{
			"Increase position sizing only after clear edge is proven.",
			"Track PnL per narrative instead of per coin.",
			"Use a portion of gains to build a safer core stack.",
		},
	}
}
