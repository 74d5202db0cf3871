package price

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pumpbrain/pumpbrain/internal/core/domain"
)

// DefaultDexScreenerURL is the public DexScreener API.
const DefaultDexScreenerURL = "https://api.dexscreener.com"

// DexScreenerService implements domain.MarketDataService.
type DexScreenerService struct {
	client *resty.Client
}

func NewDexScreenerService(baseURL string) *DexScreenerService {
	if baseURL == "" {
		baseURL = DefaultDexScreenerURL
	}
	return &DexScreenerService{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
	}
}

type tokensResponse struct {
	SchemaVersion string               `json:"schemaVersion"`
	Pairs         []domain.TradingPair `json:"pairs"`
}

// GetPairs fetches every pair DexScreener lists for the token.
// URL: https://api.dexscreener.com/latest/dex/tokens/{tokenAddress}
func (s *DexScreenerService) GetPairs(ctx context.Context, tokenAddress string) ([]domain.TradingPair, error) {
	var result tokensResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("address", tokenAddress).
		SetResult(&result).
		Get("/latest/dex/tokens/{address}")
	if err != nil {
		return nil, fmt.Errorf("dexscreener request: %v: %w", err, domain.ErrUpstream)
	}

	switch {
	case resp.IsSuccess():
		return result.Pairs, nil
	case resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError:
		return nil, fmt.Errorf("dexscreener api returned status %d: %w", resp.StatusCode(), domain.ErrUpstream)
	default:
		return nil, fmt.Errorf("dexscreener api returned status %d: %w", resp.StatusCode(), domain.ErrNotFound)
	}
}
