package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ChainDataProvider fetches and normalises chain data from one family of upstreams.
type ChainDataProvider interface {
	// IsSupported checks if the chain is served by this provider.
	IsSupported(chain string) bool

	// FetchTransaction fetches a transaction by hash and normalises it.
	// Returns ErrNotFound when the upstream has no such transaction.
	FetchTransaction(ctx context.Context, chain, hash string) (*ChainTransaction, error)

	// FetchTransfers summarises the recent activity of an address.
	FetchTransfers(ctx context.Context, chain, address string) (*WalletActivity, error)

	// FetchSignatures lists the most recent transactions of an address, newest first.
	FetchSignatures(ctx context.Context, chain, address string) ([]SignatureRef, error)
}

// MarketDataService looks up trading pairs for a token.
type MarketDataService interface {
	// GetPairs returns the pairs in the order the upstream reported them.
	GetPairs(ctx context.Context, tokenAddress string) ([]TradingPair, error)
}

// PriceOracle converts a chain's native asset into USD.
type PriceOracle interface {
	// NativePriceUSD returns the USD price of one unit of the chain's native asset.
	NativePriceUSD(ctx context.Context, chain string) (decimal.Decimal, error)
}

// TextGenerator runs a single-turn prompt against a generative-text model.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
