package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultChain is used when a request does not name a chain.
const DefaultChain = "solana"

// Limits applied to every context record before it reaches the model.
const (
	MaxTokenTransfers = 5
	MaxExampleTokens  = 5
)

// TxType is the coarse classification of a transaction.
type TxType string

const (
	TxTypeSwap     TxType = "swap"
	TxTypeTransfer TxType = "transfer"
	TxTypeUnknown  TxType = "unknown"
)

// Transfer directions.
const (
	DirectionIn       = "in"
	DirectionOut      = "out"
	DirectionTransfer = "transfer"
)

// TokenContext is the flattened market summary of a token's first trading pair.
// Pointer fields are null when the market-data source did not report them.
type TokenContext struct {
	TokenAddress  string            `json:"tokenAddress"`
	Chain         *string           `json:"chain"`
	Dex           *string           `json:"dex"`
	PairCreatedAt *int64            `json:"pairCreatedAt"`
	PriceUSD      *string           `json:"priceUsd"`
	LiquidityUSD  *float64          `json:"liquidityUsd"`
	Volume24hUSD  *float64          `json:"volume24hUsd"`
	Buys24h       *int64            `json:"buys24h"`
	Sells24h      *int64            `json:"sells24h"`
	FDV           *float64          `json:"fdv"`
	URLs          map[string]string `json:"urls"`
	BaseToken     PairToken         `json:"baseToken"`
	QuoteToken    PairToken         `json:"quoteToken"`
}

// TokenTransfer is a single token movement inside a transaction.
type TokenTransfer struct {
	Token     string  `json:"token"`
	Amount    float64 `json:"amount"`
	Direction string  `json:"direction"`
}

// TransactionContext summarises one transaction for the narrative generator.
type TransactionContext struct {
	Chain           string          `json:"chain"`
	Hash            string          `json:"hash"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	Timestamp       *string         `json:"timestamp"`
	NativeAmountUSD float64         `json:"nativeAmountUsd"`
	FeeUSD          float64         `json:"feeUsd"`
	TokenTransfers  []TokenTransfer `json:"tokenTransfers"`
	DecodedType     TxType          `json:"decodedType"`
}

// WalletContext summarises the recent activity of an address.
type WalletContext struct {
	Chain          string   `json:"chain"`
	Address        string   `json:"address"`
	TotalTxSampled int      `json:"totalTxSampled"`
	RecentInCount  int      `json:"recentInCount"`
	RecentOutCount int      `json:"recentOutCount"`
	ExampleTokens  []string `json:"exampleTokens"`
	FirstSeenAt    *string  `json:"firstSeenAt"`
	LastSeenAt     *string  `json:"lastSeenAt"`
}

// ChainTransaction is what a ChainDataProvider returns for a hash.
// Amounts are expressed in the chain's native asset, not in its smallest unit.
type ChainTransaction struct {
	Chain       string
	Hash        string
	From        string
	To          string
	Timestamp   *string
	Fee         decimal.Decimal
	NativeValue decimal.Decimal
	Transfers   []TokenTransfer
	Type        TxType
}

// WalletActivity is what a ChainDataProvider returns for an address.
type WalletActivity struct {
	Chain     string
	Sampled   int
	InCount   int
	OutCount  int
	Tokens    []string
	FirstSeen *string
	LastSeen  *string
}

// SignatureRef is one entry of an address's transaction history.
type SignatureRef struct {
	Hash      string  `json:"hash"`
	Timestamp *string `json:"timestamp"`
	Failed    bool    `json:"failed"`
}

// TokenAnalysis is the model's opinion about a token.
type TokenAnalysis struct {
	Summary       string   `json:"summary"`
	RiskScore     float64  `json:"riskScore"`
	StrengthScore float64  `json:"strengthScore"`
	MemeVibe      string   `json:"memeVibe"`
	Pros          []string `json:"pros"`
	Cons          []string `json:"cons"`
	DegenComment  string   `json:"degenComment"`
	JupiterURL    string   `json:"jupiterUrl"`
}

// TransactionAnalysis is the model's explanation of a transaction.
type TransactionAnalysis struct {
	Summary   string   `json:"summary"`
	Actions   []string `json:"actions"`
	FeeUSD    float64  `json:"feeUsd"`
	RiskNotes []string `json:"riskNotes"`
}

// WalletAnalysis is the model's profile of a wallet.
type WalletAnalysis struct {
	Personality          string   `json:"personality"`
	TradingStyle         string   `json:"tradingStyle"`
	RiskScore            float64  `json:"riskScore"`
	PerformanceDirection string   `json:"performanceDirection"`
	FavoriteThemes       []string `json:"favoriteThemes"`
	Suggestions          []string `json:"suggestions"`
}
