package domain

// TradingPair is a market venue as reported by the market-data source.
// Nested objects are pointers so a missing object can be told apart from zero values.
type TradingPair struct {
	ChainID       string         `json:"chainId"`
	DexID         string         `json:"dexId"`
	URL           string         `json:"url"`
	PairAddress   string         `json:"pairAddress"`
	BaseToken     *PairToken     `json:"baseToken"`
	QuoteToken    *PairToken     `json:"quoteToken"`
	PriceNative   string         `json:"priceNative"`
	PriceUSD      string         `json:"priceUsd"`
	Txns          *PairTxns      `json:"txns"`
	Volume        *PairVolume    `json:"volume"`
	Liquidity     *PairLiquidity `json:"liquidity"`
	FDV           *float64       `json:"fdv"`
	MarketCap     *float64       `json:"marketCap"`
	PairCreatedAt *int64         `json:"pairCreatedAt"`
	Info          *PairInfo      `json:"info"`
}

// PairToken identifies one side of a pair.
type PairToken struct {
	Address string `json:"address,omitempty"`
	Name    string `json:"name,omitempty"`
	Symbol  string `json:"symbol,omitempty"`
}

// PairTxns holds buy/sell counts per window.
type PairTxns struct {
	H24 *TxnCount `json:"h24"`
}

// TxnCount holds buy and sell counts.
type TxnCount struct {
	Buys  *int64 `json:"buys"`
	Sells *int64 `json:"sells"`
}

// PairVolume holds USD volume per window.
type PairVolume struct {
	H24 *float64 `json:"h24"`
}

// PairLiquidity holds pool liquidity.
type PairLiquidity struct {
	USD   *float64 `json:"usd"`
	Base  *float64 `json:"base"`
	Quote *float64 `json:"quote"`
}

// PairInfo carries the project links attached to a pair.
type PairInfo struct {
	Websites []PairLink `json:"websites"`
	Socials  []PairLink `json:"socials"`
}

// PairLink is a website (label) or social (type) link.
type PairLink struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}
