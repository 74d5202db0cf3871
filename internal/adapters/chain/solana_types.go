package chain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// parsedTransaction is the getTransaction result in jsonParsed encoding.
type parsedTransaction struct {
	Slot        int64          `json:"slot"`
	BlockTime   *int64         `json:"blockTime"`
	Meta        *parsedMeta    `json:"meta"`
	Transaction *parsedTxInner `json:"transaction"`
}

type parsedMeta struct {
	Err               json.RawMessage `json:"err"`
	Fee               uint64          `json:"fee"`
	PreBalances       []uint64        `json:"preBalances"`
	PostBalances      []uint64        `json:"postBalances"`
	PreTokenBalances  []tokenBalance  `json:"preTokenBalances"`
	PostTokenBalances []tokenBalance  `json:"postTokenBalances"`
}

type parsedTxInner struct {
	Signatures []string      `json:"signatures"`
	Message    parsedMessage `json:"message"`
}

type parsedMessage struct {
	AccountKeys  []accountKey  `json:"accountKeys"`
	Instructions []instruction `json:"instructions"`
}

// accountKey is an object in jsonParsed encoding and a bare string otherwise.
type accountKey struct {
	Pubkey   string `json:"pubkey"`
	Signer   bool   `json:"signer"`
	Writable bool   `json:"writable"`
}

func (k *accountKey) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &k.Pubkey)
	}
	type plain accountKey
	return json.Unmarshal(data, (*plain)(k))
}

type instruction struct {
	Program   string `json:"program"`
	ProgramID string `json:"programId"`
	// Parsed is an object for known programs and a string for e.g. memos.
	Parsed json.RawMessage `json:"parsed"`
}

func (ix instruction) parsedType() string {
	if len(ix.Parsed) == 0 || ix.Parsed[0] != '{' {
		return ""
	}
	var p struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(ix.Parsed, &p); err != nil {
		return ""
	}
	return p.Type
}

type tokenBalance struct {
	AccountIndex  int           `json:"accountIndex"`
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	UITokenAmount uiTokenAmount `json:"uiTokenAmount"`
}

type uiTokenAmount struct {
	Amount         string   `json:"amount"`
	Decimals       int      `json:"decimals"`
	UIAmount       *float64 `json:"uiAmount"`
	UIAmountString string   `json:"uiAmountString"`
}

// value prefers the exact string form; a null uiAmount counts as zero.
func (a uiTokenAmount) value() decimal.Decimal {
	if a.UIAmountString != "" {
		if d, err := decimal.NewFromString(a.UIAmountString); err == nil {
			return d
		}
	}
	if a.UIAmount != nil {
		return decimal.NewFromFloat(*a.UIAmount)
	}
	return decimal.Zero
}

// signatureInfo is one getSignaturesForAddress entry, newest first.
type signatureInfo struct {
	Signature string          `json:"signature"`
	Slot      int64           `json:"slot"`
	Err       json.RawMessage `json:"err"`
	BlockTime *int64          `json:"blockTime"`
}

func (s signatureInfo) succeeded() bool {
	return isNull(s.Err)
}
