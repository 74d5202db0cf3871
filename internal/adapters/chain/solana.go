package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultSolanaRPCURL is Helius mainnet; the API key is sent as a query parameter.
const DefaultSolanaRPCURL = "https://mainnet.helius-rpc.com/"

const (
	signatureLimit   = 25
	sampledTxLimit   = 5
	tokenIDLength    = 8
	signatureBytes   = 64
	lamportsExponent = -9
	timestampLayout  = "2006-01-02T15:04:05.000Z"
)

var getTransactionOpts = map[string]interface{}{
	"encoding":                       "jsonParsed",
	"maxSupportedTransactionVersion": 0,
}

// NativeChainProvider reads Solana transactions and wallet activity
// straight from a JSON-RPC node.
type NativeChainProvider struct {
	rpc *rpcClient
	log *logger.Logger
}

func NewNativeChainProvider(rpcURL, apiKey string, log *logger.Logger) *NativeChainProvider {
	if rpcURL == "" {
		rpcURL = DefaultSolanaRPCURL
	}
	return &NativeChainProvider{
		rpc: newRPCClient(rpcURL, apiKey),
		log: log.WithComponent("solana_provider"),
	}
}

func (p *NativeChainProvider) IsSupported(chain string) bool {
	return domain.IsSolanaChain(chain)
}

// FetchTransaction loads a transaction by signature.
func (p *NativeChainProvider) FetchTransaction(ctx context.Context, _ string, hash string) (*domain.ChainTransaction, error) {
	tx, err := p.getTransaction(ctx, hash)
	if err != nil {
		return nil, err
	}

	ct := &domain.ChainTransaction{
		Chain:     domain.DefaultChain,
		Hash:      hash,
		From:      tx.accountKey(0),
		To:        tx.accountKey(1),
		Timestamp: formatBlockTime(tx.BlockTime),
		Type:      domain.TxTypeUnknown,
	}
	if tx.Meta != nil {
		ct.Fee = lamportsToSOL(decimal.NewFromUint64(tx.Meta.Fee))
		ct.NativeValue = lamportsToSOL(feePayerSpend(tx.Meta))
		ct.Transfers = tokenTransfers(tx.Meta)
	}
	ct.Type = classify(tx.instructions(), len(ct.Transfers))
	return ct, nil
}

// FetchSignatures lists up to 25 recent signatures of address.
func (p *NativeChainProvider) FetchSignatures(ctx context.Context, _ string, address string) ([]domain.SignatureRef, error) {
	sigs, err := p.signatures(ctx, address)
	if err != nil {
		return nil, err
	}
	refs := make([]domain.SignatureRef, 0, len(sigs))
	for _, s := range sigs {
		refs = append(refs, domain.SignatureRef{
			Hash:      s.Signature,
			Timestamp: formatBlockTime(s.BlockTime),
			Failed:    !s.succeeded(),
		})
	}
	return refs, nil
}

// FetchTransfers samples the most recent signatures of address.
func (p *NativeChainProvider) FetchTransfers(ctx context.Context, _ string, address string) (*domain.WalletActivity, error) {
	sigs, err := p.signatures(ctx, address)
	if err != nil {
		return nil, err
	}

	activity := &domain.WalletActivity{
		Chain:   domain.DefaultChain,
		Sampled: len(sigs),
		Tokens:  []string{},
	}
	if len(sigs) == 0 {
		return activity, nil
	}
	activity.FirstSeen = formatBlockTime(sigs[len(sigs)-1].BlockTime)
	activity.LastSeen = formatBlockTime(sigs[0].BlockTime)

	sample := sigs
	if len(sample) > sampledTxLimit {
		sample = sample[:sampledTxLimit]
	}
	details := gather(ctx, sample,
		func(ctx context.Context, s signatureInfo) (*parsedTransaction, error) {
			return p.getTransaction(ctx, s.Signature)
		},
		func(s signatureInfo, err error) {
			p.log.Debug("skipping sampled transaction", zap.String("signature", s.Signature), zap.Error(err))
		},
	)

	for _, tx := range details {
		if tx.Meta == nil {
			continue
		}
		for _, b := range tx.Meta.PostTokenBalances {
			if b.Mint != "" {
				activity.Tokens = append(activity.Tokens, shortID(b.Mint))
			}
		}
		if !isNull(tx.Meta.Err) {
			continue
		}
		switch walletDirection(tx, address) {
		case domain.DirectionIn:
			activity.InCount++
		case domain.DirectionOut:
			activity.OutCount++
		}
	}
	return activity, nil
}

func (p *NativeChainProvider) signatures(ctx context.Context, address string) ([]signatureInfo, error) {
	raw, err := p.rpc.call(ctx, "getSignaturesForAddress", address, map[string]interface{}{"limit": signatureLimit})
	if err != nil {
		// An error envelope reads as an empty history, same as a missing result.
		var rerr *rpcError
		if errors.As(err, &rerr) {
			p.log.Warn("signature listing rejected", zap.String("address", address), zap.Int("code", rerr.Code))
			return nil, nil
		}
		return nil, err
	}

	var sigs []signatureInfo
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &sigs); err != nil {
			return nil, fmt.Errorf("decode signatures: %v: %w", err, domain.ErrUpstream)
		}
	}
	return sigs, nil
}

func (p *NativeChainProvider) getTransaction(ctx context.Context, signature string) (*parsedTransaction, error) {
	if !validSignature(signature) {
		return nil, fmt.Errorf("invalid signature %q: %w", signature, domain.ErrNotFound)
	}

	raw, err := p.rpc.call(ctx, "getTransaction", signature, getTransactionOpts)
	if err != nil {
		var rerr *rpcError
		if errors.As(err, &rerr) {
			return nil, fmt.Errorf("getTransaction: %v: %w", rerr, domain.ErrNotFound)
		}
		return nil, err
	}
	if isNull(raw) {
		return nil, fmt.Errorf("transaction %s: %w", signature, domain.ErrNotFound)
	}

	var tx parsedTransaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %v: %w", err, domain.ErrUpstream)
	}
	return &tx, nil
}

func validSignature(sig string) bool {
	b, err := base58.Decode(sig)
	return err == nil && len(b) == signatureBytes
}

func (tx *parsedTransaction) accountKey(i int) string {
	if tx.Transaction == nil || i >= len(tx.Transaction.Message.AccountKeys) {
		return "unknown"
	}
	if k := tx.Transaction.Message.AccountKeys[i].Pubkey; k != "" {
		return k
	}
	return "unknown"
}

func (tx *parsedTransaction) instructions() []instruction {
	if tx.Transaction == nil {
		return nil
	}
	return tx.Transaction.Message.Instructions
}

// tokenTransfers pairs post and pre token balances by account index.
func tokenTransfers(meta *parsedMeta) []domain.TokenTransfer {
	pre := make(map[int]tokenBalance, len(meta.PreTokenBalances))
	for _, b := range meta.PreTokenBalances {
		pre[b.AccountIndex] = b
	}

	var transfers []domain.TokenTransfer
	for _, post := range meta.PostTokenBalances {
		before, ok := pre[post.AccountIndex]
		if !ok {
			continue
		}
		diff := post.UITokenAmount.value().Sub(before.UITokenAmount.value())
		if diff.IsZero() {
			continue
		}
		direction := domain.DirectionOut
		if diff.IsPositive() {
			direction = domain.DirectionIn
		}
		transfers = append(transfers, domain.TokenTransfer{
			Token:     shortID(post.Mint),
			Amount:    diff.Abs().InexactFloat64(),
			Direction: direction,
		})
	}
	return transfers
}

func classify(ixs []instruction, transfers int) domain.TxType {
	tokenIx := false
	for _, ix := range ixs {
		if ix.Program == "spl-token" || ix.parsedType() == "transfer" {
			tokenIx = true
			break
		}
	}
	switch {
	case tokenIx && transfers >= 2:
		return domain.TxTypeSwap
	case tokenIx:
		return domain.TxTypeTransfer
	default:
		return domain.TxTypeUnknown
	}
}

// feePayerSpend is the lamports the fee payer sent away, excluding the fee.
func feePayerSpend(meta *parsedMeta) decimal.Decimal {
	if len(meta.PreBalances) == 0 || len(meta.PostBalances) == 0 {
		return decimal.Zero
	}
	spent := decimal.NewFromUint64(meta.PreBalances[0]).
		Sub(decimal.NewFromUint64(meta.PostBalances[0])).
		Sub(decimal.NewFromUint64(meta.Fee))
	if spent.IsNegative() {
		return decimal.Zero
	}
	return spent
}

// walletDirection decides whether a transaction moved value into or out of
// address. Token balances owned by address win over its SOL balance.
func walletDirection(tx *parsedTransaction, address string) string {
	meta := tx.Meta

	pre := make(map[int]decimal.Decimal)
	for _, b := range meta.PreTokenBalances {
		if b.Owner == address {
			pre[b.AccountIndex] = b.UITokenAmount.value()
		}
	}
	gained, lost := 0, 0
	for _, b := range meta.PostTokenBalances {
		if b.Owner != address {
			continue
		}
		delta := b.UITokenAmount.value().Sub(pre[b.AccountIndex])
		delete(pre, b.AccountIndex)
		switch {
		case delta.IsPositive():
			gained++
		case delta.IsNegative():
			lost++
		}
	}
	// Accounts closed during the transaction only appear in pre balances.
	for _, amount := range pre {
		if amount.IsPositive() {
			lost++
		}
	}
	switch {
	case gained > lost:
		return domain.DirectionIn
	case lost > gained:
		return domain.DirectionOut
	}

	if tx.Transaction == nil {
		return ""
	}
	idx := -1
	for i, k := range tx.Transaction.Message.AccountKeys {
		if k.Pubkey == address {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(meta.PreBalances) || idx >= len(meta.PostBalances) {
		return ""
	}
	delta := decimal.NewFromUint64(meta.PostBalances[idx]).Sub(decimal.NewFromUint64(meta.PreBalances[idx]))
	if idx == 0 {
		delta = delta.Add(decimal.NewFromUint64(meta.Fee))
	}
	switch {
	case delta.IsPositive():
		return domain.DirectionIn
	case delta.IsNegative():
		return domain.DirectionOut
	default:
		return ""
	}
}

func lamportsToSOL(lamports decimal.Decimal) decimal.Decimal {
	return lamports.Shift(lamportsExponent)
}

func formatBlockTime(bt *int64) *string {
	if bt == nil {
		return nil
	}
	s := time.Unix(*bt, 0).UTC().Format(timestampLayout)
	return &s
}

func shortID(id string) string {
	if len(id) > tokenIDLength {
		return id[:tokenIDLength]
	}
	return id
}
