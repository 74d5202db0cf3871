package service

import (
	"context"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/shopspring/decimal"
)

type fakeMarket struct {
	pairs []domain.TradingPair
	err   error
	calls int
}

func (f *fakeMarket) GetPairs(_ context.Context, _ string) ([]domain.TradingPair, error) {
	f.calls++
	return f.pairs, f.err
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type fakeOracle struct {
	price decimal.Decimal
	err   error
}

func (f *fakeOracle) NativePriceUSD(_ context.Context, _ string) (decimal.Decimal, error) {
	return f.price, f.err
}

type fakeProvider struct {
	chains     map[string]bool
	tx         *domain.ChainTransaction
	activity   *domain.WalletActivity
	signatures []domain.SignatureRef
	err        error
	calls      []string
}

func (f *fakeProvider) IsSupported(chain string) bool {
	return f.chains[chain]
}

func (f *fakeProvider) FetchTransaction(_ context.Context, chain, hash string) (*domain.ChainTransaction, error) {
	f.calls = append(f.calls, "tx:"+chain+":"+hash)
	return f.tx, f.err
}

func (f *fakeProvider) FetchTransfers(_ context.Context, chain, address string) (*domain.WalletActivity, error) {
	f.calls = append(f.calls, "transfers:"+chain+":"+address)
	return f.activity, f.err
}

func (f *fakeProvider) FetchSignatures(_ context.Context, chain, address string) ([]domain.SignatureRef, error) {
	f.calls = append(f.calls, "signatures:"+chain+":"+address)
	return f.signatures, f.err
}

func ptr[T any](v T) *T { return &v }
