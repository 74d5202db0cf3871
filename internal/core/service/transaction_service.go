package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"go.uber.org/zap"
)

// TransactionService explains single transactions on any supported chain.
type TransactionService struct {
	providers []domain.ChainDataProvider
	prices    domain.PriceOracle
	narrator  *narrator[domain.TransactionAnalysis]
	log       *logger.Logger
}

func NewTransactionService(
	providers []domain.ChainDataProvider,
	prices domain.PriceOracle,
	generator domain.TextGenerator,
	log *logger.Logger,
) *TransactionService {
	log = log.WithComponent("transaction_service")
	return &TransactionService{
		providers: providers,
		prices:    prices,
		log:       log,
		narrator: &narrator[domain.TransactionAnalysis]{
			generator: generator,
			log:       log,
		},
	}
}

// BuildContext fetches the transaction from the provider serving chain and
// prices its fee and native value in USD.
func (s *TransactionService) BuildContext(ctx context.Context, hash, chain string) (*domain.TransactionContext, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, fmt.Errorf("%w: missing hash", domain.ErrBadRequest)
	}
	chain = domain.NormalizeChain(chain)

	provider, err := providerFor(s.providers, chain)
	if err != nil {
		return nil, err
	}

	tx, err := provider.FetchTransaction(ctx, chain, hash)
	if err != nil {
		return nil, fmt.Errorf("fetch transaction %s on %s: %w", hash, chain, err)
	}

	price, err := s.prices.NativePriceUSD(ctx, chain)
	if err != nil {
		return nil, fmt.Errorf("native price for %s: %w", chain, err)
	}

	transfers := tx.Transfers
	if len(transfers) > domain.MaxTokenTransfers {
		transfers = transfers[:domain.MaxTokenTransfers]
	}
	if transfers == nil {
		transfers = []domain.TokenTransfer{}
	}
	txType := tx.Type
	if txType == "" {
		txType = domain.TxTypeUnknown
	}

	return &domain.TransactionContext{
		Chain:           orDefault(tx.Chain, chain),
		Hash:            hash,
		From:            orUnknown(tx.From),
		To:              orUnknown(tx.To),
		Timestamp:       tx.Timestamp,
		NativeAmountUSD: tx.NativeValue.Mul(price).InexactFloat64(),
		FeeUSD:          tx.Fee.Mul(price).Round(4).InexactFloat64(),
		TokenTransfers:  transfers,
		DecodedType:     txType,
	}, nil
}

// Analyze builds the transaction context and returns the model's explanation.
func (s *TransactionService) Analyze(ctx context.Context, hash, chain string) (*domain.TransactionAnalysis, error) {
	tc, err := s.BuildContext(ctx, hash, chain)
	if err != nil {
		return nil, err
	}

	contextJSON, err := marshalContext(tc)
	if err != nil {
		return nil, err
	}

	s.log.Debug("transaction context built",
		zap.String("chain", tc.Chain),
		zap.String("hash", tc.Hash),
		zap.String("decoded_type", string(tc.DecodedType)),
		zap.Int("transfers", len(tc.TokenTransfers)),
	)

	return s.narrator.narrate(ctx, transactionPrompt(contextJSON),
		func() domain.TransactionAnalysis { return degradedTransactionAnalysis(tc.FeeUSD) },
		func(a *domain.TransactionAnalysis) {
			a.Actions = nonNil(a.Actions)
			a.RiskNotes = nonNil(a.RiskNotes)
		},
	)
}

func orUnknown(s string) string {
	return orDefault(s, "unknown")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func degradedTransactionAnalysis(feeUSD float64) domain.TransactionAnalysis {
	return domain.TransactionAnalysis{
		Summary: "Unable to fully decode this transaction, but it involved some on-chain activity.",
		Actions: []string{},
		FeeUSD:  feeUSD,
		RiskNotes: []string{
			"AI output could not be parsed; treat this as unknown risk.",
			"Always verify the contract and transaction details directly on a block explorer.",
		},
	}
}
