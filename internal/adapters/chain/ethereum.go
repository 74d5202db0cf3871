package chain

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/params"
	"github.com/go-resty/resty/v2"
	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultMoralisURL is the Moralis EVM API v2.2.
const DefaultMoralisURL = "https://deep-index.moralis.io/api/v2.2"

const historyLimit = 25

// moralisChains are the chain identifiers Moralis accepts, by name and by hex id.
var moralisChains = map[string]struct{}{
	"eth": {}, "0x1": {}, "sepolia": {}, "0xaa36a7": {}, "holesky": {}, "0x4268": {},
	"polygon": {}, "0x89": {}, "amoy": {}, "0x13882": {},
	"bsc": {}, "0x38": {}, "bsc testnet": {}, "0x61": {},
	"avalanche": {}, "0xa86a": {},
	"fantom": {}, "0xfa": {},
	"cronos": {}, "0x19": {},
	"arbitrum": {}, "0xa4b1": {},
	"optimism": {}, "0xa": {},
	"base": {}, "0x2105": {}, "base sepolia": {}, "0x14a34": {},
	"linea": {}, "0xe708": {},
	"gnosis": {}, "0x64": {},
	"chiliz": {}, "0x15b38": {},
	"moonbeam": {}, "0x504": {},
	"ronin": {}, "0x7e4": {},
	"pulse": {}, "0x171": {},
}

// IndexedChainProvider reads EVM transactions and ERC-20 activity from Moralis.
type IndexedChainProvider struct {
	client *resty.Client
	log    *logger.Logger
}

func NewIndexedChainProvider(baseURL, apiKey string, log *logger.Logger) *IndexedChainProvider {
	if baseURL == "" {
		baseURL = DefaultMoralisURL
	}
	return &IndexedChainProvider{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Accept", "application/json").
			SetHeader("X-API-Key", apiKey),
		log: log.WithComponent("moralis_provider"),
	}
}

func (p *IndexedChainProvider) IsSupported(chain string) bool {
	_, ok := moralisChains[chain]
	return ok
}

type moralisTransaction struct {
	Hash           string  `json:"hash"`
	FromAddress    string  `json:"from_address"`
	ToAddress      *string `json:"to_address"`
	Value          string  `json:"value"`
	GasPrice       string  `json:"gas_price"`
	ReceiptGasUsed string  `json:"receipt_gas_used"`
	BlockTimestamp *string `json:"block_timestamp"`
}

type moralisVerboseTransaction struct {
	Logs []moralisLog `json:"logs"`
}

type moralisLog struct {
	Address      string               `json:"address"`
	DecodedEvent *moralisDecodedEvent `json:"decoded_event"`
}

type moralisDecodedEvent struct {
	Label  string              `json:"label"`
	Params []moralisEventParam `json:"params"`
}

type moralisEventParam struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

type moralisTransfersPage struct {
	Cursor string                 `json:"cursor"`
	Result []moralisERC20Transfer `json:"result"`
}

type moralisWalletHistory struct {
	Cursor string                      `json:"cursor"`
	Result []moralisHistoryTransaction `json:"result"`
}

type moralisHistoryTransaction struct {
	Hash           string `json:"hash"`
	BlockTimestamp string `json:"block_timestamp"`
	ReceiptStatus  string `json:"receipt_status"`
}

type moralisERC20Transfer struct {
	TokenSymbol    string `json:"token_symbol"`
	FromAddress    string `json:"from_address"`
	ToAddress      string `json:"to_address"`
	Value          string `json:"value"`
	BlockTimestamp string `json:"block_timestamp"`
}

// FetchTransaction loads a transaction and, concurrently, its decoded logs.
// Logs are best-effort; their failure only drops the token transfers.
func (p *IndexedChainProvider) FetchTransaction(ctx context.Context, chain, hash string) (*domain.ChainTransaction, error) {
	var (
		tx      moralisTransaction
		verbose moralisVerboseTransaction
		logsOK  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := p.client.R().
			SetContext(gctx).
			SetPathParam("hash", hash).
			SetQueryParam("chain", chain).
			SetResult(&tx).
			Get("/transaction/{hash}")
		if err != nil {
			return fmt.Errorf("moralis transaction request: %v: %w", err, domain.ErrUpstream)
		}
		switch {
		case resp.IsSuccess():
			return nil
		case resp.StatusCode() == http.StatusNotFound:
			return fmt.Errorf("moralis transaction %s: %w", hash, domain.ErrNotFound)
		default:
			return fmt.Errorf("moralis api returned status %d: %w", resp.StatusCode(), domain.ErrUpstream)
		}
	})
	g.Go(func() error {
		resp, err := p.client.R().
			SetContext(gctx).
			SetPathParam("hash", hash).
			SetQueryParam("chain", chain).
			SetResult(&verbose).
			Get("/transaction/{hash}/verbose")
		switch {
		case err != nil:
			p.log.Warn("moralis logs unavailable", zap.String("hash", hash), zap.Error(err))
		case !resp.IsSuccess():
			p.log.Warn("moralis logs unavailable", zap.String("hash", hash), zap.Int("status", resp.StatusCode()))
		default:
			logsOK = true
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var transfers []domain.TokenTransfer
	if logsOK {
		transfers = transferEvents(verbose.Logs)
	}

	fee := weiToEther(new(big.Int).Mul(parseWei(tx.ReceiptGasUsed), parseWei(tx.GasPrice)))

	txType := domain.TxTypeTransfer
	if len(transfers) > 1 {
		txType = domain.TxTypeSwap
	}

	to := "unknown"
	if tx.ToAddress != nil && *tx.ToAddress != "" {
		to = *tx.ToAddress
	}

	return &domain.ChainTransaction{
		Chain:       chain,
		Hash:        hash,
		From:        orUnknown(tx.FromAddress),
		To:          to,
		Timestamp:   tx.BlockTimestamp,
		Fee:         fee,
		NativeValue: weiToEther(parseWei(tx.Value)),
		Transfers:   transfers,
		Type:        txType,
	}, nil
}

// FetchTransfers summarises the latest ERC-20 transfers page of address.
func (p *IndexedChainProvider) FetchTransfers(ctx context.Context, chain, address string) (*domain.WalletActivity, error) {
	var page moralisTransfersPage
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("address", address).
		SetQueryParam("chain", chain).
		SetResult(&page).
		Get("/{address}/erc20/transfers")
	if err != nil {
		return nil, fmt.Errorf("moralis transfers request: %v: %w", err, domain.ErrUpstream)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("moralis api returned status %d: %w", resp.StatusCode(), domain.ErrUpstream)
	}

	activity := &domain.WalletActivity{
		Chain:   chain,
		Sampled: len(page.Result),
		Tokens:  []string{},
	}
	for _, t := range page.Result {
		if sameAddress(t.ToAddress, address) {
			activity.InCount++
		} else {
			activity.OutCount++
		}
		if t.TokenSymbol != "" {
			activity.Tokens = append(activity.Tokens, t.TokenSymbol)
		}
	}
	if n := len(page.Result); n > 0 {
		activity.FirstSeen = optional(page.Result[n-1].BlockTimestamp)
		activity.LastSeen = optional(page.Result[0].BlockTimestamp)
	}
	return activity, nil
}

// FetchSignatures lists the latest native transactions of address.
func (p *IndexedChainProvider) FetchSignatures(ctx context.Context, chain, address string) ([]domain.SignatureRef, error) {
	var page moralisWalletHistory
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("address", address).
		SetQueryParams(map[string]string{
			"chain": chain,
			"limit": strconv.Itoa(historyLimit),
		}).
		SetResult(&page).
		Get("/{address}")
	if err != nil {
		return nil, fmt.Errorf("moralis history request: %v: %w", err, domain.ErrUpstream)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("moralis api returned status %d: %w", resp.StatusCode(), domain.ErrUpstream)
	}

	refs := make([]domain.SignatureRef, 0, len(page.Result))
	for _, tx := range page.Result {
		refs = append(refs, domain.SignatureRef{
			Hash:      tx.Hash,
			Timestamp: optional(tx.BlockTimestamp),
			Failed:    tx.ReceiptStatus == "0",
		})
	}
	return refs, nil
}

func transferEvents(logs []moralisLog) []domain.TokenTransfer {
	var transfers []domain.TokenTransfer
	for _, l := range logs {
		if l.DecodedEvent == nil || l.DecodedEvent.Label != "Transfer" {
			continue
		}
		token := "unknown"
		if l.Address != "" {
			token = shortID(l.Address)
		}
		var amount float64
		if ps := l.DecodedEvent.Params; len(ps) > 2 {
			amount, _ = strconv.ParseFloat(ps[2].Value, 64)
		}
		transfers = append(transfers, domain.TokenTransfer{
			Token:     token,
			Amount:    amount,
			Direction: domain.DirectionTransfer,
		})
	}
	return transfers
}

// parseWei accepts decimal or 0x-prefixed integers; anything else is zero.
func parseWei(s string) *big.Int {
	v, ok := math.ParseBig256(strings.TrimSpace(s))
	if !ok || v == nil {
		return new(big.Int)
	}
	return v
}

func weiToEther(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, 0).Div(decimal.NewFromInt(params.Ether))
}

func sameAddress(a, b string) bool {
	if common.IsHexAddress(a) && common.IsHexAddress(b) {
		return common.HexToAddress(a) == common.HexToAddress(b)
	}
	return strings.EqualFold(a, b)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
