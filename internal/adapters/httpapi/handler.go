package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/pumpbrain/pumpbrain/pkg/version"
	"go.uber.org/zap"
)

// Error messages returned to clients.
const (
	msgMethodNotAllowed = "Method Not Allowed"
	msgInvalidJSON      = "Invalid JSON body."
	msgInternal         = "Internal server error."
	msgTokenNotFound    = "Token not found on Dexscreener."
	msgTxNotFound       = "Transaction not found."
	msgWalletNotFound   = "Wallet not found."
)

type TokenAnalyzer interface {
	Analyze(ctx context.Context, address string) (*domain.TokenAnalysis, error)
}

type TransactionAnalyzer interface {
	Analyze(ctx context.Context, hash, chain string) (*domain.TransactionAnalysis, error)
}

type WalletAnalyzer interface {
	Analyze(ctx context.Context, address, chain string) (*domain.WalletAnalysis, error)
}

// Handler serves the three analysis endpoints.
type Handler struct {
	tokens  TokenAnalyzer
	txs     TransactionAnalyzer
	wallets WalletAnalyzer
	log     *logger.Logger
}

func NewHandler(tokens TokenAnalyzer, txs TransactionAnalyzer, wallets WalletAnalyzer, log *logger.Logger) *Handler {
	return &Handler{
		tokens:  tokens,
		txs:     txs,
		wallets: wallets,
		log:     log.WithComponent("http_handler"),
	}
}

type analyzeTokenRequest struct {
	Address string `json:"address"`
}

type analyzeTxRequest struct {
	Hash  string `json:"hash"`
	Chain string `json:"chain"`
}

type analyzeWalletRequest struct {
	Address string `json:"address"`
	Chain   string `json:"chain"`
}

// AnalyzeToken handles POST /api/analyze-token
func (h *Handler) AnalyzeToken(c *gin.Context) {
	var req analyzeTokenRequest
	if !bindBody(c, &req) {
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		missingField(c, "address")
		return
	}

	res, err := h.tokens.Analyze(c.Request.Context(), req.Address)
	if err != nil {
		h.fail(c, err, "", "address", msgTokenNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnalyzeTx handles POST /api/analyze-tx
func (h *Handler) AnalyzeTx(c *gin.Context) {
	var req analyzeTxRequest
	if !bindBody(c, &req) {
		return
	}
	if strings.TrimSpace(req.Hash) == "" {
		missingField(c, "hash")
		return
	}

	res, err := h.txs.Analyze(c.Request.Context(), req.Hash, req.Chain)
	if err != nil {
		h.fail(c, err, req.Chain, "hash", msgTxNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnalyzeWallet handles POST /api/analyze-wallet
func (h *Handler) AnalyzeWallet(c *gin.Context) {
	var req analyzeWalletRequest
	if !bindBody(c, &req) {
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		missingField(c, "address")
		return
	}

	res, err := h.wallets.Analyze(c.Request.Context(), req.Address, req.Chain)
	if err != nil {
		h.fail(c, err, req.Chain, "address", msgWalletNotFound)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"build":  version.GetBuildInfo(),
	})
}

// bindBody decodes the JSON body into req. An empty body counts as {}.
func bindBody(c *gin.Context, req interface{}) bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return true
	}
	if err := binding.JSON.BindBody(body, req); err != nil {
		errorJSON(c, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

func missingField(c *gin.Context, field string) {
	errorJSON(c, http.StatusBadRequest, "Missing required field: "+field)
}

// fail maps a service error to a response. field names the identifier the
// endpoint requires.
func (h *Handler) fail(c *gin.Context, err error, chain, field, notFound string) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedChain):
		errorJSON(c, http.StatusBadRequest, "Unsupported chain: "+domain.NormalizeChain(chain))
	case errors.Is(err, domain.ErrBadRequest):
		missingField(c, field)
	case errors.Is(err, domain.ErrNotFound):
		h.log.Info("not found", zap.String("path", c.FullPath()), zap.Error(err))
		errorJSON(c, http.StatusNotFound, notFound)
	default:
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, msgInternal)
	}
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
