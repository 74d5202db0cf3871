package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeTokens struct {
	calls int
	got   string
	res   *domain.TokenAnalysis
	err   error
}

func (f *fakeTokens) Analyze(_ context.Context, address string) (*domain.TokenAnalysis, error) {
	f.calls++
	f.got = address
	return f.res, f.err
}

type fakeTxs struct {
	calls     int
	hash      string
	chain     string
	res       *domain.TransactionAnalysis
	err       error
	panicWith string
}

func (f *fakeTxs) Analyze(_ context.Context, hash, chain string) (*domain.TransactionAnalysis, error) {
	if f.panicWith != "" {
		panic(f.panicWith)
	}
	f.calls++
	f.hash, f.chain = hash, chain
	return f.res, f.err
}

type fakeWallets struct {
	calls int
	chain string
	res   *domain.WalletAnalysis
	err   error
}

func (f *fakeWallets) Analyze(_ context.Context, _ string, chain string) (*domain.WalletAnalysis, error) {
	f.calls++
	f.chain = chain
	return f.res, f.err
}

type fixture struct {
	tokens  *fakeTokens
	txs     *fakeTxs
	wallets *fakeWallets
	router  *gin.Engine
}

func newFixture() *fixture {
	f := &fixture{tokens: &fakeTokens{}, txs: &fakeTxs{}, wallets: &fakeWallets{}}
	ui := fstest.MapFS{
		"index.html":        {Data: []byte("<html>pumpbrain</html>")},
		"assets/app.js":     {Data: []byte("console.log(1)")},
		"assets/styles.css": {Data: []byte("body{}")},
	}
	h := NewHandler(f.tokens, f.txs, f.wallets, logger.NewNop())
	f.router = NewRouter(h, ui, logger.NewNop())
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestAnalyzeToken_OK(t *testing.T) {
	f := newFixture()
	f.tokens.res = &domain.TokenAnalysis{Summary: "ok", RiskScore: 3, Pros: []string{}, Cons: []string{}}

	w := f.do(http.MethodPost, "/api/analyze-token", `{"address":"So11111111111111111111111111111111111111112"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "So11111111111111111111111111111111111111112", f.tokens.got)
	var got domain.TokenAnalysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Summary)
	assert.Equal(t, 3.0, got.RiskScore)
}

func TestBadRequests_NeverCallUpstream(t *testing.T) {
	tests := []struct {
		path, body, want string
	}{
		{"/api/analyze-token", `{}`, "Missing required field: address"},
		{"/api/analyze-token", ``, "Missing required field: address"},
		{"/api/analyze-token", `{"address":"   "}`, "Missing required field: address"},
		{"/api/analyze-token", `{"address":`, "Invalid JSON body."},
		{"/api/analyze-token", `[1,2]`, "Invalid JSON body."},
		{"/api/analyze-tx", `{"chain":"eth"}`, "Missing required field: hash"},
		{"/api/analyze-tx", `not json`, "Invalid JSON body."},
		{"/api/analyze-wallet", `{"chain":"solana"}`, "Missing required field: address"},
		{"/api/analyze-wallet", `{"address": 42}`, "Invalid JSON body."},
	}
	for _, tt := range tests {
		t.Run(tt.path+" "+tt.body, func(t *testing.T) {
			f := newFixture()
			w := f.do(http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorOf(t, w))
			assert.Zero(t, f.tokens.calls+f.txs.calls+f.wallets.calls)
		})
	}
}

func TestWrongMethod(t *testing.T) {
	f := newFixture()
	for _, path := range []string{"/api/analyze-token", "/api/analyze-tx", "/api/analyze-wallet"} {
		w := f.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
		assert.Equal(t, "Method Not Allowed", errorOf(t, w))
	}
	assert.Zero(t, f.tokens.calls+f.txs.calls+f.wallets.calls)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		err    error
		status int
		want   string
	}{
		{"token not found", "/api/analyze-token", `{"address":"x"}`, fmt.Errorf("no pairs: %w", domain.ErrNotFound), http.StatusNotFound, "Token not found on Dexscreener."},
		{"tx not found", "/api/analyze-tx", `{"hash":"x"}`, domain.ErrNotFound, http.StatusNotFound, "Transaction not found."},
		{"wallet not found", "/api/analyze-wallet", `{"address":"x"}`, domain.ErrNotFound, http.StatusNotFound, "Wallet not found."},
		{"unsupported chain", "/api/analyze-tx", `{"hash":"x","chain":"DogeChain"}`, domain.ErrUnsupportedChain, http.StatusBadRequest, "Unsupported chain: dogechain"},
		{"token rejected by service", "/api/analyze-token", `{"address":"x"}`, fmt.Errorf("%w: missing address", domain.ErrBadRequest), http.StatusBadRequest, "Missing required field: address"},
		{"tx rejected by service", "/api/analyze-tx", `{"hash":"x"}`, fmt.Errorf("%w: missing hash", domain.ErrBadRequest), http.StatusBadRequest, "Missing required field: hash"},
		{"wallet rejected by service", "/api/analyze-wallet", `{"address":"x"}`, fmt.Errorf("%w: missing address", domain.ErrBadRequest), http.StatusBadRequest, "Missing required field: address"},
		{"upstream", "/api/analyze-wallet", `{"address":"x"}`, fmt.Errorf("moralis: %w", domain.ErrUpstream), http.StatusInternalServerError, "Internal server error."},
		{"unexpected", "/api/analyze-token", `{"address":"x"}`, errors.New("boom"), http.StatusInternalServerError, "Internal server error."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.tokens.err, f.txs.err, f.wallets.err = tt.err, tt.err, tt.err

			w := f.do(http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.want, errorOf(t, w))
		})
	}
}

func TestUpstreamDetailNotLeaked(t *testing.T) {
	f := newFixture()
	f.txs.err = fmt.Errorf("getTransaction: api-key=secret: %w", domain.ErrUpstream)

	w := f.do(http.MethodPost, "/api/analyze-tx", `{"hash":"abc"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestChainIsPassedThrough(t *testing.T) {
	f := newFixture()
	f.txs.res = &domain.TransactionAnalysis{Actions: []string{}, RiskNotes: []string{}}
	f.wallets.res = &domain.WalletAnalysis{}

	w := f.do(http.MethodPost, "/api/analyze-tx", `{"hash":"0xabc","chain":"base"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0xabc", f.txs.hash)
	assert.Equal(t, "base", f.txs.chain)

	w = f.do(http.MethodPost, "/api/analyze-wallet", `{"address":"abc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", f.wallets.chain)
}

func TestPanicBecomesInternalError(t *testing.T) {
	f := newFixture()
	f.txs.panicWith = "kaboom"

	w := f.do(http.MethodPost, "/api/analyze-tx", `{"hash":"abc"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error.", errorOf(t, w))
}

func TestHealthAndUI(t *testing.T) {
	f := newFixture()

	w := f.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health struct {
		Status string `json:"status"`
		Build  struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"build"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "PumpBrain", health.Build.Name)
	assert.NotEmpty(t, health.Build.Version)

	w = f.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pumpbrain")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	w = f.do(http.MethodGet, "/assets/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())
}
