package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"github.com/pumpbrain/pumpbrain/internal/core/domain"
)

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// rpcClient is a single-shot JSON-RPC client. It never retries.
type rpcClient struct {
	endpoint  string
	apiKey    string
	client    *resty.Client
	requestID atomic.Uint64
}

func newRPCClient(endpoint, apiKey string) *rpcClient {
	return &rpcClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   resty.New().SetHeader("Content-Type", "application/json"),
	}
}

// call performs method and returns the raw result, which is "null" when the
// node has nothing for the request. RPC error envelopes are returned as *rpcError.
func (c *rpcClient) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	req := c.client.R().
		SetContext(ctx).
		SetBody(rpcRequest{
			JSONRPC: "2.0",
			ID:      c.requestID.Add(1),
			Method:  method,
			Params:  params,
		})
	if c.apiKey != "" {
		req.SetQueryParam("api-key", c.apiKey)
	}

	resp, err := req.Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", method, stripURL(err), domain.ErrUpstream)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d: %w", method, resp.StatusCode(), domain.ErrUpstream)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(resp.Body(), &rpcResp); err != nil {
		return nil, fmt.Errorf("%s: unmarshal response: %v: %w", method, err, domain.ErrUpstream)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	if len(rpcResp.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return rpcResp.Result, nil
}

// stripURL drops the request URL from transport errors; it carries the API key.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request: %w", uerr.Op, uerr.Err)
	}
	return err
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
