package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// rpcPath is the fixed endpoint every method is posted to.
const rpcPath = "/api/v1/rpc"

// Caller issues a single JSON-RPC call and returns the raw result payload.
// It exists so the sandbox layer can be tested against a fake transport.
type Caller interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// Client is a JSON-RPC 2.0 client bound to one server base URL. It is safe
// for concurrent use; the underlying http.Client pools connections.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http.Client used for requests. The default client
// has no timeout; callers bound request lifetimes through the context.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIKey sets the bearer credential attached to every request. An empty
// key disables the Authorization header.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		c.apiKey = apiKey
	}
}

// WithLogger sets the logger for request-level debug logging.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the given server base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request is the JSON-RPC 2.0 request envelope.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      string `json:"id"`
}

// response is the JSON-RPC 2.0 response envelope. The id is not validated;
// requests and responses are matched by the HTTP exchange itself.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Call posts one JSON-RPC request and returns the result payload. A missing
// result field yields an empty JSON object. Failures are classified as
// *TransportError (network or non-200) or *Error (server error object).
// No retries are attempted.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpcPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.logger.Debug("issuing RPC call", zap.String("method", method))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		raw, readErr := io.ReadAll(httpResp.Body)
		if readErr != nil {
			c.logger.Warn("failed to read error response body", zap.Error(readErr))
		}
		return nil, &TransportError{StatusCode: httpResp.StatusCode, Body: string(raw)}
	}

	var resp response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Error != nil {
		c.logger.Debug("RPC call returned error",
			zap.String("method", method),
			zap.String("message", resp.Error.Message))
		return nil, &Error{Message: resp.Error.Message}
	}

	if resp.Result == nil {
		return json.RawMessage("{}"), nil
	}
	return resp.Result, nil
}

// Close releases idle connections held by the transport.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
