package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/isdmx/boxlet/config"
)

func testConfig(serverURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			URL:       serverURL,
			Namespace: "testing",
		},
		Bridge: config.BridgeConfig{
			Transport: "stdio",
			HTTPPort:  8080,
		},
		Sandbox: config.SandboxConfig{
			MemoryMB: 512,
			CPUs:     1.0,
		},
		Logging: config.LoggingConfig{
			Mode:  "production",
			Level: "info",
		},
	}
}

// newFakeBoxletServer answers the JSON-RPC methods the bridge exercises and
// records the methods it saw.
func newFakeBoxletServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))
		methods = append(methods, envelope.Method)

		var body string
		switch envelope.Method {
		case "sandbox.repl.run":
			body = `{"result":{"execution_id":"exec-1"}}`
		case "sandbox.repl.getOutput":
			body = `{"result":{"lines":[{"stream":"stdout","text":"42"},{"stream":"stderr","text":"warn"}]}}`
		default:
			body = `{"result":{}}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &methods
}

func TestNewMCPServer(t *testing.T) {
	logger := zaptest.NewLogger(t)
	cfg := testConfig("http://127.0.0.1:5555")

	server, err := New(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, server)
	assert.Equal(t, cfg, server.config)
	assert.Equal(t, logger, server.logger)
	assert.NotNil(t, server.GetMCPServer())
}

func TestHandleRunSandboxedCode(t *testing.T) {
	srv, methods := newFakeBoxletServer(t)
	server, err := New(testConfig(srv.URL), zaptest.NewLogger(t))
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Name = "run_sandboxed_code"
	req.Params.Arguments = map[string]any{
		"code":     "print(42)",
		"language": "python",
	}

	result, err := server.handleRunSandboxedCode(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	assert.Equal(t, "42", payload["stdout"])
	assert.Equal(t, "warn", payload["stderr"])

	// The bridge runs a full sandbox lifecycle around the execution.
	assert.Equal(t, []string{
		"sandbox.start",
		"sandbox.repl.run",
		"sandbox.repl.getOutput",
		"sandbox.stop",
	}, *methods)
}

func TestHandleRunSandboxedCodeInvalidLanguage(t *testing.T) {
	srv, methods := newFakeBoxletServer(t)
	server, err := New(testConfig(srv.URL), zaptest.NewLogger(t))
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Name = "run_sandboxed_code"
	req.Params.Arguments = map[string]any{
		"code":     "puts 42",
		"language": "ruby",
	}

	_, err = server.handleRunSandboxedCode(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid language")
	assert.Empty(t, *methods)
}

func TestHandleRunSandboxedCodeExecutionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var envelope struct {
			Method string `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&envelope))

		if envelope.Method == "sandbox.repl.run" {
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":{}}`))
	}))
	t.Cleanup(srv.Close)

	server, err := New(testConfig(srv.URL), zaptest.NewLogger(t))
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Name = "run_sandboxed_code"
	req.Params.Arguments = map[string]any{
		"code":     "print(42)",
		"language": "python",
	}

	result, err := server.handleRunSandboxedCode(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "quota exceeded")
}
