package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/isdmx/boxlet/config"
	"github.com/isdmx/boxlet/sandbox"
)

// MCPServer represents the MCP bridge server
type MCPServer struct {
	config    *config.Config
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// New creates a new MCPServer
func New(cfg *config.Config, logger *zap.Logger) (*MCPServer, error) {
	s := &MCPServer{
		config: cfg,
		logger: logger,
	}

	// Log configuration parameters on startup
	logger.Info("configuration loaded",
		zap.String("server.url", cfg.Server.URL),
		zap.String("server.namespace", cfg.Server.Namespace),
		zap.String("bridge.transport", cfg.Bridge.Transport),
		zap.Int("bridge.http_port", cfg.Bridge.HTTPPort),
		zap.Int("sandbox.memory_mb", cfg.Sandbox.MemoryMB),
		zap.Float64("sandbox.cpus", cfg.Sandbox.CPUs),
	)

	s.mcpServer = server.NewMCPServer("boxlet-bridge", "Remote sandboxed code execution")
	s.registerRunSandboxedCodeTool()

	return s, nil
}

// registerRunSandboxedCodeTool registers the run_sandboxed_code tool
func (s *MCPServer) registerRunSandboxedCodeTool() {
	tool := mcp.Tool{
		Name:        "run_sandboxed_code",
		Description: "Execute code in an ephemeral remote sandbox",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Source code to execute",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Runtime language",
					"enum":        []string{sandbox.Python.Tag(), sandbox.Node.Tag()},
				},
			},
			Required: []string{"code", "language"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleRunSandboxedCode)
}

// handleRunSandboxedCode handles the run_sandboxed_code tool
func (s *MCPServer) handleRunSandboxedCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	languageTag, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	lang, ok := sandbox.ByTag(languageTag)
	if !ok {
		return nil, fmt.Errorf("invalid language: %s, must be one of: %s, %s",
			languageTag, sandbox.Python.Tag(), sandbox.Node.Tag())
	}

	s.logger.Info("code execution requested", zap.String("language", languageTag))

	var stdout, stderr string
	err = sandbox.With(ctx, lang,
		func(ctx context.Context, sb *sandbox.Sandbox) error {
			exec, runErr := sb.Run(ctx, code)
			if runErr != nil {
				return runErr
			}
			if stdout, runErr = exec.Output(ctx); runErr != nil {
				return runErr
			}
			stderr, runErr = exec.ErrorOutput(ctx)
			return runErr
		},
		sandbox.WithServerURL(s.config.Server.URL),
		sandbox.WithAPIKey(s.config.Server.APIKey),
		sandbox.WithNamespace(s.config.Server.Namespace),
		sandbox.WithLogger(s.logger),
		sandbox.WithStartDefaults(
			sandbox.WithImage(s.config.Image(lang.Tag())),
			sandbox.WithMemory(s.config.Sandbox.MemoryMB),
			sandbox.WithCPUs(s.config.Sandbox.CPUs),
		),
	)
	if err != nil {
		s.logger.Error("sandboxed execution failed",
			zap.Error(err),
			zap.String("language", languageTag))
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf("Execution failed: %v", err),
				},
			},
			IsError: true,
		}, nil
	}

	s.logger.Info("code execution completed",
		zap.String("language", languageTag),
		zap.Int("stdout_len", len(stdout)),
		zap.Int("stderr_len", len(stderr)))

	resultJSON, err := json.Marshal(map[string]string{
		"stdout": stdout,
		"stderr": stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(resultJSON),
			},
		},
	}, nil
}

// ServeStdio starts the server on stdio
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP bridge on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the server on HTTP
func (s *MCPServer) ServeHTTP() error {
	port := s.config.Bridge.HTTPPort
	s.logger.Info("starting MCP bridge on HTTP", zap.Int("port", port))

	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return httpServer.Start(fmt.Sprintf(":%d", port))
}

// GetMCPServer returns the underlying MCP server for fx
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
