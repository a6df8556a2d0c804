// Package mcpserver bridges the boxlet SDK into the Model Context Protocol.
//
// The bridge exposes a run_sandboxed_code tool that provisions a sandbox on
// the configured boxlet server, runs the submitted code, and returns its
// output. It uses the mark3labs/mcp-go library for protocol handling and
// supports both stdio and HTTP transports.
package mcpserver
