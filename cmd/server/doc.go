// Package main is the entry point for the boxlet MCP bridge.
//
// The bridge exposes remote sandboxed code execution as a Model Context
// Protocol (MCP) tool. Code submitted through the tool runs in an ephemeral
// sandbox provisioned on a boxlet server; the sandbox is stopped and
// released when the execution finishes.
//
// The application uses Uber's fx framework for dependency injection and
// lifecycle management, with zap for structured logging and viper for
// configuration.
package main
