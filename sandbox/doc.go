// Package sandbox provides handles for remotely-hosted code execution
// environments.
//
// A Sandbox represents one named sandbox on a boxlet server, scoped to a
// namespace. The handle owns the sandbox lifecycle (start, stop), submits
// code to its REPL, executes shell commands, and reads resource metrics.
// Each submitted snippet is represented by an Execution whose output is
// fetched lazily and cached on first access.
//
// Handles are intended for single-owner use. The lifecycle flag is kept in
// an atomic so racing starts and stops cannot corrupt it, but the package
// does not serialize overlapping calls against one sandbox; ordering between
// concurrent executions is left to the server.
package sandbox
