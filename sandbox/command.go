package sandbox

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// CommandExecution is the result of one shell command run in a sandbox.
// Unlike code executions, command results arrive inline with the call; there
// is no separate output fetch.
type CommandExecution struct {
	Command  string   `json:"command"`
	Args     []string `json:"args"`
	ExitCode int      `json:"exit_code"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// Success reports whether the command exited with code zero.
func (c CommandExecution) Success() bool {
	return c.ExitCode == 0
}

type commandParams struct {
	Sandbox   string   `json:"sandbox"`
	Namespace string   `json:"namespace"`
	Command   string   `json:"command"`
	Args      []string `json:"args"`
	Timeout   int      `json:"timeout,omitempty"`
}

// Command runs a shell command in the sandbox and returns its result. The
// sandbox must be started. timeoutSec limits the command's runtime on the
// server; zero leaves the server default in place.
func (s *Sandbox) Command(ctx context.Context, command string, args []string, timeoutSec int) (CommandExecution, error) {
	if !s.started.Load() {
		return CommandExecution{}, ErrNotStarted
	}
	if args == nil {
		args = []string{}
	}

	params := commandParams{
		Sandbox:   s.name,
		Namespace: s.namespace,
		Command:   command,
		Args:      args,
		Timeout:   timeoutSec,
	}

	raw, err := s.client.Call(ctx, "sandbox.command.execute", params)
	if err != nil {
		return CommandExecution{}, fmt.Errorf("%w: %w", ErrCommandFailed, err)
	}

	var result CommandExecution
	if err := json.Unmarshal(raw, &result); err != nil {
		return CommandExecution{}, fmt.Errorf("%w: failed to decode result: %w", ErrCommandFailed, err)
	}

	s.logger.Debug("command executed",
		zap.String("sandbox", s.name),
		zap.String("command", command),
		zap.Int("exit_code", result.ExitCode),
	)

	return result, nil
}
