package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/isdmx/boxlet/rpc"
)

// Output line stream names as they appear on the wire.
const (
	StreamStdout = "stdout"
	StreamStderr = "stderr"
)

// OutputLine is one line of output captured from an execution, tagged with
// the stream it was written to.
type OutputLine struct {
	Stream string `json:"stream"`
	Text   string `json:"text"`
}

// Execution represents one code submission to a sandbox. It holds a
// non-owning reference to the sandbox's transport; closing is always the
// sandbox's job.
//
// Output lines are fetched from the server at most once: the first call to
// Output (or ErrorOutput or Lines) issues a single sandbox.repl.getOutput
// call and caches the result. Later server-side changes are never observed.
type Execution struct {
	sandbox     string
	namespace   string
	executionID string
	client      rpc.Caller
	logger      *zap.Logger

	fetched bool
	lines   []OutputLine
}

// ID returns the server-assigned execution id. It may be empty when the
// server did not assign one.
func (e *Execution) ID() string {
	return e.executionID
}

type outputParams struct {
	Sandbox     string `json:"sandbox"`
	Namespace   string `json:"namespace"`
	ExecutionID string `json:"execution_id"`
}

func (e *Execution) ensureFetched(ctx context.Context) error {
	if e.fetched {
		return nil
	}

	// No server-assigned id means there is no output to retrieve; that is
	// not an error condition.
	if e.executionID == "" {
		e.fetched = true
		return nil
	}

	params := outputParams{
		Sandbox:     e.sandbox,
		Namespace:   e.namespace,
		ExecutionID: e.executionID,
	}
	raw, err := e.client.Call(ctx, "sandbox.repl.getOutput", params)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputFetchFailed, err)
	}

	var result struct {
		Lines []OutputLine `json:"lines"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("%w: failed to decode result: %w", ErrOutputFetchFailed, err)
	}

	e.logger.Debug("fetched execution output",
		zap.String("execution_id", e.executionID),
		zap.Int("lines", len(result.Lines)),
	)

	e.lines = result.Lines
	e.fetched = true
	return nil
}

// Output returns what the execution printed to stdout: the text of every
// stdout line joined by newlines. On the first call the output is fetched
// from the server; a fetch failure leaves the handle unfetched so a later
// call retries.
func (e *Execution) Output(ctx context.Context) (string, error) {
	if err := e.ensureFetched(ctx); err != nil {
		return "", err
	}
	return e.joinStream(StreamStdout), nil
}

// ErrorOutput returns what the execution printed to stderr, joined by
// newlines. It shares the cached fetch with Output.
func (e *Execution) ErrorOutput(ctx context.Context) (string, error) {
	if err := e.ensureFetched(ctx); err != nil {
		return "", err
	}
	return e.joinStream(StreamStderr), nil
}

// Lines returns every captured output line in order, both streams
// interleaved as the server reported them.
func (e *Execution) Lines(ctx context.Context) ([]OutputLine, error) {
	if err := e.ensureFetched(ctx); err != nil {
		return nil, err
	}
	return e.lines, nil
}

func (e *Execution) joinStream(stream string) string {
	var texts []string
	for _, line := range e.lines {
		if line.Stream == stream {
			texts = append(texts, line.Text)
		}
	}
	return strings.Join(texts, "\n")
}
