package sandbox

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdmx/boxlet/rpc"
)

func startedSandbox(t *testing.T, fake *fakeCaller) *Sandbox {
	t.Helper()
	sb := newTestSandbox(t, Python, fake)
	require.NoError(t, sb.Start(context.Background()))
	return sb
}

func TestOutputFetchedOnce(t *testing.T) {
	fake := &fakeCaller{results: map[string]json.RawMessage{
		"sandbox.repl.run":       json.RawMessage(`{"execution_id":"exec-1"}`),
		"sandbox.repl.getOutput": json.RawMessage(`{"lines":[{"stream":"stdout","text":"hello"}]}`),
	}}
	sb := startedSandbox(t, fake)

	exec, err := sb.Run(context.Background(), "print('hello')")
	require.NoError(t, err)

	out, err := exec.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	out, err = exec.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	assert.Equal(t, 1, fake.count("sandbox.repl.getOutput"))
}

func TestOutputStreamFiltering(t *testing.T) {
	fake := &fakeCaller{results: map[string]json.RawMessage{
		"sandbox.repl.run": json.RawMessage(`{"execution_id":"exec-1"}`),
		"sandbox.repl.getOutput": json.RawMessage(
			`{"lines":[{"stream":"stdout","text":"a"},{"stream":"stderr","text":"err"},{"stream":"stdout","text":"b"}]}`),
	}}
	sb := startedSandbox(t, fake)

	exec, err := sb.Run(context.Background(), "print('a')")
	require.NoError(t, err)

	out, err := exec.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a\nb", out)

	errOut, err := exec.ErrorOutput(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "err", errOut)

	lines, err := exec.Lines(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, OutputLine{Stream: StreamStderr, Text: "err"}, lines[1])

	// All three accessors share one fetch.
	assert.Equal(t, 1, fake.count("sandbox.repl.getOutput"))
}

func TestOutputEmptyExecutionID(t *testing.T) {
	fake := &fakeCaller{} // run returns {} with no execution_id
	sb := startedSandbox(t, fake)

	exec, err := sb.Run(context.Background(), "pass")
	require.NoError(t, err)

	out, err := exec.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, 0, fake.count("sandbox.repl.getOutput"))
}

func TestOutputWireFormat(t *testing.T) {
	fake := &fakeCaller{results: map[string]json.RawMessage{
		"sandbox.repl.run": json.RawMessage(`{"execution_id":"exec-42"}`),
	}}
	sb := startedSandbox(t, fake)

	exec, err := sb.Run(context.Background(), "print(1)")
	require.NoError(t, err)
	_, err = exec.Output(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, fake.count("sandbox.repl.getOutput"))
	var params struct {
		Sandbox     string `json:"sandbox"`
		Namespace   string `json:"namespace"`
		ExecutionID string `json:"execution_id"`
	}
	require.NoError(t, json.Unmarshal(fake.calls[2].params, &params))
	assert.Equal(t, "sb-test", params.Sandbox)
	assert.Equal(t, "testing", params.Namespace)
	assert.Equal(t, "exec-42", params.ExecutionID)
}

func TestOutputFetchFailureRetries(t *testing.T) {
	fake := &fakeCaller{
		results: map[string]json.RawMessage{
			"sandbox.repl.run": json.RawMessage(`{"execution_id":"exec-1"}`),
		},
		errs: map[string]error{
			"sandbox.repl.getOutput": &rpc.Error{Message: "not ready"},
		},
	}
	sb := startedSandbox(t, fake)

	exec, err := sb.Run(context.Background(), "print(1)")
	require.NoError(t, err)

	_, err = exec.Output(context.Background())
	require.ErrorIs(t, err, ErrOutputFetchFailed)
	assert.Contains(t, err.Error(), "not ready")

	// The failed fetch is not cached; the next call retries and succeeds.
	delete(fake.errs, "sandbox.repl.getOutput")
	fake.results["sandbox.repl.getOutput"] = json.RawMessage(`{"lines":[{"stream":"stdout","text":"done"}]}`)

	out, err := exec.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 2, fake.count("sandbox.repl.getOutput"))
}

func TestOutputMissingLines(t *testing.T) {
	fake := &fakeCaller{results: map[string]json.RawMessage{
		"sandbox.repl.run":       json.RawMessage(`{"execution_id":"exec-1"}`),
		"sandbox.repl.getOutput": json.RawMessage(`{}`),
	}}
	sb := startedSandbox(t, fake)

	exec, err := sb.Run(context.Background(), "pass")
	require.NoError(t, err)

	out, err := exec.Output(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", out)

	lines, err := exec.Lines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 1, fake.count("sandbox.repl.getOutput"))
}
