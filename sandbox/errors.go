package sandbox

import "errors"

var (
	// ErrNotStarted is returned by operations that require a started sandbox.
	ErrNotStarted = errors.New("sandbox not started")

	// ErrStartFailed wraps failures of the sandbox.start call.
	ErrStartFailed = errors.New("failed to start sandbox")

	// ErrStopFailed wraps failures of the sandbox.stop call.
	ErrStopFailed = errors.New("failed to stop sandbox")

	// ErrRunFailed wraps failures of the sandbox.repl.run call.
	ErrRunFailed = errors.New("failed to run code")

	// ErrCommandFailed wraps failures of the sandbox.command.execute call.
	ErrCommandFailed = errors.New("failed to execute command")

	// ErrMetricsFailed wraps failures of the sandbox.metrics.get call.
	ErrMetricsFailed = errors.New("failed to get metrics")

	// ErrOutputFetchFailed wraps failures of the sandbox.repl.getOutput call.
	ErrOutputFetchFailed = errors.New("failed to fetch output")
)
