package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/isdmx/boxlet/rpc"
)

// Defaults applied by Start when no explicit values are given.
const (
	DefaultMemoryMB = 512
	DefaultCPUs     = 1.0
)

// Sandbox is a handle to one remote sandbox, identified by its namespace and
// name. The handle owns its transport binding; Executions produced by Run
// share it without owning it.
type Sandbox struct {
	lang      Language
	name      string
	namespace string
	serverURL string
	apiKey    string
	logger    *zap.Logger

	client         rpc.Caller
	closeTransport func()
	startDefaults  []StartOption

	started atomic.Bool
}

// New creates a sandbox handle for the given language. The handle is created
// in the not-started state; no RPC call is made until Start.
func New(lang Language, opts ...Option) *Sandbox {
	s := &Sandbox{lang: lang, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.fillDefaults()

	if s.client == nil {
		client := rpc.NewClient(s.serverURL,
			rpc.WithAPIKey(s.apiKey),
			rpc.WithLogger(s.logger),
		)
		s.client = client
		s.closeTransport = client.Close
	}
	return s
}

// NewPython creates a handle for a Python sandbox.
func NewPython(opts ...Option) *Sandbox {
	return New(Python, opts...)
}

// NewNode creates a handle for a Node.js sandbox.
func NewNode(opts ...Option) *Sandbox {
	return New(Node, opts...)
}

// Name returns the sandbox name.
func (s *Sandbox) Name() string {
	return s.name
}

// Namespace returns the namespace the sandbox is scoped to.
func (s *Sandbox) Namespace() string {
	return s.namespace
}

// Language returns the sandbox's language.
func (s *Sandbox) Language() Language {
	return s.lang
}

// Started reports whether the sandbox is in the started state.
func (s *Sandbox) Started() bool {
	return s.started.Load()
}

// Close releases the transport binding. It does not stop the sandbox; use
// Stop or the With helper for lifecycle teardown.
func (s *Sandbox) Close() {
	if s.closeTransport != nil {
		s.closeTransport()
	}
}

type startConfig struct {
	Image  string `json:"image"`
	Memory int    `json:"memory"`
	CPUs   int    `json:"cpus"`
}

type startParams struct {
	Namespace string      `json:"namespace"`
	Sandbox   string      `json:"sandbox"`
	Config    startConfig `json:"config"`
}

// Start provisions and starts the remote sandbox. It is a no-op when the
// sandbox is already started: no RPC call is issued. On failure the sandbox
// stays in the not-started state.
//
// The CPU request is rounded to the nearest integer before transmission
// (half rounds up: 2.5 requests 3 CPUs); fractional CPUs are not
// representable in the wire format.
func (s *Sandbox) Start(ctx context.Context, opts ...StartOption) error {
	if s.started.Load() {
		return nil
	}

	req := startRequest{image: s.lang.DefaultImage(), memoryMB: DefaultMemoryMB, cpus: DefaultCPUs}
	for _, opt := range s.startDefaults {
		opt(&req)
	}
	for _, opt := range opts {
		opt(&req)
	}

	params := startParams{
		Namespace: s.namespace,
		Sandbox:   s.name,
		Config: startConfig{
			Image:  req.image,
			Memory: req.memoryMB,
			CPUs:   int(math.Round(req.cpus)),
		},
	}

	s.logger.Info("starting sandbox",
		zap.String("namespace", s.namespace),
		zap.String("sandbox", s.name),
		zap.String("image", params.Config.Image),
		zap.Int("memory_mb", params.Config.Memory),
		zap.Int("cpus", params.Config.CPUs),
	)

	if _, err := s.client.Call(ctx, "sandbox.start", params); err != nil {
		return fmt.Errorf("%w: %w", ErrStartFailed, err)
	}
	s.started.Store(true)
	return nil
}

type identityParams struct {
	Namespace string `json:"namespace"`
	Sandbox   string `json:"sandbox"`
}

// Stop stops the remote sandbox. It is a no-op when the sandbox is not
// started: no RPC call is issued. On failure the sandbox stays started so
// the caller may retry.
func (s *Sandbox) Stop(ctx context.Context) error {
	if !s.started.Load() {
		return nil
	}

	s.logger.Info("stopping sandbox",
		zap.String("namespace", s.namespace),
		zap.String("sandbox", s.name),
	)

	params := identityParams{Namespace: s.namespace, Sandbox: s.name}
	if _, err := s.client.Call(ctx, "sandbox.stop", params); err != nil {
		return fmt.Errorf("%w: %w", ErrStopFailed, err)
	}
	s.started.Store(false)
	return nil
}

type runParams struct {
	Sandbox   string `json:"sandbox"`
	Namespace string `json:"namespace"`
	Language  string `json:"language"`
	Code      string `json:"code"`
}

// Run submits code to the sandbox REPL and returns an Execution handle for
// it. The sandbox must be started. Run does not wait for the code to finish
// and does not serialize overlapping submissions; ordering between
// concurrent executions is the server's concern.
func (s *Sandbox) Run(ctx context.Context, code string) (*Execution, error) {
	if !s.started.Load() {
		return nil, ErrNotStarted
	}

	params := runParams{
		Sandbox:   s.name,
		Namespace: s.namespace,
		Language:  s.lang.Tag(),
		Code:      code,
	}

	raw, err := s.client.Call(ctx, "sandbox.repl.run", params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	// The server may omit the execution id; the Execution treats an empty
	// id as "no output to retrieve" rather than an error.
	var result struct {
		ExecutionID string `json:"execution_id"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode result: %w", ErrRunFailed, err)
	}

	s.logger.Debug("code submitted",
		zap.String("sandbox", s.name),
		zap.String("execution_id", result.ExecutionID),
	)

	return &Execution{
		sandbox:     s.name,
		namespace:   s.namespace,
		executionID: result.ExecutionID,
		client:      s.client,
		logger:      s.logger,
	}, nil
}
