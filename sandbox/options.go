package sandbox

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isdmx/boxlet/rpc"
)

// Environment variables consulted when no explicit option is given. Explicit
// options always win; built-in defaults apply last.
const (
	EnvServerURL = "BOXLET_SERVER_URL"
	EnvNamespace = "BOXLET_NAMESPACE"
	EnvAPIKey    = "BOXLET_API_KEY"
)

const (
	defaultServerURL = "http://127.0.0.1:5555"
	defaultNamespace = "default"
)

// Option configures a Sandbox at construction time.
type Option func(*Sandbox)

// WithServerURL sets the boxlet server base URL.
func WithServerURL(serverURL string) Option {
	return func(s *Sandbox) {
		s.serverURL = serverURL
	}
}

// WithNamespace sets the namespace the sandbox is scoped to.
func WithNamespace(namespace string) Option {
	return func(s *Sandbox) {
		s.namespace = namespace
	}
}

// WithName sets the sandbox name. When omitted, a short random name is
// generated at construction and never changes afterwards.
func WithName(name string) Option {
	return func(s *Sandbox) {
		s.name = name
	}
}

// WithAPIKey sets the bearer credential for server authentication.
func WithAPIKey(apiKey string) Option {
	return func(s *Sandbox) {
		s.apiKey = apiKey
	}
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sandbox) {
		s.logger = logger
	}
}

// WithStartDefaults sets start options applied on every Start call before
// the call's own options, letting a configured baseline (image, memory,
// CPUs) be attached to the handle itself.
func WithStartDefaults(opts ...StartOption) Option {
	return func(s *Sandbox) {
		s.startDefaults = opts
	}
}

// WithCaller sets the RPC caller directly, bypassing transport construction.
// The sandbox does not own a caller supplied this way and will not release
// it on Close. Intended for tests and for sharing a transport across
// sandboxes.
func WithCaller(client rpc.Caller) Option {
	return func(s *Sandbox) {
		s.client = client
	}
}

func (s *Sandbox) fillDefaults() {
	if s.serverURL == "" {
		if envURL := os.Getenv(EnvServerURL); envURL != "" {
			s.serverURL = envURL
		} else {
			s.serverURL = defaultServerURL
		}
	}
	if s.namespace == "" {
		if envNamespace := os.Getenv(EnvNamespace); envNamespace != "" {
			s.namespace = envNamespace
		} else {
			s.namespace = defaultNamespace
		}
	}
	if s.apiKey == "" {
		s.apiKey = os.Getenv(EnvAPIKey)
	}
	if s.name == "" {
		s.name = fmt.Sprintf("sandbox-%s", uuid.NewString()[:8])
	}
}

// startRequest carries the resolved Start parameters before transmission.
type startRequest struct {
	image    string
	memoryMB int
	cpus     float64
}

// StartOption configures one Start call.
type StartOption func(*startRequest)

// WithImage overrides the language's default image for this start. An empty
// value is ignored so configured overrides can be passed through unchecked.
func WithImage(image string) StartOption {
	return func(r *startRequest) {
		if image != "" {
			r.image = image
		}
	}
}

// WithMemory sets the memory limit in megabytes.
func WithMemory(memoryMB int) StartOption {
	return func(r *startRequest) {
		r.memoryMB = memoryMB
	}
}

// WithCPUs sets the CPU request. The value is rounded to the nearest integer
// before transmission, half up.
func WithCPUs(cpus float64) StartOption {
	return func(r *startRequest) {
		r.cpus = cpus
	}
}
