package sandbox

import (
	"context"
	"encoding/json"
	"fmt"
)

// Metrics holds a point-in-time snapshot of a sandbox's resource usage as
// reported by the server.
type Metrics struct {
	Running      bool    `json:"running"`
	CPUUsage     float64 `json:"cpu_usage"`     // percentage, 0-100
	MemoryUsage  uint64  `json:"memory_usage"`  // bytes
	DiskUsage    uint64  `json:"disk_usage"`    // bytes
	NetworkUsage uint64  `json:"network_usage"` // bytes
}

// Metrics fetches current resource usage for the sandbox. The sandbox must
// be started.
func (s *Sandbox) Metrics(ctx context.Context) (Metrics, error) {
	if !s.started.Load() {
		return Metrics{}, ErrNotStarted
	}

	params := identityParams{Namespace: s.namespace, Sandbox: s.name}
	raw, err := s.client.Call(ctx, "sandbox.metrics.get", params)
	if err != nil {
		return Metrics{}, fmt.Errorf("%w: %w", ErrMetricsFailed, err)
	}

	var metrics Metrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return Metrics{}, fmt.Errorf("%w: failed to decode result: %w", ErrMetricsFailed, err)
	}
	return metrics, nil
}
