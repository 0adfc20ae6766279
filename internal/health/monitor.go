package health

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Monitor periodically probes the registry and logs dependencies that go
// down or come back
type Monitor struct {
	registry *Registry
	interval time.Duration

	mu   sync.Mutex
	down map[string]bool
}

// NewMonitor creates a new background monitor
func NewMonitor(registry *Registry, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Monitor{
		registry: registry,
		interval: interval,
		down:     make(map[string]bool),
	}
}

// Start begins the monitor in a goroutine
func (m *Monitor) Start(ctx context.Context) {
	go m.run(ctx)
}

func (m *Monitor) run(ctx context.Context) {
	slog.Info("health monitor started", "interval", m.interval, "checks", m.registry.List())

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("health monitor stopped")
			return
		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

// probe runs every check once and logs state transitions
func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	failures := m.registry.CheckAll(probeCtx)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range m.registry.List() {
		err, failed := failures[name]
		switch {
		case failed && !m.down[name]:
			slog.Warn("dependency unavailable", "check", name, "error", err)
		case !failed && m.down[name]:
			slog.Info("dependency recovered", "check", name)
		}
		m.down[name] = failed
	}
}

// Down returns the names of dependencies that failed their last probe
func (m *Monitor) Down() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var names []string
	for _, name := range m.registry.List() {
		if m.down[name] {
			names = append(names, name)
		}
	}
	return names
}
