// Package health aggregates checks that tell a long-running simulation apart
// from one that has stalled, diverged or leaked bodies out of its arena.
package health

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// Status values reported by CheckHealth.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health of a run.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// Healthy reports whether every check passed.
func (s HealthStatus) Healthy() bool {
	return s.Status == StatusHealthy
}

// Failing returns the names of failed checks in sorted order.
func (s HealthStatus) Failing() []string {
	var names []string
	for name, c := range s.Checks {
		if c.Status != StatusHealthy {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a new health check with the health checker.
// If a check with the same name already exists, it will be replaced.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// CheckHealth executes all registered health checks and returns the aggregated status.
// The overall status is "healthy" only if all individual checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{
				Status:  StatusUnhealthy,
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: StatusHealthy,
			}
		}
	}

	return status
}

// ProgressHealthCheck fails when the tick counter has not moved since the
// previous check, or when the simulation is not running.
type ProgressHealthCheck struct {
	running func() bool
	tick    func() uint64

	mu   sync.Mutex
	last uint64
	seen bool
}

// NewProgressHealthCheck creates a check over the given accessors.
func NewProgressHealthCheck(running func() bool, tick func() uint64) *ProgressHealthCheck {
	return &ProgressHealthCheck{running: running, tick: tick}
}

// Name returns the name of this health check.
func (p *ProgressHealthCheck) Name() string {
	return "progress"
}

// Check verifies that the simulation is running and advancing.
func (p *ProgressHealthCheck) Check(ctx context.Context) error {
	if !p.running() {
		return fmt.Errorf("simulation is not running")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	current := p.tick()
	stalled := p.seen && current == p.last
	p.last, p.seen = current, true
	if stalled {
		return fmt.Errorf("simulation stalled at tick %d", current)
	}
	return nil
}

// FiniteStateHealthCheck fails once any body has a NaN or infinite position
// or velocity. Such a body never recovers and poisons every pair it meets.
type FiniteStateHealthCheck struct {
	nonFinite func() int
}

// NewFiniteStateHealthCheck creates a check; nonFinite counts diverged bodies.
func NewFiniteStateHealthCheck(nonFinite func() int) *FiniteStateHealthCheck {
	return &FiniteStateHealthCheck{nonFinite: nonFinite}
}

// Name returns the name of this health check.
func (f *FiniteStateHealthCheck) Name() string {
	return "finite_state"
}

// Check verifies that no body has diverged.
func (f *FiniteStateHealthCheck) Check(ctx context.Context) error {
	if n := f.nonFinite(); n > 0 {
		return fmt.Errorf("%d bodies have non-finite state", n)
	}
	return nil
}

// ContainmentHealthCheck fails when more bodies than allowed were refused
// by the spatial index. The window the count covers is up to the caller;
// the runner counts since its last report.
type ContainmentHealthCheck struct {
	maxOutOfBounds int
	outOfBounds    func() int
}

// NewContainmentHealthCheck creates a check tolerating up to maxOutOfBounds.
func NewContainmentHealthCheck(maxOutOfBounds int, outOfBounds func() int) *ContainmentHealthCheck {
	return &ContainmentHealthCheck{
		maxOutOfBounds: maxOutOfBounds,
		outOfBounds:    outOfBounds,
	}
}

// Name returns the name of this health check.
func (c *ContainmentHealthCheck) Name() string {
	return "containment"
}

// Check verifies that the arena still holds its bodies.
func (c *ContainmentHealthCheck) Check(ctx context.Context) error {
	if n := c.outOfBounds(); n > c.maxOutOfBounds {
		return fmt.Errorf("%d bodies out of bounds exceeds limit %d", n, c.maxOutOfBounds)
	}
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// CurrentMemoryMB returns the live heap in megabytes.
func CurrentMemoryMB() int64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return int64(m.Alloc / 1024 / 1024)
}
