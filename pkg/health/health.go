// Package health exposes liveness and readiness probes over HTTP.
//
// Probes run on a shared background ticker. A probe flips to failing only
// after failThreshold consecutive errors and back to passing after
// passThreshold consecutive successes, so a single slow database ping does
// not bounce the service out of the load balancer.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc probes one dependency. A nil return means the dependency is fine.
type CheckFunc func(ctx context.Context) error

type probeKind int

const (
	kindLiveness probeKind = iota
	kindReadiness
)

const (
	defaultFailThreshold = 3
	defaultPassThreshold = 1
)

// probe tracks the rolling state of a single registered check.
// All fields after mu are guarded by mu; tick and the HTTP handlers
// run on different goroutines.
type probe struct {
	name    string
	kind    probeKind
	timeout time.Duration
	check   CheckFunc

	mu      sync.Mutex
	passing bool
	lastErr error
	failRun int
	passRun int
}

// tick runs the check once and applies the thresholds.
func (p *probe) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.check(ctx)
	cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastErr = err
	if err != nil {
		p.passRun = 0
		p.failRun++
		if p.failRun >= defaultFailThreshold {
			p.passing = false
		}
		return
	}
	p.failRun = 0
	p.passRun++
	if p.passRun >= defaultPassThreshold {
		p.passing = true
	}
}

// status reports the probe state and, when failing, a human-readable reason.
func (p *probe) status() (bool, string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.passing {
		return true, ""
	}
	if p.lastErr != nil {
		return false, p.lastErr.Error()
	}
	return false, "check is failing"
}

// Checker owns the registered probes and the manual readiness gate.
type Checker struct {
	mu     sync.Mutex
	probes []*probe
	ready  bool
	cancel context.CancelFunc
}

// New returns a Checker with readiness gated off. Call SetReady(true)
// once startup (migrations, pool warmup) has finished.
func New() *Checker {
	return &Checker{}
}

// AddLivenessCheck registers a process-level check served on /livez,
// for example a goroutine leak guard.
func (c *Checker) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	c.add(name, kindLiveness, timeout, check)
}

// AddReadinessCheck registers a dependency check served on /readyz,
// for example a database ping.
func (c *Checker) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	c.add(name, kindReadiness, timeout, check)
}

func (c *Checker) add(name string, kind probeKind, timeout time.Duration, check CheckFunc) {
	p := &probe{
		name:    name,
		kind:    kind,
		timeout: timeout,
		check:   check,
		passing: true, // optimistic until the first failures accumulate
	}
	c.mu.Lock()
	c.probes = append(c.probes, p)
	c.mu.Unlock()
}

// Start launches the background loop running every registered probe at the
// given interval. Register all probes before calling Start.
func (c *Checker) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.cancel = cancel
	probes := append([]*probe(nil), c.probes...)
	c.mu.Unlock()

	go func() {
		runAll := func() {
			for _, p := range probes {
				p.tick(ctx)
			}
		}
		runAll()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runAll()
			}
		}
	}()
}

// Stop halts the background loop. Safe to call more than once.
func (c *Checker) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// SetReady toggles the manual readiness gate. Flip it to false at the start
// of graceful shutdown so the load balancer drains traffic before the
// listener closes.
func (c *Checker) SetReady(ready bool) {
	c.mu.Lock()
	c.ready = ready
	c.mu.Unlock()
}

// IsReady reports whether the gate is open and every readiness probe passes.
func (c *Checker) IsReady() bool {
	c.mu.Lock()
	ready := c.ready
	probes := append([]*probe(nil), c.probes...)
	c.mu.Unlock()

	if !ready {
		return false
	}
	for _, p := range probes {
		if p.kind != kindReadiness {
			continue
		}
		if ok, _ := p.status(); !ok {
			return false
		}
	}
	return true
}

type statusBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 while every liveness probe passes,
// 503 with the failing checks otherwise.
func (c *Checker) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	c.serve(w, kindLiveness, true)
}

// ReadyEndpoint serves /readyz: 200 while the gate is open and every
// readiness probe passes, 503 with the failing checks otherwise.
func (c *Checker) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()
	c.serve(w, kindReadiness, ready)
}

func (c *Checker) serve(w http.ResponseWriter, kind probeKind, gateOpen bool) {
	c.mu.Lock()
	probes := append([]*probe(nil), c.probes...)
	c.mu.Unlock()

	failed := make(map[string]string)
	for _, p := range probes {
		if p.kind != kind {
			continue
		}
		if ok, reason := p.status(); !ok {
			failed[p.name] = reason
		}
	}
	if !gateOpen {
		failed["_readiness"] = "service is not ready"
	}

	body := statusBody{Status: "ok"}
	code := http.StatusOK
	if len(failed) > 0 {
		body.Status = "unhealthy"
		body.Checks = failed
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
