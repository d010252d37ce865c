// Package resilience wraps calls to the language model with retry and a
// circuit breaker so a failing provider degrades the AI strategy quickly.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when a call is rejected because the circuit is open.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// BreakerConfig controls circuit breaker behavior.
type BreakerConfig struct {
	Name string
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold int
	// ResetTimeout is how long the circuit stays open before one probe is let through.
	ResetTimeout time.Duration
}

// DefaultBreakerConfig returns the breaker settings used for the LLM client.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{Name: name, FailureThreshold: 5, ResetTimeout: 30 * time.Second}
}

// CircuitBreaker rejects calls after repeated failures until ResetTimeout
// passes. A single successful probe closes it again.
type CircuitBreaker struct {
	cfg BreakerConfig

	mu          sync.Mutex
	state       CircuitState
	failures    int
	lastFailure time.Time

	now func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	def := DefaultBreakerConfig(cfg.Name)
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = def.ResetTimeout
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Execute runs fn through the breaker.
func Execute[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := cb.allow(); err != nil {
		return zero, err
	}
	val, err := fn(ctx)
	cb.record(ctx, err)
	return val, err
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.now().Sub(cb.lastFailure) >= cb.cfg.ResetTimeout {
		return CircuitHalfOpen
	}
	return cb.state
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != CircuitOpen {
		return nil
	}
	if cb.now().Sub(cb.lastFailure) >= cb.cfg.ResetTimeout {
		cb.transition(CircuitHalfOpen)
		return nil
	}
	return ErrCircuitOpen
}

func (cb *CircuitBreaker) record(ctx context.Context, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// A caller giving up is not a provider failure.
	if err != nil && ctx.Err() != nil {
		return
	}
	if err == nil {
		cb.failures = 0
		if cb.state == CircuitHalfOpen {
			cb.transition(CircuitClosed)
		}
		return
	}

	cb.failures++
	cb.lastFailure = cb.now()
	if cb.state == CircuitHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
		cb.transition(CircuitOpen)
	}
}

func (cb *CircuitBreaker) transition(to CircuitState) {
	if cb.state == to {
		return
	}
	zap.L().Info("circuit breaker state change",
		zap.String("breaker", cb.cfg.Name),
		zap.Stringer("from", cb.state),
		zap.Stringer("to", to),
	)
	cb.state = to
}
