package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var nopLogger = zerolog.Nop()

// ErrOpenCircuit is returned when the breaker refuses a call because the
// upstream is considered down.
var ErrOpenCircuit = errors.New("resilience: circuit breaker open")

// State is the breaker's position in its closed/open/half-open cycle. The
// numeric values double as the gauge encoding.
type State int

const (
	// Closed admits every call and tracks the failure ratio.
	Closed State = iota
	// Open rejects calls until the cool-off elapses.
	Open
	// HalfOpen admits probes to test whether the upstream recovered.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// Breaker trips when the failure ratio of recent calls crosses a threshold.
// The catalog client owns one per process; while tripped, pricing requests
// fail fast with an upstream error instead of stacking timeouts against a
// dead eSuite host.
type Breaker struct {
	mu        sync.Mutex
	state     State
	calls     int
	fails     int
	minCalls  int
	tripRatio float64
	coolOff   time.Duration
	openedAt  time.Time
	target    string
	logger    *zerolog.Logger
}

// NewBreaker builds a closed breaker. It opens once at least minCalls
// outcomes are recorded and the failure ratio reaches tripRatio, then stays
// open for coolOff before sampling the upstream again.
func NewBreaker(minCalls int, tripRatio float64, coolOff time.Duration) *Breaker {
	if minCalls <= 0 {
		minCalls = 1
	}
	if tripRatio <= 0 {
		tripRatio = 0.5
	}
	if tripRatio > 1 {
		tripRatio = 1
	}
	if coolOff <= 0 {
		coolOff = 30 * time.Second
	}
	return &Breaker{
		state:     Closed,
		minCalls:  minCalls,
		tripRatio: tripRatio,
		coolOff:   coolOff,
	}
}

// WithTarget labels the breaker's metrics and log events with the upstream
// name.
func (b *Breaker) WithTarget(target string) *Breaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.target = strings.TrimSpace(target)
	b.gauge()
	return b
}

// WithLogger sets the logger that records state transitions.
func (b *Breaker) WithLogger(logger zerolog.Logger) *Breaker {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.logger = &logger
	return b
}

// Allow reports whether a call may proceed. An open breaker refuses until the
// cool-off has elapsed, then moves to half-open and admits a probe.
func (b *Breaker) Allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if time.Since(b.openedAt) < b.coolOff {
			return false
		}
		b.shift(ctx, HalfOpen)
	}
	return true
}

// Report records a call outcome. A probe outcome while half-open closes or
// re-opens the breaker immediately; while closed, the failure ratio is
// evaluated once minCalls outcomes have accumulated.
func (b *Breaker) Report(ctx context.Context, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		return
	case HalfOpen:
		if success {
			b.shift(ctx, Closed)
		} else {
			b.shift(ctx, Open)
		}
		return
	}

	b.calls++
	if !success {
		b.fails++
	}
	if b.calls < b.minCalls {
		return
	}
	if float64(b.fails)/float64(b.calls) >= b.tripRatio {
		b.shift(ctx, Open)
		return
	}
	if b.calls > b.minCalls*2 {
		// halve the window so old outcomes age out
		b.calls = int(math.Ceil(float64(b.calls) / 2))
		b.fails = int(math.Ceil(float64(b.fails) / 2))
	}
}

// Backoff returns the exponential delay before the given retry attempt,
// spread by jitterPct (0.2 == ±20%) so concurrent retries don't align.
func Backoff(base time.Duration, attempt int, jitterPct float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base * time.Duration(1<<uint(attempt-1))
	if jitterPct <= 0 {
		return d
	}
	delta := (rand.Float64()*2 - 1) * float64(d) * jitterPct
	return d + time.Duration(delta)
}

// shift transitions the state machine, resetting the outcome window and
// emitting the gauge, transition counters, and a log event. Callers hold mu.
func (b *Breaker) shift(ctx context.Context, next State) {
	prev := b.state
	if prev == next {
		b.gauge()
		return
	}
	b.state = next
	b.calls, b.fails = 0, 0
	if next == Open {
		b.openedAt = time.Now()
	} else {
		b.openedAt = time.Time{}
	}
	b.gauge()

	label := b.label()
	if BreakerTransitions != nil {
		BreakerTransitions.WithLabelValues(label, prev.String(), next.String()).Inc()
	}
	if next == Open && BreakerOpenedTotal != nil {
		BreakerOpenedTotal.WithLabelValues(label).Inc()
	}
	evt := b.log().Info().
		Str("target", label).
		Str("from_state", prev.String()).
		Str("to_state", next.String())
	if span := trace.SpanContextFromContext(ctx); span.IsValid() {
		evt = evt.Str("trace_id", span.TraceID().String())
	}
	evt.Msg("breaker_transition")
}

func (b *Breaker) gauge() {
	if BreakerState != nil {
		BreakerState.WithLabelValues(b.label()).Set(float64(b.state))
	}
}

func (b *Breaker) label() string {
	if b.target != "" {
		return b.target
	}
	return "default"
}

func (b *Breaker) log() *zerolog.Logger {
	if b.logger != nil {
		return b.logger
	}
	return &nopLogger
}
