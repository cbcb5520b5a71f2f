// Package grader simulates running a challenge solution against its test
// cases. Submitted code is never parsed or executed: after a fixed delay the
// challenge's canned pass/fail pattern is reported.
package grader

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/metrics"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

// DefaultDelay is the simulated grading latency.
const DefaultDelay = 2 * time.Second

// ErrRunInFlight is returned when Run is called while a run is pending.
var ErrRunInFlight = errors.New("grading run already in progress")

// Grader grades submissions for a single challenge. Run may be called from a
// background goroutine; at most one run is in flight at a time.
type Grader struct {
	challenge model.Challenge
	delay     time.Duration
	running   atomic.Bool
}

// New returns a grader for ch. A non-positive delay selects DefaultDelay.
func New(ch model.Challenge, delay time.Duration) *Grader {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Grader{challenge: ch, delay: delay}
}

// Delay returns the simulated latency.
func (g *Grader) Delay() time.Duration { return g.delay }

// Running is true strictly between a Run call and its return.
func (g *Grader) Running() bool { return g.running.Load() }

// Run waits for the grading delay and returns one result per test case.
// Cancelling ctx aborts the wait and returns ctx.Err() with no results.
func (g *Grader) Run(ctx context.Context, code string) ([]bool, error) {
	if !g.running.CompareAndSwap(false, true) {
		return nil, ErrRunInFlight
	}
	defer g.running.Store(false)
	defer metrics.Timer(metrics.GradeRun)()

	debug.Log("grader: run %s (%d bytes of code, delay %v)", g.challenge.ID, len(code), g.delay)

	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		debug.Log("grader: run %s cancelled: %v", g.challenge.ID, ctx.Err())
		return nil, ctx.Err()
	case <-timer.C:
	}
	return Normalize(g.challenge.MockResults, len(g.challenge.Cases)), nil
}

// Normalize returns pattern resized to n: truncated when longer, padded with
// false when shorter.
func Normalize(pattern []bool, n int) []bool {
	if n < 0 {
		n = 0
	}
	out := make([]bool, n)
	copy(out, pattern)
	return out
}
