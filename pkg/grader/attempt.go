package grader

import (
	"fmt"

	"github.com/vanderheijden86/javamaster/pkg/model"
)

// Attempt is the learner's working state for one challenge: editor contents,
// last results, revealed hints and elapsed time. Runs are identified by id so
// a result that arrives after Reset or a newer run is dropped.
type Attempt struct {
	challenge  model.Challenge
	code       string
	results    []bool
	hintsShown int
	elapsed    int
	runID      int
	running    bool
}

// NewAttempt starts an attempt with the challenge's starter code.
func NewAttempt(ch model.Challenge) *Attempt {
	return &Attempt{challenge: ch, code: ch.StarterCode}
}

// Challenge returns the challenge being attempted.
func (a *Attempt) Challenge() model.Challenge { return a.challenge }

// Code returns the current editor contents.
func (a *Attempt) Code() string { return a.code }

// SetCode replaces the editor contents.
func (a *Attempt) SetCode(code string) { a.code = code }

// Results returns the last reported results, nil before any run completes.
func (a *Attempt) Results() []bool { return a.results }

// Running reports whether a run is pending.
func (a *Attempt) Running() bool { return a.running }

// BeginRun clears previous results and returns the id of the new run.
func (a *Attempt) BeginRun() int {
	a.runID++
	a.running = true
	a.results = nil
	return a.runID
}

// FinishRun records results for run id. Results for a stale id are ignored
// and FinishRun returns false.
func (a *Attempt) FinishRun(id int, results []bool) bool {
	if id != a.runID || !a.running {
		return false
	}
	a.running = false
	a.results = Normalize(results, len(a.challenge.Cases))
	return true
}

// AbortRun ends run id without results.
func (a *Attempt) AbortRun(id int) {
	if id == a.runID {
		a.running = false
	}
}

// Reset reinstates the starter code, clears results and supersedes any
// pending run. Elapsed time and revealed hints are kept.
func (a *Attempt) Reset() {
	a.code = a.challenge.StarterCode
	a.results = nil
	a.running = false
	a.runID++
}

// HintsShown returns how many hints are visible.
func (a *Attempt) HintsShown() int { return a.hintsShown }

// VisibleHints returns the revealed hints in order.
func (a *Attempt) VisibleHints() []string {
	return a.challenge.Hints[:a.hintsShown]
}

// RevealNextHint shows one more hint. Returns false when all are visible.
func (a *Attempt) RevealNextHint() bool {
	if a.hintsShown >= len(a.challenge.Hints) {
		return false
	}
	a.hintsShown++
	return true
}

// Tick advances the elapsed counter by one second.
func (a *Attempt) Tick() { a.elapsed++ }

// Elapsed returns the elapsed seconds.
func (a *Attempt) Elapsed() int { return a.elapsed }

// ElapsedString formats the elapsed time as m:ss.
func (a *Attempt) ElapsedString() string {
	return fmt.Sprintf("%d:%02d", a.elapsed/60, a.elapsed%60)
}

// Passed counts passing results.
func (a *Attempt) Passed() int {
	n := 0
	for _, ok := range a.results {
		if ok {
			n++
		}
	}
	return n
}

// AllPassed is true when results exist and every case passed.
func (a *Attempt) AllPassed() bool {
	return len(a.results) > 0 && a.Passed() == len(a.results)
}
