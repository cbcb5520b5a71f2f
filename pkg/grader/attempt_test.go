package grader

import "testing"

func TestAttemptRunLifecycle(t *testing.T) {
	a := NewAttempt(twoSum(t))
	if a.Code() != a.Challenge().StarterCode {
		t.Fatal("attempt should start with starter code")
	}

	id := a.BeginRun()
	if !a.Running() || a.Results() != nil {
		t.Fatal("BeginRun should mark running and clear results")
	}
	if !a.FinishRun(id, []bool{true, true, false}) {
		t.Fatal("FinishRun for current id should be accepted")
	}
	if a.Running() {
		t.Error("run should be finished")
	}
	if a.Passed() != 2 || a.AllPassed() {
		t.Errorf("passed = %d all = %v, want 2/false", a.Passed(), a.AllPassed())
	}
}

func TestAttemptStaleResultsDropped(t *testing.T) {
	a := NewAttempt(twoSum(t))

	first := a.BeginRun()
	a.Reset()
	if a.FinishRun(first, []bool{true, true, true}) {
		t.Error("result from a run superseded by Reset must be dropped")
	}
	if a.Results() != nil {
		t.Errorf("results = %v, want nil", a.Results())
	}

	old := a.BeginRun()
	newer := a.BeginRun()
	if a.FinishRun(old, []bool{true}) {
		t.Error("result from an older run must be dropped")
	}
	if !a.FinishRun(newer, []bool{true, true, true}) || !a.AllPassed() {
		t.Error("latest run should be accepted")
	}
}

func TestAttemptReset(t *testing.T) {
	a := NewAttempt(twoSum(t))
	a.SetCode("edited")
	a.RevealNextHint()
	a.Tick()
	id := a.BeginRun()
	a.FinishRun(id, []bool{true, true, true})

	a.Reset()
	if a.Code() != a.Challenge().StarterCode {
		t.Errorf("code after reset = %q", a.Code())
	}
	if a.Results() != nil || a.AllPassed() {
		t.Error("results should be cleared")
	}
	if a.HintsShown() != 1 || a.Elapsed() != 1 {
		t.Errorf("hints/elapsed = %d/%d, want kept at 1/1", a.HintsShown(), a.Elapsed())
	}
}

func TestAttemptAbort(t *testing.T) {
	a := NewAttempt(twoSum(t))
	id := a.BeginRun()
	a.AbortRun(id)
	if a.Running() {
		t.Error("AbortRun should clear running")
	}
}

func TestRevealNextHint(t *testing.T) {
	a := NewAttempt(twoSum(t))
	for i := 1; i <= 3; i++ {
		if !a.RevealNextHint() {
			t.Fatalf("hint %d not revealed", i)
		}
		if len(a.VisibleHints()) != i {
			t.Errorf("visible = %d, want %d", len(a.VisibleHints()), i)
		}
	}
	if a.RevealNextHint() {
		t.Error("no hints left, reveal should fail")
	}
}

func TestElapsedString(t *testing.T) {
	tests := []struct {
		ticks int
		want  string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{60, "1:00"},
		{125, "2:05"},
	}
	for _, tt := range tests {
		a := NewAttempt(twoSum(t))
		for i := 0; i < tt.ticks; i++ {
			a.Tick()
		}
		if got := a.ElapsedString(); got != tt.want {
			t.Errorf("after %d ticks = %q, want %q", tt.ticks, got, tt.want)
		}
	}
}
