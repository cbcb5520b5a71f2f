package session

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/testutil"
)

func builtin(t testing.TB) *content.Registry {
	t.Helper()
	r, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	return r
}

func TestNewSeedsCounters(t *testing.T) {
	s := New(builtin(t))
	if s.Level != 7 || s.TotalXP != 2840 || s.Streak != 12 {
		t.Errorf("counters = %d/%d/%d, want 7/2840/12", s.Level, s.TotalXP, s.Streak)
	}
	if len(s.Topics()) != 4 {
		t.Errorf("topics = %d, want 4", len(s.Topics()))
	}
	if s.CompletedTopics() != 0 || s.CompletionPercent() != 0 {
		t.Errorf("expected nothing completed, got %d (%d%%)", s.CompletedTopics(), s.CompletionPercent())
	}
}

func TestCompleteTopic(t *testing.T) {
	s := New(builtin(t))

	if !s.CompleteTopic("1") {
		t.Fatal("CompleteTopic(1) = false")
	}
	topic, _ := s.Topic("1")
	if topic.Progress != 100 || !topic.Completed {
		t.Errorf("topic 1 = %+v, want progress 100 and completed", topic)
	}
	if s.TotalXP != 3340 {
		t.Errorf("TotalXP = %d, want 3340", s.TotalXP)
	}
	if s.CompletionPercent() != 25 {
		t.Errorf("CompletionPercent = %d, want 25", s.CompletionPercent())
	}

	other, _ := s.Topic("2")
	if other.Progress != 30 || other.Completed {
		t.Errorf("topic 2 should be untouched, got %+v", other)
	}

	// Repeat completion awards the bonus again.
	s.CompleteTopic("1")
	if s.TotalXP != 3840 {
		t.Errorf("TotalXP after repeat = %d, want 3840", s.TotalXP)
	}
	if s.CompletedTopics() != 1 {
		t.Errorf("CompletedTopics = %d, want 1", s.CompletedTopics())
	}
}

func TestCompleteUnknownTopic(t *testing.T) {
	s := New(builtin(t))
	if s.CompleteTopic("nope") {
		t.Error("unknown topic should not complete")
	}
	if s.TotalXP != 2840 {
		t.Errorf("XP changed to %d", s.TotalXP)
	}
}

func TestAwardChallengeOnce(t *testing.T) {
	s := New(builtin(t))
	if !s.AwardChallenge("1", 150) {
		t.Fatal("first award should succeed")
	}
	if s.AwardChallenge("1", 150) {
		t.Error("second award should be refused")
	}
	if s.TotalXP != 2990 || s.XPThisRun() != 150 {
		t.Errorf("TotalXP/XPThisRun = %d/%d, want 2990/150", s.TotalXP, s.XPThisRun())
	}
	s.AwardXP(-10)
	if s.TotalXP != 2990 {
		t.Error("negative awards must be ignored")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := New(builtin(t))
	s.Learner = "Ada"
	s.CompleteTopic("3")
	s.AwardChallenge("1", 150)
	snap := s.Snapshot()

	if snap.CompletedTopics != 1 || snap.CompletionPercent != 25 {
		t.Errorf("snapshot completion = %d (%d%%)", snap.CompletedTopics, snap.CompletionPercent)
	}

	fresh := New(builtin(t))
	fresh.Restore(snap)
	if fresh.TotalXP != s.TotalXP || fresh.Learner != "Ada" {
		t.Errorf("restored = %d/%q, want %d/Ada", fresh.TotalXP, fresh.Learner, s.TotalXP)
	}
	topic, _ := fresh.Topic("3")
	if !topic.Completed || topic.Progress != 100 {
		t.Errorf("restored topic 3 = %+v", topic)
	}
	if !fresh.Solved("1") {
		t.Error("solved challenge not restored")
	}
}

func TestRestoreSkipsUnknownAndClamps(t *testing.T) {
	s := New(builtin(t))
	s.Restore(Snapshot{
		Level:   2,
		TotalXP: 10,
		Topics: []TopicProgress{
			{ID: "ghost", Progress: 50},
			{ID: "2", Progress: 400},
		},
	})
	if _, ok := s.Topic("ghost"); ok {
		t.Error("unknown topic must not be created")
	}
	topic, _ := s.Topic("2")
	if topic.Progress != 100 {
		t.Errorf("progress = %d, want clamped 100", topic.Progress)
	}
}

func TestReplaceTopicsKeepsProgress(t *testing.T) {
	s := New(builtin(t))
	s.CompleteTopic("1")

	s.ReplaceTopics(testutil.QuickRegistry())

	topic, ok := s.Topic("1")
	if !ok {
		t.Fatal("topic 1 missing after reload")
	}
	if !topic.Completed || topic.Progress != 100 {
		t.Errorf("progress lost on reload: %+v", topic)
	}
	if topic.Title != "Topic 1" {
		t.Errorf("title = %q, want reloaded title", topic.Title)
	}
}

// Completing any topic adds exactly the bonus and touches only that topic.
func TestCompleteTopicAddsBonus(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := New(builtin(t))
		ids := rapid.SliceOf(rapid.SampledFrom([]string{"1", "2", "3", "4"})).Draw(rt, "ids")
		for _, id := range ids {
			before := s.TotalXP
			prev := s.Topics()
			s.CompleteTopic(id)
			if s.TotalXP-before != 500 {
				rt.Fatalf("completing %s added %d XP", id, s.TotalXP-before)
			}
			for i, topic := range s.Topics() {
				if topic.ID == id {
					if topic.Progress != 100 || !topic.Completed {
						rt.Fatalf("topic %s not completed: %+v", id, topic)
					}
					continue
				}
				if topic != prev[i] {
					rt.Fatalf("topic %s changed: %+v -> %+v", topic.ID, prev[i], topic)
				}
			}
		}
		testutil.AssertPercent(t, "CompletionPercent", s.CompletionPercent())
	})
}
