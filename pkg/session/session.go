// Package session holds the learner's mutable state for one run of the app:
// counters, topic progress and awarded challenge rewards.
package session

import (
	"sort"
	"time"

	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

// Catalog is the subset of the content registry a session is seeded from.
type Catalog interface {
	Learner() content.LearnerDefaults
	Topics() []model.Topic
	Achievements() []model.Achievement
	Weekly() model.WeeklyStats
}

// Session is owned by the UI update loop and is not safe for concurrent use.
type Session struct {
	Learner string
	Level   int
	TotalXP int
	Streak  int

	bonusXP      int
	topics       []model.Topic
	index        map[string]int
	achievements []model.Achievement
	weekly       model.WeeklyStats
	solved       map[string]bool
	xpThisRun    int
}

// New seeds a session from the catalog defaults.
func New(c Catalog) *Session {
	d := c.Learner()
	s := &Session{
		Level:        d.Level,
		TotalXP:      d.TotalXP,
		Streak:       d.Streak,
		bonusXP:      d.CompletionBonusXP,
		achievements: c.Achievements(),
		weekly:       c.Weekly(),
		solved:       make(map[string]bool),
	}
	s.setTopics(c.Topics())
	return s
}

func (s *Session) setTopics(topics []model.Topic) {
	s.topics = topics
	s.index = make(map[string]int, len(topics))
	for i, t := range topics {
		s.index[t.ID] = i
	}
}

// CompletionBonus is the XP granted for finishing a lesson.
func (s *Session) CompletionBonus() int { return s.bonusXP }

// Topics returns a copy of the topics in display order.
func (s *Session) Topics() []model.Topic {
	return append([]model.Topic(nil), s.topics...)
}

// Topic looks up a topic by id.
func (s *Session) Topic(id string) (model.Topic, bool) {
	i, ok := s.index[id]
	if !ok {
		return model.Topic{}, false
	}
	return s.topics[i], true
}

// CompleteTopic marks a topic done: Progress=100, Completed=true and the
// completion bonus added to TotalXP. Completing an already completed topic
// awards the bonus again. Returns false for unknown ids.
func (s *Session) CompleteTopic(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.topics[i].SetProgress(100)
	s.topics[i].Completed = true
	s.AwardXP(s.bonusXP)
	return true
}

// AwardXP adds n to the XP total. Negative amounts are ignored.
func (s *Session) AwardXP(n int) {
	if n <= 0 {
		return
	}
	s.TotalXP += n
	s.xpThisRun += n
}

// AwardChallenge grants xp for solving challenge id, at most once per
// session. Returns whether XP was granted.
func (s *Session) AwardChallenge(id string, xp int) bool {
	if s.solved[id] {
		return false
	}
	s.solved[id] = true
	s.AwardXP(xp)
	return true
}

// Solved reports whether the reward for challenge id was already granted.
func (s *Session) Solved(id string) bool { return s.solved[id] }

// SolvedCount is the number of challenges rewarded this session.
func (s *Session) SolvedCount() int { return len(s.solved) }

// XPThisRun is the XP earned since the session started.
func (s *Session) XPThisRun() int { return s.xpThisRun }

// CompletedTopics counts topics marked complete.
func (s *Session) CompletedTopics() int {
	n := 0
	for _, t := range s.topics {
		if t.Completed {
			n++
		}
	}
	return n
}

// CompletionPercent is the share of completed topics.
func (s *Session) CompletionPercent() int {
	if len(s.topics) == 0 {
		return 0
	}
	return s.CompletedTopics() * 100 / len(s.topics)
}

// Achievements returns the dashboard badges.
func (s *Session) Achievements() []model.Achievement {
	return append([]model.Achievement(nil), s.achievements...)
}

// Weekly returns the "This Week" figures.
func (s *Session) Weekly() model.WeeklyStats { return s.weekly }

// ReplaceTopics swaps in a reloaded topic list, keeping progress and
// completion for ids that survive the reload.
func (s *Session) ReplaceTopics(c Catalog) {
	next := c.Topics()
	for i := range next {
		if old, ok := s.Topic(next[i].ID); ok {
			next[i].Progress = old.Progress
			next[i].Completed = old.Completed
		}
	}
	s.setTopics(next)
	s.achievements = c.Achievements()
	s.weekly = c.Weekly()
	s.bonusXP = c.Learner().CompletionBonusXP
}

// TopicProgress is the persisted slice of a topic.
type TopicProgress struct {
	ID        string `json:"id"`
	Progress  int    `json:"progress"`
	Completed bool   `json:"completed"`
}

// Snapshot is the serializable session state.
type Snapshot struct {
	Learner           string          `json:"learner,omitempty"`
	Level             int             `json:"level"`
	TotalXP           int             `json:"total_xp"`
	Streak            int             `json:"streak"`
	CompletedTopics   int             `json:"completed_topics"`
	CompletionPercent int             `json:"completion_percent"`
	Topics            []TopicProgress `json:"topics"`
	SolvedChallenges  []string        `json:"solved_challenges,omitempty"`
	TakenAt           time.Time       `json:"taken_at"`
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Learner:           s.Learner,
		Level:             s.Level,
		TotalXP:           s.TotalXP,
		Streak:            s.Streak,
		CompletedTopics:   s.CompletedTopics(),
		CompletionPercent: s.CompletionPercent(),
		Topics:            make([]TopicProgress, len(s.topics)),
		TakenAt:           time.Now().UTC(),
	}
	for i, t := range s.topics {
		snap.Topics[i] = TopicProgress{ID: t.ID, Progress: t.Progress, Completed: t.Completed}
	}
	for id := range s.solved {
		snap.SolvedChallenges = append(snap.SolvedChallenges, id)
	}
	sort.Strings(snap.SolvedChallenges)
	return snap
}

// Restore applies a snapshot. Topics missing from the catalog are skipped,
// progress is clamped.
func (s *Session) Restore(snap Snapshot) {
	s.Level = snap.Level
	s.TotalXP = snap.TotalXP
	s.Streak = snap.Streak
	if snap.Learner != "" {
		s.Learner = snap.Learner
	}
	for _, tp := range snap.Topics {
		i, ok := s.index[tp.ID]
		if !ok {
			continue
		}
		s.topics[i].SetProgress(tp.Progress)
		s.topics[i].Completed = tp.Completed
	}
	for _, id := range snap.SolvedChallenges {
		s.solved[id] = true
	}
}
