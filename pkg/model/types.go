package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Difficulty is the learning level of a topic or lesson.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// IsValid returns true for the three known difficulty levels.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ChallengeDifficulty grades coding challenges. It is a separate scale from
// topic difficulty.
type ChallengeDifficulty string

const (
	ChallengeEasy   ChallengeDifficulty = "Easy"
	ChallengeMedium ChallengeDifficulty = "Medium"
	ChallengeHard   ChallengeDifficulty = "Hard"
)

// IsValid returns true for Easy, Medium and Hard.
func (d ChallengeDifficulty) IsValid() bool {
	switch d {
	case ChallengeEasy, ChallengeMedium, ChallengeHard:
		return true
	}
	return false
}

// Topic is a dashboard entry. Progress and Completed are the only mutable
// fields and are changed by lesson completion.
type Topic struct {
	ID          string     `yaml:"id" json:"id"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Difficulty  Difficulty `yaml:"difficulty" json:"difficulty"`
	Progress    int        `yaml:"progress" json:"progress"`
	Recommended bool       `yaml:"recommended" json:"recommended"`
	Completed   bool       `yaml:"completed" json:"completed"`
}

// SetProgress stores p clamped to [0,100].
func (t *Topic) SetProgress(p int) {
	t.Progress = ClampPercent(p)
}

// Validate checks the static fields of a topic.
func (t Topic) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("topic ID cannot be empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("topic %s: title cannot be empty", t.ID)
	}
	if !t.Difficulty.IsValid() {
		return fmt.Errorf("topic %s: invalid difficulty %q", t.ID, t.Difficulty)
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("topic %s: progress %d out of range", t.ID, t.Progress)
	}
	return nil
}

// CodeExample is a titled snippet inside a lesson section.
type CodeExample struct {
	Title       string `yaml:"title" json:"title"`
	Code        string `yaml:"code" json:"code"`
	Explanation string `yaml:"explanation" json:"explanation"`
	Output      string `yaml:"output,omitempty" json:"output,omitempty"`
}

// HasOutput reports whether the example shows expected program output.
func (c CodeExample) HasOutput() bool {
	return strings.TrimSpace(c.Output) != ""
}

// Section is one page of a lesson.
type Section struct {
	ID           string        `yaml:"id" json:"id"`
	Title        string        `yaml:"title" json:"title"`
	Content      string        `yaml:"content" json:"content"`
	CodeExamples []CodeExample `yaml:"code_examples,omitempty" json:"code_examples,omitempty"`
	KeyPoints    []string      `yaml:"key_points,omitempty" json:"key_points,omitempty"`
}

// Lesson is the static content behind a topic. Lesson.ID matches Topic.ID.
type Lesson struct {
	ID            string     `yaml:"id" json:"id"`
	Title         string     `yaml:"title" json:"title"`
	Description   string     `yaml:"description" json:"description"`
	Difficulty    Difficulty `yaml:"difficulty" json:"difficulty"`
	EstimatedTime string     `yaml:"estimated_time" json:"estimated_time"`
	Objectives    []string   `yaml:"objectives,omitempty" json:"objectives,omitempty"`
	Sections      []Section  `yaml:"sections" json:"sections"`
}

// SectionCount returns the number of sections.
func (l Lesson) SectionCount() int {
	return len(l.Sections)
}

// ChallengeCase is one example test case shown next to a challenge.
type ChallengeCase struct {
	Input          string `yaml:"input" json:"input"`
	ExpectedOutput string `yaml:"expected_output" json:"expected_output"`
	Explanation    string `yaml:"explanation" json:"explanation"`
}

// Challenge is a coding exercise graded by the mock grader. MockResults is
// the canned pass/fail pattern the grader reports for it.
type Challenge struct {
	ID          string              `yaml:"id" json:"id"`
	Title       string              `yaml:"title" json:"title"`
	Difficulty  ChallengeDifficulty `yaml:"difficulty" json:"difficulty"`
	Description string              `yaml:"description" json:"description"`
	StarterCode string              `yaml:"starter_code" json:"starter_code"`
	FileName    string              `yaml:"file_name,omitempty" json:"file_name,omitempty"`
	Cases       []ChallengeCase     `yaml:"cases" json:"cases"`
	Hints       []string            `yaml:"hints,omitempty" json:"hints,omitempty"`
	MockResults []bool              `yaml:"mock_results,omitempty" json:"mock_results,omitempty"`
	RewardXP    int                 `yaml:"reward_xp,omitempty" json:"reward_xp,omitempty"`
}

// Sender identifies the author of a chat message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderMentor Sender = "mentor"
)

// ResponseKind tags mentor replies.
type ResponseKind string

const (
	KindNone          ResponseKind = ""
	KindSuggestion    ResponseKind = "suggestion"
	KindExplanation   ResponseKind = "explanation"
	KindEncouragement ResponseKind = "encouragement"
)

// ChatMessage is one entry of the mentor transcript.
type ChatMessage struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Sender    Sender       `json:"sender"`
	Timestamp time.Time    `json:"timestamp"`
	Kind      ResponseKind `json:"kind,omitempty"`
}

// Achievement is a badge shown on the dashboard.
type Achievement struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	Earned      bool   `yaml:"earned" json:"earned"`
	When        string `yaml:"when,omitempty" json:"when,omitempty"`
}

// Resource is a curated external reference.
type Resource struct {
	Title       string `yaml:"title" json:"title"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
	Category    string `yaml:"category" json:"category"`
}

// WeeklyStats holds the "This Week" figures shown on the dashboard.
type WeeklyStats struct {
	TimeSpent        string `yaml:"time_spent" json:"time_spent"`
	ChallengesSolved int    `yaml:"challenges_solved" json:"challenges_solved"`
	XPEarned         int    `yaml:"xp_earned" json:"xp_earned"`
}

// ClampPercent limits p to [0,100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
