// Package testutil provides deterministic catalog fixtures for tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

// GeneratorConfig controls catalog generation.
type GeneratorConfig struct {
	Seed              int64 // Random seed for determinism
	Topics            int   // Number of topics (default 4)
	SectionsPerLesson int   // Sections per lesson (default 3)
	LessonlessTopics  int   // Trailing topics without a lesson
	Challenges        int   // Number of challenges (default 1)
	CasesPerChallenge int   // Cases per challenge (default 3)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:              42,
		Topics:            4,
		SectionsPerLesson: 3,
		LessonlessTopics:  1,
		Challenges:        1,
		CasesPerChallenge: 3,
	}
}

// Generator creates catalog fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Topics <= 0 {
		cfg.Topics = 4
	}
	if cfg.SectionsPerLesson <= 0 {
		cfg.SectionsPerLesson = 3
	}
	if cfg.LessonlessTopics < 0 || cfg.LessonlessTopics > cfg.Topics {
		cfg.LessonlessTopics = 0
	}
	if cfg.Challenges < 0 {
		cfg.Challenges = 0
	}
	if cfg.CasesPerChallenge <= 0 {
		cfg.CasesPerChallenge = 3
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var difficulties = []model.Difficulty{
	model.DifficultyBeginner,
	model.DifficultyIntermediate,
	model.DifficultyAdvanced,
}

// Topic returns topic i (1-based ids).
func (g *Generator) Topic(i int) model.Topic {
	return model.Topic{
		ID:          TopicID(i),
		Title:       fmt.Sprintf("Topic %d", i),
		Description: fmt.Sprintf("Generated topic number %d", i),
		Difficulty:  difficulties[g.rng.Intn(len(difficulties))],
		Progress:    g.rng.Intn(10) * 10,
		Recommended: i%2 == 1,
	}
}

// Lesson returns a lesson for topic id with n sections.
func (g *Generator) Lesson(id string, n int) model.Lesson {
	sections := make([]model.Section, n)
	for i := range sections {
		sections[i] = model.Section{
			ID:      fmt.Sprintf("s%d", i+1),
			Title:   fmt.Sprintf("Section %d", i+1),
			Content: fmt.Sprintf("## Section %d\n\nBody of section %d.", i+1, i+1),
		}
		if i%2 == 0 {
			sections[i].CodeExamples = []model.CodeExample{{
				Title:       "Example",
				Code:        fmt.Sprintf("System.out.println(%d);", i),
				Explanation: "Prints a number.",
				Output:      fmt.Sprint(i),
			}}
			sections[i].KeyPoints = []string{"point a", "point b"}
		}
	}
	return model.Lesson{
		ID:            id,
		Title:         "Lesson " + id,
		Description:   "Generated lesson " + id,
		Difficulty:    model.DifficultyBeginner,
		EstimatedTime: fmt.Sprintf("%d minutes", n*5),
		Objectives:    []string{"Read every section"},
		Sections:      sections,
	}
}

// Challenge returns challenge i with the configured number of cases and a
// random mock pattern of the same length.
func (g *Generator) Challenge(i int) model.Challenge {
	n := g.cfg.CasesPerChallenge
	cases := make([]model.ChallengeCase, n)
	pattern := make([]bool, n)
	for j := range cases {
		cases[j] = model.ChallengeCase{
			Input:          fmt.Sprintf("x = %d", j),
			ExpectedOutput: fmt.Sprint(j * 2),
			Explanation:    "doubles the input",
		}
		pattern[j] = g.rng.Intn(2) == 0
	}
	return model.Challenge{
		ID:          TopicID(i),
		Title:       fmt.Sprintf("Challenge %d", i),
		Difficulty:  model.ChallengeEasy,
		Description: "Double the input.",
		StarterCode: "class Solution {\n    int solve(int x) {\n        return 0;\n    }\n}",
		FileName:    "Solution.java",
		Cases:       cases,
		Hints:       []string{"Multiply.", "By two."},
		MockResults: pattern,
		RewardXP:    100,
	}
}

// Catalog builds a complete, valid catalog.
func (g *Generator) Catalog() content.Catalog {
	c := content.Catalog{
		Learner: content.LearnerDefaults{Level: 1, TotalXP: 100, Streak: 1, CompletionBonusXP: 500},
		Weekly:  model.WeeklyStats{TimeSpent: "1 hour", ChallengesSolved: 1, XPEarned: 50},
		Mentor:  MentorScript(),
	}
	withLessons := g.cfg.Topics - g.cfg.LessonlessTopics
	for i := 1; i <= g.cfg.Topics; i++ {
		c.Topics = append(c.Topics, g.Topic(i))
		if i <= withLessons {
			c.Lessons = append(c.Lessons, g.Lesson(TopicID(i), g.cfg.SectionsPerLesson))
		}
	}
	for i := 1; i <= g.cfg.Challenges; i++ {
		c.Challenges = append(c.Challenges, g.Challenge(i))
	}
	c.Achievements = []model.Achievement{
		{ID: "a1", Name: "First Steps", Description: "Open a lesson", Icon: "*", Earned: true, When: "today"},
		{ID: "a2", Name: "Finisher", Description: "Complete a topic", Icon: "+"},
	}
	c.Resources = []model.Resource{
		{Title: "Docs", URL: "https://example.com/docs", Description: "Reference", Category: "Reference"},
		{Title: "Book", URL: "https://example.com/book", Description: "Reading", Category: "Books"},
	}
	return c
}

// MentorScript returns a small ordered rule set used by mentor tests.
func MentorScript() content.MentorScript {
	return content.MentorScript{
		Greeting:    "Hi, ask me anything.",
		Suggestions: []string{"Explain OOP", "Show arrays"},
		Rules: []content.MentorRule{
			{ID: "oop", Keywords: []string{"object", "oop"}, Kind: model.KindExplanation, Template: "OOP answer"},
			{ID: "array", Keywords: []string{"array"}, Kind: model.KindExplanation, Template: "Array answer"},
			{ID: "debug", Keywords: []string{"debug", "error"}, Kind: model.KindSuggestion, Template: "Debug answer"},
		},
		Fallback: content.MentorFallback{Kind: model.KindEncouragement, Template: `You asked "{{input}}"`},
	}
}

// TopicID returns the catalog id for the i-th generated entry.
func TopicID(i int) string {
	return fmt.Sprint(i)
}

// QuickRegistry builds a registry from the default catalog, panicking on
// invalid fixtures.
func QuickRegistry() *content.Registry {
	r, err := content.New(NewDefault().Catalog())
	if err != nil {
		panic(fmt.Sprintf("testutil: default catalog invalid: %v", err))
	}
	return r
}

// Words returns n deterministic words, useful for mentor inputs that must
// not match any keyword.
func (g *Generator) Words(n int) string {
	pool := []string{"while", "method", "string", "lambda", "stream", "switch", "record", "enum"}
	out := make([]string, n)
	for i := range out {
		out[i] = pool[g.rng.Intn(len(pool))]
	}
	return strings.Join(out, " ")
}
