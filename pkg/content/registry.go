// Package content holds the immutable catalog of lessons, challenges and
// mentor responses.
//
// The built-in catalog is embedded from catalog.yaml. A file with the same
// shape can replace it at startup (and be hot-reloaded by the watcher), so a
// future backend only has to satisfy the Source lookup contract.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/metrics"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Validation errors.
var (
	ErrEmptyLesson   = errors.New("lesson has no sections")
	ErrDuplicateID   = errors.New("duplicate id")
	ErrUnknownTopic  = errors.New("lesson refers to unknown topic")
	ErrNoCases       = errors.New("challenge has no test cases")
	ErrMissingFields = errors.New("required field missing")
)

// Source is the lookup contract the rest of the application depends on.
type Source interface {
	Topics() []model.Topic
	Lesson(id string) (model.Lesson, bool)
	Challenges() []model.Challenge
	Challenge(id string) (model.Challenge, bool)
}

// LearnerDefaults seeds the session counters.
type LearnerDefaults struct {
	Level             int `yaml:"level" json:"level"`
	TotalXP           int `yaml:"total_xp" json:"total_xp"`
	Streak            int `yaml:"streak" json:"streak"`
	CompletionBonusXP int `yaml:"completion_bonus_xp" json:"completion_bonus_xp"`
}

// MentorRule is one keyword rule of the mentor script. Rules are evaluated in
// file order.
type MentorRule struct {
	ID       string             `yaml:"id" json:"id"`
	Keywords []string           `yaml:"keywords" json:"keywords"`
	Kind     model.ResponseKind `yaml:"kind" json:"kind"`
	Template string             `yaml:"template" json:"template"`
}

// MentorFallback is used when no rule matches. {{input}} is replaced with
// the user's text.
type MentorFallback struct {
	Kind     model.ResponseKind `yaml:"kind" json:"kind"`
	Template string             `yaml:"template" json:"template"`
}

// MentorScript is the canned mentor conversation data.
type MentorScript struct {
	Greeting    string         `yaml:"greeting" json:"greeting"`
	Suggestions []string       `yaml:"suggestions" json:"suggestions"`
	Rules       []MentorRule   `yaml:"rules" json:"rules"`
	Fallback    MentorFallback `yaml:"fallback" json:"fallback"`
}

// Catalog is the on-disk shape of the content file.
type Catalog struct {
	Learner      LearnerDefaults     `yaml:"learner"`
	Topics       []model.Topic       `yaml:"topics"`
	Lessons      []model.Lesson      `yaml:"lessons"`
	Challenges   []model.Challenge   `yaml:"challenges"`
	Achievements []model.Achievement `yaml:"achievements"`
	Weekly       model.WeeklyStats   `yaml:"weekly"`
	Resources    []model.Resource    `yaml:"resources"`
	Mentor       MentorScript        `yaml:"mentor"`
}

// Registry is a validated, indexed, read-only Catalog. All accessors return
// copies so callers cannot mutate the registry.
type Registry struct {
	catalog    Catalog
	lessons    map[string]int
	challenges map[string]int
	origin     string
}

// Default returns the registry built from the embedded catalog.
func Default() (*Registry, error) {
	r, err := Parse(builtinCatalog)
	if err != nil {
		return nil, fmt.Errorf("built-in catalog: %w", err)
	}
	r.origin = "builtin"
	return r, nil
}

// Load reads and validates a catalog file.
func Load(path string) (*Registry, error) {
	start := time.Now()
	defer func() {
		metrics.ContentLoad.Record(time.Since(start))
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	r.origin = path
	debug.Log("content: loaded %d topics, %d lessons from %s", len(r.catalog.Topics), len(r.catalog.Lessons), path)
	return r, nil
}

// LoadOrDefault loads path when set, otherwise the built-in catalog.
func LoadOrDefault(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	return Load(path)
}

// Parse decodes YAML catalog data into a registry.
func Parse(data []byte) (*Registry, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(c)
}

// New validates c and indexes it.
func New(c Catalog) (*Registry, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	r := &Registry{
		catalog:    c,
		lessons:    make(map[string]int, len(c.Lessons)),
		challenges: make(map[string]int, len(c.Challenges)),
		origin:     "memory",
	}
	for i, l := range c.Lessons {
		r.lessons[l.ID] = i
	}
	for i, ch := range c.Challenges {
		r.challenges[ch.ID] = i
	}
	return r, nil
}

// Validate checks catalog invariants.
func Validate(c Catalog) error {
	topicIDs := make(map[string]bool, len(c.Topics))
	for _, t := range c.Topics {
		if err := t.Validate(); err != nil {
			return err
		}
		if topicIDs[t.ID] {
			return fmt.Errorf("topic %s: %w", t.ID, ErrDuplicateID)
		}
		topicIDs[t.ID] = true
	}

	lessonIDs := make(map[string]bool, len(c.Lessons))
	for _, l := range c.Lessons {
		if strings.TrimSpace(l.ID) == "" {
			return fmt.Errorf("lesson id: %w", ErrMissingFields)
		}
		if lessonIDs[l.ID] {
			return fmt.Errorf("lesson %s: %w", l.ID, ErrDuplicateID)
		}
		lessonIDs[l.ID] = true
		if !topicIDs[l.ID] {
			return fmt.Errorf("lesson %s: %w", l.ID, ErrUnknownTopic)
		}
		if len(l.Sections) == 0 {
			return fmt.Errorf("lesson %s: %w", l.ID, ErrEmptyLesson)
		}
		for i, s := range l.Sections {
			if strings.TrimSpace(s.Title) == "" {
				return fmt.Errorf("lesson %s section %d title: %w", l.ID, i, ErrMissingFields)
			}
		}
	}

	challengeIDs := make(map[string]bool, len(c.Challenges))
	for _, ch := range c.Challenges {
		if strings.TrimSpace(ch.ID) == "" {
			return fmt.Errorf("challenge id: %w", ErrMissingFields)
		}
		if challengeIDs[ch.ID] {
			return fmt.Errorf("challenge %s: %w", ch.ID, ErrDuplicateID)
		}
		challengeIDs[ch.ID] = true
		if len(ch.Cases) == 0 {
			return fmt.Errorf("challenge %s: %w", ch.ID, ErrNoCases)
		}
		if ch.Difficulty != "" && !ch.Difficulty.IsValid() {
			return fmt.Errorf("challenge %s: invalid difficulty %q", ch.ID, ch.Difficulty)
		}
	}

	for _, rule := range c.Mentor.Rules {
		if len(rule.Keywords) == 0 || strings.TrimSpace(rule.Template) == "" {
			return fmt.Errorf("mentor rule %q: %w", rule.ID, ErrMissingFields)
		}
		// A blank keyword is a substring of every input.
		for i, kw := range rule.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("mentor rule %q keyword %d: %w", rule.ID, i, ErrMissingFields)
			}
		}
	}
	return nil
}

// Origin describes where the catalog came from ("builtin" or a file path).
func (r *Registry) Origin() string {
	return r.origin
}

// Learner returns the starting counters for a new session.
func (r *Registry) Learner() LearnerDefaults {
	return r.catalog.Learner
}

// Topics returns the dashboard topics in catalog order.
func (r *Registry) Topics() []model.Topic {
	return append([]model.Topic(nil), r.catalog.Topics...)
}

// Lesson looks up the lesson for a topic id.
func (r *Registry) Lesson(id string) (model.Lesson, bool) {
	i, ok := r.lessons[id]
	if !ok {
		return model.Lesson{}, false
	}
	return cloneLesson(r.catalog.Lessons[i]), true
}

// HasLesson reports whether a lesson exists for id.
func (r *Registry) HasLesson(id string) bool {
	_, ok := r.lessons[id]
	return ok
}

// Challenges returns all challenges in catalog order.
func (r *Registry) Challenges() []model.Challenge {
	out := make([]model.Challenge, len(r.catalog.Challenges))
	for i, ch := range r.catalog.Challenges {
		out[i] = cloneChallenge(ch)
	}
	return out
}

// Challenge looks up a challenge by id.
func (r *Registry) Challenge(id string) (model.Challenge, bool) {
	i, ok := r.challenges[id]
	if !ok {
		return model.Challenge{}, false
	}
	return cloneChallenge(r.catalog.Challenges[i]), true
}

// Achievements returns the dashboard badges.
func (r *Registry) Achievements() []model.Achievement {
	return append([]model.Achievement(nil), r.catalog.Achievements...)
}

// Weekly returns the mock "This Week" figures.
func (r *Registry) Weekly() model.WeeklyStats {
	return r.catalog.Weekly
}

// Resources returns the curated resource list.
func (r *Registry) Resources() []model.Resource {
	return append([]model.Resource(nil), r.catalog.Resources...)
}

// Mentor returns the mentor script.
func (r *Registry) Mentor() MentorScript {
	m := r.catalog.Mentor
	m.Suggestions = append([]string(nil), m.Suggestions...)
	rules := make([]MentorRule, len(m.Rules))
	for i, rule := range m.Rules {
		rule.Keywords = append([]string(nil), rule.Keywords...)
		rules[i] = rule
	}
	m.Rules = rules
	return m
}

func cloneLesson(l model.Lesson) model.Lesson {
	l.Objectives = append([]string(nil), l.Objectives...)
	sections := make([]model.Section, len(l.Sections))
	for i, s := range l.Sections {
		s.CodeExamples = append([]model.CodeExample(nil), s.CodeExamples...)
		s.KeyPoints = append([]string(nil), s.KeyPoints...)
		sections[i] = s
	}
	l.Sections = sections
	return l
}

func cloneChallenge(ch model.Challenge) model.Challenge {
	ch.Cases = append([]model.ChallengeCase(nil), ch.Cases...)
	ch.Hints = append([]string(nil), ch.Hints...)
	ch.MockResults = append([]bool(nil), ch.MockResults...)
	return ch
}
