package main

import (
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/mentor"
	"github.com/vanderheijden86/javamaster/pkg/metrics"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/session"
	"github.com/vanderheijden86/javamaster/pkg/version"
)

type robotStatusOutput struct {
	GeneratedAt string                `json:"generated_at"`
	Version     string                `json:"version"`
	Content     string                `json:"content"`
	Restored    bool                  `json:"restored"`
	StorePath   string                `json:"store_path,omitempty"`
	StoreError  string                `json:"store_error,omitempty"`
	Session     session.Snapshot      `json:"session"`
	Timings     []metrics.TimingStats `json:"timings,omitempty"`
}

type robotTopic struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Difficulty model.Difficulty `json:"difficulty"`
	HasLesson  bool             `json:"has_lesson"`
	Sections   int              `json:"sections,omitempty"`
}

type robotChallenge struct {
	ID         string                    `json:"id"`
	Title      string                    `json:"title"`
	Difficulty model.ChallengeDifficulty `json:"difficulty"`
	Cases      int                       `json:"cases"`
	Hints      int                       `json:"hints"`
	RewardXP   int                       `json:"reward_xp"`
}

type robotCatalogOutput struct {
	GeneratedAt string           `json:"generated_at"`
	Content     string           `json:"content"`
	Topics      []robotTopic     `json:"topics"`
	Challenges  []robotChallenge `json:"challenges"`
	Resources   int              `json:"resources"`
	Suggestions []string         `json:"mentor_suggestions"`
}

type robotAskOutput struct {
	Question string            `json:"question"`
	Reply    model.ChatMessage `json:"reply"`
	Rule     string            `json:"rule,omitempty"`
}

func writeRobotJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func generatedAt() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func buildStatusOutput(sess *session.Session, st *startup) robotStatusOutput {
	out := robotStatusOutput{
		GeneratedAt: generatedAt(),
		Version:     version.Version,
		Content:     st.registry.Origin(),
		Restored:    st.restored,
		Session:     sess.Snapshot(),
		Timings:     metrics.AllTimingStats(),
	}
	if st.store != nil {
		out.StorePath = st.store.Path()
	}
	if st.storeErr != nil {
		out.StoreError = st.storeErr.Error()
	}
	return out
}

func buildCatalogOutput(reg *content.Registry) robotCatalogOutput {
	out := robotCatalogOutput{
		GeneratedAt: generatedAt(),
		Content:     reg.Origin(),
		Topics:      []robotTopic{},
		Challenges:  []robotChallenge{},
		Resources:   len(reg.Resources()),
		Suggestions: reg.Mentor().Suggestions,
	}
	for _, t := range reg.Topics() {
		rt := robotTopic{ID: t.ID, Title: t.Title, Difficulty: t.Difficulty}
		if l, ok := reg.Lesson(t.ID); ok {
			rt.HasLesson = true
			rt.Sections = len(l.Sections)
		}
		out.Topics = append(out.Topics, rt)
	}
	for _, ch := range reg.Challenges() {
		out.Challenges = append(out.Challenges, robotChallenge{
			ID:         ch.ID,
			Title:      ch.Title,
			Difficulty: ch.Difficulty,
			Cases:      len(ch.Cases),
			Hints:      len(ch.Hints),
			RewardXP:   ch.RewardXP,
		})
	}
	return out
}

// buildAskOutput answers question without the thinking delay. ok is false
// for blank input.
func buildAskOutput(ms *mentor.Session, question string) (robotAskOutput, bool) {
	reply, ok := ms.Ask(question)
	if !ok {
		return robotAskOutput{}, false
	}
	out := robotAskOutput{Question: question, Reply: reply}
	if rule, matched := ms.Dispatcher().Match(question); matched {
		out.Rule = rule.ID
	}
	return out, true
}

// exportTranscriptTo writes msgs as JSON to path, or stdout for "-".
func exportTranscriptTo(path string, msgs []model.ChatMessage) error {
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	if path == "-" {
		return writeRobotJSON(os.Stdout, msgs)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating transcript file: %w", err)
	}
	if err := writeRobotJSON(f, msgs); err != nil {
		f.Close()
		return fmt.Errorf("writing transcript: %w", err)
	}
	return f.Close()
}
