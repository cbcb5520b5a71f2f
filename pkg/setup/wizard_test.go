package setup

import (
	"testing"
	"time"

	"github.com/vanderheijden86/javamaster/pkg/config"
)

func TestAnswersFromDefaults(t *testing.T) {
	a := AnswersFrom(config.DefaultConfig())
	if a.GradingDelay != "2" || a.ThinkingDelay != "1.5" {
		t.Errorf("delays = %q/%q, want 2/1.5", a.GradingDelay, a.ThinkingDelay)
	}
	if !a.Persist || a.DefaultView != "dashboard" {
		t.Errorf("answers = %+v", a)
	}
}

func TestApply(t *testing.T) {
	a := Answers{
		Name:          "  Ada  ",
		DefaultView:   "mentor",
		GradingDelay:  "0.5",
		ThinkingDelay: "3",
		Persist:       false,
		ContentPath:   " /tmp/catalog.yaml ",
	}
	cfg, err := Apply(config.DefaultConfig(), a)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.Learner.Name != "Ada" || cfg.UI.DefaultView != "mentor" {
		t.Errorf("learner/view = %q/%q", cfg.Learner.Name, cfg.UI.DefaultView)
	}
	if cfg.Timing.GradingDelay != 500*time.Millisecond || cfg.Timing.ThinkingDelay != 3*time.Second {
		t.Errorf("timing = %+v", cfg.Timing)
	}
	if cfg.PersistenceEnabled() {
		t.Error("persistence should be disabled")
	}
	if cfg.Content.Path != "/tmp/catalog.yaml" {
		t.Errorf("content path = %q", cfg.Content.Path)
	}
}

func TestApplyRejectsBadInput(t *testing.T) {
	base := AnswersFrom(config.DefaultConfig())
	tests := []struct {
		name   string
		mutate func(*Answers)
	}{
		{"not a number", func(a *Answers) { a.GradingDelay = "soon" }},
		{"zero", func(a *Answers) { a.ThinkingDelay = "0" }},
		{"too long", func(a *Answers) { a.GradingDelay = "120" }},
		{"empty", func(a *Answers) { a.ThinkingDelay = " " }},
		{"unknown view", func(a *Answers) { a.DefaultView = "kanban" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := base
			tt.mutate(&a)
			if _, err := Apply(config.DefaultConfig(), a); err == nil {
				t.Error("expected error")
			}
		})
	}
}
