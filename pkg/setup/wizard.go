// Package setup implements the interactive first-run wizard behind --setup.
package setup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/javamaster/pkg/config"
)

// Answers are the values collected by the wizard.
type Answers struct {
	Name          string
	DefaultView   string
	GradingDelay  string // seconds, as typed
	ThinkingDelay string // seconds, as typed
	Persist       bool
	ContentPath   string
}

// AnswersFrom pre-fills the wizard from an existing config.
func AnswersFrom(cfg config.Config) Answers {
	return Answers{
		Name:          cfg.Learner.Name,
		DefaultView:   cfg.UI.DefaultView,
		GradingDelay:  formatSeconds(cfg.Timing.GradingDelay),
		ThinkingDelay: formatSeconds(cfg.Timing.ThinkingDelay),
		Persist:       cfg.PersistenceEnabled(),
		ContentPath:   cfg.Content.Path,
	}
}

// Apply writes answers into a copy of cfg and validates the result.
func Apply(cfg config.Config, a Answers) (config.Config, error) {
	cfg.Learner.Name = strings.TrimSpace(a.Name)
	cfg.UI.DefaultView = a.DefaultView

	grading, err := parseSeconds(a.GradingDelay)
	if err != nil {
		return cfg, fmt.Errorf("grading delay: %w", err)
	}
	thinking, err := parseSeconds(a.ThinkingDelay)
	if err != nil {
		return cfg, fmt.Errorf("thinking delay: %w", err)
	}
	cfg.Timing.GradingDelay = grading
	cfg.Timing.ThinkingDelay = thinking
	cfg.Persistence.Enabled = config.Bool(a.Persist)
	cfg.Content.Path = strings.TrimSpace(a.ContentPath)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Wizard collects answers with huh forms.
type Wizard struct {
	out io.Writer
}

// NewWizard returns a wizard printing its banner to out.
func NewWizard(out io.Writer) *Wizard {
	return &Wizard{out: out}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form, switching to accessible mode without a TTY.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run asks the questions and returns the updated config. It does not save.
func (w *Wizard) Run(cfg config.Config) (config.Config, error) {
	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "JavaMaster setup")
	fmt.Fprintln(w.out, "────────────────")
	fmt.Fprintln(w.out, "Answers are saved to", config.ConfigPath())
	fmt.Fprintln(w.out, "")

	a := AnswersFrom(cfg)
	views := make([]huh.Option[string], 0, 5)
	for _, v := range []struct{ label, id string }{
		{"Dashboard", "dashboard"},
		{"Challenges", "challenges"},
		{"AI Mentor", "mentor"},
		{"Progress", "progress"},
		{"Resources", "resources"},
	} {
		views = append(views, huh.NewOption(v.label, v.id))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should we call you?").
				Value(&a.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Start on which view?").
				Options(views...).
				Value(&a.DefaultView),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Grading delay (seconds)").
				Description("How long a simulated test run takes").
				Value(&a.GradingDelay).
				Validate(validateSeconds),
			huh.NewInput().
				Title("Mentor thinking delay (seconds)").
				Value(&a.ThinkingDelay).
				Validate(validateSeconds),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Remember progress between sessions?").
				Description("Stores XP, topic progress and chat history locally").
				Value(&a.Persist).
				Affirmative("Yes").
				Negative("No"),
			huh.NewInput().
				Title("Custom catalog file (optional)").
				Placeholder("leave empty for the built-in lessons").
				Value(&a.ContentPath),
		),
	)

	if err := form.Run(); err != nil {
		return cfg, err
	}
	return Apply(cfg, a)
}

func validateSeconds(s string) error {
	_, err := parseSeconds(s)
	return err
}

func parseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("enter a number of seconds")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f <= 0 || f > 60 {
		return 0, fmt.Errorf("must be between 0 and 60 seconds, got %s", s)
	}
	return time.Duration(f * float64(time.Second)), nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
