package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/javamaster/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Topic difficulty
	Beginner     lipgloss.AdaptiveColor
	Intermediate lipgloss.AdaptiveColor
	Advanced     lipgloss.AdaptiveColor

	// Results
	Pass lipgloss.AdaptiveColor
	Fail lipgloss.AdaptiveColor
	XP   lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style

	// Pre-computed row styles, created once instead of per frame
	MutedText     lipgloss.Style
	InfoText      lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	PassText      lipgloss.Style
	FailText      lipgloss.Style
	Recommended   lipgloss.Style
	UserBubble    lipgloss.Style
	MentorBubble  lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Beginner:     lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Intermediate: lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},
		Advanced:     lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},

		Pass: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Fail: lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
		XP:   lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Tab = r.NewStyle().Foreground(t.Subtext).Padding(0, 1)
	t.TabOn = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Background(t.Primary).
		Bold(true).
		Padding(0, 1)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.InfoText = r.NewStyle().Foreground(ColorInfo)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.PassText = r.NewStyle().Foreground(t.Pass).Bold(true)
	t.FailText = r.NewStyle().Foreground(t.Fail).Bold(true)
	t.Recommended = r.NewStyle().Foreground(ThemeFg("#FFD700")).Bold(true)
	t.UserBubble = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
	t.MentorBubble = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}

// DifficultyColor maps a topic difficulty to its accent.
func (t Theme) DifficultyColor(d model.Difficulty) lipgloss.AdaptiveColor {
	switch d {
	case model.DifficultyBeginner:
		return t.Beginner
	case model.DifficultyIntermediate:
		return t.Intermediate
	case model.DifficultyAdvanced:
		return t.Advanced
	default:
		return t.Subtext
	}
}

// ChallengeColor maps a challenge difficulty to its accent.
func (t Theme) ChallengeColor(d model.ChallengeDifficulty) lipgloss.AdaptiveColor {
	switch d {
	case model.ChallengeEasy:
		return t.Beginner
	case model.ChallengeMedium:
		return t.Intermediate
	case model.ChallengeHard:
		return t.Advanced
	default:
		return t.Subtext
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
