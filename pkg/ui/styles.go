package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/javamaster/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// DESIGN TOKENS - Consistent spacing, colors, and visual language
// ══════════════════════════════════════════════════════════════════════════════

// Spacing constants for consistent layout (in characters)
const (
	SpaceXS = 1
	SpaceSM = 2
	SpaceMD = 3
	SpaceLG = 4
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Adaptive colors for light and dark terminals
// Light mode colors tuned for WCAG AA compliance (contrast ratio >= 4.5:1)
// ══════════════════════════════════════════════════════════════════════════════

var (
	ColorBg          = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}
	ColorBgSubtle    = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#363949"}
	ColorBgHighlight = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#44475A"}
	ColorText        = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext     = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted       = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger  = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	// Difficulty badge backgrounds
	ColorBeginnerBg     = lipgloss.AdaptiveColor{Light: "#D4EDDA", Dark: "#1A3D2A"}
	ColorIntermediateBg = lipgloss.AdaptiveColor{Light: "#FFE8CC", Dark: "#3D2A1A"}
	ColorAdvancedBg     = lipgloss.AdaptiveColor{Light: "#F8D7DA", Dark: "#3D1A1A"}
)

// ══════════════════════════════════════════════════════════════════════════════
// PANEL STYLES
// ══════════════════════════════════════════════════════════════════════════════

var (
	// PanelStyle is the default style for unfocused panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBgHighlight)

	// FocusedPanelStyle is the style for focused panels
	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGES
// ══════════════════════════════════════════════════════════════════════════════

// RenderDifficultyBadge returns a styled topic difficulty badge.
func RenderDifficultyBadge(d model.Difficulty) string {
	var fg, bg lipgloss.AdaptiveColor
	switch d {
	case model.DifficultyBeginner:
		fg, bg = ColorSuccess, ColorBeginnerBg
	case model.DifficultyIntermediate:
		fg, bg = ColorWarning, ColorIntermediateBg
	case model.DifficultyAdvanced:
		fg, bg = ColorDanger, ColorAdvancedBg
	default:
		fg, bg = ColorMuted, ColorBgSubtle
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Padding(0, 1).
		Render(string(d))
}

// RenderChallengeBadge returns a styled challenge difficulty badge.
func RenderChallengeBadge(d model.ChallengeDifficulty) string {
	var fg, bg lipgloss.AdaptiveColor
	switch d {
	case model.ChallengeEasy:
		fg, bg = ColorSuccess, ColorBeginnerBg
	case model.ChallengeMedium:
		fg, bg = ColorWarning, ColorIntermediateBg
	case model.ChallengeHard:
		fg, bg = ColorDanger, ColorAdvancedBg
	default:
		fg, bg = ColorMuted, ColorBgSubtle
	}
	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(string(d))
}

// ══════════════════════════════════════════════════════════════════════════════
// METRIC VISUALIZATION
// ══════════════════════════════════════════════════════════════════════════════

// RenderProgressBar renders a bar for a percentage in [0,100], followed by
// the number.
func RenderProgressBar(percent, width int, t Theme) string {
	if width <= 0 {
		return ""
	}
	percent = model.ClampPercent(percent)
	filled := percent * width / 100

	var barColor lipgloss.AdaptiveColor
	switch {
	case percent >= 100:
		barColor = t.Pass
	case percent >= 50:
		barColor = t.Primary
	case percent > 0:
		barColor = t.Intermediate
	default:
		barColor = t.Secondary
	}

	bar := t.Renderer.NewStyle().Foreground(barColor).Render(strings.Repeat("█", filled)) +
		t.Renderer.NewStyle().Foreground(t.Muted).Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, percent)
}

// RenderStatTile renders one of the dashboard's headline figures.
func RenderStatTile(label, value string, accent lipgloss.AdaptiveColor, width int, t Theme) string {
	r := t.Renderer
	body := r.NewStyle().Foreground(t.Subtext).Render(label) + "\n" +
		r.NewStyle().Foreground(accent).Bold(true).Render(value)
	return r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width).
		Render(body)
}

// ══════════════════════════════════════════════════════════════════════════════
// DIVIDERS AND SEPARATORS
// ══════════════════════════════════════════════════════════════════════════════

// RenderDivider renders a horizontal divider line
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorBgHighlight).
		Render(strings.Repeat("─", width))
}

// RenderSubtleDivider renders a more subtle divider using dots
func RenderSubtleDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(ColorMuted).
		Render(strings.Repeat("·", width))
}
