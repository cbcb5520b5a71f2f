package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/session"
)

// renderProgressView shows per-topic progress, overall completion and
// achievements.
func renderProgressView(sess *session.Session, theme Theme, width, height int) string {
	t := theme
	r := t.Renderer

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(t.Primary).Render("Progress Tracking"))
	b.WriteString("\n")
	b.WriteString(t.MutedText.Render(fmt.Sprintf("%d of %d topics completed • Level %d • %s XP • %d day streak",
		sess.CompletedTopics(), len(sess.Topics()), sess.Level, formatThousands(sess.TotalXP), sess.Streak)))
	b.WriteString("\n\n")

	b.WriteString(r.NewStyle().Bold(true).Render("Overall"))
	b.WriteString("\n")
	b.WriteString(RenderProgressBar(sess.CompletionPercent(), min(40, max(width-10, 10)), t))
	b.WriteString("\n\n")

	b.WriteString(r.NewStyle().Bold(true).Render("Topics"))
	b.WriteString("\n")
	labelWidth := min(36, max(width/3, 12))
	barWidth := min(30, max(width-labelWidth-12, 10))
	for _, topic := range sess.Topics() {
		label := padRight(truncate(topic.Title, labelWidth), labelWidth)
		if topic.Completed {
			label = t.PassText.Render(label)
		}
		b.WriteString(label + "  " + RenderProgressBar(topic.Progress, barWidth, t) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(r.NewStyle().Bold(true).Render("Achievements"))
	b.WriteString("\n")
	earned := 0
	for _, a := range sess.Achievements() {
		b.WriteString(renderAchievementLine(a, t, width))
		b.WriteString("\n")
		if a.Earned {
			earned++
		}
	}
	b.WriteString(t.MutedText.Render(fmt.Sprintf("%d of %d earned", earned, len(sess.Achievements()))))

	return r.NewStyle().MaxHeight(height).Render(b.String())
}

func renderAchievementLine(a model.Achievement, t Theme, width int) string {
	line := fmt.Sprintf("%s %s - %s", a.Icon, a.Name, a.Description)
	line = truncate(line, max(width-4, 10))
	if a.Earned {
		return t.Renderer.NewStyle().Foreground(t.Pass).Render(line)
	}
	return t.MutedText.Render(line)
}
