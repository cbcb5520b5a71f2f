package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/session"
)

// DashboardModel is the topic list with stat tiles and the sidebar.
type DashboardModel struct {
	sess   *session.Session
	theme  Theme
	cursor int

	// openRequest is set when the learner picks a topic; the shell
	// consumes it with TakeOpenRequest.
	openRequest string
}

// NewDashboardModel creates a dashboard over sess.
func NewDashboardModel(sess *session.Session, theme Theme) DashboardModel {
	return DashboardModel{sess: sess, theme: theme}
}

// Cursor returns the selected topic row.
func (m DashboardModel) Cursor() int { return m.cursor }

// SelectedTopic returns the topic under the cursor.
func (m DashboardModel) SelectedTopic() (model.Topic, bool) {
	topics := m.sess.Topics()
	if len(topics) == 0 {
		return model.Topic{}, false
	}
	return topics[clampInt(m.cursor, 0, len(topics)-1)], true
}

// TakeOpenRequest returns and clears a pending "open lesson" request.
func (m *DashboardModel) TakeOpenRequest() (string, bool) {
	id := m.openRequest
	m.openRequest = ""
	return id, id != ""
}

// Update handles list navigation.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	n := len(m.sess.Topics())
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		if n > 0 {
			m.cursor = n - 1
		}
	case "enter", " ", "o":
		if t, ok := m.SelectedTopic(); ok {
			m.openRequest = t.ID
		}
	}
	return m, nil
}

// View renders the dashboard into width x height cells.
func (m DashboardModel) View(width, height int) string {
	t := m.theme
	r := t.Renderer

	sidebarWidth := 34
	mainWidth := width - sidebarWidth - SpaceSM
	showSidebar := mainWidth >= 50
	if !showSidebar {
		mainWidth = width
	}

	var main strings.Builder
	main.WriteString(r.NewStyle().Bold(true).Foreground(t.Primary).
		Render(fmt.Sprintf("Welcome back, %s!", m.sess.Learner)))
	main.WriteString("\n")
	main.WriteString(t.MutedText.Render("Ready to continue your Java journey? Pick a topic and press enter."))
	main.WriteString("\n\n")
	main.WriteString(m.renderTiles(mainWidth))
	main.WriteString("\n\n")
	main.WriteString(r.NewStyle().Bold(true).Render("Learning Path"))
	main.WriteString("\n")
	main.WriteString(m.renderTopics(mainWidth))

	body := main.String()
	if showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, strings.Repeat(" ", SpaceSM), m.renderSidebar(sidebarWidth))
	}
	return r.NewStyle().MaxHeight(height).Render(body)
}

func (m DashboardModel) renderTiles(width int) string {
	t := m.theme
	tileWidth := (width - 4*2) / 4
	if tileWidth < 12 {
		tileWidth = 12
	}
	tiles := []string{
		RenderStatTile("Level", fmt.Sprintf("%d", m.sess.Level), t.Intermediate, tileWidth, t),
		RenderStatTile("Total XP", formatThousands(m.sess.TotalXP), t.Primary, tileWidth, t),
		RenderStatTile("Streak", fmt.Sprintf("%d days", m.sess.Streak), t.Advanced, tileWidth, t),
		RenderStatTile("Completed", fmt.Sprintf("%d%%", m.sess.CompletionPercent()), t.Pass, tileWidth, t),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}

func (m DashboardModel) renderTopics(width int) string {
	t := m.theme
	r := t.Renderer
	topics := m.sess.Topics()
	if len(topics) == 0 {
		return t.MutedText.Render("No topics in the catalog.")
	}

	var b strings.Builder
	for i, topic := range topics {
		mark := "○"
		markStyle := t.MutedText
		if topic.Completed {
			mark = "✓"
			markStyle = t.PassText
		}

		title := topic.Title
		if topic.Recommended {
			title += " " + t.Recommended.Render("★ Recommended")
		}
		line1 := fmt.Sprintf("%s %s  %s", markStyle.Render(mark), r.NewStyle().Bold(true).Render(title),
			RenderDifficultyBadge(topic.Difficulty))

		desc := truncate(topic.Description, width-6)
		line2 := "  " + t.MutedText.Render(desc)
		barWidth := width - 14
		if barWidth > 30 {
			barWidth = 30
		}
		line3 := "  " + RenderProgressBar(topic.Progress, barWidth, t)

		row := line1 + "\n" + line2 + "\n" + line3
		if i == m.cursor {
			row = t.Selected.Width(width - 2).Render(row)
		} else {
			row = r.NewStyle().PaddingLeft(2).Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m DashboardModel) renderSidebar(width int) string {
	t := m.theme
	r := t.Renderer
	inner := width - 4

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Render("Achievements"))
	b.WriteString("\n")
	for _, a := range m.sess.Achievements() {
		name := a.Icon + " " + a.Name
		if a.Earned {
			b.WriteString(r.NewStyle().Foreground(t.Pass).Render(truncate(name, inner)))
			if a.When != "" {
				b.WriteString("\n  " + t.MutedText.Render(a.When))
			}
		} else {
			b.WriteString(t.MutedText.Render(truncate(name, inner)))
			b.WriteString("\n  " + t.MutedText.Render(truncate(a.Description, inner-2)))
		}
		b.WriteString("\n")
	}

	w := m.sess.Weekly()
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Bold(true).Render("This Week"))
	b.WriteString("\n")
	stat := func(label, value string) {
		b.WriteString(padRight(label, inner-lipgloss.Width(value)) + value + "\n")
	}
	stat("Time Spent", w.TimeSpent)
	stat("Challenges Solved", fmt.Sprintf("%d", w.ChallengesSolved+m.sess.SolvedCount()))
	stat("Topics Completed", fmt.Sprintf("%d", m.sess.CompletedTopics()))
	stat("XP Earned", t.Renderer.NewStyle().Foreground(t.XP).Render(fmt.Sprintf("+%d XP", w.XPEarned+m.sess.XPThisRun())))

	b.WriteString("\n")
	b.WriteString(t.InfoText.Render("Tip: finish every section of a lesson to earn a completion bonus."))

	return PanelStyle.Width(width - 2).Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}
