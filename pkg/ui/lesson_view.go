package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/lesson"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

// LessonCompletedMsg is emitted when the learner finishes the last section.
type LessonCompletedMsg struct {
	TopicID string
}

// LessonClosedMsg is emitted when the learner leaves the lesson without
// finishing it.
type LessonClosedMsg struct{}

// StatusMsg carries a one-line status bar message.
type StatusMsg struct {
	Text    string
	IsError bool
}

// LessonModel renders one lesson and drives its progress tracker. A nil
// tracker means the topic has no lesson and the view shows a not-found state.
type LessonModel struct {
	topicID      string
	tracker      *lesson.Tracker
	theme        Theme
	md           *MarkdownRenderer
	scrollOffset int
	width        int
	height       int
	sidebar      bool
}

// NewLessonModel opens l at its first section. Pass found=false for a topic
// without a lesson.
func NewLessonModel(topicID string, l model.Lesson, found bool, theme Theme, md *MarkdownRenderer) LessonModel {
	m := LessonModel{
		topicID: topicID,
		theme:   theme,
		md:      md,
		width:   100,
		height:  30,
		sidebar: true,
	}
	if !found {
		return m
	}
	tr, err := lesson.New(l)
	if err != nil {
		debug.Log("lesson %s: %v", topicID, err)
		return m
	}
	m.tracker = tr
	return m
}

// TopicID returns the topic this lesson belongs to.
func (m LessonModel) TopicID() string { return m.topicID }

// Found reports whether a lesson exists for the topic.
func (m LessonModel) Found() bool { return m.tracker != nil }

// Tracker exposes the progress tracker, nil when not found.
func (m LessonModel) Tracker() *lesson.Tracker { return m.tracker }

// SetSize sets the render area.
func (m *LessonModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func closeLesson() tea.Msg { return LessonClosedMsg{} }

// Update handles lesson keys.
func (m LessonModel) Update(msg tea.Msg) (LessonModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.tracker == nil {
		switch keyMsg.String() {
		case "esc", "b", "enter", "backspace":
			return m, closeLesson
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "b", "backspace":
		return m, closeLesson

	case "n", "right", "l":
		if m.tracker.GoNext() {
			m.scrollOffset = 0
		}
	case "p", "left", "h":
		if m.tracker.GoPrevious() {
			m.scrollOffset = 0
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if m.tracker.JumpTo(int(keyMsg.String()[0]-'0') - 1) {
			m.scrollOffset = 0
		}

	case "c", "m":
		return m.markComplete()
	case "enter":
		// On the last section enter is "Complete Lesson"; elsewhere "Next".
		if m.tracker.IsLast() {
			return m.markComplete()
		}
		if m.tracker.GoNext() {
			m.scrollOffset = 0
		}

	case "y":
		return m, m.copyCodeCmd()

	case "t":
		m.sidebar = !m.sidebar

	case "j", "down":
		m.scrollOffset++
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	case "ctrl+d":
		m.scrollOffset += m.visibleHeight() / 2
	case "ctrl+u":
		m.scrollOffset -= m.visibleHeight() / 2
		if m.scrollOffset < 0 {
			m.scrollOffset = 0
		}
	case "g", "home":
		m.scrollOffset = 0
	}
	return m, nil
}

func (m LessonModel) markComplete() (LessonModel, tea.Cmd) {
	ev := m.tracker.MarkCurrentComplete()
	debug.Log("lesson %s: section %d complete (new=%v, lesson=%v)", m.topicID, ev.Section, ev.NewlyCompleted, ev.LessonCompleted)
	if ev.LessonCompleted {
		id := m.topicID
		return m, func() tea.Msg { return LessonCompletedMsg{TopicID: id} }
	}
	return m, nil
}

func (m LessonModel) copyCodeCmd() tea.Cmd {
	examples := m.tracker.Current().CodeExamples
	if len(examples) == 0 {
		return func() tea.Msg { return StatusMsg{Text: "No code example in this section"} }
	}
	code := examples[0].Code
	title := examples[0].Title
	return func() tea.Msg {
		if err := clipboard.WriteAll(code); err != nil {
			return StatusMsg{Text: fmt.Sprintf("Clipboard error: %v", err), IsError: true}
		}
		return StatusMsg{Text: fmt.Sprintf("Copied %q to clipboard", title)}
	}
}

func (m LessonModel) visibleHeight() int {
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

// View renders the lesson.
func (m LessonModel) View() string {
	if m.tracker == nil {
		return m.renderNotFound()
	}
	t := m.theme
	r := t.Renderer

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(RenderDivider(m.width))
	b.WriteString("\n")

	contentWidth := m.width
	sidebarWidth := 30
	showSidebar := m.sidebar && m.width >= 80
	if showSidebar {
		contentWidth = m.width - sidebarWidth - SpaceSM
	}

	content := m.renderSection(contentWidth)
	if showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(sidebarWidth), strings.Repeat(" ", SpaceSM), content))
	} else {
		b.WriteString(content)
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return r.NewStyle().MaxHeight(m.height).Render(b.String())
}

func (m LessonModel) renderHeader() string {
	t := m.theme
	r := t.Renderer
	l := m.tracker.Lesson()

	title := r.NewStyle().Bold(true).Foreground(t.Primary).Render(l.Title)
	meta := fmt.Sprintf("%s  %s  %s",
		RenderDifficultyBadge(l.Difficulty),
		t.MutedText.Render("⏱ "+l.EstimatedTime),
		t.MutedText.Render(fmt.Sprintf("%d sections", m.tracker.Len())))

	pos := t.MutedText.Render(fmt.Sprintf("Section %d of %d", m.tracker.Cursor()+1, m.tracker.Len()))
	bar := RenderProgressBar(m.tracker.Percent(), 20, t)
	return title + "  " + meta + "\n" + pos + "  " + bar
}

func (m LessonModel) renderSidebar(width int) string {
	t := m.theme
	r := t.Renderer
	l := m.tracker.Lesson()

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Render("Sections"))
	b.WriteString("\n")
	for i, s := range l.Sections {
		mark := t.MutedText.Render("○")
		if m.tracker.IsCompleted(i) {
			mark = t.PassText.Render("✓")
		}
		label := truncate(fmt.Sprintf("%d. %s", i+1, s.Title), width-6)
		if i == m.tracker.Cursor() {
			label = t.PrimaryBold.Render(label)
		}
		b.WriteString(mark + " " + label + "\n")
	}

	if len(l.Objectives) > 0 {
		b.WriteString("\n")
		b.WriteString(r.NewStyle().Bold(true).Render("Objectives"))
		b.WriteString("\n")
		for _, o := range l.Objectives {
			b.WriteString(t.MutedText.Render("• "+truncate(o, width-6)) + "\n")
		}
	}

	return PanelStyle.Width(width - 2).Padding(0, 1).Render(strings.TrimRight(b.String(), "\n"))
}

func (m LessonModel) renderSection(width int) string {
	t := m.theme
	r := t.Renderer
	s := m.tracker.Current()

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(t.Primary).Render(s.Title))
	if m.tracker.IsCompleted(m.tracker.Cursor()) {
		b.WriteString("  " + t.PassText.Render("✓ Completed"))
	}
	b.WriteString("\n\n")

	if m.md != nil {
		m.md.SetWidth(width)
	}
	b.WriteString(m.md.RenderOrRaw(s.Content))
	b.WriteString("\n")

	if len(s.KeyPoints) > 0 {
		b.WriteString("\n")
		b.WriteString(r.NewStyle().Bold(true).Foreground(t.Intermediate).Render("Key Points"))
		b.WriteString("\n")
		for _, p := range s.KeyPoints {
			b.WriteString("  • " + p + "\n")
		}
	}

	for _, ex := range s.CodeExamples {
		b.WriteString("\n")
		b.WriteString(r.NewStyle().Bold(true).Render(ex.Title))
		b.WriteString("\n")
		b.WriteString(m.md.RenderOrRaw("```java\n" + strings.TrimRight(ex.Code, "\n") + "\n```"))
		b.WriteString("\n")
		if ex.Explanation != "" {
			b.WriteString(t.InfoText.Render(ex.Explanation))
			b.WriteString("\n")
		}
		if ex.HasOutput() {
			b.WriteString(t.MutedText.Render("Output:"))
			b.WriteString("\n")
			b.WriteString(r.NewStyle().Foreground(t.Pass).Render(strings.TrimRight(ex.Output, "\n")))
			b.WriteString("\n")
		}
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	visible := m.visibleHeight()
	offset := clampInt(m.scrollOffset, 0, max(len(lines)-visible, 0))
	end := min(offset+visible, len(lines))
	out := strings.Join(lines[offset:end], "\n")
	if offset > 0 {
		out = t.MutedText.Render("↑ more above") + "\n" + out
	}
	if end < len(lines) {
		out += "\n" + t.MutedText.Render("↓ more below")
	}
	return out
}

func (m LessonModel) renderFooter() string {
	t := m.theme
	var action string
	switch {
	case m.tracker.IsLast():
		action = "enter/c complete lesson"
	case m.tracker.IsCompleted(m.tracker.Cursor()):
		action = "n next"
	default:
		action = "c mark complete • n next"
	}
	return t.MutedText.Render(fmt.Sprintf("p prev • %s • 1-9 jump • y copy code • t sections • esc back  (%d/%d done)",
		action, m.tracker.CompletedCount(), m.tracker.Len()))
}

func (m LessonModel) renderNotFound() string {
	t := m.theme
	r := t.Renderer
	body := r.NewStyle().Bold(true).Foreground(t.Fail).Render("Lesson Not Found") + "\n\n" +
		t.MutedText.Render("There is no lesson for this topic yet.") + "\n\n" +
		t.PrimaryBold.Render("[esc] Back to Dashboard")
	return PanelStyle.Padding(1, 3).Render(body)
}
