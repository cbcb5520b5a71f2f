package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/javamaster/pkg/mentor"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/nav"
)

// MentorReplyMsg delivers a mentor reply after the thinking delay.
type MentorReplyMsg struct {
	Reply model.ChatMessage
	Err   error
}

// MentorModel is the chat view. The input line always has focus.
type MentorModel struct {
	ctx     context.Context
	sess    *mentor.Session
	input   textinput.Model
	vp      viewport.Model
	spinner spinner.Model
	md      *MarkdownRenderer
	theme   Theme

	pending    int // replies still thinking
	suggestion int // next quick suggestion for tab
	saved      int // transcript messages already handed to persistence

	width  int
	height int
}

// NewMentorModel builds the chat view over sess.
func NewMentorModel(ctx context.Context, sess *mentor.Session, theme Theme, md *MarkdownRenderer) MentorModel {
	in := textinput.New()
	in.Placeholder = "Ask me anything about Java..."
	in.Prompt = "› "
	in.CharLimit = 500
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Ellipsis
	sp.Style = theme.Renderer.NewStyle().Foreground(theme.Primary)

	m := MentorModel{
		ctx:     ctx,
		sess:    sess,
		input:   in,
		vp:      viewport.New(80, 20),
		spinner: sp,
		md:      md,
		theme:   theme,
		width:   100,
		height:  30,
	}
	m.refresh()
	return m
}

// MarkSaved records that the first n transcript messages are already stored.
func (m *MentorModel) MarkSaved(n int) { m.saved = n }

// Session returns the underlying mentor session.
func (m MentorModel) Session() *mentor.Session { return m.sess }

// Thinking reports whether a reply is pending.
func (m MentorModel) Thinking() bool { return m.pending > 0 }

// InputValue returns the text in the input line.
func (m MentorModel) InputValue() string { return m.input.Value() }

// TakeUnsaved returns transcript messages not yet persisted and marks them
// saved. A transcript that only holds the greeting is not worth storing.
func (m *MentorModel) TakeUnsaved() []model.ChatMessage {
	msgs := m.sess.Transcript.Messages()
	if m.saved >= len(msgs) {
		return nil
	}
	if m.saved == 0 && !hasUserMessage(msgs) {
		return nil
	}
	out := msgs[m.saved:]
	m.saved = len(msgs)
	return out
}

func hasUserMessage(msgs []model.ChatMessage) bool {
	for _, msg := range msgs {
		if msg.Sender == model.SenderUser {
			return true
		}
	}
	return false
}

// SetSize sets the render area.
func (m *MentorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
	m.vp.Width = width
	m.vp.Height = max(height-6, 3)
	m.refresh()
}

func (m MentorModel) think(text string) tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		reply, err := sess.Think(ctx, text)
		return MentorReplyMsg{Reply: reply, Err: err}
	}
}

// Update handles chat input and replies.
func (m MentorModel) Update(msg tea.Msg) (MentorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case MentorReplyMsg:
		if m.pending > 0 {
			m.pending--
		}
		if msg.Err != nil {
			if errors.Is(msg.Err, context.Canceled) {
				return m, nil
			}
			err := msg.Err
			return m, func() tea.Msg { return StatusMsg{Text: fmt.Sprintf("Mentor error: %v", err), IsError: true} }
		}
		m.sess.Transcript.Append(msg.Reply)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.pending > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refresh()
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m.submit(m.input.Value())
		case "tab":
			if s := m.sess.Suggestions(); len(s) > 0 {
				m.input.SetValue(s[m.suggestion%len(s)])
				m.input.CursorEnd()
				m.suggestion++
			}
			return m, nil
		case "esc":
			if m.input.Value() != "" {
				m.input.Reset()
				return m, nil
			}
			return m, func() tea.Msg { return NavigateMsg{View: nav.Dashboard} }
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m MentorModel) submit(text string) (MentorModel, tea.Cmd) {
	if _, ok := m.sess.Transcript.Submit(text); !ok {
		return m, nil
	}
	m.input.Reset()
	m.pending++
	m.refresh()
	return m, tea.Batch(m.think(strings.TrimSpace(text)), m.spinner.Tick)
}

// refresh re-renders the transcript into the viewport and keeps it pinned
// to the newest message.
func (m *MentorModel) refresh() {
	m.vp.SetContent(m.renderTranscript())
	m.vp.GotoBottom()
}

func (m MentorModel) renderTranscript() string {
	t := m.theme
	r := t.Renderer
	bubbleWidth := max(m.width*3/4, 30)
	if m.md != nil {
		m.md.SetWidth(bubbleWidth - 4)
	}

	var b strings.Builder
	for _, msg := range m.sess.Transcript.Messages() {
		var who, body string
		if msg.Sender == model.SenderUser {
			who = t.PrimaryBold.Render("You")
			body = t.UserBubble.Width(bubbleWidth).Render(msg.Content)
		} else {
			who = r.NewStyle().Bold(true).Foreground(t.Pass).Render("Mentor")
			if msg.Kind != model.KindNone {
				who += " " + t.MutedText.Render("["+string(msg.Kind)+"]")
			}
			body = t.MentorBubble.Width(bubbleWidth).Render(m.md.RenderOrRaw(msg.Content))
		}
		b.WriteString(who + " " + t.MutedText.Render(FormatTimeRel(msg.Timestamp)))
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	if m.pending > 0 {
		b.WriteString(t.MutedText.Render("Mentor is typing" + m.spinner.View()))
	}
	return strings.TrimRight(b.String(), "\n")
}

// View renders the chat.
func (m MentorModel) View() string {
	t := m.theme
	r := t.Renderer

	var sugg []string
	for i, s := range m.sess.Suggestions() {
		sugg = append(sugg, fmt.Sprintf("%d· %s", i+1, s))
	}
	suggestions := t.MutedText.Render("Quick questions (tab): ") +
		t.InfoText.Render(truncate(strings.Join(sugg, "  "), max(m.width-24, 10)))

	title := r.NewStyle().Bold(true).Foreground(t.Primary).Render("AI Mentor") + "  " +
		t.MutedText.Render("Your personal Java programming assistant")

	input := FocusedPanelStyle.Width(m.width - 2).Render(m.input.View())
	return title + "\n" + suggestions + "\n" + m.vp.View() + "\n" + input
}
