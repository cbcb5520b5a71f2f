package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/javamaster/pkg/mentor"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/nav"
	"github.com/vanderheijden86/javamaster/pkg/testutil"
)

func newMentorModel(t *testing.T) MentorModel {
	t.Helper()
	sess := mentor.NewSession(testutil.MentorScript(), time.Millisecond)
	return NewMentorModel(context.Background(), sess, TestTheme(), NewMarkdownRenderer(80, true))
}

func typeInto(m MentorModel, text string) MentorModel {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestMentorBlankSubmit(t *testing.T) {
	m := newMentorModel(t)
	m = typeInto(m, "   ")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank submit should not schedule a reply")
	}
	if m.Thinking() {
		t.Error("blank submit should not start thinking")
	}
	if m.Session().Transcript.Len() != 1 {
		t.Errorf("transcript len = %d, want 1", m.Session().Transcript.Len())
	}
}

func TestMentorSubmitThinksAndReplies(t *testing.T) {
	m := newMentorModel(t)
	m = typeInto(m, "What is an array?")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should schedule a reply")
	}
	if m.InputValue() != "" {
		t.Errorf("input should be cleared, got %q", m.InputValue())
	}
	if !m.Thinking() {
		t.Error("mentor should be thinking")
	}
	if !strings.Contains(m.View(), "What is an array?") {
		t.Error("user message should be shown immediately")
	}

	reply := m.think("What is an array?")()
	m, _ = m.Update(reply)
	if m.Thinking() {
		t.Error("reply should end thinking")
	}
	testutil.AssertTranscript(t, m.Session().Transcript.Messages(),
		model.SenderMentor, model.SenderUser, model.SenderMentor)
	last, _ := m.Session().Transcript.Last()
	if last.Content != "Array answer" {
		t.Errorf("reply = %q, want the array rule", last.Content)
	}
}

func TestMentorReplyErrors(t *testing.T) {
	m := newMentorModel(t)
	m = typeInto(m, "hi")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := m.Update(MentorReplyMsg{Err: context.Canceled})
	if cmd != nil {
		t.Error("cancelled reply should be silent")
	}
	if m.Thinking() {
		t.Error("cancelled reply should end thinking")
	}

	_, cmd = m.Update(MentorReplyMsg{Err: errors.New("boom")})
	if cmd == nil {
		t.Fatal("other errors should surface")
	}
	if st, ok := cmd().(StatusMsg); !ok || !st.IsError {
		t.Errorf("got %#v, want error StatusMsg", cmd())
	}
}

func TestMentorThinkCancelled(t *testing.T) {
	sess := mentor.NewSession(testutil.MentorScript(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMentorModel(ctx, sess, TestTheme(), NewMarkdownRenderer(80, true))
	cancel()
	msg := m.think("anything")().(MentorReplyMsg)
	if !errors.Is(msg.Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", msg.Err)
	}
}

func TestMentorTakeUnsaved(t *testing.T) {
	m := newMentorModel(t)
	if got := m.TakeUnsaved(); got != nil {
		t.Errorf("greeting alone should not be saved, got %d messages", len(got))
	}

	m = typeInto(m, "debug help")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	got := m.TakeUnsaved()
	if len(got) != 2 {
		t.Fatalf("first save = %d messages, want greeting and question", len(got))
	}
	if m.TakeUnsaved() != nil {
		t.Error("nothing new should be unsaved")
	}

	m, _ = m.Update(m.think("debug help")())
	got = m.TakeUnsaved()
	if len(got) != 1 || got[0].Sender != model.SenderMentor {
		t.Errorf("after reply = %+v", got)
	}
}

func TestMentorTabCyclesSuggestions(t *testing.T) {
	m := newMentorModel(t)
	want := testutil.MentorScript().Suggestions
	for i := 0; i < 3; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if got := m.InputValue(); got != want[i%len(want)] {
			t.Errorf("tab %d: input = %q, want %q", i, got, want[i%len(want)])
		}
	}
}

func TestMentorEsc(t *testing.T) {
	m := newMentorModel(t)
	m = typeInto(m, "draft")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || m.InputValue() != "" {
		t.Fatal("first esc should clear the input")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc on an empty input should navigate")
	}
	if nm, ok := cmd().(NavigateMsg); !ok || nm.View != nav.Dashboard {
		t.Errorf("got %#v, want NavigateMsg to dashboard", cmd())
	}
}
