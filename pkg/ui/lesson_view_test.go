package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/testutil"
)

func newLessonModel(t *testing.T, sections int) LessonModel {
	t.Helper()
	l := testutil.NewDefault().Lesson("1", sections)
	m := NewLessonModel("1", l, true, TestTheme(), NewMarkdownRenderer(80, true))
	m.SetSize(120, 60)
	if !m.Found() {
		t.Fatal("generated lesson should open")
	}
	return m
}

func lessonKey(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestLessonNavigationKeys(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"next", []string{"n"}, 1},
		{"right arrow", []string{"right", "right"}, 2},
		{"prev at start stays", []string{"p"}, 0},
		{"next then back", []string{"n", "n", "left"}, 1},
		{"next clamps at end", []string{"n", "n", "n", "n", "n", "n"}, 3},
		{"jump", []string{"3"}, 2},
		{"jump out of range ignored", []string{"9"}, 0},
		{"enter advances", []string{"enter"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newLessonModel(t, 4)
			for _, k := range tt.keys {
				m, _ = m.Update(lessonKey(k))
			}
			if got := m.Tracker().Cursor(); got != tt.want {
				t.Errorf("cursor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLessonMarkCompleteOnlyFinishesOnLast(t *testing.T) {
	m := newLessonModel(t, 3)

	m, cmd := m.Update(lessonKey("c"))
	if cmd != nil {
		t.Fatal("marking the first section should not finish the lesson")
	}
	if !m.Tracker().IsCompleted(0) {
		t.Error("section 0 should be completed")
	}

	m, _ = m.Update(lessonKey("3"))
	m, cmd = m.Update(lessonKey("m"))
	if cmd == nil {
		t.Fatal("marking the last section should finish the lesson")
	}
	if msg, ok := cmd().(LessonCompletedMsg); !ok || msg.TopicID != "1" {
		t.Errorf("got %#v", cmd())
	}
}

func TestLessonEscCloses(t *testing.T) {
	m := newLessonModel(t, 2)
	_, cmd := m.Update(lessonKey("esc"))
	if cmd == nil {
		t.Fatal("esc should close")
	}
	if _, ok := cmd().(LessonClosedMsg); !ok {
		t.Error("expected LessonClosedMsg")
	}
}

func TestLessonNotFoundView(t *testing.T) {
	m := NewLessonModel("4", model.Lesson{}, false, TestTheme(), NewMarkdownRenderer(80, true))
	if m.Found() {
		t.Fatal("missing lesson should not be found")
	}
	testutil.AssertContainsAll(t, m.View(), "Lesson Not Found", "Back to Dashboard")

	if _, cmd := m.Update(lessonKey("n")); cmd != nil {
		t.Error("navigation keys do nothing on the not-found view")
	}
	_, cmd := m.Update(lessonKey("enter"))
	if cmd == nil {
		t.Fatal("enter should go back")
	}
	if _, ok := cmd().(LessonClosedMsg); !ok {
		t.Error("expected LessonClosedMsg")
	}
}

func TestLessonViewShowsSection(t *testing.T) {
	m := newLessonModel(t, 3)
	out := m.View()
	testutil.AssertContainsAll(t, out, "Lesson 1", "Section 1 of 3", "System.out.println(0);", "point a")

	m, _ = m.Update(lessonKey("n"))
	if !strings.Contains(m.View(), "Section 2 of 3") {
		t.Error("header should follow the cursor")
	}

	if !strings.Contains(m.View(), "Read every section") {
		t.Fatal("sidebar should list the objectives")
	}
	m, _ = m.Update(lessonKey("t"))
	if strings.Contains(m.View(), "Read every section") {
		t.Error("t should hide the section sidebar")
	}
}

func TestLessonCopyWithoutExample(t *testing.T) {
	m := newLessonModel(t, 2)
	m, _ = m.Update(lessonKey("n")) // odd sections have no code
	_, cmd := m.Update(lessonKey("y"))
	if cmd == nil {
		t.Fatal("y should report something")
	}
	if st, ok := cmd().(StatusMsg); !ok || st.IsError {
		t.Errorf("got %#v, want a plain status", cmd())
	}
}
