package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/javamaster/pkg/model"
)

func TestResourcesGroupedByFirstSeenCategory(t *testing.T) {
	m := NewResourcesModel([]model.Resource{
		{Title: "Tutorial", URL: "https://a", Category: "Docs"},
		{Title: "Book", URL: "https://b", Category: "Books"},
		{Title: "Reference", URL: "https://c", Category: "Docs"},
		{Title: "Misc", URL: "https://d"},
	}, TestTheme())

	var titles []string
	for _, r := range m.resources {
		titles = append(titles, r.Title)
	}
	if got := strings.Join(titles, ","); got != "Tutorial,Reference,Book,Misc" {
		t.Errorf("order = %s", got)
	}
	if m.resources[3].Category != "General" {
		t.Errorf("empty category = %q, want General", m.resources[3].Category)
	}

	out := m.View(100, 60)
	if strings.Index(out, "Docs") > strings.Index(out, "Books") {
		t.Error("Docs should be listed before Books")
	}
	if !strings.Contains(out, "General") {
		t.Error("General group missing")
	}
}

func TestResourcesCursor(t *testing.T) {
	m := NewResourcesModel([]model.Resource{
		{Title: "One", URL: "https://1"},
		{Title: "Two", URL: "https://2"},
	}, TestTheme())

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}
	m, _ = m.Update(down)
	m, _ = m.Update(down)
	if r, _ := m.Selected(); r.Title != "Two" {
		t.Errorf("selected = %q, want Two", r.Title)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	if r, _ := m.Selected(); r.Title != "One" {
		t.Errorf("selected = %q, want One", r.Title)
	}
}

func TestResourcesEmpty(t *testing.T) {
	m := NewResourcesModel(nil, TestTheme())
	if _, ok := m.Selected(); ok {
		t.Error("empty list has no selection")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.View(80, 20), "No resources") {
		t.Error("empty view should say so")
	}
}
