package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/javamaster/pkg/model"
)

// ResourcesModel lists curated links grouped by category.
type ResourcesModel struct {
	resources []model.Resource // sorted by category, catalog order within
	cursor    int
	theme     Theme
}

// NewResourcesModel groups resources by category, keeping the first-seen
// category order.
func NewResourcesModel(resources []model.Resource, theme Theme) ResourcesModel {
	var order []string
	byCat := make(map[string][]model.Resource)
	for _, res := range resources {
		cat := res.Category
		if cat == "" {
			cat = "General"
		}
		if _, ok := byCat[cat]; !ok {
			order = append(order, cat)
		}
		res.Category = cat
		byCat[cat] = append(byCat[cat], res)
	}
	sorted := make([]model.Resource, 0, len(resources))
	for _, cat := range order {
		sorted = append(sorted, byCat[cat]...)
	}
	return ResourcesModel{resources: sorted, theme: theme}
}

// Selected returns the resource under the cursor.
func (m ResourcesModel) Selected() (model.Resource, bool) {
	if len(m.resources) == 0 {
		return model.Resource{}, false
	}
	return m.resources[m.cursor], true
}

// Update handles list keys.
func (m ResourcesModel) Update(msg tea.Msg) (ResourcesModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.resources)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "y", "enter":
		res, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			if err := clipboard.WriteAll(res.URL); err != nil {
				return StatusMsg{Text: fmt.Sprintf("Clipboard error: %v", err), IsError: true}
			}
			return StatusMsg{Text: "Copied " + res.URL}
		}
	}
	return m, nil
}

// View renders the list.
func (m ResourcesModel) View(width, height int) string {
	t := m.theme
	r := t.Renderer

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(t.Primary).Render("Learning Resources"))
	b.WriteString("\n")
	b.WriteString(t.MutedText.Render("Curated Java tutorials, documentation and reference material. Press y to copy a link."))
	b.WriteString("\n")

	if len(m.resources) == 0 {
		b.WriteString("\n" + t.MutedText.Render("No resources in the catalog."))
		return b.String()
	}

	category := ""
	for i, res := range m.resources {
		if res.Category != category {
			category = res.Category
			b.WriteString("\n")
			b.WriteString(r.NewStyle().Bold(true).Foreground(t.Intermediate).Render(category))
			b.WriteString("\n")
		}
		row := r.NewStyle().Bold(true).Render(truncate(res.Title, width-6)) + "\n" +
			t.InfoText.Render(truncate(res.URL, width-6)) + "\n" +
			t.MutedText.Render(truncate(res.Description, width-6))
		if i == m.cursor {
			row = t.Selected.Width(width - 2).Render(row)
		} else {
			row = r.NewStyle().PaddingLeft(2).Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return r.NewStyle().MaxHeight(height).Render(strings.TrimRight(b.String(), "\n"))
}
