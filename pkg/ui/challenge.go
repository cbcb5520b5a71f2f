package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/grader"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

// defaultRewardXP is granted for a challenge that does not set reward_xp.
const defaultRewardXP = 150

// GradeResultMsg delivers the outcome of a mock test run.
type GradeResultMsg struct {
	ChallengeID string
	RunID       int
	Results     []bool
	Err         error
}

// ChallengeSolvedMsg is emitted the first time every case of a run passes.
type ChallengeSolvedMsg struct {
	ChallengeID string
	RewardXP    int
}

// challengeTickMsg advances the elapsed timer.
type challengeTickMsg struct{}

func challengeTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return challengeTickMsg{}
	})
}

// ChallengeModel is the coding challenge panel. Attempts are kept per
// challenge for the life of the program, so leaving the view and coming back
// keeps the code, results and timer.
type ChallengeModel struct {
	ctx        context.Context
	challenges []model.Challenge
	index      int
	attempts   map[string]*grader.Attempt
	cancels    map[string]context.CancelFunc
	showHints  map[string]bool
	delay      time.Duration

	editor  textarea.Model
	spinner spinner.Model
	editing bool
	ticking bool

	theme  Theme
	width  int
	height int
}

// NewChallengeModel builds the panel. ctx bounds every pending run.
func NewChallengeModel(ctx context.Context, challenges []model.Challenge, delay time.Duration, theme Theme) ChallengeModel {
	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.CharLimit = 0
	ed.Prompt = ""
	ed.Placeholder = "// write your solution here"
	ed.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Renderer.NewStyle().Foreground(theme.Primary)

	m := ChallengeModel{
		ctx:        ctx,
		challenges: challenges,
		attempts:   make(map[string]*grader.Attempt, len(challenges)),
		cancels:    make(map[string]context.CancelFunc),
		showHints:  make(map[string]bool),
		delay:      delay,
		editor:     ed,
		spinner:    sp,
		theme:      theme,
		width:      100,
		height:     30,
	}
	for _, ch := range challenges {
		m.attempts[ch.ID] = grader.NewAttempt(ch)
	}
	m.loadEditor()
	return m
}

// SetSize sets the render area.
func (m *ChallengeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	edWidth := m.editorWidth()
	m.editor.SetWidth(edWidth)
	m.editor.SetHeight(max(height-12, 6))
}

func (m ChallengeModel) editorWidth() int {
	if m.width >= 100 {
		return m.width/2 - 4
	}
	return m.width - 4
}

// Typing reports whether keystrokes go to the editor.
func (m ChallengeModel) Typing() bool { return m.editing }

// Current returns the attempt for the selected challenge, nil when the
// catalog has no challenges.
func (m ChallengeModel) Current() *grader.Attempt {
	if len(m.challenges) == 0 {
		return nil
	}
	return m.attempts[m.challenges[m.index].ID]
}

// Attempt returns the attempt for challenge id.
func (m ChallengeModel) Attempt(id string) (*grader.Attempt, bool) {
	a, ok := m.attempts[id]
	return a, ok
}

// EditorValue returns the text in the editor widget.
func (m ChallengeModel) EditorValue() string { return m.editor.Value() }

func (m *ChallengeModel) loadEditor() {
	if a := m.Current(); a != nil {
		m.editor.SetValue(a.Code())
	}
}

func (m *ChallengeModel) syncCode() {
	if a := m.Current(); a != nil {
		a.SetCode(m.editor.Value())
	}
}

// StartTicking starts the elapsed timer chain unless it is already running.
func (m *ChallengeModel) StartTicking() tea.Cmd {
	if m.ticking || len(m.challenges) == 0 {
		return nil
	}
	m.ticking = true
	return challengeTickCmd()
}

// HandleTick advances the timer when the view is active and lets the chain
// lapse otherwise.
func (m *ChallengeModel) HandleTick(active bool) tea.Cmd {
	if !active {
		m.ticking = false
		return nil
	}
	if a := m.Current(); a != nil {
		a.Tick()
	}
	return challengeTickCmd()
}

// Stop cancels every pending run.
func (m *ChallengeModel) Stop() {
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
	}
}

// Update handles challenge keys and run results.
func (m ChallengeModel) Update(msg tea.Msg) (ChallengeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case GradeResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if a := m.Current(); a != nil && a.Running() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleEditorKeys(msg)
		}
		return m.handleKeys(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ChallengeModel) handleEditorKeys(msg tea.KeyMsg) (ChallengeModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.syncCode()
		m.editing = false
		m.editor.Blur()
		return m, nil
	case "ctrl+r":
		m.syncCode()
		return m.run()
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.syncCode()
	return m, cmd
}

func (m ChallengeModel) handleKeys(msg tea.KeyMsg) (ChallengeModel, tea.Cmd) {
	if len(m.challenges) == 0 {
		return m, nil
	}
	switch msg.String() {
	case "e", "i", "enter":
		m.editing = true
		cmd := m.editor.Focus()
		return m, cmd
	case "r", "ctrl+r":
		return m.run()
	case "x":
		return m.reset()
	case "h":
		id := m.Current().Challenge().ID
		m.showHints[id] = !m.showHints[id]
	case "H":
		if a := m.Current(); a.RevealNextHint() {
			m.showHints[a.Challenge().ID] = true
		}
	case "y":
		return m, m.copyCodeCmd()
	case "n", "tab":
		m.selectChallenge(m.index + 1)
	case "p", "shift+tab":
		m.selectChallenge(m.index - 1)
	}
	return m, nil
}

func (m *ChallengeModel) selectChallenge(i int) {
	n := len(m.challenges)
	if n <= 1 {
		return
	}
	m.syncCode()
	m.index = (i%n + n) % n
	m.loadEditor()
}

func (m ChallengeModel) run() (ChallengeModel, tea.Cmd) {
	a := m.Current()
	if a == nil {
		return m, nil
	}
	if a.Running() {
		return m, func() tea.Msg { return StatusMsg{Text: "Tests are already running"} }
	}

	chID := a.Challenge().ID
	// A reset run may still be unwinding in its old grader, so every run
	// gets its own.
	g := grader.New(a.Challenge(), m.delay)
	runID := a.BeginRun()
	code := a.Code()

	ctx, cancel := context.WithCancel(m.ctx)
	if prev, ok := m.cancels[chID]; ok {
		prev()
	}
	m.cancels[chID] = cancel

	debug.Log("challenge %s: run %d started", chID, runID)
	grade := func() tea.Msg {
		results, err := g.Run(ctx, code)
		return GradeResultMsg{ChallengeID: chID, RunID: runID, Results: results, Err: err}
	}
	return m, tea.Batch(m.spinner.Tick, grade)
}

func (m ChallengeModel) reset() (ChallengeModel, tea.Cmd) {
	a := m.Current()
	if a == nil {
		return m, nil
	}
	chID := a.Challenge().ID
	if cancel, ok := m.cancels[chID]; ok {
		cancel()
		delete(m.cancels, chID)
	}
	a.Reset()
	m.loadEditor()
	return m, func() tea.Msg { return StatusMsg{Text: "Code reset to the starter template"} }
}

func (m ChallengeModel) handleResult(msg GradeResultMsg) (ChallengeModel, tea.Cmd) {
	a, ok := m.attempts[msg.ChallengeID]
	if !ok {
		return m, nil
	}
	if msg.Err != nil {
		a.AbortRun(msg.RunID)
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		err := msg.Err
		return m, func() tea.Msg { return StatusMsg{Text: fmt.Sprintf("Run failed: %v", err), IsError: true} }
	}
	if !a.FinishRun(msg.RunID, msg.Results) {
		debug.Log("challenge %s: dropped stale run %d", msg.ChallengeID, msg.RunID)
		return m, nil
	}
	if cancel, ok := m.cancels[msg.ChallengeID]; ok {
		cancel()
		delete(m.cancels, msg.ChallengeID)
	}
	if !a.AllPassed() {
		return m, nil
	}
	xp := a.Challenge().RewardXP
	if xp <= 0 {
		xp = defaultRewardXP
	}
	id := msg.ChallengeID
	return m, func() tea.Msg { return ChallengeSolvedMsg{ChallengeID: id, RewardXP: xp} }
}

func (m ChallengeModel) copyCodeCmd() tea.Cmd {
	code := m.Current().Code()
	return func() tea.Msg {
		if err := clipboard.WriteAll(code); err != nil {
			return StatusMsg{Text: fmt.Sprintf("Clipboard error: %v", err), IsError: true}
		}
		return StatusMsg{Text: "Copied solution to clipboard"}
	}
}

// View renders the panel.
func (m ChallengeModel) View() string {
	t := m.theme
	r := t.Renderer
	a := m.Current()
	if a == nil {
		return PanelStyle.Padding(1, 3).Render(t.MutedText.Render("No challenges in the catalog."))
	}
	ch := a.Challenge()

	header := r.NewStyle().Bold(true).Foreground(t.Primary).Render(ch.Title) + "  " +
		RenderChallengeBadge(ch.Difficulty) + "  " +
		t.MutedText.Render("⏱ "+a.ElapsedString())
	if len(m.challenges) > 1 {
		header += "  " + t.MutedText.Render(fmt.Sprintf("(%d/%d)", m.index+1, len(m.challenges)))
	}

	left := m.renderProblem(a)
	right := m.renderWorkbench(a)

	var body string
	if m.width >= 100 {
		half := m.width/2 - 2
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			r.NewStyle().Width(half).Render(left),
			strings.Repeat(" ", SpaceSM),
			r.NewStyle().Width(half).Render(right))
	} else {
		body = left + "\n\n" + right
	}

	footer := t.MutedText.Render("e edit • esc stop editing • r run • x reset • h hints • H next hint • y copy • n/p challenge")
	if m.editing {
		footer = t.MutedText.Render("editing • ctrl+r run • esc done")
	}
	return r.NewStyle().MaxHeight(m.height).Render(header + "\n" + RenderDivider(m.width) + "\n" + body + "\n" + footer)
}

func (m ChallengeModel) renderProblem(a *grader.Attempt) string {
	t := m.theme
	r := t.Renderer
	ch := a.Challenge()
	results := a.Results()

	var b strings.Builder
	b.WriteString(ch.Description)
	b.WriteString("\n\n")
	b.WriteString(r.NewStyle().Bold(true).Render("Test Cases"))
	b.WriteString("\n")
	for i, c := range ch.Cases {
		mark := t.MutedText.Render("○")
		if i < len(results) {
			if results[i] {
				mark = t.PassText.Render("✓")
			} else {
				mark = t.FailText.Render("✗")
			}
		}
		b.WriteString(fmt.Sprintf("%s Case %d\n", mark, i+1))
		b.WriteString(t.MutedText.Render("  Input:    ") + c.Input + "\n")
		b.WriteString(t.MutedText.Render("  Expected: ") + c.ExpectedOutput + "\n")
		if c.Explanation != "" {
			b.WriteString(t.MutedText.Render("  "+c.Explanation) + "\n")
		}
	}

	if len(ch.Hints) > 0 {
		b.WriteString("\n")
		label := fmt.Sprintf("Hints (%d/%d)", a.HintsShown(), len(ch.Hints))
		b.WriteString(r.NewStyle().Bold(true).Foreground(t.Intermediate).Render(label))
		b.WriteString("\n")
		if m.showHints[ch.ID] {
			visible := a.VisibleHints()
			if len(visible) == 0 {
				b.WriteString(t.MutedText.Render("  press H to reveal the first hint") + "\n")
			}
			for i, h := range visible {
				b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, h))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m ChallengeModel) renderWorkbench(a *grader.Attempt) string {
	t := m.theme
	r := t.Renderer
	ch := a.Challenge()

	name := ch.FileName
	if name == "" {
		name = "Solution.java"
	}
	style := PanelStyle
	if m.editing {
		style = FocusedPanelStyle
	}

	var b strings.Builder
	b.WriteString(t.MutedText.Render(name))
	b.WriteString("\n")
	b.WriteString(style.Render(m.editor.View()))
	b.WriteString("\n")

	switch {
	case a.Running():
		b.WriteString(m.spinner.View() + " Running tests...")
	case a.Results() != nil:
		passed := a.Passed()
		total := len(a.Results())
		summary := fmt.Sprintf("%d/%d tests passed", passed, total)
		if a.AllPassed() {
			b.WriteString(t.PassText.Render("🎉 All tests passed! " + summary))
			xp := ch.RewardXP
			if xp <= 0 {
				xp = defaultRewardXP
			}
			b.WriteString("  " + r.NewStyle().Foreground(t.XP).Render(fmt.Sprintf("+%d XP", xp)))
		} else {
			b.WriteString(t.FailText.Render(summary))
		}
	default:
		b.WriteString(t.MutedText.Render("Press r to run the tests"))
	}
	return b.String()
}
