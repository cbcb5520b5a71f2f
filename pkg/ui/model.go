package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/javamaster/pkg/config"
	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/mentor"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/nav"
	"github.com/vanderheijden86/javamaster/pkg/session"
	"github.com/vanderheijden86/javamaster/pkg/watcher"
)

// FileChangedMsg is sent when the content override file changes on disk
type FileChangedMsg struct{}

// ContentReloadedMsg carries the result of re-reading the content file.
type ContentReloadedMsg struct {
	Registry *content.Registry
	Err      error
	Took     time.Duration
}

// NavigateMsg asks the shell to switch views.
type NavigateMsg struct {
	View nav.View
}

// WatchFileCmd returns a command that waits for file changes and sends FileChangedMsg
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func reloadContentCmd(path string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		reg, err := content.Load(path)
		return ContentReloadedMsg{Registry: reg, Err: err, Took: time.Since(start)}
	}
}

// Model is the main Bubble Tea model: header with tabs, the active view and
// a status line.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	// Data
	cfg      config.Config
	registry *content.Registry
	sess     *session.Session
	store    Persister

	// Live reload of a content override file
	watcher     *watcher.Watcher
	contentPath string

	// Navigation and views
	nav       *nav.Navigator
	keys      KeyMap
	theme     Theme
	md        *MarkdownRenderer
	dashboard DashboardModel
	lesson    *LessonModel // non-nil while a lesson is open on the dashboard
	challenge ChallengeModel
	mentor    MentorModel
	resources ResourcesModel

	// firstTick starts the elapsed timer when the program opens on the
	// challenges view. The flag is set here so Init's copy does not lose it.
	firstTick tea.Cmd

	// Layout
	width  int
	height int

	// Status
	statusMsg     string
	statusIsError bool
}

// NewModel wires the views over an already seeded session. The mentor
// session is passed in so a restored transcript survives.
func NewModel(reg *content.Registry, sess *session.Session, ms *mentor.Session, cfg config.Config) Model {
	ctx, cancel := context.WithCancel(context.Background())

	theme := DefaultTheme(lipgloss.DefaultRenderer())
	md := NewMarkdownRenderer(cfg.UI.WordWrap, cfg.UI.NoColor)

	m := Model{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		registry:  reg,
		sess:      sess,
		nav:       nav.New(cfg.UI.DefaultView),
		keys:      DefaultKeyMap(),
		theme:     theme,
		md:        md,
		dashboard: NewDashboardModel(sess, theme),
		challenge: NewChallengeModel(ctx, reg.Challenges(), cfg.Timing.GradingDelay, theme),
		mentor:    NewMentorModel(ctx, ms, theme, md),
		resources: NewResourcesModel(reg.Resources(), theme),
		width:     120,
		height:    40,
	}
	if m.nav.Active() == nav.Challenges {
		m.firstTick = m.challenge.StartTicking()
	}
	m.resize()
	return m
}

// WithStore enables persistence through p. saved is the number of
// transcript messages that came from p.
func (m Model) WithStore(p Persister, saved int) Model {
	m.store = p
	m.mentor.MarkSaved(saved)
	return m
}

// WithWatcher enables live reload of the content file at path.
func (m Model) WithWatcher(w *watcher.Watcher, path string) Model {
	m.watcher = w
	m.contentPath = path
	return m
}

// Init starts the background commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	if m.firstTick != nil {
		cmds = append(cmds, m.firstTick)
	}
	return tea.Batch(cmds...)
}

// typing reports whether printable keys belong to a text field.
func (m Model) typing() bool {
	switch m.nav.Active() {
	case nav.Mentor:
		return true
	case nav.Challenges:
		return m.challenge.Typing()
	}
	return false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case NavigateMsg:
		cmd = m.switchView(msg.View)
		return m, cmd

	case StatusMsg:
		m.statusMsg = msg.Text
		m.statusIsError = msg.IsError
		return m, nil

	case PersistErrorMsg:
		m.statusMsg = fmt.Sprintf("Could not save progress: %v", msg.Err)
		m.statusIsError = true
		return m, nil

	case LessonCompletedMsg:
		cmd = m.completeLesson(msg.TopicID)
		return m, cmd

	case LessonClosedMsg:
		m.lesson = nil
		return m, nil

	case GradeResultMsg:
		m.challenge, cmd = m.challenge.Update(msg)
		return m, cmd

	case ChallengeSolvedMsg:
		if m.sess.AwardChallenge(msg.ChallengeID, msg.RewardXP) {
			m.statusMsg = fmt.Sprintf("Challenge solved! +%d XP", msg.RewardXP)
			m.statusIsError = false
			return m, saveSessionCmd(m.ctx, m.store, m.sess.Snapshot())
		}
		return m, nil

	case challengeTickMsg:
		cmd = m.challenge.HandleTick(m.nav.Active() == nav.Challenges)
		return m, cmd

	case MentorReplyMsg:
		m.mentor, cmd = m.mentor.Update(msg)
		cmds = append(cmds, cmd, appendMessagesCmd(m.ctx, m.store, m.mentor.TakeUnsaved()))
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's id.
		m.challenge, cmd = m.challenge.Update(msg)
		cmds = append(cmds, cmd)
		m.mentor, cmd = m.mentor.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case FileChangedMsg:
		if m.contentPath == "" {
			return m, nil
		}
		debug.Log("content file changed, reloading %s", m.contentPath)
		cmds = append(cmds, reloadContentCmd(m.contentPath))
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case ContentReloadedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Content reload failed: %v", msg.Err)
			m.statusIsError = true
			return m, nil
		}
		m.applyRegistry(msg.Registry)
		m.statusMsg = fmt.Sprintf("Content reloaded in %s", formatReloadDuration(msg.Took))
		m.statusIsError = false
		return m, nil
	}

	// Remaining messages (cursor blink and the like) go to the active text field.
	switch m.nav.Active() {
	case nav.Mentor:
		m.mentor, cmd = m.mentor.Update(msg)
	case nav.Challenges:
		m.challenge, cmd = m.challenge.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		m.cancel()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	for i, b := range m.keys.Views {
		if key.Matches(msg, b) {
			cmd = m.switchView(nav.Order[i])
			return m, cmd
		}
	}

	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextView):
			prev := m.nav.Active()
			m.nav.Next()
			cmd = m.afterSwitch(prev)
			return m, cmd
		case key.Matches(msg, m.keys.PrevView):
			prev := m.nav.Active()
			m.nav.Prev()
			cmd = m.afterSwitch(prev)
			return m, cmd
		}
		// Digits jump between sections inside an open lesson.
		if m.lesson == nil {
			for i, b := range m.keys.ViewDigit {
				if key.Matches(msg, b) {
					cmd = m.switchView(nav.Order[i])
					return m, cmd
				}
			}
		}
	}

	m.statusMsg = ""
	m.statusIsError = false

	switch m.nav.Active() {
	case nav.Dashboard:
		if m.lesson != nil {
			var lm LessonModel
			lm, cmd = m.lesson.Update(msg)
			m.lesson = &lm
			return m, cmd
		}
		m.dashboard, cmd = m.dashboard.Update(msg)
		if id, ok := m.dashboard.TakeOpenRequest(); ok {
			m.openLesson(id)
		}
		return m, cmd

	case nav.Challenges:
		m.challenge, cmd = m.challenge.Update(msg)
		return m, cmd

	case nav.Mentor:
		m.mentor, cmd = m.mentor.Update(msg)
		save := appendMessagesCmd(m.ctx, m.store, m.mentor.TakeUnsaved())
		return m, tea.Batch(cmd, save)

	case nav.Resources:
		m.resources, cmd = m.resources.Update(msg)
		return m, cmd
	}
	return m, nil
}

// switchView makes v active.
func (m *Model) switchView(v nav.View) tea.Cmd {
	prev := m.nav.Active()
	m.nav.Select(string(v))
	return m.afterSwitch(prev)
}

// afterSwitch reacts to a view change away from prev. Leaving the dashboard
// discards an open lesson.
func (m *Model) afterSwitch(prev nav.View) tea.Cmd {
	next := m.nav.Active()
	if next == prev {
		return nil
	}
	m.lesson = nil
	m.statusMsg = ""
	m.statusIsError = false
	debug.Log("view: %s -> %s", prev, next)
	if next == nav.Challenges {
		return m.challenge.StartTicking()
	}
	return nil
}

func (m *Model) openLesson(topicID string) {
	l, found := m.registry.Lesson(topicID)
	lm := NewLessonModel(topicID, l, found, m.theme, m.md)
	lm.SetSize(m.width, m.bodyHeight())
	m.lesson = &lm
}

func (m *Model) completeLesson(topicID string) tea.Cmd {
	m.lesson = nil
	m.nav.Select(string(nav.Dashboard))
	if !m.sess.CompleteTopic(topicID) {
		m.statusMsg = "Lesson finished, but its topic is no longer in the catalog"
		m.statusIsError = true
		return nil
	}
	t, _ := m.sess.Topic(topicID)
	m.statusMsg = fmt.Sprintf("🎉 %s completed! +%d XP", t.Title, m.sess.CompletionBonus())
	m.statusIsError = false
	return saveSessionCmd(m.ctx, m.store, m.sess.Snapshot())
}

// applyRegistry swaps in reloaded content while keeping learner progress and
// the chat transcript.
func (m *Model) applyRegistry(reg *content.Registry) {
	m.registry = reg
	m.sess.ReplaceTopics(reg)
	m.lesson = nil
	ticking := m.challenge.ticking
	m.challenge.Stop()
	m.challenge = NewChallengeModel(m.ctx, reg.Challenges(), m.cfg.Timing.GradingDelay, m.theme)
	// The running tick chain keeps delivering to the new model.
	m.challenge.ticking = ticking
	m.resources = NewResourcesModel(reg.Resources(), m.theme)

	old := m.mentor.Session()
	ms := mentor.NewSession(reg.Mentor(), m.cfg.Timing.ThinkingDelay)
	ms.Transcript = old.Transcript
	saved := m.mentor.saved
	m.mentor = NewMentorModel(m.ctx, ms, m.theme, m.md)
	m.mentor.MarkSaved(saved)
	m.resize()
}

func (m Model) bodyHeight() int {
	h := m.height - 3 // app bar, tabs, status line
	if h < 5 {
		h = 5
	}
	return h
}

func (m *Model) resize() {
	h := m.bodyHeight()
	m.md.SetWidth(min(m.width-36, m.cfg.UI.WordWrap))
	m.challenge.SetSize(m.width, h)
	m.mentor.SetSize(m.width, h)
	if m.lesson != nil {
		m.lesson.SetSize(m.width, h)
	}
}

// View renders the whole screen.
func (m Model) View() string {
	var body string
	h := m.bodyHeight()
	switch m.nav.Active() {
	case nav.Dashboard:
		if m.lesson != nil {
			body = m.lesson.View()
		} else {
			body = m.dashboard.View(m.width, h)
		}
	case nav.Challenges:
		body = m.challenge.View()
	case nav.Mentor:
		body = m.mentor.View()
	case nav.Progress:
		body = renderProgressView(m.sess, m.theme, m.width, h)
	case nav.Resources:
		body = m.resources.View(m.width, h)
	}
	body = m.theme.Renderer.NewStyle().Height(h).MaxHeight(h).Render(body)
	return m.renderGlobalHeader() + "\n" + m.renderTabs() + "\n" + body + "\n" + m.renderFooter()
}

// renderGlobalHeader renders the single-line app bar.
// Format:  ☕ JavaMaster AI | Java Learner          Level 7 • 2,840 XP • 🔥 12
func (m Model) renderGlobalHeader() string {
	appName := lipgloss.NewStyle().Bold(true).Foreground(ColorText).Render("☕ JavaMaster AI")
	sep := lipgloss.NewStyle().Foreground(ColorMuted).Render(" | ")
	learner := lipgloss.NewStyle().Foreground(ColorSubtext).Render(m.sess.Learner)
	leftParts := appName + sep + learner

	rightParts := lipgloss.NewStyle().Foreground(ColorWarning).Render(m.LevelLine()) +
		sep + lipgloss.NewStyle().Foreground(ColorDanger).Render(fmt.Sprintf("🔥 %d", m.sess.Streak))

	fillerWidth := m.width - lipgloss.Width(leftParts) - lipgloss.Width(rightParts)
	if fillerWidth < 1 {
		fillerWidth = 1
	}
	filler := lipgloss.NewStyle().Width(fillerWidth).Render("")

	return lipgloss.NewStyle().
		Width(m.width).
		Background(ColorBgHighlight).
		Render(leftParts + filler + rightParts)
}

// LevelLine is the "Level N • X XP" summary shown in the header.
func (m Model) LevelLine() string {
	return fmt.Sprintf("Level %d • %s XP", m.sess.Level, formatThousands(m.sess.TotalXP))
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(nav.Order))
	for i, v := range nav.Order {
		label := fmt.Sprintf("%d %s", i+1, v.Label())
		if v == m.nav.Active() {
			tabs = append(tabs, m.theme.TabOn.Render(label))
		} else {
			tabs = append(tabs, m.theme.Tab.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderFooter() string {
	if m.statusMsg != "" {
		style := lipgloss.NewStyle().Foreground(ColorSuccess)
		if m.statusIsError {
			style = lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
		}
		return style.Render(truncate(m.statusMsg, m.width))
	}

	var hint string
	switch {
	case m.nav.Active() == nav.Dashboard && m.lesson != nil:
		hint = "F1-F5 views • q quit"
	case m.typing():
		hint = "F1-F5 views • esc leave field • ctrl+c quit"
	default:
		hint = "1-5/F1-F5 views • [ ] cycle • j/k move • enter open • q quit"
	}
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(truncate(hint, m.width))
}

// Stop cancels pending runs and replies and stops the file watcher.
// Should be called when the program exits.
func (m *Model) Stop() {
	m.cancel()
	m.challenge.Stop()
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// Flush writes the session snapshot and any unsaved chat messages. It runs
// synchronously and is meant for shutdown.
func (m *Model) Flush(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveSession(ctx, m.sess.Snapshot()); err != nil {
		return err
	}
	if msgs := m.mentor.TakeUnsaved(); len(msgs) > 0 {
		return m.store.AppendMessages(ctx, msgs)
	}
	return nil
}

// Accessors used by cmd/jm and tests.

// ActiveView returns the active view.
func (m Model) ActiveView() nav.View { return m.nav.Active() }

// Session returns the learner session.
func (m Model) Session() *session.Session { return m.sess }

// Lesson returns the open lesson, nil when none is open.
func (m Model) Lesson() *LessonModel { return m.lesson }

// Dashboard returns the dashboard view.
func (m Model) Dashboard() DashboardModel { return m.dashboard }

// Challenge returns the challenge panel.
func (m Model) Challenge() ChallengeModel { return m.challenge }

// Mentor returns the chat view.
func (m Model) Mentor() MentorModel { return m.mentor }

// Transcript returns the chat history.
func (m Model) Transcript() []model.ChatMessage { return m.mentor.sess.Transcript.Messages() }

// Status returns the status line text and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

func formatReloadDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
