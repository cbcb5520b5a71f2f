package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/javamaster/internal/store"
	"github.com/vanderheijden86/javamaster/pkg/config"
	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/mentor"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/session"
	"github.com/vanderheijden86/javamaster/pkg/setup"
	"github.com/vanderheijden86/javamaster/pkg/ui"
	"github.com/vanderheijden86/javamaster/pkg/version"
	"github.com/vanderheijden86/javamaster/pkg/watcher"
)

// transcriptLimit caps how much chat history is restored into the TUI.
const transcriptLimit = 200

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the whole program. It returns the exit code so deferred cleanup
// (store, CPU profile) runs on every path.
func run(args []string) int {
	flags := flag.NewFlagSet("jm", flag.ContinueOnError)
	cpuProfile := flags.String("cpu-profile", "", "Write CPU profile to file")
	help := flags.Bool("help", false, "Show help")
	versionFlag := flags.Bool("version", false, "Show version")
	setupFlag := flags.Bool("setup", false, "Run the interactive setup wizard and save the config")
	contentPath := flags.String("content", "", "Load the course catalog from this YAML file instead of the built-in one")
	ephemeral := flags.Bool("ephemeral", false, "Do not read or write saved progress")
	viewFlag := flags.String("view", "", "Initial view: dashboard, challenges, mentor, progress, resources")
	resetFlag := flags.Bool("reset", false, "Erase saved progress and chat history, then exit")
	clearChat := flags.Bool("clear-chat", false, "Erase saved chat history, then exit")
	exportTranscript := flags.String("export-transcript", "", "Write the saved chat history as JSON to this file ('-' for stdout)")
	robotStatus := flags.Bool("robot-status", false, "Print the learner's progress as JSON and exit")
	robotAsk := flags.String("robot-ask", "", "Ask the mentor a question, print the reply as JSON and exit")
	robotCatalog := flags.Bool("robot-catalog", false, "Print a summary of the course catalog as JSON and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: jm [options]")
		fmt.Println("\nLearn Java in the terminal: lessons, coding challenges and a mentor.")
		flags.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Printf("jm %s\n", version.Version)
		return 0
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: ignoring .env: %v\n", err)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", cfgErr)
		cfg = config.DefaultConfig()
	}

	if *setupFlag {
		if err := runSetup(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := applyFlags(cfg, *contentPath, *viewFlag, *ephemeral)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if cfg.UI.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	ctx := context.Background()

	if *resetFlag || *clearChat {
		if err := wipeState(ctx, cfg, *resetFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	st, err := loadStartup(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading course content: %v\n", err)
		return 1
	}
	if st.store != nil {
		defer st.store.Close()
	}

	if *robotCatalog {
		return exitCode(writeRobotJSON(os.Stdout, buildCatalogOutput(st.registry)))
	}

	sess := st.newSession(cfg)
	ms := mentor.NewSession(st.registry.Mentor(), cfg.Timing.ThinkingDelay)
	if len(st.transcript) > 0 {
		ms.Restore(st.registry.Mentor().Greeting, st.transcript)
	}

	if *robotStatus {
		return exitCode(writeRobotJSON(os.Stdout, buildStatusOutput(sess, st)))
	}

	if *robotAsk != "" {
		out, ok := buildAskOutput(ms, *robotAsk)
		if !ok {
			fmt.Fprintln(os.Stderr, "Error: --robot-ask needs a non-blank question")
			return 2
		}
		return exitCode(writeRobotJSON(os.Stdout, out))
	}

	if *exportTranscript != "" {
		return exitCode(exportTranscriptTo(*exportTranscript, ms.Transcript.Messages()))
	}

	m := ui.NewModel(st.registry, sess, ms, cfg)
	if st.store != nil {
		m = m.WithStore(st.store, len(st.transcript))
	}
	if w := startWatcher(cfg); w != nil {
		m = m.WithWatcher(w, cfg.Content.Path)
	}

	final, err := runTUIProgram(m)
	final.Stop()

	flushCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if ferr := final.Flush(flushCtx); ferr != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save progress: %v\n", ferr)
	}

	if err != nil {
		fmt.Printf("Error running jm: %v\n", err)
		return 1
	}
	return 0
}

// exitCode reports err on stderr and maps it to an exit status.
func exitCode(err error) int {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// applyFlags layers command-line overrides onto the loaded config.
func applyFlags(cfg config.Config, contentPath, view string, ephemeral bool) (config.Config, error) {
	if contentPath != "" {
		cfg.Content.Path = contentPath
	}
	if view != "" {
		if !config.IsKnownView(view) {
			return cfg, fmt.Errorf("unknown --view %q", view)
		}
		cfg.UI.DefaultView = view
	}
	if ephemeral {
		cfg.Persistence.Enabled = config.Bool(false)
	}
	return cfg, nil
}

func runSetup(cfg config.Config) error {
	path := config.ConfigPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	updated, err := setup.NewWizard(os.Stdout).Run(cfg)
	if err != nil {
		return err
	}
	if err := config.SaveTo(updated, path); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// startup is everything loaded before the first frame.
type startup struct {
	registry   *content.Registry
	store      *store.Store
	snapshot   session.Snapshot
	restored   bool
	transcript []model.ChatMessage
	storeErr   error
}

// loadStartup reads the catalog and the saved state in parallel. A broken
// state database is reported and the app runs without persistence.
func loadStartup(ctx context.Context, cfg config.Config) (*startup, error) {
	st := &startup{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reg, err := content.LoadOrDefault(cfg.Content.Path)
		if err != nil {
			return err
		}
		st.registry = reg
		return nil
	})

	if cfg.PersistenceEnabled() {
		g.Go(func() error {
			st.storeErr = st.openState(gctx, cfg.StatePath())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if st.store != nil {
			st.store.Close()
		}
		return nil, err
	}
	if st.storeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: progress will not be saved: %v\n", st.storeErr)
		debug.Log("startup: store unavailable: %v", st.storeErr)
	}
	return st, nil
}

func (st *startup) openState(ctx context.Context, path string) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	snap, ok, err := s.LoadSession(ctx)
	if err != nil {
		s.Close()
		return err
	}
	msgs, err := s.LoadTranscript(ctx, transcriptLimit)
	if err != nil {
		s.Close()
		return err
	}
	st.store = s
	st.snapshot = snap
	st.restored = ok
	st.transcript = msgs
	return nil
}

// newSession builds the learner session: catalog defaults, then saved
// progress, then the configured name.
func (st *startup) newSession(cfg config.Config) *session.Session {
	sess := session.New(st.registry)
	if st.restored {
		sess.Restore(st.snapshot)
	}
	if cfg.Learner.Name != "" {
		sess.Learner = cfg.Learner.Name
	}
	return sess
}

func wipeState(ctx context.Context, cfg config.Config, all bool) error {
	if !cfg.PersistenceEnabled() {
		return errors.New("persistence is disabled; nothing to erase")
	}
	s, err := store.Open(cfg.StatePath())
	if err != nil {
		return err
	}
	defer s.Close()
	if all {
		if err := s.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("Progress and chat history erased")
		return nil
	}
	if err := s.ClearTranscript(ctx); err != nil {
		return err
	}
	fmt.Println("Chat history erased")
	return nil
}

func startWatcher(cfg config.Config) *watcher.Watcher {
	if cfg.Content.Path == "" || !cfg.WatchContent() {
		return nil
	}
	w, err := watcher.New(cfg.Content.Path,
		watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: not watching %s: %v\n", cfg.Content.Path, err)
		return nil
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: not watching %s: %v\n", cfg.Content.Path, err)
		return nil
	}
	return w
}

func runTUIProgram(m ui.Model) (ui.Model, error) {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set JM_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("JM_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	res, err := p.Run()
	final := m
	if fm, ok := res.(ui.Model); ok {
		final = fm
	}
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return final, nil
	}
	return final, err
}
