package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/javamaster/internal/store"
	"github.com/vanderheijden86/javamaster/pkg/config"
	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/mentor"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/session"
	"github.com/vanderheijden86/javamaster/pkg/testutil"
)

// captureStdout runs f while capturing stdout to a string.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	f()
	_ = w.Close()
	os.Stdout = orig
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	_ = r.Close()
	return buf.String()
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Persistence.Path = filepath.Join(t.TempDir(), "state.db")
	cfg.Timing.ThinkingDelay = time.Millisecond
	return cfg
}

func TestApplyFlags(t *testing.T) {
	cfg := config.DefaultConfig()

	got, err := applyFlags(cfg, "/tmp/course.yaml", "mentor", true)
	if err != nil {
		t.Fatalf("applyFlags: %v", err)
	}
	if got.Content.Path != "/tmp/course.yaml" {
		t.Errorf("content path = %q", got.Content.Path)
	}
	if got.UI.DefaultView != "mentor" {
		t.Errorf("default view = %q", got.UI.DefaultView)
	}
	if got.PersistenceEnabled() {
		t.Error("--ephemeral should disable persistence")
	}

	if _, err := applyFlags(cfg, "", "settings", false); err == nil {
		t.Error("unknown view should be rejected")
	}

	same, err := applyFlags(cfg, "", "", false)
	if err != nil || same.UI.DefaultView != cfg.UI.DefaultView || !same.PersistenceEnabled() {
		t.Errorf("no flags should leave the config alone, got %+v (%v)", same, err)
	}
}

func TestLoadStartupEphemeral(t *testing.T) {
	cfg := testConfig(t)
	cfg.Persistence.Enabled = config.Bool(false)

	st, err := loadStartup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("loadStartup: %v", err)
	}
	if st.store != nil {
		t.Error("ephemeral run should not open a store")
	}
	if st.registry.Origin() != "builtin" {
		t.Errorf("origin = %q, want builtin", st.registry.Origin())
	}
	if _, err := os.Stat(cfg.StatePath()); !os.IsNotExist(err) {
		t.Error("ephemeral run should not create the database")
	}
}

func TestLoadStartupBadContent(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.Path = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := loadStartup(context.Background(), cfg); err == nil {
		t.Fatal("missing content file should fail startup")
	}
}

func TestLoadStartupRestoresProgress(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	// First run: complete a topic and chat.
	st, err := loadStartup(ctx, cfg)
	if err != nil {
		t.Fatalf("loadStartup: %v", err)
	}
	if st.restored {
		t.Fatal("fresh database should have nothing to restore")
	}
	sess := st.newSession(cfg)
	sess.CompleteTopic("2")
	if err := st.store.SaveSession(ctx, sess.Snapshot()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	ms := mentor.NewSession(st.registry.Mentor(), time.Millisecond)
	if _, ok := ms.Ask("How do arrays work?"); !ok {
		t.Fatal("Ask failed")
	}
	if err := st.store.AppendMessages(ctx, ms.Transcript.Messages()); err != nil {
		t.Fatalf("AppendMessages: %v", err)
	}
	st.store.Close()

	// Second run sees it.
	cfg.Learner.Name = "Grace"
	st, err = loadStartup(ctx, cfg)
	if err != nil {
		t.Fatalf("second loadStartup: %v", err)
	}
	defer st.store.Close()
	if !st.restored {
		t.Fatal("progress should be restored")
	}
	sess = st.newSession(cfg)
	topic, _ := sess.Topic("2")
	if !topic.Completed {
		t.Error("topic 2 should still be completed")
	}
	if sess.Learner != "Grace" {
		t.Errorf("learner = %q, configured name should win", sess.Learner)
	}
	testutil.AssertTranscript(t, st.transcript, model.SenderMentor, model.SenderUser, model.SenderMentor)
}

func TestWipeState(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	s, err := store.Open(cfg.StatePath())
	if err != nil {
		t.Fatal(err)
	}
	reg, _ := content.Default()
	sess := session.New(reg)
	sess.CompleteTopic("1")
	if err := s.SaveSession(ctx, sess.Snapshot()); err != nil {
		t.Fatal(err)
	}
	ms := mentor.NewSession(reg.Mentor(), time.Millisecond)
	ms.Ask("hello")
	if err := s.AppendMessages(ctx, ms.Transcript.Messages()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	out := captureStdout(t, func() {
		if err := wipeState(ctx, cfg, false); err != nil {
			t.Errorf("clear chat: %v", err)
		}
	})
	if !strings.Contains(out, "Chat history erased") {
		t.Errorf("output = %q", out)
	}
	st, err := loadStartup(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(st.transcript) != 0 || !st.restored {
		t.Errorf("clear-chat should keep progress and drop chat: restored=%v msgs=%d", st.restored, len(st.transcript))
	}
	st.store.Close()

	captureStdout(t, func() {
		if err := wipeState(ctx, cfg, true); err != nil {
			t.Errorf("reset: %v", err)
		}
	})
	st, err = loadStartup(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer st.store.Close()
	if st.restored {
		t.Error("reset should erase progress")
	}

	cfg.Persistence.Enabled = config.Bool(false)
	if err := wipeState(ctx, cfg, true); err == nil {
		t.Error("wiping with persistence disabled should fail")
	}
}

func TestRobotCatalogOutput(t *testing.T) {
	reg, err := content.Default()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := writeRobotJSON(&buf, buildCatalogOutput(reg)); err != nil {
		t.Fatalf("writeRobotJSON: %v", err)
	}

	var got robotCatalogOutput
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(got.Topics) != 4 {
		t.Fatalf("topics = %d, want 4", len(got.Topics))
	}
	if !got.Topics[0].HasLesson || got.Topics[0].Sections != 5 {
		t.Errorf("topic 1 = %+v, want a 5-section lesson", got.Topics[0])
	}
	if got.Topics[3].HasLesson {
		t.Error("topic 4 has no lesson")
	}
	if len(got.Challenges) == 0 || got.Challenges[0].Title != "Two Sum Problem" {
		t.Errorf("challenges = %+v", got.Challenges)
	}
	if len(got.Suggestions) != 5 {
		t.Errorf("suggestions = %d, want 5", len(got.Suggestions))
	}
}

func TestRobotStatusOutput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Persistence.Enabled = config.Bool(false)
	st, err := loadStartup(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	sess := st.newSession(cfg)
	sess.CompleteTopic("1")

	out := buildStatusOutput(sess, st)
	if out.Session.TotalXP != 3340 || out.Session.CompletedTopics != 1 {
		t.Errorf("session = %+v", out.Session)
	}
	if out.StorePath != "" || out.Restored {
		t.Error("ephemeral status should not mention a store")
	}

	var buf bytes.Buffer
	if err := writeRobotJSON(&buf, out); err != nil {
		t.Fatal(err)
	}
	if !json.Valid(buf.Bytes()) {
		t.Fatalf("invalid JSON: %s", buf.String())
	}
}

func TestRobotAskOutput(t *testing.T) {
	reg, _ := content.Default()
	ms := mentor.NewSession(reg.Mentor(), time.Millisecond)

	out, ok := buildAskOutput(ms, "Can you explain OOP?")
	if !ok {
		t.Fatal("question should be answered")
	}
	if out.Reply.Sender != model.SenderMentor || out.Reply.Content == "" {
		t.Errorf("reply = %+v", out.Reply)
	}
	if out.Rule != "oop" {
		t.Errorf("rule = %q, want oop", out.Rule)
	}

	if _, ok := buildAskOutput(ms, "   "); ok {
		t.Error("blank question should be refused")
	}
}

func TestExportTranscript(t *testing.T) {
	reg, _ := content.Default()
	ms := mentor.NewSession(reg.Mentor(), time.Millisecond)
	ms.Ask("debug my loop")

	path := filepath.Join(t.TempDir(), "chat.json")
	if err := exportTranscriptTo(path, ms.Transcript.Messages()); err != nil {
		t.Fatalf("exportTranscriptTo: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var msgs []model.ChatMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	testutil.AssertTranscript(t, msgs, model.SenderMentor, model.SenderUser, model.SenderMentor)

	out := captureStdout(t, func() {
		if err := exportTranscriptTo("-", nil); err != nil {
			t.Errorf("stdout export: %v", err)
		}
	})
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("empty export = %q, want []", out)
	}
}

func TestRunReturnsExitCodes(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	var code int
	out := captureStdout(t, func() { code = run([]string{"--robot-status"}) })
	if code != 0 {
		t.Fatalf("--robot-status exit = %d", code)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("invalid JSON: %s", out)
	}

	// The store from the previous run was closed on return, so the
	// database can be wiped and reopened in the same process.
	captureStdout(t, func() { code = run([]string{"--robot-ask", "What is OOP?"}) })
	if code != 0 {
		t.Errorf("--robot-ask exit = %d", code)
	}
	captureStdout(t, func() { code = run([]string{"--reset"}) })
	if code != 0 {
		t.Errorf("--reset exit = %d", code)
	}
	s, err := store.Open(config.DefaultConfig().StatePath())
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s.Close()
	snap, ok, err := s.LoadSession(context.Background())
	if err != nil || ok {
		t.Errorf("after --reset LoadSession = %+v, %v, %v", snap, ok, err)
	}

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"catalog", []string{"--ephemeral", "--robot-catalog"}, 0},
		{"version", []string{"--version"}, 0},
		{"unknown view", []string{"--view", "settings"}, 2},
		{"blank question", []string{"--ephemeral", "--robot-ask", "   "}, 2},
		{"bad flag", []string{"--no-such-flag"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int
			captureStdout(t, func() { got = run(tt.args) })
			if got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
