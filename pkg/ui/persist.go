package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/model"
	"github.com/vanderheijden86/javamaster/pkg/session"
)

// Persister stores learner state between runs. internal/store.Store
// implements it.
type Persister interface {
	SaveSession(ctx context.Context, snap session.Snapshot) error
	AppendMessages(ctx context.Context, msgs []model.ChatMessage) error
}

// PersistErrorMsg reports a failed background save. Saving failures are
// shown in the status bar and never stop the program.
type PersistErrorMsg struct {
	Err error
}

func saveSessionCmd(ctx context.Context, p Persister, snap session.Snapshot) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		if err := p.SaveSession(ctx, snap); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			debug.Log("persist: save session: %v", err)
			return PersistErrorMsg{Err: err}
		}
		return nil
	}
}

func appendMessagesCmd(ctx context.Context, p Persister, msgs []model.ChatMessage) tea.Cmd {
	if p == nil || len(msgs) == 0 {
		return nil
	}
	return func() tea.Msg {
		if err := p.AppendMessages(ctx, msgs); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			debug.Log("persist: append %d messages: %v", len(msgs), err)
			return PersistErrorMsg{Err: err}
		}
		return nil
	}
}
