package mentor

import (
	"context"
	"time"

	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/debug"
	"github.com/vanderheijden86/javamaster/pkg/metrics"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

// DefaultDelay is the simulated thinking time before a reply.
const DefaultDelay = 1500 * time.Millisecond

// Session ties a transcript to a dispatcher. Transcript mutation belongs to
// the UI loop; Think only computes a reply and is safe to call from a
// command goroutine.
type Session struct {
	Transcript  *Transcript
	dispatcher  *Dispatcher
	suggestions []string
	delay       time.Duration
}

// NewSession starts a conversation from the script. A non-positive delay
// selects DefaultDelay.
func NewSession(script content.MentorScript, delay time.Duration) *Session {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Session{
		Transcript:  NewTranscript(script.Greeting),
		dispatcher:  NewDispatcher(script),
		suggestions: append([]string(nil), script.Suggestions...),
		delay:       delay,
	}
}

// Suggestions returns the quick prompts.
func (s *Session) Suggestions() []string {
	return append([]string(nil), s.suggestions...)
}

// Delay returns the thinking delay.
func (s *Session) Delay() time.Duration { return s.delay }

// Dispatcher returns the rule dispatcher.
func (s *Session) Dispatcher() *Dispatcher { return s.dispatcher }

// Think waits for the thinking delay and returns the reply to text.
// Cancelling ctx aborts the wait.
func (s *Session) Think(ctx context.Context, text string) (model.ChatMessage, error) {
	start := time.Now()
	defer func() { metrics.MentorReply.Record(time.Since(start)) }()

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return model.ChatMessage{}, ctx.Err()
	case <-timer.C:
	}
	reply := s.dispatcher.Respond(text)
	debug.Log("mentor: %d-byte question answered with kind %q", len(text), reply.Kind)
	return reply, nil
}

// Ask submits text and appends the reply immediately. Used by robot mode
// where there is nothing to animate.
func (s *Session) Ask(text string) (model.ChatMessage, bool) {
	if _, ok := s.Transcript.Submit(text); !ok {
		return model.ChatMessage{}, false
	}
	reply := s.dispatcher.Respond(text)
	s.Transcript.Append(reply)
	return reply, true
}

// Restore replaces the transcript with stored history, keeping the greeting
// when there is none.
func (s *Session) Restore(greeting string, history []model.ChatMessage) {
	s.Transcript = RestoreTranscript(greeting, history)
}
