package mentor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanderheijden86/javamaster/pkg/model"
)

// Transcript is the append-only chat history.
type Transcript struct {
	msgs []model.ChatMessage
}

// NewTranscript starts a transcript with the mentor greeting. An empty
// greeting starts an empty transcript.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{}
	if strings.TrimSpace(greeting) != "" {
		t.Append(model.ChatMessage{
			ID:        uuid.NewString(),
			Content:   greeting,
			Sender:    model.SenderMentor,
			Timestamp: time.Now(),
			Kind:      model.KindNone,
		})
	}
	return t
}

// Messages returns a copy of the history.
func (t *Transcript) Messages() []model.ChatMessage {
	return append([]model.ChatMessage(nil), t.msgs...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int { return len(t.msgs) }

// Last returns the newest message.
func (t *Transcript) Last() (model.ChatMessage, bool) {
	if len(t.msgs) == 0 {
		return model.ChatMessage{}, false
	}
	return t.msgs[len(t.msgs)-1], true
}

// Submit appends a user message. Blank text is ignored and reported false.
func (t *Transcript) Submit(text string) (model.ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, false
	}
	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   text,
		Sender:    model.SenderUser,
		Timestamp: time.Now(),
	}
	t.Append(msg)
	return msg, true
}

// Append adds a message as is.
func (t *Transcript) Append(msg model.ChatMessage) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	t.msgs = append(t.msgs, msg)
}

// RestoreTranscript rebuilds a transcript from stored history. Empty history
// starts over with the greeting.
func RestoreTranscript(greeting string, history []model.ChatMessage) *Transcript {
	if len(history) == 0 {
		return NewTranscript(greeting)
	}
	t := &Transcript{}
	for _, m := range history {
		t.Append(m)
	}
	return t
}
