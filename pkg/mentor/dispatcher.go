// Package mentor implements the canned AI mentor: an ordered keyword
// dispatcher, the chat transcript and the simulated thinking delay.
package mentor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vanderheijden86/javamaster/pkg/content"
	"github.com/vanderheijden86/javamaster/pkg/model"
)

const inputPlaceholder = "{{input}}"

// Dispatcher maps user text to a mentor reply. Rules are tried in order and
// the first rule with a keyword contained in the lowercased text wins.
type Dispatcher struct {
	rules    []content.MentorRule
	fallback content.MentorFallback
	now      func() time.Time
}

// NewDispatcher builds a dispatcher over the script's rules.
func NewDispatcher(script content.MentorScript) *Dispatcher {
	rules := make([]content.MentorRule, len(script.Rules))
	for i, r := range script.Rules {
		kws := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		r.Keywords = kws
		rules[i] = r
	}
	return &Dispatcher{rules: rules, fallback: script.Fallback, now: time.Now}
}

// Match returns the first rule matching text.
func (d *Dispatcher) Match(text string) (content.MentorRule, bool) {
	lower := strings.ToLower(text)
	for _, r := range d.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r, true
			}
		}
	}
	return content.MentorRule{}, false
}

// Reply returns the body and kind of the answer to text, without building a
// message.
func (d *Dispatcher) Reply(text string) (string, model.ResponseKind) {
	if r, ok := d.Match(text); ok {
		return r.Template, r.Kind
	}
	return strings.ReplaceAll(d.fallback.Template, inputPlaceholder, strings.TrimSpace(text)), d.fallback.Kind
}

// Respond builds the mentor message answering text.
func (d *Dispatcher) Respond(text string) model.ChatMessage {
	body, kind := d.Reply(text)
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Content:   body,
		Sender:    model.SenderMentor,
		Timestamp: d.now(),
		Kind:      kind,
	}
}
