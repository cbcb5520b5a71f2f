// Package lesson tracks a learner's position and completed sections inside
// one lesson.
package lesson

import (
	"errors"
	"sort"

	"github.com/vanderheijden86/javamaster/pkg/model"
)

// ErrNoSections is returned when a tracker is built for an empty lesson.
var ErrNoSections = errors.New("lesson has no sections")

// Event reports what MarkCurrentComplete did.
type Event struct {
	Section         int  // index that was marked
	NewlyCompleted  bool // false when the section was already complete
	LessonCompleted bool // true when the marked section is the last one
}

// Tracker holds the cursor and completed set for one open lesson. The cursor
// is always in [0, n-1] and the completed set only holds valid indices.
type Tracker struct {
	lesson    model.Lesson
	cursor    int
	completed map[int]bool
}

// New returns a tracker positioned on the first section.
func New(l model.Lesson) (*Tracker, error) {
	if len(l.Sections) == 0 {
		return nil, ErrNoSections
	}
	return &Tracker{
		lesson:    l,
		completed: make(map[int]bool, len(l.Sections)),
	}, nil
}

// Lesson returns the lesson being tracked.
func (t *Tracker) Lesson() model.Lesson { return t.lesson }

// Len returns the number of sections.
func (t *Tracker) Len() int { return len(t.lesson.Sections) }

// Cursor returns the current section index.
func (t *Tracker) Cursor() int { return t.cursor }

// Current returns the section under the cursor.
func (t *Tracker) Current() model.Section { return t.lesson.Sections[t.cursor] }

// IsFirst reports whether the cursor is on the first section.
func (t *Tracker) IsFirst() bool { return t.cursor == 0 }

// IsLast reports whether the cursor is on the last section.
func (t *Tracker) IsLast() bool { return t.cursor == t.Len()-1 }

// GoNext advances the cursor. It is a no-op on the last section.
func (t *Tracker) GoNext() bool {
	if t.IsLast() {
		return false
	}
	t.cursor++
	return true
}

// GoPrevious moves the cursor back. It is a no-op on the first section.
func (t *Tracker) GoPrevious() bool {
	if t.IsFirst() {
		return false
	}
	t.cursor--
	return true
}

// JumpTo moves the cursor to i when it is a valid index.
func (t *Tracker) JumpTo(i int) bool {
	if i < 0 || i >= t.Len() {
		return false
	}
	t.cursor = i
	return true
}

// MarkCurrentComplete adds the cursor to the completed set. Marking the last
// section reports LessonCompleted, even if it was already marked.
func (t *Tracker) MarkCurrentComplete() Event {
	ev := Event{
		Section:         t.cursor,
		NewlyCompleted:  !t.completed[t.cursor],
		LessonCompleted: t.IsLast(),
	}
	t.completed[t.cursor] = true
	return ev
}

// IsCompleted reports whether section i has been marked complete.
func (t *Tracker) IsCompleted(i int) bool {
	return t.completed[i]
}

// CompletedCount returns the number of distinct completed sections.
func (t *Tracker) CompletedCount() int {
	return len(t.completed)
}

// Completed returns the completed indices in ascending order.
func (t *Tracker) Completed() []int {
	out := make([]int, 0, len(t.completed))
	for i := range t.completed {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Percent is the position-based progress shown in the lesson header:
// (cursor+1)/n*100, rounded down.
func (t *Tracker) Percent() int {
	return (t.cursor + 1) * 100 / t.Len()
}

// CompletedPercent is the share of sections marked complete.
func (t *Tracker) CompletedPercent() int {
	return t.CompletedCount() * 100 / t.Len()
}
