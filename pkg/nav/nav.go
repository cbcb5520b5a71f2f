// Package nav tracks which top-level view is active.
package nav

// View identifies a top-level screen.
type View string

const (
	Dashboard  View = "dashboard"
	Challenges View = "challenges"
	Mentor     View = "mentor"
	Progress   View = "progress"
	Resources  View = "resources"
)

// Order is the tab order shown in the header.
var Order = []View{Dashboard, Challenges, Mentor, Progress, Resources}

var labels = map[View]string{
	Dashboard:  "Dashboard",
	Challenges: "Challenges",
	Mentor:     "AI Mentor",
	Progress:   "Progress",
	Resources:  "Resources",
}

// Label returns the display name of v.
func (v View) Label() string {
	if l, ok := labels[v]; ok {
		return l
	}
	return string(v)
}

// IsValid reports whether v is one of the known views.
func (v View) IsValid() bool {
	_, ok := labels[v]
	return ok
}

// Parse maps an id to a view. Unknown ids map to Dashboard.
func Parse(id string) View {
	v := View(id)
	if v.IsValid() {
		return v
	}
	return Dashboard
}

// Navigator holds the active view. The zero value starts on the dashboard.
type Navigator struct {
	active View
}

// New returns a navigator positioned on initial (or the dashboard when
// initial is not a known view).
func New(initial string) *Navigator {
	return &Navigator{active: Parse(initial)}
}

// Active returns the current view.
func (n *Navigator) Active() View {
	if n.active == "" {
		return Dashboard
	}
	return n.active
}

// Select replaces the active view unconditionally and returns it.
func (n *Navigator) Select(id string) View {
	n.active = Parse(id)
	return n.active
}

// Next moves to the following tab, wrapping around.
func (n *Navigator) Next() View {
	return n.step(1)
}

// Prev moves to the preceding tab, wrapping around.
func (n *Navigator) Prev() View {
	return n.step(-1)
}

// Index returns the position of the active view in Order.
func (n *Navigator) Index() int {
	cur := n.Active()
	for i, v := range Order {
		if v == cur {
			return i
		}
	}
	return 0
}

func (n *Navigator) step(d int) View {
	i := (n.Index() + d + len(Order)) % len(Order)
	n.active = Order[i]
	return n.active
}
