package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the shell-level bindings. View-specific keys are matched in
// each view's Update.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	NextView  key.Binding
	PrevView  key.Binding
	Views     [5]key.Binding // F1-F5, always active
	ViewDigit [5]key.Binding // 1-5, only when not typing
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextView:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next view")),
		PrevView:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous view")),
	}
	fkeys := [5]string{"f1", "f2", "f3", "f4", "f5"}
	digits := [5]string{"1", "2", "3", "4", "5"}
	for i := range fkeys {
		km.Views[i] = key.NewBinding(key.WithKeys(fkeys[i]))
		km.ViewDigit[i] = key.NewBinding(key.WithKeys(digits[i]))
	}
	return km
}
