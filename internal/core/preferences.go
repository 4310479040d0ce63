package core

// Preferences persists user choices across sessions.
type Preferences interface {
	// LoadView returns the last chosen view. ok is false when nothing was saved yet.
	LoadView() (view View, ok bool, err error)
	// SaveView remembers the chosen view for future sessions.
	SaveView(view View) error
}
