package debugterm

// Middleware intercepts terminal operations, allowing custom behavior before/after execution.
// Each field wraps one operation: receive original parameters and a next function to call the default implementation.
// Middleware runs before the terminal lock is taken, so it may call read accessors.
type Middleware struct {
	// PutChar wraps every code fed to the terminal
	PutChar func(r rune, next func(rune))

	// NewLine wraps explicit NewLine calls
	NewLine func(next func())

	// Resize wraps Resize with already validated dimensions
	Resize func(cols, rows int, next func(int, int))
}

// Merge copies non-nil handlers from other into m, overwriting existing handlers.
func (m *Middleware) Merge(other *Middleware) {
	if other == nil {
		return
	}
	if other.PutChar != nil {
		m.PutChar = other.PutChar
	}
	if other.NewLine != nil {
		m.NewLine = other.NewLine
	}
	if other.Resize != nil {
		m.Resize = other.Resize
	}
}
