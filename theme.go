package fluentify

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	Title      int // Course header
	Done       int // Generated unit marker
	Generating int // Unit currently being produced
	Pending    int // Empty slot
	Error      int // Error messages
	Muted      int // Status bar, placeholders
	Accent     int // Headings, focused unit
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Title:      4,
		Done:       2,
		Generating: 3,
		Pending:    8,
		Error:      1,
		Muted:      8,
		Accent:     5,
	}
}
