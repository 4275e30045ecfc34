package bubbletea

// RenderContent exports renderContent for testing.
func RenderContent(m Model) string {
	return m.renderContent()
}

// PadRight exports padRight for testing.
func PadRight(s string, width int) string {
	return padRight(s, width)
}
