// Package bubbletea provides a Bubble Tea TUI that follows a course
// generation session as it streams in.
package bubbletea

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samarthsinh2660/fluentify"
)

// Generator is the session engine the TUI drives.
type Generator interface {
	Start(params fluentify.Params)
	Reset()
	State() fluentify.State
	Subscribe() (<-chan fluentify.State, func())
	Close() error
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. The context is used for graceful shutdown: when
// cancelled, the program quits.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}

// StateMsg delivers a published snapshot to the model.
type StateMsg struct {
	State fluentify.State
}

// CourseMsg delivers the listing of a completed course.
type CourseMsg struct {
	Course fluentify.CourseSummary
}

// fetchCourse looks up course id. A failed lookup produces no message;
// the banner then shows progress only.
func fetchCourse(l fluentify.CourseLister, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), courseLookupTimeout)
		defer cancel()
		c, err := l.Course(ctx, id)
		if err != nil {
			return nil
		}
		return CourseMsg{Course: c}
	}
}

const courseLookupTimeout = 10 * time.Second

// closedMsg signals that the generator closed the subscription.
type closedMsg struct{}

// waitForState waits for the next snapshot on ch.
func waitForState(ch <-chan fluentify.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return StateMsg{State: st}
	}
}
