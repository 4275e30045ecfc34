package bubbletea_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samarthsinh2660/fluentify"
	bt "github.com/samarthsinh2660/fluentify/bubbletea"
	"github.com/stretchr/testify/require"
)

var params = fluentify.Params{Language: "Spanish", ExpectedDuration: "3 months", Expertise: "Beginner"}

// fakeGenerator records calls and never publishes on its own.
type fakeGenerator struct {
	state   fluentify.State
	updates chan fluentify.State
	starts  []fluentify.Params
	resets  int
	closed  bool
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{state: fluentify.InitialState(), updates: make(chan fluentify.State, 1)}
}

func (g *fakeGenerator) Start(p fluentify.Params) { g.starts = append(g.starts, p) }
func (g *fakeGenerator) Reset()                   { g.resets++ }
func (g *fakeGenerator) State() fluentify.State   { return g.state }
func (g *fakeGenerator) Close() error             { g.closed = true; return nil }

func (g *fakeGenerator) Subscribe() (<-chan fluentify.State, func()) {
	return g.updates, func() {}
}

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, gen bt.Generator) bt.Model {
	t.Helper()
	m := bt.New(gen, params, fluentify.DefaultTheme())
	return updateModel(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func ptr[T any](v T) *T { return &v }

func unit(title string, lessons ...string) *fluentify.Unit {
	u := fluentify.Unit{Title: title}
	for _, l := range lessons {
		u.Lessons = append(u.Lessons, fluentify.Lesson{Title: l})
	}
	return &u
}

// generating returns a mid-session snapshot: unit 1 done, unit 2 in progress.
func generating() fluentify.State {
	return fluentify.State{
		IsGenerating:      true,
		CourseID:          ptr(42),
		Language:          "Spanish",
		TotalUnits:        3,
		Units:             []*fluentify.Unit{unit("Greetings", "Hola", "Adiós"), nil, nil},
		CurrentGenerating: ptr(2),
		Progress:          "1/3",
	}
}
