package fluentify_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/samarthsinh2660/fluentify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyAll(t *testing.T, s fluentify.State, events ...fluentify.Event) (fluentify.State, bool) {
	t.Helper()
	var terminal bool
	for _, e := range events {
		s, terminal = fluentify.Apply(s, e)
	}
	return s, terminal
}

func unit(title string) fluentify.Unit {
	return fluentify.NewUnit(json.RawMessage(fmt.Sprintf(`{"title":%q}`, title)))
}

func TestApply_ExampleScenario(t *testing.T) {
	t.Parallel()
	id := 42
	s, terminal := applyAll(t, fluentify.StartingState("Spanish"),
		fluentify.EventCourseCreated{CourseID: 42, TotalUnits: 3},
		fluentify.EventUnitGenerating{UnitNumber: 1},
		fluentify.EventUnitGenerated{UnitNumber: 1, Unit: unit("Basics")},
		fluentify.EventCourseComplete{CourseID: &id},
	)
	assert.True(t, terminal)
	require.NotNil(t, s.CourseID)
	assert.Equal(t, 42, *s.CourseID)
	assert.Equal(t, 3, s.TotalUnits)
	require.Len(t, s.Units, 3)
	assert.Equal(t, "Basics", s.Units[0].Title)
	assert.Nil(t, s.Units[1])
	assert.Nil(t, s.Units[2])
	assert.Equal(t, "3/3", s.Progress)
	assert.True(t, s.IsComplete)
	assert.False(t, s.IsGenerating)
	assert.Nil(t, s.CurrentGenerating)
	assert.Nil(t, s.Error)
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	t.Parallel()
	in := fluentify.StartingState("French")
	before := in.Clone()
	_, _ = applyAll(t, in,
		fluentify.EventUnitGenerating{UnitNumber: 1},
		fluentify.EventUnitGenerated{UnitNumber: 1, Unit: unit("A")},
	)
	out, _ := fluentify.Apply(in, fluentify.EventUnitGenerated{UnitNumber: 2, Unit: unit("B")})
	assert.Equal(t, before, in)
	assert.NotNil(t, out.Units[1])
}

func TestApply_CourseCreated(t *testing.T) {
	t.Parallel()

	t.Run("resizes slots and discards filled ones", func(t *testing.T) {
		t.Parallel()
		s, _ := applyAll(t, fluentify.StartingState("German"),
			fluentify.EventUnitGenerated{UnitNumber: 2, Unit: unit("early")},
			fluentify.EventUnitGenerating{UnitNumber: 3},
			fluentify.EventCourseCreated{CourseID: 5, TotalUnits: 4},
		)
		assert.Equal(t, 4, s.TotalUnits)
		assert.Equal(t, []*fluentify.Unit{nil, nil, nil, nil}, s.Units)
		assert.Nil(t, s.CurrentGenerating)
		assert.True(t, s.IsGenerating)
	})

	t.Run("duplicate keeps the first course id", func(t *testing.T) {
		t.Parallel()
		s, _ := applyAll(t, fluentify.StartingState("German"),
			fluentify.EventCourseCreated{CourseID: 5, TotalUnits: 4},
			fluentify.EventCourseCreated{CourseID: 6, TotalUnits: 2},
		)
		assert.Equal(t, 5, *s.CourseID)
		assert.Len(t, s.Units, 2)
	})

	t.Run("zero units", func(t *testing.T) {
		t.Parallel()
		s, terminal := applyAll(t, fluentify.StartingState("German"),
			fluentify.EventCourseCreated{CourseID: 5, TotalUnits: 0},
			fluentify.EventCourseComplete{},
		)
		assert.True(t, terminal)
		assert.Empty(t, s.Units)
		assert.Equal(t, "0/0", s.Progress)
	})
}

func TestApply_UnitEvents(t *testing.T) {
	t.Parallel()

	created := func(n int) fluentify.State {
		s, _ := fluentify.Apply(fluentify.StartingState("Italian"), fluentify.EventCourseCreated{CourseID: 1, TotalUnits: n})
		return s
	}

	t.Run("generating marks current unit", func(t *testing.T) {
		t.Parallel()
		s, terminal := fluentify.Apply(created(3), fluentify.EventUnitGenerating{UnitNumber: 2})
		assert.False(t, terminal)
		require.NotNil(t, s.CurrentGenerating)
		assert.Equal(t, 2, *s.CurrentGenerating)
	})

	t.Run("generated fills slot and falls back to local progress", func(t *testing.T) {
		t.Parallel()
		s, _ := applyAll(t, created(3),
			fluentify.EventUnitGenerating{UnitNumber: 2},
			fluentify.EventUnitGenerated{UnitNumber: 2, Unit: unit("Two")},
		)
		assert.Equal(t, "Two", s.Units[1].Title)
		assert.Nil(t, s.CurrentGenerating)
		assert.Equal(t, "2/3", s.Progress)
	})

	t.Run("server progress wins", func(t *testing.T) {
		t.Parallel()
		p := "1/3"
		s, _ := fluentify.Apply(created(3), fluentify.EventUnitGenerated{UnitNumber: 3, Unit: unit("Three"), Progress: &p})
		assert.Equal(t, "1/3", s.Progress)
	})

	t.Run("out of range numbers are ignored", func(t *testing.T) {
		t.Parallel()
		base := created(2)
		for _, n := range []int{0, -1, 3} {
			s, terminal := applyAll(t, base,
				fluentify.EventUnitGenerating{UnitNumber: n},
				fluentify.EventUnitGenerated{UnitNumber: n, Unit: unit("x")},
			)
			assert.False(t, terminal)
			assert.Equal(t, base, s, "unit number %d", n)
		}
	})

	t.Run("generating for a filled slot is ignored", func(t *testing.T) {
		t.Parallel()
		s, _ := applyAll(t, created(2),
			fluentify.EventUnitGenerated{UnitNumber: 1, Unit: unit("One")},
			fluentify.EventUnitGenerating{UnitNumber: 1},
		)
		assert.Nil(t, s.CurrentGenerating)
	})

	t.Run("regenerated unit replaces slot", func(t *testing.T) {
		t.Parallel()
		s, _ := applyAll(t, created(2),
			fluentify.EventUnitGenerated{UnitNumber: 1, Unit: unit("Old")},
			fluentify.EventUnitGenerated{UnitNumber: 1, Unit: unit("New")},
		)
		assert.Equal(t, "New", s.Units[0].Title)
		assert.Equal(t, 1, s.Generated())
	})
}

func TestApply_Monotonic(t *testing.T) {
	t.Parallel()
	const n = 5
	s, _ := fluentify.Apply(fluentify.StartingState("Hindi"), fluentify.EventCourseCreated{CourseID: 3, TotalUnits: n})
	for i := 1; i <= n; i++ {
		prev := s.Generated()
		s, _ = applyAll(t, s,
			fluentify.EventUnitGenerating{UnitNumber: i},
			fluentify.EventUnitGenerated{UnitNumber: i, Unit: unit(fmt.Sprint(i))},
		)
		assert.Equal(t, prev+1, s.Generated())
		assert.Equal(t, fmt.Sprintf("%d/%d", i, n), s.Progress)
		assert.Len(t, s.Units, s.TotalUnits)
	}
}

func TestApply_Terminal(t *testing.T) {
	t.Parallel()

	later := []fluentify.Event{
		fluentify.EventCourseCreated{CourseID: 99, TotalUnits: 1},
		fluentify.EventUnitGenerating{UnitNumber: 1},
		fluentify.EventUnitGenerated{UnitNumber: 1, Unit: unit("late")},
		fluentify.EventCourseComplete{},
		fluentify.EventError{Message: "late"},
	}

	t.Run("complete absorbs later events", func(t *testing.T) {
		t.Parallel()
		done, terminal := fluentify.Apply(fluentify.StartingState("Japanese"), fluentify.EventCourseComplete{})
		require.True(t, terminal)
		for _, e := range later {
			s, terminal := fluentify.Apply(done, e)
			assert.True(t, terminal)
			assert.Equal(t, done, s)
		}
	})

	t.Run("error ends the session", func(t *testing.T) {
		t.Parallel()
		s, terminal := applyAll(t, fluentify.StartingState("Japanese"),
			fluentify.EventUnitGenerating{UnitNumber: 1},
			fluentify.EventError{Message: "quota exceeded"},
		)
		assert.True(t, terminal)
		assert.Equal(t, "quota exceeded", *s.Error)
		assert.False(t, s.IsGenerating)
		assert.False(t, s.IsComplete)
		assert.Nil(t, s.CurrentGenerating)
		for _, e := range later {
			next, _ := fluentify.Apply(s, e)
			assert.Equal(t, s, next)
		}
	})

	t.Run("error without message uses default", func(t *testing.T) {
		t.Parallel()
		s, _ := fluentify.Apply(fluentify.StartingState("Japanese"), fluentify.EventError{})
		assert.Equal(t, fluentify.DefaultGenerationFailedMessage, *s.Error)
	})
}

func TestApply_UnknownEvent(t *testing.T) {
	t.Parallel()
	in := fluentify.StartingState("Spanish")
	s, terminal := fluentify.Apply(in, fluentify.EventUnknown{Name: "heartbeat"})
	assert.False(t, terminal)
	assert.Equal(t, in, s)
}
