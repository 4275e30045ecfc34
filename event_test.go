package fluentify_test

import (
	"encoding/json"
	"testing"

	"github.com/samarthsinh2660/fluentify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	events := []fluentify.Event{
		fluentify.EventCourseCreated{CourseID: 1, TotalUnits: 3},
		fluentify.EventUnitGenerating{UnitNumber: 1},
		fluentify.EventUnitGenerated{UnitNumber: 1},
		fluentify.EventCourseComplete{},
		fluentify.EventError{Message: "boom"},
		fluentify.EventUnknown{Name: "ping"},
	}
	assert.Len(t, events, 6, "update slice and switch when adding new Event types")
	for _, e := range events {
		switch e.(type) {
		case fluentify.EventCourseCreated:
		case fluentify.EventUnitGenerating:
		case fluentify.EventUnitGenerated:
		case fluentify.EventCourseComplete:
		case fluentify.EventError:
		case fluentify.EventUnknown:
		default:
			t.Fatalf("unexpected event type: %T", e)
		}
	}
}

func TestParseEvent(t *testing.T) {
	t.Parallel()

	t.Run("course created", func(t *testing.T) {
		t.Parallel()
		e, err := fluentify.ParseEvent("course_created", json.RawMessage(`{"courseId":42,"totalUnits":3}`))
		require.NoError(t, err)
		assert.Equal(t, fluentify.EventCourseCreated{CourseID: 42, TotalUnits: 3}, e)
	})

	t.Run("unit generating", func(t *testing.T) {
		t.Parallel()
		e, err := fluentify.ParseEvent("unit_generating", json.RawMessage(`{"unitNumber":2}`))
		require.NoError(t, err)
		assert.Equal(t, fluentify.EventUnitGenerating{UnitNumber: 2}, e)
	})

	t.Run("unit generated keeps payload and progress", func(t *testing.T) {
		t.Parallel()
		e, err := fluentify.ParseEvent("unit_generated",
			json.RawMessage(`{"unitNumber":1,"unit":{"title":"Basics","extra":[1,2]},"progress":"1/3"}`))
		require.NoError(t, err)
		got, ok := e.(fluentify.EventUnitGenerated)
		require.True(t, ok)
		assert.Equal(t, 1, got.UnitNumber)
		assert.Equal(t, "Basics", got.Unit.Title)
		assert.JSONEq(t, `{"title":"Basics","extra":[1,2]}`, string(got.Unit.Raw))
		require.NotNil(t, got.Progress)
		assert.Equal(t, "1/3", *got.Progress)
	})

	t.Run("empty progress is treated as absent", func(t *testing.T) {
		t.Parallel()
		e, err := fluentify.ParseEvent("unit_generated", json.RawMessage(`{"unitNumber":1,"unit":{},"progress":""}`))
		require.NoError(t, err)
		assert.Nil(t, e.(fluentify.EventUnitGenerated).Progress)
	})

	t.Run("course complete with and without id", func(t *testing.T) {
		t.Parallel()
		e, err := fluentify.ParseEvent("course_complete", json.RawMessage(`{"courseId":42}`))
		require.NoError(t, err)
		require.NotNil(t, e.(fluentify.EventCourseComplete).CourseID)
		assert.Equal(t, 42, *e.(fluentify.EventCourseComplete).CourseID)

		e, err = fluentify.ParseEvent("course_complete", json.RawMessage(`{}`))
		require.NoError(t, err)
		assert.Nil(t, e.(fluentify.EventCourseComplete).CourseID)
	})

	t.Run("error message", func(t *testing.T) {
		t.Parallel()
		e, err := fluentify.ParseEvent("error", json.RawMessage(`{"message":"quota"}`))
		require.NoError(t, err)
		assert.Equal(t, fluentify.EventError{Message: "quota"}, e)

		e, err = fluentify.ParseEvent("error", json.RawMessage(`{"message":17}`))
		require.NoError(t, err)
		assert.Equal(t, fluentify.EventError{}, e)
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		e, err := fluentify.ParseEvent("heartbeat", json.RawMessage(`{"t":1}`))
		require.NoError(t, err)
		assert.Equal(t, fluentify.EventUnknown{Name: "heartbeat", Data: json.RawMessage(`{"t":1}`)}, e)
	})
}

func TestParseEvent_Malformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		event string
		data  string
	}{
		{"array payload", "course_created", `[1,2]`},
		{"string payload", "error", `"boom"`},
		{"missing total units", "course_created", `{"courseId":1}`},
		{"negative total units", "course_created", `{"courseId":1,"totalUnits":-2}`},
		{"string unit number", "unit_generating", `{"unitNumber":"1"}`},
		{"missing unit number", "unit_generating", `{}`},
		{"missing unit", "unit_generated", `{"unitNumber":1}`},
		{"null unit", "unit_generated", `{"unitNumber":1,"unit":null}`},
		{"mistyped course id", "course_complete", `{"courseId":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := fluentify.ParseEvent(tt.event, json.RawMessage(tt.data))
			assert.ErrorIs(t, err, fluentify.ErrMalformedFrame)
		})
	}
}
