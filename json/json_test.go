package json_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samarthsinh2660/fluentify"
	fjson "github.com/samarthsinh2660/fluentify/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completed(t *testing.T) fluentify.State {
	t.Helper()
	id := 42
	s, _ := fluentify.Apply(fluentify.StartingState("Spanish"), fluentify.EventCourseCreated{CourseID: 42, TotalUnits: 3})
	s, _ = fluentify.Apply(s, fluentify.EventUnitGenerated{
		UnitNumber: 1,
		Unit:       fluentify.NewUnit(json.RawMessage(`{"title":"Basics","vocabulary":["hola"]}`)),
	})
	s, _ = fluentify.Apply(s, fluentify.EventCourseComplete{CourseID: &id})
	return s
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "course.json")
	snap := fjson.Snapshot{
		Params:  fluentify.Params{Language: "Spanish", ExpectedDuration: "3 months", Expertise: "Beginner"},
		State:   completed(t),
		SavedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, fjson.Save(path, snap))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.ErrorIs(t, err, os.ErrNotExist)

	got, err := fjson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Params, got.Params)
	assert.True(t, snap.SavedAt.Equal(got.SavedAt))
	assert.Equal(t, 42, *got.State.CourseID)
	assert.Equal(t, "3/3", got.State.Progress)
	assert.True(t, got.State.IsComplete)
	require.Len(t, got.State.Units, 3)
	assert.True(t, snap.State.Units[0].Equal(*got.State.Units[0]))
	assert.Equal(t, "Basics", got.State.Units[0].Title)
	assert.Nil(t, got.State.Units[1])
}

func TestMarshalSnapshot_WireShape(t *testing.T) {
	t.Parallel()
	data, err := fjson.MarshalSnapshot(fjson.Snapshot{State: completed(t)})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(1), doc["version"])
	state := doc["state"].(map[string]any)
	assert.Equal(t, float64(42), state["courseId"])
	assert.Equal(t, []any{map[string]any{"title": "Basics", "vocabulary": []any{"hola"}}, nil, nil}, state["units"])
	assert.Nil(t, state["error"])
	assert.Nil(t, state["currentGenerating"])
}

func TestMarshalSnapshot_IdleState(t *testing.T) {
	t.Parallel()
	data, err := fjson.MarshalSnapshot(fjson.Snapshot{State: fluentify.State{TotalUnits: 0}})
	require.NoError(t, err)
	got, err := fjson.UnmarshalSnapshot(data)
	require.NoError(t, err)
	assert.Empty(t, got.State.Units)
}

func TestUnmarshalSnapshot_Rejects(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"wrong version", `{"version":2,"state":{}}`},
		{"slot count mismatch", `{"version":1,"state":{"totalUnits":2,"units":[null]}}`},
		{"current out of range", `{"version":1,"state":{"totalUnits":1,"units":[null],"currentGenerating":2}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := fjson.UnmarshalSnapshot([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := fjson.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
