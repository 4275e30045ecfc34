// Package json persists generation snapshots as versioned JSON documents.
//
// Field names follow the web client's state shape so saved snapshots can
// be inspected next to the browser's.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samarthsinh2660/fluentify"
)

// Snapshot is a saved generation result.
type Snapshot struct {
	Params  fluentify.Params
	State   fluentify.State
	SavedAt time.Time
}

// envelope is the v1 wire format for a persisted snapshot.
type envelope struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
	Params  paramsDTO `json:"params"`
	State   stateDTO  `json:"state"`
}

type paramsDTO struct {
	Language         string `json:"language"`
	ExpectedDuration string `json:"expectedDuration"`
	Expertise        string `json:"expertise"`
}

// stateDTO mirrors fluentify.State. Empty unit slots are null.
type stateDTO struct {
	IsGenerating      bool              `json:"isGenerating"`
	CourseID          *int              `json:"courseId"`
	Language          string            `json:"language"`
	TotalUnits        int               `json:"totalUnits"`
	Units             []*fluentify.Unit `json:"units"`
	CurrentGenerating *int              `json:"currentGenerating"`
	Progress          string            `json:"progress"`
	IsComplete        bool              `json:"isComplete"`
	Error             *string           `json:"error"`
}

// MarshalSnapshot serializes a Snapshot in v1 envelope format.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	st := s.State
	units := st.Units
	if units == nil {
		units = []*fluentify.Unit{}
	}
	env := envelope{
		Version: 1,
		SavedAt: s.SavedAt,
		Params:  paramsDTO(s.Params),
		State: stateDTO{
			IsGenerating:      st.IsGenerating,
			CourseID:          st.CourseID,
			Language:          st.Language,
			TotalUnits:        st.TotalUnits,
			Units:             units,
			CurrentGenerating: st.CurrentGenerating,
			Progress:          st.Progress,
			IsComplete:        st.IsComplete,
			Error:             st.Error,
		},
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSnapshot deserializes a Snapshot in v1 envelope format.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return Snapshot{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	dto := env.State
	if len(dto.Units) != dto.TotalUnits {
		return Snapshot{}, fmt.Errorf("state has %d unit slots for %d units", len(dto.Units), dto.TotalUnits)
	}
	if dto.CurrentGenerating != nil && (*dto.CurrentGenerating < 1 || *dto.CurrentGenerating > dto.TotalUnits) {
		return Snapshot{}, fmt.Errorf("currentGenerating %d out of range", *dto.CurrentGenerating)
	}
	return Snapshot{
		Params:  fluentify.Params(env.Params),
		SavedAt: env.SavedAt,
		State: fluentify.State{
			IsGenerating:      dto.IsGenerating,
			CourseID:          dto.CourseID,
			Language:          dto.Language,
			TotalUnits:        dto.TotalUnits,
			Units:             dto.Units,
			CurrentGenerating: dto.CurrentGenerating,
			Progress:          dto.Progress,
			IsComplete:        dto.IsComplete,
			Error:             dto.Error,
		},
	}, nil
}

// Save writes a Snapshot to a JSON file, creating parent directories as
// needed.
func Save(path string, s Snapshot) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Snapshot from a JSON file.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSnapshot(data)
}
