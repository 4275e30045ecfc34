package fluentify

import (
	"bytes"
	"encoding/json"
)

// Unit is a generated course unit as delivered by the server. The payload
// is kept verbatim so fields this client does not know about survive;
// the commonly rendered fields are decoded once on construction.
type Unit struct {
	Raw         json.RawMessage
	Title       string
	Description string
	Lessons     []Lesson
}

// Lesson is the subset of a lesson payload the client renders.
type Lesson struct {
	Title       string
	Description string
}

type wireUnit struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Lessons     []wireLesson `json:"lessons"`
}

type wireLesson struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewUnit builds a Unit from its raw JSON object. Fields with unexpected
// types are left empty rather than rejecting the unit.
func NewUnit(raw json.RawMessage) Unit {
	u := Unit{Raw: append(json.RawMessage(nil), raw...)}
	var w wireUnit
	if err := json.Unmarshal(raw, &w); err != nil {
		// Retry field by field so one mistyped field does not hide the rest.
		var fields map[string]json.RawMessage
		if json.Unmarshal(raw, &fields) == nil {
			_ = json.Unmarshal(fields["title"], &w.Title)
			_ = json.Unmarshal(fields["description"], &w.Description)
		}
	}
	u.Title = w.Title
	u.Description = w.Description
	for _, l := range w.Lessons {
		u.Lessons = append(u.Lessons, Lesson(l))
	}
	return u
}

// MarshalJSON returns the original payload.
func (u Unit) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("{}"), nil
	}
	return u.Raw, nil
}

// UnmarshalJSON decodes a unit from its payload.
func (u *Unit) UnmarshalJSON(data []byte) error {
	*u = NewUnit(data)
	return nil
}

// Equal reports whether two units carry the same payload.
func (u Unit) Equal(other Unit) bool {
	return bytes.Equal(compact(u.Raw), compact(other.Raw))
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// CourseSummary is a course as listed by the courses endpoint.
type CourseSummary struct {
	ID               int    `json:"id"`
	Language         string `json:"language"`
	Title            string `json:"title"`
	ExpectedDuration string `json:"expectedDuration"`
	TotalUnits       int    `json:"totalUnits"`
}
