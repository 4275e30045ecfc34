package fluentify

import (
	"encoding/json"
	"fmt"
)

// Wire names of the generation stream events.
const (
	EventNameCourseCreated  = "course_created"
	EventNameUnitGenerating = "unit_generating"
	EventNameUnitGenerated  = "unit_generated"
	EventNameCourseComplete = "course_complete"
	EventNameError          = "error"
)

// Event is a sealed interface over the generation stream's event kinds.
// Transport failures are not events; they come from the stream's read
// error. The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventCourseCreated confirms the course row exists server-side and
// reports the real unit count.
type EventCourseCreated struct {
	CourseID   int
	TotalUnits int
}

func (EventCourseCreated) event() {}

// EventUnitGenerating signals the server started producing a unit.
// UnitNumber is 1-based.
type EventUnitGenerating struct {
	UnitNumber int
}

func (EventUnitGenerating) event() {}

// EventUnitGenerated delivers a finished unit. Progress is the
// server-authoritative "completed/total" counter when present.
type EventUnitGenerated struct {
	UnitNumber int
	Unit       Unit
	Progress   *string
}

func (EventUnitGenerated) event() {}

// EventCourseComplete is the terminal success frame.
type EventCourseComplete struct {
	CourseID *int
}

func (EventCourseComplete) event() {}

// EventError is the terminal failure frame reported by the server.
// Message may be empty, in which case a default is shown.
type EventError struct {
	Message string
}

func (EventError) event() {}

// EventUnknown carries a frame with an event name this client does not
// understand. It is ignored by Apply.
type EventUnknown struct {
	Name string
	Data json.RawMessage
}

func (EventUnknown) event() {}

// Interface compliance checks.
var (
	_ Event = EventCourseCreated{}
	_ Event = EventUnitGenerating{}
	_ Event = EventUnitGenerated{}
	_ Event = EventCourseComplete{}
	_ Event = EventError{}
	_ Event = EventUnknown{}
)

type wireCourseCreated struct {
	CourseID   *int `json:"courseId"`
	TotalUnits *int `json:"totalUnits"`
}

type wireUnitNumber struct {
	UnitNumber *int `json:"unitNumber"`
}

type wireUnitGenerated struct {
	UnitNumber *int            `json:"unitNumber"`
	Unit       json.RawMessage `json:"unit"`
	Progress   *string         `json:"progress"`
}

type wireCourseComplete struct {
	CourseID *int `json:"courseId"`
}

type wireError struct {
	Message string `json:"message"`
}

// ParseEvent maps a wire frame to its Event variant. The payload must be a
// JSON object carrying the fields its event name requires; otherwise the
// returned error wraps ErrMalformedFrame. Unknown names yield EventUnknown.
func ParseEvent(name string, data json.RawMessage) (Event, error) {
	if !isObject(data) {
		return nil, fmt.Errorf("%s: payload is not a JSON object: %w", name, ErrMalformedFrame)
	}
	switch name {
	case EventNameCourseCreated:
		var w wireCourseCreated
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrMalformedFrame)
		}
		if w.CourseID == nil || w.TotalUnits == nil {
			return nil, fmt.Errorf("%s: courseId and totalUnits are required: %w", name, ErrMalformedFrame)
		}
		if *w.TotalUnits < 0 {
			return nil, fmt.Errorf("%s: negative totalUnits %d: %w", name, *w.TotalUnits, ErrMalformedFrame)
		}
		return EventCourseCreated{CourseID: *w.CourseID, TotalUnits: *w.TotalUnits}, nil

	case EventNameUnitGenerating:
		var w wireUnitNumber
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrMalformedFrame)
		}
		if w.UnitNumber == nil {
			return nil, fmt.Errorf("%s: unitNumber is required: %w", name, ErrMalformedFrame)
		}
		return EventUnitGenerating{UnitNumber: *w.UnitNumber}, nil

	case EventNameUnitGenerated:
		var w wireUnitGenerated
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrMalformedFrame)
		}
		if w.UnitNumber == nil {
			return nil, fmt.Errorf("%s: unitNumber is required: %w", name, ErrMalformedFrame)
		}
		if !isObject(w.Unit) {
			return nil, fmt.Errorf("%s: unit object is required: %w", name, ErrMalformedFrame)
		}
		evt := EventUnitGenerated{UnitNumber: *w.UnitNumber, Unit: NewUnit(w.Unit)}
		// An empty progress string falls back to the local counter.
		if w.Progress != nil && *w.Progress != "" {
			evt.Progress = w.Progress
		}
		return evt, nil

	case EventNameCourseComplete:
		var w wireCourseComplete
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrMalformedFrame)
		}
		return EventCourseComplete{CourseID: w.CourseID}, nil

	case EventNameError:
		var w wireError
		// A non-string message still terminates the session with the
		// default text.
		_ = json.Unmarshal(data, &w)
		return EventError{Message: w.Message}, nil

	default:
		return EventUnknown{Name: name, Data: append(json.RawMessage(nil), data...)}, nil
	}
}

func isObject(data json.RawMessage) bool {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return json.Valid(data)
		default:
			return false
		}
	}
	return false
}
