package fluentify

// Apply folds one event into a snapshot and returns the next snapshot and
// whether the event ended the session. The input is not modified.
//
// A terminal input snapshot (complete or errored) is returned unchanged.
// Events that would break the snapshot invariants, such as a unit number
// outside [1, TotalUnits], are ignored.
func Apply(s State, e Event) (State, bool) {
	if s.Terminal() {
		return s, true
	}
	switch e := e.(type) {
	case EventCourseCreated:
		return applyCourseCreated(s, e), false
	case EventUnitGenerating:
		return applyUnitGenerating(s, e), false
	case EventUnitGenerated:
		return applyUnitGenerated(s, e), false
	case EventCourseComplete:
		return applyCourseComplete(s), true
	case EventError:
		return applyError(s, e), true
	case EventUnknown:
		return s, false
	default:
		return s, false
	}
}

// applyCourseCreated records the course id and re-sizes the unit slots.
// Slots filled under the old size are discarded.
func applyCourseCreated(s State, e EventCourseCreated) State {
	n := s.Clone()
	if n.CourseID == nil {
		id := e.CourseID
		n.CourseID = &id
	}
	n.TotalUnits = e.TotalUnits
	n.Units = make([]*Unit, e.TotalUnits)
	n.CurrentGenerating = nil
	return n
}

func applyUnitGenerating(s State, e EventUnitGenerating) State {
	if !inRange(e.UnitNumber, s.TotalUnits) || s.Units[e.UnitNumber-1] != nil {
		return s
	}
	n := s.Clone()
	num := e.UnitNumber
	n.CurrentGenerating = &num
	return n
}

func applyUnitGenerated(s State, e EventUnitGenerated) State {
	if !inRange(e.UnitNumber, s.TotalUnits) {
		return s
	}
	n := s.Clone()
	u := e.Unit
	n.Units[e.UnitNumber-1] = &u
	n.CurrentGenerating = nil
	if e.Progress != nil {
		n.Progress = *e.Progress
	} else {
		n.Progress = progress(e.UnitNumber, n.TotalUnits)
	}
	return n
}

func applyCourseComplete(s State) State {
	n := s.Clone()
	n.IsComplete = true
	n.IsGenerating = false
	n.CurrentGenerating = nil
	n.Progress = progress(n.TotalUnits, n.TotalUnits)
	return n
}

func applyError(s State, e EventError) State {
	msg := e.Message
	if msg == "" {
		msg = DefaultGenerationFailedMessage
	}
	return Fail(s, msg)
}

// Fail returns a copy of s ended with the given error message.
func Fail(s State, msg string) State {
	n := s.Clone()
	n.Error = &msg
	n.IsGenerating = false
	n.CurrentGenerating = nil
	return n
}

func inRange(unitNumber, total int) bool {
	return unitNumber >= 1 && unitNumber <= total
}
