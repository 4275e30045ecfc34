package fluentify

import "fmt"

// DefaultTotalUnits is the placeholder unit count used until the server
// reports the real one.
const DefaultTotalUnits = 6

// State is the published generation snapshot. A State handed to a consumer
// is never mutated afterwards; every transition produces a new value.
//
// Units always has length TotalUnits. A nil entry is an empty slot.
type State struct {
	IsGenerating      bool
	CourseID          *int
	Language          string
	TotalUnits        int
	Units             []*Unit
	CurrentGenerating *int // 1-based
	Progress          string
	IsComplete        bool
	Error             *string
}

// InitialState returns the idle snapshot: nothing generating, no slots.
func InitialState() State {
	return State{
		TotalUnits: DefaultTotalUnits,
		Units:      []*Unit{},
		Progress:   progress(0, DefaultTotalUnits),
	}
}

// StartingState returns the snapshot installed when a session starts:
// generating, with DefaultTotalUnits empty slots.
func StartingState(language string) State {
	return State{
		IsGenerating: true,
		Language:     language,
		TotalUnits:   DefaultTotalUnits,
		Units:        make([]*Unit, DefaultTotalUnits),
		Progress:     progress(0, DefaultTotalUnits),
	}
}

// Terminal reports whether the snapshot is complete or errored. Terminal
// snapshots absorb every further event.
func (s State) Terminal() bool {
	return s.IsComplete || s.Error != nil
}

// Generated returns the number of filled unit slots.
func (s State) Generated() int {
	n := 0
	for _, u := range s.Units {
		if u != nil {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the snapshot.
func (s State) Clone() State {
	c := s
	if s.Units != nil {
		c.Units = make([]*Unit, len(s.Units))
		for i, u := range s.Units {
			if u != nil {
				cp := *u
				c.Units[i] = &cp
			}
		}
	}
	c.CourseID = clonePtr(s.CourseID)
	c.CurrentGenerating = clonePtr(s.CurrentGenerating)
	c.Error = clonePtr(s.Error)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func progress(done, total int) string {
	return fmt.Sprintf("%d/%d", done, total)
}
