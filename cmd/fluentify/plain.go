package main

import (
	"context"
	"fmt"
	"io"

	"github.com/samarthsinh2660/fluentify"
	bt "github.com/samarthsinh2660/fluentify/bubbletea"
)

// session is the part of the generator the line printer drives.
type session interface {
	Start(params fluentify.Params)
	Subscribe() (<-chan fluentify.State, func())
}

// runPlain starts a session and writes one line per change until the
// session ends or ctx is cancelled. It returns the last snapshot seen.
func runPlain(ctx context.Context, gen session, params fluentify.Params, w io.Writer) fluentify.State {
	updates, unsubscribe := gen.Subscribe()
	defer unsubscribe()

	// Skip the snapshot that was current before Start.
	var last fluentify.State
	select {
	case last = <-updates:
	case <-ctx.Done():
		return last
	}
	prev := fluentify.InitialState()
	fmt.Fprintf(w, "Generating %s course...\n", params.Language)
	gen.Start(params)

	for {
		select {
		case <-ctx.Done():
			return last
		case st, ok := <-updates:
			if !ok {
				return last
			}
			for _, line := range describe(prev, st) {
				fmt.Fprintln(w, line)
			}
			prev, last = st, st
			if st.Terminal() {
				return st
			}
		}
	}
}

// describe returns the lines reporting what changed between two snapshots.
func describe(prev, next fluentify.State) []string {
	var lines []string
	if next.CourseID != nil && (prev.CourseID == nil || next.TotalUnits != prev.TotalUnits) {
		lines = append(lines, fmt.Sprintf("Course #%d created with %d units", *next.CourseID, next.TotalUnits))
	}
	if next.CurrentGenerating != nil && (prev.CurrentGenerating == nil || *prev.CurrentGenerating != *next.CurrentGenerating) {
		lines = append(lines, fmt.Sprintf("Generating unit %d of %d", *next.CurrentGenerating, next.TotalUnits))
	}
	for i, u := range next.Units {
		if u == nil || (i < len(prev.Units) && prev.Units[i] != nil) {
			continue
		}
		title := bt.SanitizeLine(u.Title)
		if title == "" {
			title = "Untitled unit"
		}
		lines = append(lines, fmt.Sprintf("  ✓ Unit %d: %s (%s)", i+1, title, next.Progress))
	}
	switch {
	case next.IsComplete && !prev.IsComplete:
		lines = append(lines, fmt.Sprintf("Course ready! %s units", next.Progress))
	case next.Error != nil && prev.Error == nil:
		lines = append(lines, "Error: "+bt.SanitizeLine(*next.Error))
	}
	return lines
}

// summarize returns a one-line outcome for a final snapshot.
func summarize(st fluentify.State) string {
	course := "no course"
	if st.CourseID != nil {
		course = fmt.Sprintf("course #%d", *st.CourseID)
	}
	switch {
	case st.IsComplete:
		return fmt.Sprintf("complete, %s, %s units", course, st.Progress)
	case st.Error != nil:
		return fmt.Sprintf("error, %s, %s units: %s", course, st.Progress, bt.SanitizeLine(*st.Error))
	default:
		return fmt.Sprintf("incomplete, %s, %s units", course, st.Progress)
	}
}
