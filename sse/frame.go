package sse

import (
	"encoding/json"
	"strings"
)

const (
	eventPrefix = "event: "
	dataPrefix  = "data: "
)

// FrameParser assembles frames from complete lines:
//
//	event: <name>
//	data: <json>
//	<blank line>
//
// Lines are trimmed before matching. A data line whose payload is not
// valid JSON leaves the pending frame without data, so the frame is not
// dispatched. A blank line dispatches the pending frame when it has both
// a name and data, and always starts a new frame. Other lines, including
// comments, are ignored.
type FrameParser struct {
	event string
	data  json.RawMessage
}

// Line feeds one line to the parser. It returns the completed frame and
// true when the line was a delimiter that closed a complete frame.
func (p *FrameParser) Line(line string) (Frame, bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		f := Frame{Event: p.event, Data: p.data}
		p.Reset()
		if f.Event == "" || f.Data == nil {
			return Frame{}, false
		}
		return f, true
	case strings.HasPrefix(line, eventPrefix):
		p.event = strings.TrimSpace(line[len(eventPrefix):])
	case strings.HasPrefix(line, dataPrefix):
		payload := strings.TrimSpace(line[len(dataPrefix):])
		if json.Valid([]byte(payload)) && payload != "null" {
			p.data = json.RawMessage(payload)
		} else {
			p.data = nil
		}
	}
	return Frame{}, false
}

// Pending reports whether a frame has been started but not delimited.
func (p *FrameParser) Pending() bool {
	return p.event != "" || p.data != nil
}

// Reset discards the pending frame.
func (p *FrameParser) Reset() {
	p.event = ""
	p.data = nil
}
