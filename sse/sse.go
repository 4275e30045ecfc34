// Package sse decodes the line-oriented event-stream framing used by the
// course generation endpoint.
//
// Decoding is split into two small state machines so each can be tested
// on its own: a LineSplitter turns arbitrary byte chunks into complete
// lines, and a FrameParser turns lines into frames. A Decoder drives both
// from an io.Reader. Frames are identical no matter how the bytes were
// chunked on the way in.
package sse

import "encoding/json"

// Frame is one dispatched event: a name and a JSON payload.
type Frame struct {
	Event string
	Data  json.RawMessage
}
