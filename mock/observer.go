package mock

import (
	"sync"
	"time"

	"github.com/samarthsinh2660/fluentify"
)

// Interface compliance check.
var _ fluentify.Observer = (*Observer)(nil)

// Observer is a test double for fluentify.Observer that records the
// notifications it receives.
type Observer struct {
	mu         sync.Mutex
	Started    []fluentify.Params
	Dispatched []string
	Dropped    []string
	Ended      []fluentify.Phase
}

func (o *Observer) SessionStarted(params fluentify.Params) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Started = append(o.Started, params)
}

func (o *Observer) FrameDispatched(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Dispatched = append(o.Dispatched, name)
}

func (o *Observer) FrameDropped(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Dropped = append(o.Dropped, name)
}

func (o *Observer) SessionEnded(phase fluentify.Phase, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Ended = append(o.Ended, phase)
}

// Snapshot returns copies of the recorded notifications.
func (o *Observer) Snapshot() (dispatched, dropped []string, ended []fluentify.Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.Dispatched...),
		append([]string(nil), o.Dropped...),
		append([]fluentify.Phase(nil), o.Ended...)
}
