package fluentify

import (
	"context"
	"io"
	"time"
)

// Opener opens the authenticated generation stream for params. The
// returned body is a raw byte stream carrying event frames; closing it
// releases the connection. Cancelling ctx must unblock pending reads.
type Opener interface {
	Open(ctx context.Context, params Params) (io.ReadCloser, error)
}

// Invalidator is told which cached query results went stale. Keys follow
// the query-key convention: ("courses") for the course list and
// ("course", id) for one course.
type Invalidator interface {
	Invalidate(ctx context.Context, key ...any)
}

// CourseLister reads courses from the platform API.
type CourseLister interface {
	Courses(ctx context.Context) ([]CourseSummary, error)
	Course(ctx context.Context, id int) (CourseSummary, error)
}

// Observer receives session lifecycle notifications. Implementations must
// not block.
type Observer interface {
	SessionStarted(params Params)
	FrameDispatched(name string)
	FrameDropped(name string)
	SessionEnded(phase Phase, elapsed time.Duration)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) SessionStarted(Params) {}
func (NopObserver) FrameDispatched(string) {}
func (NopObserver) FrameDropped(string) {}
func (NopObserver) SessionEnded(Phase, time.Duration) {}

var _ Observer = NopObserver{}
