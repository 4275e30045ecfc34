// Package generate runs course generation sessions against a streaming
// endpoint and publishes the resulting snapshots.
//
// A Generator owns at most one live session. Starting a new session or
// resetting cancels the previous one; a cancelled session never touches
// the snapshot again, even if it was mid-frame when it was superseded.
package generate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/samarthsinh2660/fluentify"
	"github.com/samarthsinh2660/fluentify/sse"
)

// Generator runs one generation session at a time.
type Generator struct {
	opener      fluentify.Opener
	invalidator fluentify.Invalidator
	observer    fluentify.Observer
	logger      *slog.Logger
	idleTimeout time.Duration

	mu        sync.Mutex
	state     fluentify.State
	phase     fluentify.Phase
	gen       uint64 // id of the current session; bumped by Start and Reset
	cancel    context.CancelFunc
	startedAt time.Time
	subs      map[*subscriber]struct{}
	closed    bool
	wg        sync.WaitGroup
}

// Option configures a [Generator].
type Option func(*Generator)

// WithInvalidator sets the cache notified when a course completes.
func WithInvalidator(inv fluentify.Invalidator) Option {
	return func(g *Generator) { g.invalidator = inv }
}

// WithObserver sets the lifecycle observer.
func WithObserver(o fluentify.Observer) Option {
	return func(g *Generator) { g.observer = o }
}

// WithLogger sets the logger. Sessions log at debug level only.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithIdleTimeout ends a session as a lost connection when no bytes
// arrive for d. Zero disables the timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(g *Generator) { g.idleTimeout = d }
}

// New creates a Generator that opens streams with opener.
func New(opener fluentify.Opener, opts ...Option) *Generator {
	g := &Generator{
		opener:   opener,
		observer: fluentify.NopObserver{},
		logger:   slog.New(slog.DiscardHandler),
		state:    fluentify.InitialState(),
		phase:    fluentify.PhaseIdle,
		subs:     make(map[*subscriber]struct{}),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// State returns the current snapshot.
func (g *Generator) State() fluentify.State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// Phase returns the lifecycle phase of the current session.
func (g *Generator) Phase() fluentify.Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Start cancels any live session, publishes the starting snapshot and
// opens a new stream in the background. It does not block on I/O.
// Invalid params end the session immediately with the validation error
// in the snapshot.
func (g *Generator) Start(params fluentify.Params) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.cancelLocked()
	g.gen++
	id := g.gen

	if err := params.Validate(); err != nil {
		g.state = fluentify.Fail(fluentify.StartingState(params.Language), err.Error())
		g.phase = fluentify.PhaseErrored
		g.publishLocked()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.startedAt = time.Now()
	g.state = fluentify.StartingState(params.Language)
	g.phase = fluentify.PhaseConnecting
	g.publishLocked()
	g.observer.SessionStarted(params)

	g.wg.Add(1)
	go g.run(ctx, id, params)
}

// Reset cancels any live session and publishes the idle snapshot.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.cancelLocked()
	g.gen++
	g.state = fluentify.InitialState()
	g.phase = fluentify.PhaseIdle
	g.publishLocked()
}

// Close cancels any live session, waits for it to release its stream and
// closes every subscription. The Generator cannot be restarted.
func (g *Generator) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.cancelLocked()
	g.gen++
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	for s := range g.subs {
		delete(g.subs, s)
		close(s.ch)
	}
	return nil
}

// cancelLocked aborts the live session, if any.
func (g *Generator) cancelLocked() {
	if g.cancel == nil {
		return
	}
	g.cancel()
	g.cancel = nil
	if !g.phase.Terminal() && g.phase != fluentify.PhaseIdle {
		g.phase = fluentify.PhaseCancelled
		g.observer.SessionEnded(fluentify.PhaseCancelled, time.Since(g.startedAt))
	}
}

// endLocked records a terminal phase for the current session and releases
// its stream.
func (g *Generator) endLocked(phase fluentify.Phase) {
	g.phase = phase
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.observer.SessionEnded(phase, time.Since(g.startedAt))
}

func (g *Generator) run(ctx context.Context, id uint64, params fluentify.Params) {
	defer g.wg.Done()
	log := g.logger.With("session", id, "language", params.Language)

	body, err := g.opener.Open(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			log.Debug("open cancelled")
			return
		}
		log.Debug("open failed", "error", err)
		msg := err.Error()
		if msg == "" {
			msg = fluentify.DefaultStartFailedMessage
		}
		g.fail(id, msg)
		return
	}
	defer body.Close()
	// Cancellation must unblock a pending read even for bodies that do not
	// watch ctx themselves.
	stop := context.AfterFunc(ctx, func() { body.Close() })
	defer stop()

	var r io.Reader = &firstReadReader{r: body, onFirst: func() { g.markStreaming(id) }}
	if g.idleTimeout > 0 {
		ir := newIdleReader(r, g.idleTimeout, func() { body.Close() })
		defer ir.stop()
		r = ir
	}

	dec := sse.NewDecoder(r)
	for {
		f, err := dec.Next()
		if err != nil {
			if ctx.Err() != nil {
				log.Debug("stream cancelled")
				return
			}
			switch {
			case errors.Is(err, io.EOF) && dec.Incomplete():
				log.Debug("stream ended mid-frame")
			case errors.Is(err, io.EOF):
				log.Debug("stream ended before completion")
			default:
				log.Debug("stream read failed", "error", err)
			}
			g.fail(id, fluentify.ErrConnectionLost.Error())
			return
		}

		evt, err := fluentify.ParseEvent(f.Event, f.Data)
		if err != nil {
			log.Debug("dropped frame", "event", f.Event, "error", err)
			g.observer.FrameDropped(f.Event)
			continue
		}

		terminal, live := g.dispatch(ctx, id, f.Event, evt)
		if !live {
			log.Debug("session superseded")
			return
		}
		if terminal {
			return
		}
	}
}

// dispatch folds evt into the snapshot if session id is still current.
// live is false when the session was superseded or already ended. A
// completed course is invalidated before the complete snapshot is
// published, so subscribers that refetch on completion see fresh data.
func (g *Generator) dispatch(ctx context.Context, id uint64, name string, evt fluentify.Event) (terminal, live bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen != id || g.phase.Terminal() {
		return false, false
	}
	if g.phase == fluentify.PhaseConnecting {
		g.phase = fluentify.PhaseStreaming
	}
	next, terminal := fluentify.Apply(g.state, evt)
	g.state = next
	g.observer.FrameDispatched(name)
	if !terminal {
		g.publishLocked()
		return false, true
	}
	if !next.IsComplete {
		g.endLocked(fluentify.PhaseErrored)
		g.publishLocked()
		return true, true
	}

	g.endLocked(fluentify.PhaseComplete)
	courseID := next.CourseID
	if done, ok := evt.(fluentify.EventCourseComplete); ok && done.CourseID != nil {
		courseID = done.CourseID
	}
	// The invalidator runs unlocked; a Start, Reset or Close in the
	// meantime publishes its own snapshot instead.
	g.mu.Unlock()
	g.invalidate(context.WithoutCancel(ctx), courseID)
	g.mu.Lock()
	if g.gen == id {
		g.publishLocked()
	}
	return true, true
}

// fail ends session id with msg if it is still current.
func (g *Generator) fail(id uint64, msg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen != id || g.phase.Terminal() {
		return
	}
	g.state = fluentify.Fail(g.state, msg)
	g.endLocked(fluentify.PhaseErrored)
	g.publishLocked()
}

func (g *Generator) markStreaming(id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen == id && g.phase == fluentify.PhaseConnecting {
		g.phase = fluentify.PhaseStreaming
	}
}

// invalidate marks the course list and the finished course as stale.
func (g *Generator) invalidate(ctx context.Context, courseID *int) {
	if g.invalidator == nil {
		return
	}
	g.invalidator.Invalidate(ctx, "courses")
	if courseID != nil {
		g.invalidator.Invalidate(ctx, "course", *courseID)
	}
}
