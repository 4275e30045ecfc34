package generate

import "github.com/samarthsinh2660/fluentify"

// subscriber holds the latest undelivered snapshot for one consumer.
type subscriber struct {
	ch chan fluentify.State
}

// Subscribe returns a channel that receives every published snapshot in
// order, starting with the current one. Delivery never blocks the
// session: a consumer that falls behind skips straight to the newest
// snapshot. The channel is closed by cancel or by [Generator.Close].
func (g *Generator) Subscribe() (<-chan fluentify.State, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := &subscriber{ch: make(chan fluentify.State, 1)}
	if g.closed {
		close(s.ch)
		return s.ch, func() {}
	}
	s.ch <- g.state.Clone()
	g.subs[s] = struct{}{}
	cancel := func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.subs[s]; ok {
			delete(g.subs, s)
			close(s.ch)
		}
	}
	return s.ch, cancel
}

// publishLocked delivers the current snapshot to every subscriber.
func (g *Generator) publishLocked() {
	for s := range g.subs {
		snap := g.state.Clone()
		select {
		case s.ch <- snap:
		default:
			// Replace the stale undelivered snapshot.
			select {
			case <-s.ch:
			default:
			}
			s.ch <- snap
		}
	}
}
