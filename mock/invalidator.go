package mock

import (
	"context"
	"sync"

	"github.com/samarthsinh2660/fluentify"
)

// Interface compliance checks.
var (
	_ fluentify.Invalidator  = (*Invalidator)(nil)
	_ fluentify.CourseLister = (*CourseLister)(nil)
)

// Invalidator is a test double for fluentify.Invalidator. It records every
// key it receives. InvalidateFn is optional.
type Invalidator struct {
	InvalidateFn func(ctx context.Context, key ...any)

	mu   sync.Mutex
	keys [][]any
}

// Invalidate records key and delegates to InvalidateFn when set.
func (i *Invalidator) Invalidate(ctx context.Context, key ...any) {
	i.mu.Lock()
	i.keys = append(i.keys, key)
	i.mu.Unlock()
	if i.InvalidateFn != nil {
		i.InvalidateFn(ctx, key...)
	}
}

// Keys returns the recorded keys in call order.
func (i *Invalidator) Keys() [][]any {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([][]any(nil), i.keys...)
}

// CourseLister is a test double for fluentify.CourseLister.
type CourseLister struct {
	CoursesFn func(ctx context.Context) ([]fluentify.CourseSummary, error)
	CourseFn  func(ctx context.Context, id int) (fluentify.CourseSummary, error)
}

// Courses delegates to CoursesFn.
func (l *CourseLister) Courses(ctx context.Context) ([]fluentify.CourseSummary, error) {
	return l.CoursesFn(ctx)
}

// Course delegates to CourseFn.
func (l *CourseLister) Course(ctx context.Context, id int) (fluentify.CourseSummary, error) {
	return l.CourseFn(ctx, id)
}
