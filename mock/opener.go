// Package mock provides test doubles for fluentify interfaces using
// function fields.
package mock

import (
	"context"
	"io"

	"github.com/samarthsinh2660/fluentify"
)

// Interface compliance check.
var _ fluentify.Opener = (*Opener)(nil)

// Opener is a test double for fluentify.Opener.
// Set OpenFn before calling Open.
type Opener struct {
	OpenFn func(ctx context.Context, params fluentify.Params) (io.ReadCloser, error)
}

// Open delegates to OpenFn.
func (o *Opener) Open(ctx context.Context, params fluentify.Params) (io.ReadCloser, error) {
	return o.OpenFn(ctx, params)
}
