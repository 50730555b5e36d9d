// Package screens holds one view-model per client screen. Each screen is
// a single-goroutine state machine over the API client: it owns a local
// snapshot of server-sourced entities plus transient UI state, and every
// request it issues is bound to the screen's own context so that closing
// the screen cancels whatever is still in flight.
package screens

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// lifecycle ties requests to the screen that issued them. Close cancels
// anything still outstanding.
type lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newLifecycle() lifecycle {
	ctx, cancel := context.WithCancel(context.Background())
	return lifecycle{ctx: ctx, cancel: cancel}
}

func (l *lifecycle) Close() { l.cancel() }
