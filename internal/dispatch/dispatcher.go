// Package dispatch is the outbound delivery boundary. The rendering core
// never imports it; cmd/api hands finished RenderResults over.
package dispatch

import (
	"context"
	"fmt"

	"github.com/jwalitptl/notification-api/internal/model"
)

// Dispatcher delivers one rendered notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, result *model.RenderResult, recipient model.Recipient) error
}

// Router fans a result out to the dispatcher registered for its channel.
type Router struct {
	byChannel map[model.Channel]Dispatcher
}

func NewRouter() *Router {
	return &Router{byChannel: make(map[model.Channel]Dispatcher)}
}

func (r *Router) Register(channel model.Channel, d Dispatcher) {
	r.byChannel[channel] = d
}

func (r *Router) Dispatch(ctx context.Context, result *model.RenderResult, recipient model.Recipient) error {
	d, ok := r.byChannel[result.Channel]
	if !ok {
		return fmt.Errorf("no dispatcher registered for channel %q", result.Channel)
	}
	return d.Dispatch(ctx, result, recipient)
}
