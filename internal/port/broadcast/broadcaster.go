// Package broadcast defines the port for pushing progress events to
// connected clients and downstream consumers.
package broadcast

import (
	"context"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
)

// Broadcaster delivers a progress event to all of its listeners.
type Broadcaster interface {
	BroadcastProgress(ctx context.Context, ev crew.ProgressEvent)
}

// Multi fans a progress event out to several broadcasters in order.
type Multi []Broadcaster

// BroadcastProgress forwards ev to every non-nil broadcaster.
func (m Multi) BroadcastProgress(ctx context.Context, ev crew.ProgressEvent) {
	for _, b := range m {
		if b != nil {
			b.BroadcastProgress(ctx, ev)
		}
	}
}

// Observer adapts a Broadcaster to the progress observer signature.
func Observer(b Broadcaster) crew.ProgressObserver {
	return func(ctx context.Context, ev crew.ProgressEvent) {
		b.BroadcastProgress(ctx, ev)
	}
}
