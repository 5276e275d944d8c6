// Package engine defines the port for the execution engine that runs a
// documentation batch.
package engine

import (
	"context"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
)

// Engine executes a batch of task specs as one unit. The batch either
// completes as a whole or fails; no partial output is returned.
type Engine interface {
	Kickoff(ctx context.Context, batch crew.Batch) (*crew.Output, error)
}
