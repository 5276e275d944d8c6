package crew

import (
	"context"
	"time"
)

// Status is a role's position in a run.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusWorking   Status = "working"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ProgressEvent is a status transition for one role during one run.
type ProgressEvent struct {
	RunID     string    `json:"run_id,omitempty"`
	Agent     string    `json:"agent"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressObserver receives progress events synchronously. Implementations
// must return quickly.
type ProgressObserver func(ctx context.Context, ev ProgressEvent)

// Progress messages emitted by the orchestrator.
const (
	MsgAnalyzing      = "Analyzing repository structure..."
	MsgWaitingAPI     = "Waiting to document APIs..."
	MsgWaitingReadme  = "Waiting to write README..."
	MsgWaitingExample = "Waiting to create examples..."
	MsgWaitingEditor  = "Waiting to review documentation..."
	MsgCompleted      = "Task completed successfully"
)

// WaitingMessage returns the queued message for a role key.
func WaitingMessage(key string) string {
	switch key {
	case KeyAPIDocumenter:
		return MsgWaitingAPI
	case KeyReadmeWriter:
		return MsgWaitingReadme
	case KeyExampleCreator:
		return MsgWaitingExample
	case KeyEditor:
		return MsgWaitingEditor
	default:
		return "Waiting..."
	}
}
