package crew

import "time"

// TaskOutput is the engine's result for one task.
type TaskOutput struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

// Output is the engine's aggregate result for a batch. Raw is the final
// task's output; Tasks holds every task's output in batch order.
type Output struct {
	Raw   string       `json:"raw"`
	Tasks []TaskOutput `json:"tasks_output"`
}

// Section is a top-level heading section of the generated documentation.
type Section struct {
	Title   string `json:"title"`
	Level   int    `json:"level"`
	Content string `json:"content"`
}

// Documentation is the documentation bundle returned to callers.
type Documentation struct {
	Raw      string       `json:"raw"`
	Sections []Section    `json:"sections,omitempty"`
	Tasks    []RoleOutput `json:"tasks,omitempty"`
}

// RunResult is the terminal value of a documentation run.
type RunResult struct {
	RunID         string         `json:"run_id"`
	Success       bool           `json:"success"`
	Documentation *Documentation `json:"documentation,omitempty"`
	Error         string         `json:"error,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}
