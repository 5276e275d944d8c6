package litellm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	dcotel "github.com/Strob0t/DocuCrew/internal/adapter/otel"
	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/metrics"
	"github.com/Strob0t/DocuCrew/internal/port/engine"
)

// EngineConfig holds the completion parameters shared by every role.
type EngineConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Engine runs a batch as a sequential crew: tasks execute in batch order and
// each sees the outputs of the tasks before it.
type Engine struct {
	client   *Client
	cfg      EngineConfig
	recorder metrics.Recorder
}

var _ engine.Engine = (*Engine)(nil)

// NewEngine creates an engine on the given client. rec may be nil.
func NewEngine(client *Client, cfg EngineConfig, rec metrics.Recorder) *Engine {
	return &Engine{client: client, cfg: cfg, recorder: metrics.OrNoop(rec)}
}

// Kickoff executes the batch. The first failing task aborts the batch and
// no partial output is returned.
func (e *Engine) Kickoff(ctx context.Context, batch crew.Batch) (*crew.Output, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("kickoff: empty batch")
	}

	out := &crew.Output{Tasks: make([]crew.TaskOutput, 0, len(batch))}
	for i := range batch {
		task := &batch[i]
		text, err := e.runTask(ctx, i, task, out.Tasks)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i+1, task.Role.Key, err)
		}
		out.Tasks = append(out.Tasks, crew.TaskOutput{Agent: task.Role.Key, Output: text})
	}
	out.Raw = out.Tasks[len(out.Tasks)-1].Output
	return out, nil
}

func (e *Engine) runTask(ctx context.Context, index int, task *crew.TaskSpec, prior []crew.TaskOutput) (text string, err error) {
	ctx, span := dcotel.StartTaskSpan(ctx, task.Role.Key, index)
	start := time.Now()
	defer func() {
		e.recorder.ObserveTask(task.Role.Key, time.Since(start), metrics.Result(err))
		dcotel.EndSpan(span, err)
	}()

	resp, err := e.client.ChatCompletion(ctx, ChatRequest{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Messages: []ChatMessage{
			{Role: "system", Content: SystemPrompt(task.Role)},
			{Role: "user", Content: TaskPrompt(task, prior)},
		},
	})
	if err != nil {
		return "", err
	}

	slog.Debug("task completed",
		"agent", task.Role.Key,
		"model", resp.Model,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration", time.Since(start),
	)
	return strings.TrimSpace(resp.Content()), nil
}

// SystemPrompt introduces the role to the model.
func SystemPrompt(r crew.Role) string {
	return fmt.Sprintf("You are %s. %s\n\nYour personal goal is: %s", r.Name, r.Backstory, r.Goal)
}

// TaskPrompt combines a task with its expected output and the outputs of
// earlier tasks.
func TaskPrompt(task *crew.TaskSpec, prior []crew.TaskOutput) string {
	var b strings.Builder
	b.WriteString("Current Task: ")
	b.WriteString(task.Description)
	b.WriteString("\n\nThis is the expected criteria for your final answer: ")
	b.WriteString(task.ExpectedOutput)
	b.WriteString("\nyou MUST return the actual complete content as the final answer, not a summary.")

	if len(prior) > 0 {
		b.WriteString("\n\nThis is the context you're working with:\n")
		for _, p := range prior {
			fmt.Fprintf(&b, "\n## Output of %s\n\n%s\n", p.Agent, p.Output)
		}
	}
	return b.String()
}
