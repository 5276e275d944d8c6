package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	dcotel "github.com/Strob0t/DocuCrew/internal/adapter/otel"
	"github.com/Strob0t/DocuCrew/internal/domain"
	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/domain/repository"
	"github.com/Strob0t/DocuCrew/internal/logger"
	"github.com/Strob0t/DocuCrew/internal/markdown"
	"github.com/Strob0t/DocuCrew/internal/metrics"
	"github.com/Strob0t/DocuCrew/internal/port/engine"
)

// DocumentationService runs the five-role documentation pipeline over a
// repository snapshot and reports per-role progress to one observer.
type DocumentationService struct {
	engine   engine.Engine
	recorder metrics.Recorder
	now      func() time.Time

	mu       sync.Mutex
	observer crew.ProgressObserver
}

// NewDocumentationService creates a documentation service backed by eng.
func NewDocumentationService(eng engine.Engine) *DocumentationService {
	return &DocumentationService{
		engine:   eng,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
}

// SetProgressObserver registers fn as the progress observer, replacing any
// previous one. A nil fn disables progress reporting.
func (s *DocumentationService) SetProgressObserver(fn crew.ProgressObserver) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// SetRecorder attaches a metrics recorder.
func (s *DocumentationService) SetRecorder(r metrics.Recorder) {
	s.recorder = metrics.OrNoop(r)
}

// SetClock replaces the clock used for event and result timestamps.
// A nil clock restores time.Now.
func (s *DocumentationService) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// Run executes one documentation run. The returned result always carries a
// timestamp; failures are reported through Success and Error rather than a
// Go error so that transport layers can relay them as-is.
func (s *DocumentationService) Run(ctx context.Context, snap *repository.Snapshot) crew.RunResult {
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)

	repo := ""
	if snap != nil {
		repo = snap.FullName
	}
	ctx, span := dcotel.StartRunSpan(ctx, runID, repo)
	start := time.Now()

	out, err := s.execute(ctx, runID, snap)

	dcotel.EndSpan(span, err)
	s.recorder.ObserveRun(time.Since(start), metrics.Result(err))

	result := crew.RunResult{RunID: runID, Timestamp: s.now()}
	if err != nil {
		slog.ErrorContext(ctx, "documentation run failed", "repo", repo, "error", err)
		result.Error = err.Error()
		return result
	}

	slog.InfoContext(ctx, "documentation run completed", "repo", repo, "duration", time.Since(start))
	result.Success = true
	result.Documentation = s.bundle(out)
	return result
}

func (s *DocumentationService) execute(ctx context.Context, runID string, snap *repository.Snapshot) (*crew.Output, error) {
	roles := crew.Roles()

	s.emit(ctx, runID, roles[0].Key, crew.StatusWorking, crew.MsgAnalyzing)
	for _, r := range roles[1:] {
		s.emit(ctx, runID, r.Key, crew.StatusWaiting, crew.WaitingMessage(r.Key))
	}

	batch, err := crew.BuildBatch(snap)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBatchExecution, err)
	}

	out, err := s.engine.Kickoff(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBatchExecution, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: engine returned no output", domain.ErrBatchExecution)
	}

	for _, r := range roles {
		s.emit(ctx, runID, r.Key, crew.StatusCompleted, crew.MsgCompleted)
	}
	return out, nil
}

// bundle shapes the engine output into the documentation returned to callers.
func (s *DocumentationService) bundle(out *crew.Output) *crew.Documentation {
	doc := &crew.Documentation{Raw: out.Raw}

	roles := make(map[string]crew.Role, crew.BatchSize)
	for _, r := range crew.Roles() {
		roles[r.Name] = r
		roles[r.Key] = r
	}
	at := s.now()
	for _, t := range out.Tasks {
		r, ok := roles[t.Agent]
		if !ok {
			r = crew.Role{Key: t.Agent, Name: t.Agent}
		}
		doc.Tasks = append(doc.Tasks, r.FormatOutput(t.Output, at))
	}

	for _, sec := range markdown.Sections([]byte(out.Raw)) {
		doc.Sections = append(doc.Sections, crew.Section{Title: sec.Title, Level: sec.Level, Content: sec.Content})
	}
	return doc
}

func (s *DocumentationService) emit(ctx context.Context, runID, agent string, status crew.Status, msg string) {
	s.mu.Lock()
	fn := s.observer
	s.mu.Unlock()
	if fn == nil {
		return
	}
	fn(ctx, crew.ProgressEvent{
		RunID:     runID,
		Agent:     agent,
		Status:    status,
		Message:   msg,
		Timestamp: s.now(),
	})
}
