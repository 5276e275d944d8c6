package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Strob0t/DocuCrew/internal/domain/crew"
	"github.com/Strob0t/DocuCrew/internal/domain/repository"
	"github.com/Strob0t/DocuCrew/internal/port/repohost"
	"github.com/Strob0t/DocuCrew/internal/service"
)

// HealthChecker probes a downstream dependency.
type HealthChecker interface {
	Health(ctx context.Context) (bool, error)
}

// Handlers holds the services backing the HTTP API.
type Handlers struct {
	Extractor     *service.ExtractorService
	Documentation *service.DocumentationService
	LLM           HealthChecker // optional
	Now           func() time.Time
}

// RepoRequest is the body of /api/analyze and /api/generate.
type RepoRequest struct {
	RepoURL     string `json:"repo_url"`
	GitHubToken string `json:"github_token,omitempty"`
}

// AnalyzeResponse is returned by /api/analyze.
type AnalyzeResponse struct {
	Success   bool                 `json:"success"`
	Data      *repository.Snapshot `json:"data"`
	APIFiles  []repository.APIFile `json:"api_files"`
	Timestamp time.Time            `json:"timestamp"`
}

// SampleRepository is a repository suggested for trying the service.
type SampleRepository struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

var sampleRepositories = []SampleRepository{
	{Name: "Simple Python CLI", URL: "https://github.com/python/cpython", Description: "Python programming language"},
	{Name: "FastAPI Project", URL: "https://github.com/tiangolo/fastapi", Description: "Modern web API framework"},
	{Name: "React Library", URL: "https://github.com/facebook/react", Description: "JavaScript library for UIs"},
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	llm := "unconfigured"
	if h.LLM != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if ok, err := h.LLM.Health(ctx); err == nil && ok {
			llm = "ok"
		} else {
			llm = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.now(),
		"llm":       llm,
	})
}

// Analyze handles POST /api/analyze.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[RepoRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.RepoURL, "repo_url") {
		return
	}

	ctx := repohost.WithToken(r.Context(), req.GitHubToken)
	snap, apiFiles, err := h.Extractor.Analyze(ctx, req.RepoURL)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:   true,
		Data:      snap,
		APIFiles:  apiFiles,
		Timestamp: h.now(),
	})
}

// Generate handles POST /api/generate. Every outcome is reported with 200
// and a run result; failures set success to false.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[RepoRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.RepoURL, "repo_url") {
		return
	}

	ctx := repohost.WithToken(r.Context(), req.GitHubToken)
	snap, _, err := h.Extractor.Analyze(ctx, req.RepoURL)
	if err != nil {
		slog.WarnContext(ctx, "generate: extraction failed", "repo_url", req.RepoURL, "error", err)
		writeJSON(w, http.StatusOK, crew.RunResult{Success: false, Error: err.Error(), Timestamp: h.now()})
		return
	}

	writeJSON(w, http.StatusOK, h.Documentation.Run(ctx, snap))
}

// Samples handles GET /api/samples.
func (h *Handlers) Samples(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"repositories": sampleRepositories})
}
