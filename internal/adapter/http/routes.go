package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Strob0t/DocuCrew/internal/middleware"
)

// RouterOptions selects the optional endpoints mounted next to the API.
type RouterOptions struct {
	CORSOrigin     string
	RequestTimeout time.Duration
	// Tracing wraps every request, e.g. with otelhttp. Optional.
	Tracing func(http.Handler) http.Handler
	// WS serves /ws. Optional.
	WS http.HandlerFunc
	// Metrics serves /metrics. Optional.
	Metrics http.Handler
	// MCP serves /mcp. Optional.
	MCP http.Handler
}

// NewRouter builds the complete HTTP handler.
func NewRouter(h *Handlers, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	if opts.Tracing != nil {
		r.Use(opts.Tracing)
	}
	r.Use(CORS(opts.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", h.Health)

	if opts.WS != nil {
		r.Get("/ws", opts.WS)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	MountRoutes(r, h, opts.RequestTimeout)
	return r
}

// MountRoutes registers the /api routes. Generation runs a whole batch and
// is bounded only by the caller's context, so it stays outside the request
// timeout together with the long-lived /ws and /mcp connections.
func MountRoutes(r chi.Router, h *Handlers, timeout time.Duration) {
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if timeout > 0 {
				r.Use(chimw.Timeout(timeout))
			}
			r.Post("/analyze", h.Analyze)
			r.Get("/samples", h.Samples)
		})
		r.Post("/generate", h.Generate)
	})
}
