package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MCPPath is where the streamable HTTP MCP endpoint is mounted.
const MCPPath = "/mcp"

// NewRouter creates the HTTP transport router.
// Health probes are unauthenticated; the MCP endpoint sits behind Bearer auth
// when authEnabled is true. ready reports whether tool calls can be served.
func NewRouter(mcpHandler http.Handler, ready func() bool, authEnabled bool, token string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, statusBody("ok"))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready() {
			writeJSON(w, http.StatusServiceUnavailable, statusBody("blinko credentials not configured"))
			return
		}
		writeJSON(w, http.StatusOK, statusBody("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))
		r.Handle(MCPPath, mcpHandler)
	})

	return r
}
