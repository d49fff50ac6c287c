package httpapi

import (
	"net/http"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/middleware"
)

func NewRouter(h *Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler)
	mux.HandleFunc("GET /ready", readyHandler)
	mux.HandleFunc("GET /v1/info", infoHandler)
	mux.HandleFunc("GET /.well-known/agent.json", h.HandleAgentCard)

	mux.HandleFunc("POST /v1/actions/invoke", h.HandleInvoke)

	if h.invocations != nil {
		mux.HandleFunc("GET /v1/invocations", h.HandleListInvocations)
		mux.HandleFunc("GET /v1/invocations/{id}", h.HandleGetInvocation)
	}

	return applyMiddleware(mux,
		middleware.RequestID,
		middleware.Logging,
		middleware.Recovery,
	)
}

// applyMiddleware wraps handler so the first middleware is outermost.
func applyMiddleware(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func readyHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "Agent Action Router",
		"version": "1.0.0",
	})
}
