package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/agentcard"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/middleware"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/service"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/store"
)

const maxInvocationBytes = 1 << 20

// Dispatcher answers action invocations.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv model.Invocation) (*model.ResponseEnvelope, error)
}

type Handlers struct {
	dispatcher  Dispatcher
	invocations store.InvocationStore
	card        *agentcard.AgentCard
}

// NewHandlers wires the HTTP handlers. invocations may be nil when the audit
// ledger is disabled.
func NewHandlers(d Dispatcher, invocations store.InvocationStore, card *agentcard.AgentCard) *Handlers {
	return &Handlers{
		dispatcher:  d,
		invocations: invocations,
		card:        card,
	}
}

// HandleInvoke handles POST /v1/actions/invoke
func (h *Handlers) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxInvocationBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "failed to read request")
		return
	}
	defer r.Body.Close()

	var inv model.Invocation
	if err := json.Unmarshal(body, &inv); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	envelope, err := h.dispatcher.Dispatch(ctx, inv)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, envelope)
	case errors.Is(err, service.ErrMissingParameter):
		writeError(w, r, http.StatusBadRequest, "missing_parameter", err.Error())
	case errors.Is(err, service.ErrDownstream):
		writeError(w, r, http.StatusBadGateway, "downstream_error", err.Error())
	default:
		slog.ErrorContext(ctx, "failed to dispatch action", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to dispatch action")
	}
}

// HandleListInvocations handles GET /v1/invocations
func (h *Handlers) HandleListInvocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	recs, err := h.invocations.ListInvocations(ctx, r.URL.Query().Get("action_group"), limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list invocations", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to list invocations")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invocations": recs,
		"count":       len(recs),
	})
}

// HandleGetInvocation handles GET /v1/invocations/{id}
func (h *Handlers) HandleGetInvocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := h.invocations.GetInvocation(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not_found", "invocation not found")
			return
		}
		slog.ErrorContext(ctx, "failed to get invocation", "error", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "failed to get invocation")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HandleAgentCard handles GET /.well-known/agent.json
func (h *Handlers) HandleAgentCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.card)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"code":       code,
			"message":    message,
			"request_id": middleware.GetRequestID(r.Context()),
		},
	})
}
