package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/events"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
)

// FallbackMessage is the body returned for any API path without a handler.
const FallbackMessage = "Sorry, please try again later."

const memberNumberParam = "MemberNumber"

var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrDownstream       = errors.New("downstream request failed")
)

// Logger is the structured log side channel. *slog.Logger satisfies it.
type Logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MemberLookup fetches member profiles from the downstream API.
type MemberLookup interface {
	GetMember(ctx context.Context, memberNumber string) (json.RawMessage, error)
}

// Recorder stores audit records of invocations.
type Recorder interface {
	SaveInvocation(ctx context.Context, rec model.InvocationRecord) error
}

// EventPublisher emits invocation events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, data map[string]any) error
}

// AuditSink accepts invocation records and events off the reply path.
// *Auditor satisfies it.
type AuditSink interface {
	Submit(ctx context.Context, rec model.InvocationRecord, eventType string, data map[string]any)
}

type Dispatcher struct {
	members MemberLookup
	logger  Logger
	auditor AuditSink
	now     func() time.Time
}

type Option func(*Dispatcher)

func WithLogger(l Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithAuditor hands every invocation record and event to a.
func WithAuditor(a AuditSink) Option {
	return func(d *Dispatcher) { d.auditor = a }
}

func New(members MemberLookup, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		members: members,
		logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch turns one invocation into one envelope. Unknown paths are answered
// with FallbackMessage. A missing MemberNumber yields ErrMissingParameter and a
// failed member lookup yields ErrDownstream; neither is downgraded to the
// fallback.
func (d *Dispatcher) Dispatch(ctx context.Context, inv model.Invocation) (*model.ResponseEnvelope, error) {
	start := d.now()
	route := MatchRoute(inv.APIPath)

	d.logger.InfoContext(ctx, "action_invoked",
		"action_group", inv.ActionGroup,
		"api_path", inv.APIPath,
		"http_method", inv.HTTPMethod,
		"route", route.String(),
		"event", inv,
	)

	data, err := d.resolve(ctx, route, inv)
	if err != nil {
		d.logger.ErrorContext(ctx, "action_failed",
			"action_group", inv.ActionGroup,
			"api_path", inv.APIPath,
			"route", route.String(),
			"error", err,
		)
		outcome := model.OutcomeFailed
		if errors.Is(err, ErrMissingParameter) {
			outcome = model.OutcomeRejected
		}
		d.audit(ctx, inv, route, outcome, err, start)
		return nil, err
	}

	envelope := model.NewEnvelope(inv, data)

	d.logger.InfoContext(ctx, "action_result",
		"route", route.String(),
		"result", envelope,
	)

	outcome := model.OutcomeOK
	if route == RouteUnknown {
		outcome = model.OutcomeFallback
	}
	d.audit(ctx, inv, route, outcome, nil, start)

	return envelope, nil
}

func (d *Dispatcher) resolve(ctx context.Context, route Route, inv model.Invocation) (any, error) {
	switch route {
	case RouteMember:
		return d.lookupMember(ctx, inv)
	case RouteRewardsBalance, RouteTrips, RouteMemberBookings, RouteBookings:
		return map[string]any{}, nil
	default:
		return FallbackMessage, nil
	}
}

func (d *Dispatcher) lookupMember(ctx context.Context, inv model.Invocation) (any, error) {
	memberNumber, ok := FindParameter(inv.Parameters, memberNumberParam)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingParameter, memberNumberParam)
	}

	member, err := d.members.GetMember(ctx, memberNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: member %s: %w", ErrDownstream, memberNumber, err)
	}

	d.logger.InfoContext(ctx, "member_response",
		"member_number", memberNumber,
		"response", member,
	)
	return member, nil
}

// audit builds the invocation record and event and queues both. It never
// blocks on the ledger or the webhook.
func (d *Dispatcher) audit(ctx context.Context, inv model.Invocation, route Route, outcome model.Outcome, cause error, start time.Time) {
	if d.auditor == nil {
		return
	}

	rec := model.InvocationRecord{
		ID:          "inv_" + uuid.NewString(),
		ActionGroup: inv.ActionGroup,
		APIPath:     inv.APIPath,
		HTTPMethod:  inv.HTTPMethod,
		Route:       route.String(),
		SessionID:   inv.SessionID,
		Outcome:     outcome,
		DurationMs:  d.now().Sub(start).Milliseconds(),
		CreatedAt:   start.UTC(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}

	eventType := events.EventActionInvoked
	if cause != nil {
		eventType = events.EventActionFailed
	}
	data := map[string]any{
		"invocation_id": rec.ID,
		"action_group":  rec.ActionGroup,
		"api_path":      rec.APIPath,
		"route":         rec.Route,
		"outcome":       string(rec.Outcome),
		"duration_ms":   rec.DurationMs,
	}
	if cause != nil {
		data["error"] = rec.Error
	}

	d.auditor.Submit(ctx, rec, eventType, data)
}

// Routes lists the routes this dispatcher answers, in declaration order.
func (d *Dispatcher) Routes() []Route {
	return KnownRoutes()
}
