package store

import (
	"context"
	"errors"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
)

var ErrNotFound = errors.New("invocation not found")

// DefaultListLimit caps ListInvocations when no limit is given.
const DefaultListLimit = 50

// InvocationStore persists the invocation audit ledger.
type InvocationStore interface {
	SaveInvocation(ctx context.Context, rec model.InvocationRecord) error
	GetInvocation(ctx context.Context, id string) (model.InvocationRecord, error)
	// ListInvocations returns the newest records first. An empty actionGroup
	// matches every record.
	ListInvocations(ctx context.Context, actionGroup string, limit int) ([]model.InvocationRecord, error)
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
