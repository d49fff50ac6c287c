package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
)

func record(id, group string, at time.Time) model.InvocationRecord {
	return model.InvocationRecord{
		ID:          id,
		ActionGroup: group,
		APIPath:     "/bookings",
		HTTPMethod:  "GET",
		Route:       "bookings",
		Outcome:     model.OutcomeOK,
		CreatedAt:   at,
	}
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	rec := record("inv_1", "TravelActions", time.Now().UTC())
	if err := st.SaveInvocation(ctx, rec); err != nil {
		t.Fatalf("SaveInvocation() error: %v", err)
	}

	got, err := st.GetInvocation(ctx, "inv_1")
	if err != nil {
		t.Fatalf("GetInvocation() error: %v", err)
	}
	if got.ActionGroup != "TravelActions" {
		t.Errorf("GetInvocation() ActionGroup = %v", got.ActionGroup)
	}

	if _, err := st.GetInvocation(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetInvocation(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		group := "TravelActions"
		if i%2 == 1 {
			group = "RewardsActions"
		}
		_ = st.SaveInvocation(ctx, record(fmt.Sprintf("inv_%d", i), group, base.Add(time.Duration(i)*time.Second)))
	}

	tests := []struct {
		name        string
		actionGroup string
		limit       int
		wantIDs     []string
	}{
		{name: "all", limit: 0, wantIDs: []string{"inv_4", "inv_3", "inv_2", "inv_1", "inv_0"}},
		{name: "limited", limit: 2, wantIDs: []string{"inv_4", "inv_3"}},
		{name: "by group", actionGroup: "RewardsActions", wantIDs: []string{"inv_3", "inv_1"}},
		{name: "unknown group", actionGroup: "Nope", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := st.ListInvocations(ctx, tt.actionGroup, tt.limit)
			if err != nil {
				t.Fatalf("ListInvocations() error: %v", err)
			}
			if len(recs) != len(tt.wantIDs) {
				t.Fatalf("ListInvocations() len = %d, want %d", len(recs), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if recs[i].ID != id {
					t.Errorf("ListInvocations()[%d] = %v, want %v", i, recs[i].ID, id)
				}
			}
		})
	}
}

func TestMemoryStore_Capacity(t *testing.T) {
	st := NewMemoryStoreWithCapacity(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_ = st.SaveInvocation(ctx, record(fmt.Sprintf("inv_%d", i), "TravelActions", time.Now().UTC()))
	}

	if _, err := st.GetInvocation(ctx, "inv_1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("evicted record still present, err = %v", err)
	}
	if _, err := st.GetInvocation(ctx, "inv_4"); err != nil {
		t.Errorf("newest record missing: %v", err)
	}

	recs, _ := st.ListInvocations(ctx, "", 0)
	if len(recs) != 3 {
		t.Errorf("ListInvocations() len = %d, want 3", len(recs))
	}
}

func TestMemoryStore_SaveReplacesExisting(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	rec := record("inv_1", "TravelActions", time.Now().UTC())
	_ = st.SaveInvocation(ctx, rec)

	rec.Outcome = model.OutcomeFailed
	_ = st.SaveInvocation(ctx, rec)

	recs, _ := st.ListInvocations(ctx, "", 0)
	if len(recs) != 1 {
		t.Fatalf("ListInvocations() len = %d, want 1", len(recs))
	}
	if recs[0].Outcome != model.OutcomeFailed {
		t.Errorf("Outcome = %v, want failed", recs[0].Outcome)
	}
}
