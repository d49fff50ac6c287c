package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/testutil"
)

func TestMongoStore(t *testing.T) {
	mc := testutil.NewMongoTestContainer(t)
	ctx := context.Background()

	st := NewMongoStore(mc.Client, mc.DBName, "action_invocations")
	if err := st.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes() error: %v", err)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	_ = st.SaveInvocation(ctx, record("inv_a", "TravelActions", base))
	_ = st.SaveInvocation(ctx, record("inv_b", "RewardsActions", base.Add(time.Second)))
	if err := st.SaveInvocation(ctx, record("inv_c", "TravelActions", base.Add(2*time.Second))); err != nil {
		t.Fatalf("SaveInvocation() error: %v", err)
	}

	got, err := st.GetInvocation(ctx, "inv_b")
	if err != nil {
		t.Fatalf("GetInvocation() error: %v", err)
	}
	if got.ActionGroup != "RewardsActions" {
		t.Errorf("GetInvocation() ActionGroup = %v", got.ActionGroup)
	}

	if _, err := st.GetInvocation(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetInvocation(missing) error = %v, want ErrNotFound", err)
	}

	recs, err := st.ListInvocations(ctx, "TravelActions", 10)
	if err != nil {
		t.Fatalf("ListInvocations() error: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "inv_c" || recs[1].ID != "inv_a" {
		t.Errorf("ListInvocations() = %+v", recs)
	}
}
