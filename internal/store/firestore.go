package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{
		client:     client,
		collection: collection,
	}, nil
}

func (s *FirestoreStore) SaveInvocation(ctx context.Context, rec model.InvocationRecord) error {
	_, err := s.client.Collection(s.collection).Doc(rec.ID).Set(ctx, rec)
	if err != nil {
		return fmt.Errorf("save invocation: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetInvocation(ctx context.Context, id string) (model.InvocationRecord, error) {
	doc, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.InvocationRecord{}, ErrNotFound
		}
		return model.InvocationRecord{}, fmt.Errorf("get invocation: %w", err)
	}

	var rec model.InvocationRecord
	if err := doc.DataTo(&rec); err != nil {
		return model.InvocationRecord{}, fmt.Errorf("decode invocation: %w", err)
	}
	return rec, nil
}

func (s *FirestoreStore) ListInvocations(ctx context.Context, actionGroup string, limit int) ([]model.InvocationRecord, error) {
	query := s.client.Collection(s.collection).Query
	if actionGroup != "" {
		query = query.Where("action_group", "==", actionGroup)
	}
	query = query.OrderBy("created_at", firestore.Desc).Limit(normalizeLimit(limit))

	iter := query.Documents(ctx)
	defer iter.Stop()

	recs := []model.InvocationRecord{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate invocations: %w", err)
		}

		var rec model.InvocationRecord
		if err := doc.DataTo(&rec); err != nil {
			return nil, fmt.Errorf("decode invocation: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
