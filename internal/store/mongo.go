package store

import (
	"context"
	"errors"
	"time"

	"github.com/parlakisik/agent-exchange/aex-action-router/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(client *mongo.Client, dbName string, collName string) *MongoStore {
	return &MongoStore{
		coll: client.Database(dbName).Collection(collName),
	}
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "action_group", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "api_path", Value: 1}},
		},
	}
	_, err := s.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *MongoStore) SaveInvocation(ctx context.Context, rec model.InvocationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.coll.ReplaceOne(ctx, bson.M{"id": rec.ID}, rec, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) GetInvocation(ctx context.Context, id string) (model.InvocationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec model.InvocationRecord
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.InvocationRecord{}, ErrNotFound
		}
		return model.InvocationRecord{}, err
	}
	return rec, nil
}

func (s *MongoStore) ListInvocations(ctx context.Context, actionGroup string, limit int) ([]model.InvocationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if actionGroup != "" {
		filter["action_group"] = actionGroup
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(normalizeLimit(limit)))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	recs := []model.InvocationRecord{}
	for cur.Next(ctx) {
		var rec model.InvocationRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	if err := cur.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *MongoStore) Close() error {
	// The mongo client is owned by main.
	return nil
}
