package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bookscraper/src/internal/config"
	"bookscraper/src/internal/schema"
)

// MongoSink upserts one document per book, keyed by the book id.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// OpenMongo connects and pings the server before returning.
func OpenMongo(ctx context.Context, cfg config.Mongo) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("store: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("store: mongo ping: %w", err)
	}
	slog.Info("mongo connected", "database", cfg.Database, "collection", cfg.Collection)
	return &MongoSink{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoSink) Save(ctx context.Context, b schema.Book) (string, error) {
	if err := b.Validate(); err != nil {
		return "", fmt.Errorf("store: %w", err)
	}
	doc, err := document(b)
	if err != nil {
		return "", err
	}
	id := doc["_id"].(string)
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("store: mongo upsert %s: %w", id, err)
	}
	return id, nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// document converts b through its JSON form so persons and editions keep the
// same shape in Mongo as in files.
func document(b schema.Book) (bson.M, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, fmt.Errorf("store: bson: %w", err)
	}
	doc["_id"] = key(b)
	return doc, nil
}
