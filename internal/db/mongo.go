package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wiki_stats/internal/config"
	"wiki_stats/internal/models"
)

// MongoDB reads the documents collection filled by the crawler.
type MongoDB struct {
	client    *mongo.Client
	documents *mongo.Collection
}

func NewMongoDB(ctx context.Context, config config.DBConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.Connection))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't ping MongoDB: %w", err)
	}

	return &MongoDB{
		client:    client,
		documents: client.Database(config.Database).Collection(config.Collections.Documents),
	}, nil
}

// DocumentFilter selects valid documents, optionally from one source only.
func DocumentFilter(source string) bson.M {
	filter := bson.M{"is_valid": bson.M{"$ne": false}}
	if source != "" {
		filter["source"] = source
	}
	return filter
}

func (d *MongoDB) CountDocuments(ctx context.Context, source string) (int64, error) {
	return d.documents.CountDocuments(ctx, DocumentFilter(source))
}

// ForEachDocument streams matching documents in _id order and stops at the
// first error returned by fn.
func (d *MongoDB) ForEachDocument(ctx context.Context, source string, fn func(*models.Document) error) error {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"scraped_count": 0})

	cursor, err := d.documents.Find(ctx, DocumentFilter(source), opts)
	if err != nil {
		return fmt.Errorf("find documents: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc models.Document
		if err := cursor.Decode(&doc); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		if err := fn(&doc); err != nil {
			return err
		}
	}
	return cursor.Err()
}

func (d *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}
