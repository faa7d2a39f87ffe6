package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/swacchmap/civic-reports/internal/infrastructure/db/jsonstore"
)

const collectionDocuments = "documents"

// DocumentBackend stores each named JSON document as one MongoDB document
// keyed by name. The body is kept as the raw JSON text so both backends
// persist byte-identical documents.
type DocumentBackend struct {
	col *mongo.Collection
}

func NewDocumentBackend(db *mongo.Database) *DocumentBackend {
	return &DocumentBackend{col: db.Collection(collectionDocuments)}
}

type storedDocument struct {
	Name      string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Read returns jsonstore.ErrNotFound when no document with that name exists.
func (b *DocumentBackend) Read(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc storedDocument
	if err := b.col.FindOne(ctx, bson.M{"_id": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, jsonstore.ErrNotFound
		}
		return nil, fmt.Errorf("find document %s: %w", name, err)
	}
	return []byte(doc.Body), nil
}

// Write replaces the whole document in a single upsert.
func (b *DocumentBackend) Write(ctx context.Context, name string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := storedDocument{Name: name, Body: string(data), UpdatedAt: time.Now().UTC()}
	_, err := b.col.ReplaceOne(ctx, bson.M{"_id": name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace document %s: %w", name, err)
	}
	return nil
}

func (b *DocumentBackend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return b.col.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
