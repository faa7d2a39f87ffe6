package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config selects the database that holds the document collection.
type Config struct {
	URI      string
	Database string
}

// Open connects, pings, and returns a DocumentBackend on cfg.Database together
// with a function that disconnects the client.
func Open(ctx context.Context, cfg Config) (*DocumentBackend, func(context.Context) error, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("civic-reports")
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return NewDocumentBackend(client.Database(cfg.Database)), client.Disconnect, nil
}
