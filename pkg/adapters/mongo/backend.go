// Package mongo implements core.Backend on a MongoDB collection.
// Each key is one document: {_id: key, payload: <encoded snapshot>}.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/introspection"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

const (
	defaultDatabase   = "hrpc"
	defaultCollection = "state"
	pingTimeout       = 10 * time.Second
)

// Config holds connection parameters.
type Config struct {
	URI        string
	Database   string
	Collection string
}

type stateDoc struct {
	Key     string `bson:"_id"`
	Payload string `bson:"payload"`
}

// Backend stores snapshots in a MongoDB collection.
type Backend struct {
	client     *mongo.Client
	collection *mongo.Collection
	cfg        Config
}

// Open connects to MongoDB. The connection is verified by Initialize.
func Open(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri required")
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &Backend{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		cfg:        cfg,
	}, nil
}

// Initialize pings the primary.
func (b *Backend) Initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := b.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

func (b *Backend) Read(ctx context.Context, key string) ([]byte, error) {
	var doc stateDoc
	err := b.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", key, err)
	}
	return []byte(doc.Payload), nil
}

func (b *Backend) Write(ctx context.Context, key string, data []byte) error {
	_, err := b.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		stateDoc{Key: key, Payload: string(data)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	cur, err := b.collection.Find(ctx, bson.D{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find keys: %w", err)
	}
	defer cur.Close(ctx)

	var docs []stateDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode keys: %w", err)
	}
	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		keys = append(keys, d.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *Backend) Clear(ctx context.Context) error {
	if _, err := b.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (b *Backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

// State implements introspection.Introspectable.
func (b *Backend) State() any {
	return map[string]string{"database": b.cfg.Database, "collection": b.cfg.Collection}
}

// ComponentType implements introspection.Component.
func (b *Backend) ComponentType() string { return "mongo" }

var _ core.Backend = (*Backend)(nil)
var _ introspection.Component = (*Backend)(nil)
