package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/nerrad567/movie-api/internal/infrastructure/config"
)

// Collection names.
const (
	CollectionUsers  = "users"
	CollectionMovies = "movies"
)

const defaultTimeout = 10 * time.Second

var (
	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("mongodb: connection failed")

	// ErrNotConnected is returned by operations on a closed client.
	ErrNotConnected = errors.New("mongodb: not connected")
)

// Store wraps a mongo.Client bound to one database.
//
// Thread Safety:
//   - mongo.Client pools connections and is safe for concurrent use.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect creates a client for cfg.URI and verifies it with a ping.
//
// Parameters:
//   - ctx: Bounds the initial ping
//   - cfg: Database configuration (URI, Name, Timeout in seconds)
//
// Returns:
//   - *Store: Connected store
//   - error: ErrConnectionFailed wrapping the driver error
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetAppName("movieapi")

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background()) //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("%w: ping: %w", ErrConnectionFailed, err)
	}

	return &Store{
		client: client,
		db:     client.Database(cfg.Name),
	}, nil
}

// Collection returns a handle to the named collection.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

// Database returns the bound database.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// EnsureIndexes creates the unique indexes the repositories depend on:
// users.username and movies.title. Creating an existing index is a no-op.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if s.client == nil {
		return ErrNotConnected
	}

	indexes := map[string]mongo.IndexModel{
		CollectionUsers: {
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_unique"),
		},
		CollectionMovies: {
			Keys:    bson.D{{Key: "title", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("title_unique"),
		},
	}

	for collection, model := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("creating index on %s: %w", collection, err)
		}
	}
	return nil
}

// HealthCheck pings the primary.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return ErrNotConnected
	}
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client, waiting for in-use connections up to ctx.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("closing mongodb: %w", err)
	}
	s.client = nil
	return nil
}
