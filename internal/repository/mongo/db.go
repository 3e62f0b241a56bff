package mongo

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"sync"

	"github.com/jordanarrivado/ajs-portfolio/internal/config"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB owns the shared client. It connects lazily on first use and reuses the
// client afterwards; a failed attempt is retried on the next call.
type DB struct {
	cfg    config.DatabaseConfig
	mu     sync.Mutex
	client *mongo.Client
}

// NewDB creates a new, not yet connected, database handle
func NewDB(cfg config.DatabaseConfig) *DB {
	return &DB{cfg: cfg}
}

// NewDBFromClient wraps an already connected client
func NewDBFromClient(client *mongo.Client, cfg config.DatabaseConfig) *DB {
	return &DB{cfg: cfg, client: client}
}

// Connect returns the shared client, dialing it if needed
func (db *DB) Connect(ctx context.Context) (*mongo.Client, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.client != nil {
		return db.client, nil
	}

	clientOpts := options.Client().ApplyURI(db.cfg.URI)
	if db.cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(db.cfg.ConnectTimeout)
		clientOpts.SetServerSelectionTimeout(db.cfg.ConnectTimeout)
	}
	if db.cfg.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(db.cfg.MaxPoolSize)
	}
	if db.cfg.TLS {
		clientOpts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	} else if plaintext(db.cfg) {
		log.Warn().Msg("MongoDB connection is not using TLS, set DATABASE_TLS=true or use a mongodb+srv URI")
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	db.client = client
	db.ensureIndexes(ctx)

	log.Info().Str("database", db.cfg.Name).Msg("Connected to MongoDB")
	return client, nil
}

// plaintext reports whether nothing in the config turns TLS on. SRV URIs
// default to TLS in the driver.
func plaintext(cfg config.DatabaseConfig) bool {
	if cfg.TLS || cfg.Scheme() == "mongodb+srv" {
		return false
	}
	uri := strings.ToLower(cfg.URI)
	return !strings.Contains(uri, "tls=true") && !strings.Contains(uri, "ssl=true")
}

func (db *DB) ensureIndexes(ctx context.Context) {
	coll := db.client.Database(db.cfg.Name).Collection(db.cfg.Collection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "personality", Value: 1}}},
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create chat log indexes")
	}
}

// Collection returns the chat log collection
func (db *DB) Collection(ctx context.Context) (*mongo.Collection, error) {
	client, err := db.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(db.cfg.Name).Collection(db.cfg.Collection), nil
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	client, err := db.Connect(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, nil)
}

// Close disconnects the client if one was opened
func (db *DB) Close(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.client == nil {
		return nil
	}
	err := db.client.Disconnect(ctx)
	db.client = nil
	return err
}
