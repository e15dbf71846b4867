package models

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// namespaceExistsCode is returned by createCollection when the collection exists
const namespaceExistsCode = 48

// DatabaseOptions describes how to reach the document store
type DatabaseOptions struct {
	URL      string
	Name     string
	Username string
	Password string

	// InsecureTLS accepts self-signed certificates (Cosmos DB emulator)
	InsecureTLS bool
	AppName     string
}

// Database represents the database connection
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewDatabase creates a new database connection
func NewDatabase(ctx context.Context, opts DatabaseOptions) (*Database, error) {
	clientOptions := options.Client().
		ApplyURI(opts.URL).
		SetMaxPoolSize(20).
		SetMinPoolSize(1).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	if opts.AppName != "" {
		clientOptions.SetAppName(opts.AppName)
	}
	if opts.Password != "" {
		clientOptions.SetAuth(options.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
	}
	if opts.InsecureTLS {
		clientOptions.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Database{
		Client: client,
		DB:     client.Database(opts.Name),
	}, nil
}

// Close closes the database connection
func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// EnsureCollection creates the collection and its ordering index if they do
// not exist yet. Safe to call any number of times.
func (d *Database) EnsureCollection(ctx context.Context, name string) (*mongo.Collection, error) {
	names, err := d.DB.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	if len(names) == 0 {
		err := d.DB.CreateCollection(ctx, name)
		var cmdErr mongo.CommandError
		if err != nil && !(errors.As(err, &cmdErr) && cmdErr.Code == namespaceExistsCode) {
			return nil, fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}

	collection := d.DB.Collection(name)
	if err := CreateIndexes(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// CreateIndexes creates the indexes sampling and partition lookups rely on.
// Creating an index that already exists is a no-op on the server.
func CreateIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "partitionKey", Value: 1}, {Key: "ingestedAt", Value: 1}, {Key: "_id", Value: 1}},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
