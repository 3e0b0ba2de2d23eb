// Package mongodb stores histories and rosters as MongoDB documents.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client represents a wrapper around *mongo.Client for easier management.
type Client struct {
	mongoClient *mongo.Client
	database    string
}

// NewClient connects to the server and verifies the connection with a ping
func NewClient(ctx context.Context, uri, databaseName string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			log.Warn().Err(disconnectErr).Msg("Failed to disconnect MongoDB client after ping failure")
		}
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info().Str("database", databaseName).Msg("Connected to MongoDB")
	return &Client{
		mongoClient: client,
		database:    databaseName,
	}, nil
}

// Collection returns a handle to the named collection
func (c *Client) Collection(name string) *mongo.Collection {
	return c.mongoClient.Database(c.database).Collection(name)
}

func (c *Client) Ping(ctx context.Context) error {
	return c.mongoClient.Ping(ctx, readpref.Primary())
}

// Disconnect closes the connection
func (c *Client) Disconnect(ctx context.Context) error {
	log.Info().Msg("Disconnecting from MongoDB")
	return c.mongoClient.Disconnect(ctx)
}
