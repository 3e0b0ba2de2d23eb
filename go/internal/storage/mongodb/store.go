package mongodb

import (
	"context"
	"fmt"

	"github.com/mcdev12/dominonight/go/internal/history"
	"github.com/mcdev12/dominonight/go/internal/models"
	"github.com/mcdev12/dominonight/go/internal/roster"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	nightsCollection  = "nights"
	playersCollection = "players"
)

// nightDocument wraps a night with its owning account. The key is "<account>/<night id>".
type nightDocument struct {
	Key       string             `bson:"_id"`
	AccountID string             `bson:"account_id"`
	Night     models.NightRecord `bson:"night"`
}

type playerDocument struct {
	Key       string        `bson:"_id"`
	AccountID string        `bson:"account_id"`
	Player    models.Player `bson:"player"`
}

func docKey(accountID, id string) string {
	return accountID + "/" + id
}

// Store implements the history and roster repositories on two collections
type Store struct {
	nights  *mongo.Collection
	players *mongo.Collection
}

// NewStore creates a Store over the client's database
func NewStore(client *Client) *Store {
	return &Store{
		nights:  client.Collection(nightsCollection),
		players: client.Collection(playersCollection),
	}
}

var (
	_ history.Repository = (*Store)(nil)
	_ roster.Repository  = (*Store)(nil)
)

// LoadHistory returns the account's nights
func (s *Store) LoadHistory(ctx context.Context, accountID string) ([]models.NightRecord, error) {
	cursor, err := s.nights.Find(ctx, bson.M{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to find nights: %w", err)
	}
	defer cursor.Close(ctx)

	nights := history.NewCollector(0)
	for cursor.Next(ctx) {
		var doc nightDocument
		if err := cursor.Decode(&doc); err != nil {
			nights.Skip(fmt.Errorf("%w: %v", history.ErrMalformedRecord, err))
			continue
		}
		nights.Append(doc.Night)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error while loading nights: %w", err)
	}
	return nights.Result()
}

// SaveHistory upserts nights by id
func (s *Store) SaveHistory(ctx context.Context, accountID string, nights []models.NightRecord) error {
	if len(nights) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(nights))
	for _, n := range nights {
		key := docKey(accountID, n.ID)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": key}).
			SetReplacement(nightDocument{Key: key, AccountID: accountID, Night: n}).
			SetUpsert(true))
	}

	if _, err := s.nights.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to save nights: %w", err)
	}
	return nil
}

// ClearHistory deletes the account's nights
func (s *Store) ClearHistory(ctx context.Context, accountID string) error {
	if _, err := s.nights.DeleteMany(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("failed to clear nights: %w", err)
	}
	return nil
}

// LoadPlayers returns the account's roster
func (s *Store) LoadPlayers(ctx context.Context, accountID string) ([]models.Player, error) {
	cursor, err := s.players.Find(ctx, bson.M{"account_id": accountID},
		options.Find().SetSort(bson.D{{Key: "player.name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find players: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []playerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode players: %w", err)
	}

	players := make([]models.Player, 0, len(docs))
	for _, d := range docs {
		players = append(players, d.Player)
	}
	return players, nil
}

// SavePlayers replaces the account's roster
func (s *Store) SavePlayers(ctx context.Context, accountID string, players []models.Player) error {
	if err := s.ClearPlayers(ctx, accountID); err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(players))
	for _, p := range players {
		docs = append(docs, playerDocument{Key: docKey(accountID, p.ID), AccountID: accountID, Player: p})
	}
	if _, err := s.players.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert players: %w", err)
	}
	return nil
}

// UpdatePlayer rewrites an existing roster entry
func (s *Store) UpdatePlayer(ctx context.Context, accountID string, player models.Player) error {
	filter := bson.M{"_id": docKey(accountID, player.ID)}
	update := bson.M{"$set": bson.M{"player": player}}
	if _, err := s.players.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}
	return nil
}

// DeletePlayer removes one roster entry
func (s *Store) DeletePlayer(ctx context.Context, accountID, playerID string) error {
	if _, err := s.players.DeleteOne(ctx, bson.M{"_id": docKey(accountID, playerID)}); err != nil {
		return fmt.Errorf("failed to delete player %s: %w", playerID, err)
	}
	return nil
}

// ClearPlayers deletes the account's roster
func (s *Store) ClearPlayers(ctx context.Context, accountID string) error {
	if _, err := s.players.DeleteMany(ctx, bson.M{"account_id": accountID}); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}
	return nil
}
