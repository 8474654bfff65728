/* store.go
 * Contains the Store struct and NewStore function. The methods for this
 * package are split per collection: matches.go, predictions.go, users.go and
 * leaderboard.go each contain the methods for interacting with that part of
 * the database.
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Matches     *mongo.Collection
		Predictions *mongo.Collection
		Users       *mongo.Collection
		Leaderboard *mongo.Collection
	}
}

// NewStore initialises the db connection and binds the collections.
// It receives the database name and mongo URI and returns a pointer to the
// Store, or an error if the connection cannot be established.
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Matches = db.Collection("matches")
	s.Collections.Predictions = db.Collection("predictions")
	s.Collections.Users = db.Collection("users")
	s.Collections.Leaderboard = db.Collection("leaderboard")
	return s, nil
}

// WithTransaction runs fn inside a mongo session transaction so a cascade
// delete or a batch point recompute applies all-or-nothing. fn receives a
// session-bound context that must be passed to every store call made inside
// the transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
