/* leaderboard.go
 * Contains the methods for interacting with the leaderboard collection. The
 * collection holds a single snapshot document that is replaced wholesale on
 * every recompute.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const leaderboardDocID = "current"

// StoreLeaderboard replaces the persisted leaderboard snapshot.
func (s *Store) StoreLeaderboard(ctx context.Context, lb Leaderboard) error {
	doc := bson.M{
		"_id":          leaderboardDocID,
		"generated_at": lb.GeneratedAt,
		"entries":      lb.Entries,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.Collections.Leaderboard.ReplaceOne(ctx, bson.M{"_id": leaderboardDocID}, doc, opts); err != nil {
		return fmt.Errorf("failed to store leaderboard: %w", err)
	}
	return nil
}

// FetchLeaderboard returns the persisted leaderboard snapshot. Returns
// mongo.ErrNoDocuments if no snapshot has been stored yet.
func (s *Store) FetchLeaderboard(ctx context.Context) (Leaderboard, error) {
	var lb Leaderboard
	err := s.Collections.Leaderboard.FindOne(ctx, bson.M{"_id": leaderboardDocID}).Decode(&lb)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Leaderboard{}, err
		}
		return Leaderboard{}, fmt.Errorf("error fetching leaderboard from db: %w", err)
	}
	return lb, nil
}
