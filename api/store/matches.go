/* matches.go
 * Contains the methods for interacting with the matches collection.
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

// InsertMatches stores the full generated match tree at tournament setup.
func (s *Store) InsertMatches(ctx context.Context, matches []Match) error {
	if len(matches) == 0 {
		return fmt.Errorf("no matches to insert")
	}
	docs := make([]interface{}, len(matches))
	for i := range matches {
		docs[i] = matches[i]
	}
	if _, err := s.Collections.Matches.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert matches: %w", err)
	}
	return nil
}

// GetMatch fetches one match by id. Returns mongo.ErrNoDocuments when the
// match does not exist.
func (s *Store) GetMatch(ctx context.Context, matchID string) (Match, error) {
	var match Match
	err := s.Collections.Matches.FindOne(ctx, bson.M{"_id": matchID}).Decode(&match)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Match{}, err
		}
		return Match{}, fmt.Errorf("error fetching match from db: %w", err)
	}
	return match, nil
}

// ListMatches returns every match ordered by round then match number.
func (s *Store) ListMatches(ctx context.Context) ([]Match, error) {
	return s.listMatches(ctx, bson.D{})
}

// ListMatchesUpToRound returns all matches with round <= maxRound ordered by
// round then match number, the snapshot shape validation works on.
func (s *Store) ListMatchesUpToRound(ctx context.Context, maxRound int) ([]Match, error) {
	return s.listMatches(ctx, bson.D{{Key: "round", Value: bson.D{{Key: "$lte", Value: maxRound}}}})
}

func (s *Store) listMatches(ctx context.Context, filter bson.D) ([]Match, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "round", Value: 1},
		{Key: "match_number", Value: 1},
	})
	cursor, err := s.Collections.Matches.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching matches from db: %w", err)
	}

	var matches []Match
	if err = cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of matches: %w", err)
	}
	return matches, nil
}

// RecordMatchResult marks a match completed with its winner and set counts.
// Calling it again overwrites the result, which is how administrative
// corrections come in; the caller recomputes points afterwards either way.
func (s *Store) RecordMatchResult(ctx context.Context, matchID string, winningSlot Slot, setsWonA, setsWonB int) error {
	update := bson.M{"$set": bson.M{
		"completed":    true,
		"winning_slot": winningSlot,
		"sets_won_a":   setsWonA,
		"sets_won_b":   setsWonB,
	}}
	res, err := s.Collections.Matches.UpdateOne(ctx, bson.M{"_id": matchID}, update)
	if err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetMatchSlotTeam back-fills a placeholder slot with the team advancing
// from the feeding match.
func (s *Store) SetMatchSlotTeam(ctx context.Context, matchID string, slot Slot, team string) error {
	field := "slot_a_team"
	if slot == SlotB {
		field = "slot_b_team"
	}
	res, err := s.Collections.Matches.UpdateOne(ctx,
		bson.M{"_id": matchID},
		bson.M{"$set": bson.M{field: team}},
	)
	if err != nil {
		return fmt.Errorf("failed to set match slot team: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
