/* predictions.go
 * Contains the methods for interacting with the predictions collection.
 * Predictions are unique per (user_id, match_id).
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

// GetPrediction fetches one user's prediction on one match. Returns
// mongo.ErrNoDocuments when the user has not predicted the match.
func (s *Store) GetPrediction(ctx context.Context, userID, matchID string) (Prediction, error) {
	var prediction Prediction
	err := s.Collections.Predictions.FindOne(ctx, bson.M{"user_id": userID, "match_id": matchID}).Decode(&prediction)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Prediction{}, err
		}
		return Prediction{}, fmt.Errorf("error fetching prediction from db: %w", err)
	}
	return prediction, nil
}

// ListUserPredictions returns every prediction belonging to one user.
func (s *Store) ListUserPredictions(ctx context.Context, userID string) ([]Prediction, error) {
	return s.listPredictions(ctx, bson.M{"user_id": userID})
}

// ListMatchPredictions returns every user's prediction on one match, the
// working set of a batch point recompute.
func (s *Store) ListMatchPredictions(ctx context.Context, matchID string) ([]Prediction, error) {
	return s.listPredictions(ctx, bson.M{"match_id": matchID})
}

// ListAllPredictions returns every stored prediction. Used in leaderboard
// calculations.
func (s *Store) ListAllPredictions(ctx context.Context) ([]Prediction, error) {
	return s.listPredictions(ctx, bson.M{})
}

func (s *Store) listPredictions(ctx context.Context, filter bson.M) ([]Prediction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.Collections.Predictions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching predictions from db: %w", err)
	}

	var predictions []Prediction
	if err = cursor.All(ctx, &predictions); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of predictions: %w", err)
	}
	return predictions, nil
}

// InsertPrediction stores a new prediction.
func (s *Store) InsertPrediction(ctx context.Context, prediction Prediction) error {
	if _, err := s.Collections.Predictions.InsertOne(ctx, prediction); err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}
	return nil
}

// UpdatePrediction overwrites the mutable fields of an existing prediction.
func (s *Store) UpdatePrediction(ctx context.Context, prediction Prediction) error {
	update := bson.M{"$set": bson.M{
		"predicted_slot":       prediction.PredictedSlot,
		"predicted_team_name":  prediction.PredictedTeamName,
		"predicted_total_sets": prediction.PredictedTotalSets,
	}}
	res, err := s.Collections.Predictions.UpdateOne(ctx, bson.M{"_id": prediction.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update prediction: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetPointsEarned writes the computed point value for one prediction.
func (s *Store) SetPointsEarned(ctx context.Context, predictionID string, points float64) error {
	res, err := s.Collections.Predictions.UpdateOne(ctx,
		bson.M{"_id": predictionID},
		bson.M{"$set": bson.M{"points_earned": points}},
	)
	if err != nil {
		return fmt.Errorf("failed to set points earned: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePredictions removes the user's predictions on the given matches and
// returns how many were deleted. Deleting an absent prediction is a no-op.
func (s *Store) DeletePredictions(ctx context.Context, userID string, matchIDs []string) (int64, error) {
	if len(matchIDs) == 0 {
		return 0, nil
	}
	res, err := s.Collections.Predictions.DeleteMany(ctx, bson.M{
		"user_id":  userID,
		"match_id": bson.M{"$in": matchIDs},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete predictions: %w", err)
	}
	return res.DeletedCount, nil
}
