/* predictions.go
 * Contains the public methods for creating, updating and deleting user
 * predictions, and for locking a bracket in by submitting it. Mutations
 * cascade: re-picking or deleting an early-round prediction removes every
 * later-round prediction the user built on top of it.
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-pool/api/engine"
	"bracket-pool/api/store"
)

const (
	minTotalSets = 3
	maxTotalSets = 5
)

// predictionsRequired is the number of matches in a full bracket.
const predictionsRequired = 63

// CreatePrediction stores a new prediction for the user on the given match.
// It receives the user id, match id, the slot the user forecasts to win and
// the forecast total set count.
// It returns the stored prediction, or an error if a guard fails: the user's
// bracket is already submitted, the match is missing or completed, the user
// already predicted the match, or the inputs are out of range.
func (a *API) CreatePrediction(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error) {
	if !slot.Valid() {
		return store.Prediction{}, precondition("invalid slot %q, must be A or B", slot)
	}
	if totalSets < minTotalSets || totalSets > maxTotalSets {
		return store.Prediction{}, precondition("total sets must be between %d and %d, got %d", minTotalSets, maxTotalSets, totalSets)
	}

	unlock := a.lockUser(userID)
	defer unlock()

	match, err := a.guardMutable(ctx, userID, matchID)
	if err != nil {
		return store.Prediction{}, err
	}

	_, err = a.Store.GetPrediction(ctx, userID, matchID)
	if err == nil {
		return store.Prediction{}, precondition("prediction already exists for this match, update it instead")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return store.Prediction{}, err
	}

	prediction := store.Prediction{
		ID:                 uuid.NewString(),
		UserID:             userID,
		MatchID:            matchID,
		PredictedSlot:      slot,
		PredictedTotalSets: totalSets,
		PredictedTeamName:  a.resolveTeamName(ctx, userID, match, slot),
		CreatedAt:          time.Now().UTC(),
	}
	if err := a.Store.InsertPrediction(ctx, prediction); err != nil {
		return store.Prediction{}, err
	}
	return prediction, nil
}

// UpdatePrediction changes an existing prediction. Changing the predicted
// slot invalidates everything the user built on the old pick, so the
// downstream prediction chain is deleted in the same transaction. Changing
// only the set count leaves the chain alone.
func (a *API) UpdatePrediction(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error) {
	if !slot.Valid() {
		return store.Prediction{}, precondition("invalid slot %q, must be A or B", slot)
	}
	if totalSets < minTotalSets || totalSets > maxTotalSets {
		return store.Prediction{}, precondition("total sets must be between %d and %d, got %d", minTotalSets, maxTotalSets, totalSets)
	}

	unlock := a.lockUser(userID)
	defer unlock()

	match, err := a.guardMutable(ctx, userID, matchID)
	if err != nil {
		return store.Prediction{}, err
	}

	prediction, err := a.Store.GetPrediction(ctx, userID, matchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Prediction{}, precondition("no prediction exists for this match, create one instead")
		}
		return store.Prediction{}, err
	}

	slotChanged := prediction.PredictedSlot != slot
	prediction.PredictedSlot = slot
	prediction.PredictedTotalSets = totalSets

	if !slotChanged {
		if err := a.Store.UpdatePrediction(ctx, prediction); err != nil {
			return store.Prediction{}, err
		}
		return prediction, nil
	}

	prediction.PredictedTeamName = a.resolveTeamName(ctx, userID, match, slot)

	err = a.Store.WithTransaction(ctx, func(ctx context.Context) error {
		deleted, err := a.deleteDownstream(ctx, userID, match, false)
		if err != nil {
			return err
		}
		predictionsCascadeDeleted.Add(float64(deleted))
		return a.Store.UpdatePrediction(ctx, prediction)
	})
	if err != nil {
		return store.Prediction{}, err
	}
	return prediction, nil
}

// DeletePrediction removes the user's prediction on the given match along
// with its dependent chain, and returns how many predictions were removed.
func (a *API) DeletePrediction(ctx context.Context, userID, matchID string) (int64, error) {
	unlock := a.lockUser(userID)
	defer unlock()

	match, err := a.guardMutable(ctx, userID, matchID)
	if err != nil {
		return 0, err
	}

	if _, err := a.Store.GetPrediction(ctx, userID, matchID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, precondition("no prediction exists for this match")
		}
		return 0, err
	}

	var deleted int64
	err = a.Store.WithTransaction(ctx, func(ctx context.Context) error {
		deleted, err = a.deleteDownstream(ctx, userID, match, true)
		return err
	})
	if err != nil {
		return 0, err
	}
	predictionsCascadeDeleted.Add(float64(deleted))
	return deleted, nil
}

// GetUserPredictions returns every prediction belonging to the user.
func (a *API) GetUserPredictions(ctx context.Context, userID string) ([]store.Prediction, error) {
	return a.Store.ListUserPredictions(ctx, userID)
}

// SubmitBracket locks the user's bracket in. A bracket can only be submitted
// once every match in the tree has a prediction; after submission no
// prediction belonging to the user may be mutated.
func (a *API) SubmitBracket(ctx context.Context, userID string) error {
	unlock := a.lockUser(userID)
	defer unlock()

	user, err := a.Store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.BracketSubmitted {
		return precondition("bracket already submitted")
	}

	preds, err := a.Store.ListUserPredictions(ctx, userID)
	if err != nil {
		return err
	}
	if len(preds) != predictionsRequired {
		return precondition("bracket is incomplete, %d of %d predictions made", len(preds), predictionsRequired)
	}

	return a.Store.SetBracketSubmitted(ctx, userID, true)
}

// guardMutable checks the shared mutation preconditions: the user exists and
// has not submitted their bracket, and the match exists and is not completed.
// It returns the match on success.
func (a *API) guardMutable(ctx context.Context, userID, matchID string) (store.Match, error) {
	user, err := a.Store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Match{}, precondition("user %q does not exist", userID)
		}
		return store.Match{}, err
	}
	if user.BracketSubmitted {
		return store.Match{}, precondition("bracket has been submitted and is locked")
	}

	match, err := a.Store.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Match{}, precondition("match %q does not exist", matchID)
		}
		return store.Match{}, err
	}
	if match.Completed {
		return store.Match{}, precondition("match is already completed, predictions are closed")
	}
	return match, nil
}

// resolveTeamName determines which concrete team the user's slot pick refers
// to, for caching on the prediction. Best effort: an incomplete bracket
// resolves to an empty name, which the engine reconstructs later once the
// missing ancestors are filled in.
func (a *API) resolveTeamName(ctx context.Context, userID string, match store.Match, slot store.Slot) string {
	bracket, _, err := a.loadBracket(ctx)
	if err != nil {
		return ""
	}
	preds, err := a.loadUserPreds(ctx, userID)
	if err != nil {
		return ""
	}
	team, err := engine.NewResolver(bracket, preds).PredictedSlotTeam(match, slot)
	if err != nil {
		return ""
	}
	return team
}

// deleteDownstream removes the user's prediction chain rooted at match. When
// includeStart is false the prediction on match itself survives, which is the
// update-in-place case. Returns the number of predictions deleted.
func (a *API) deleteDownstream(ctx context.Context, userID string, match store.Match, includeStart bool) (int64, error) {
	bracket, _, err := a.loadBracket(ctx)
	if err != nil {
		return 0, err
	}
	preds, err := a.loadUserPreds(ctx, userID)
	if err != nil {
		return 0, err
	}

	chain, err := engine.DependentMatchIDs(bracket, preds, match)
	if err != nil {
		return 0, fmt.Errorf("failed to compute dependent predictions: %w", err)
	}
	if !includeStart {
		chain = chain[1:]
	}
	return a.Store.DeletePredictions(ctx, userID, chain)
}
