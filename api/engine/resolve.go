/* resolve.go
 * Reconstructs which concrete team a user meant when they predicted a slot
 * of a later-round match. Old rows only recorded the slot, so the team has
 * to be recovered by walking the user's own predictions back down the tree
 * until a cached team name or a round 1 match (always concrete) is reached.
 */

package engine

import (
	"errors"

	"bracket-pool/api/store"
)

// ErrNoPrediction means the user has no prediction on a needed ancestor
// match. It is a routine outcome, not a failure: the user's bracket is
// simply incomplete at that node.
var ErrNoPrediction = errors.New("no prediction on ancestor match")

// Resolver answers predicted-team questions for a single user against one
// bracket snapshot. The memo is per-Resolver so concurrent validation passes
// for different users never share state; build a fresh Resolver per pass.
type Resolver struct {
	bracket *Bracket
	preds   map[string]store.Prediction // keyed by match id
	memo    map[string]string           // match id -> resolved winner team
}

// NewResolver builds a resolver over the user's predictions keyed by match id.
func NewResolver(bracket *Bracket, preds map[string]store.Prediction) *Resolver {
	return &Resolver{
		bracket: bracket,
		preds:   preds,
		memo:    make(map[string]string),
	}
}

// PredictedWinner returns the concrete team the user forecast to win the
// given match. The cached PredictedTeamName short-circuits the walk when
// present; otherwise the predicted slot is chased through the feeding match
// recursively. Returns ErrNoPrediction if the user's bracket breaks anywhere
// along the path.
func (r *Resolver) PredictedWinner(match store.Match) (string, error) {
	if team, ok := r.memo[match.ID]; ok {
		return team, nil
	}

	pred, ok := r.preds[match.ID]
	if !ok {
		return "", ErrNoPrediction
	}

	if pred.PredictedTeamName != "" {
		r.memo[match.ID] = pred.PredictedTeamName
		return pred.PredictedTeamName, nil
	}

	team, err := r.PredictedSlotTeam(match, pred.PredictedSlot)
	if err != nil {
		return "", err
	}
	r.memo[match.ID] = team
	return team, nil
}

// PredictedSlotTeam returns the concrete team the user forecast to occupy
// one slot of the given match. For round 1 the slots are always concrete;
// for later rounds the slot's team is whoever the user predicted to win the
// feeding match.
func (r *Resolver) PredictedSlotTeam(match store.Match, slot store.Slot) (string, error) {
	if match.Round == FirstRound {
		team := match.SlotTeam(slot)
		if team == "" || team == store.TeamTBD {
			return "", ErrNoPrediction
		}
		return team, nil
	}

	prevIdx, err := FeederForSlot(match.Round, match.MatchNumber-1, slot)
	if err != nil {
		return "", err
	}
	prev, err := r.bracket.MatchAt(match.Round-1, prevIdx)
	if err != nil {
		return "", err
	}
	return r.PredictedWinner(prev)
}
