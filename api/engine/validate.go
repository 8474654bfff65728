/* validate.go
 * Decides whether a round-N prediction is "live": whether the user actually
 * forecast the matchup that took place. A prediction on a match the user
 * never routed the right teams into can't earn points no matter which slot
 * they picked.
 */

package engine

import (
	"errors"
	"strings"

	"bracket-pool/api/store"
)

// NormalizeTeamName lowercases a team name and collapses internal
// whitespace so scraped and hand-entered spellings compare equal.
func NormalizeTeamName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ValidBracketPath reports whether the user's prediction on the given match
// is eligible for scoring. Round 1 is always valid. For later rounds the
// match must be completed; the user's forecast teams for both feeding
// matches are resolved and compared against the actual participants
// (strict policy) or the actual winner (legacy loose policy). An incomplete
// bracket never validates past the break point.
func (c Config) ValidBracketPath(bracket *Bracket, preds map[string]store.Prediction, match store.Match) (bool, error) {
	if match.Round == FirstRound {
		return true, nil
	}
	if !match.Completed {
		return false, nil
	}

	r := NewResolver(bracket, preds)
	predictedA, err := r.PredictedSlotTeam(match, store.SlotA)
	if err != nil {
		if errors.Is(err, ErrNoPrediction) {
			return false, nil
		}
		return false, err
	}
	predictedB, err := r.PredictedSlotTeam(match, store.SlotB)
	if err != nil {
		if errors.Is(err, ErrNoPrediction) {
			return false, nil
		}
		return false, err
	}

	predA := NormalizeTeamName(predictedA)
	predB := NormalizeTeamName(predictedB)

	if c.Policy == PolicyWinnerOnly {
		winner := NormalizeTeamName(match.WinnerTeam())
		return winner == predA || winner == predB, nil
	}

	actualA := NormalizeTeamName(match.SlotATeam)
	actualB := NormalizeTeamName(match.SlotBTeam)

	// The user only has to forecast the correct set of participants, not
	// which physical slot each landed in.
	return (predA == actualA && predB == actualB) ||
		(predA == actualB && predB == actualA), nil
}
