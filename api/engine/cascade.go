/* cascade.go
 * Computes the chain of a user's predictions that depend on a given match,
 * so deleting or re-picking an early prediction can remove everything built
 * on top of it in one shot.
 */

package engine

import "bracket-pool/api/store"

// DependentMatchIDs returns the match ids of the user's predictions that
// must be removed when the prediction on start changes: start itself, then
// each contiguous next-round match the user has predicted, following the
// winner-advancement edges of the tree. The walk stops at the first match
// the user has not predicted, or after the Championship. Rounds are bounded
// by FinalRound so the walk always terminates.
func DependentMatchIDs(bracket *Bracket, preds map[string]store.Prediction, start store.Match) ([]string, error) {
	chain := []string{start.ID}
	cur := start

	for cur.Round < FinalRound {
		next, ok, err := NextMatch(cur.Round, cur.MatchNumber-1)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		nm, err := bracket.MatchAt(next.Round, next.Index)
		if err != nil {
			return nil, err
		}
		if _, has := preds[nm.ID]; !has {
			break
		}
		chain = append(chain, nm.ID)
		cur = nm
	}
	return chain, nil
}
