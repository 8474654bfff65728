/* results.go
 * Contains the public methods for recording match results and computing
 * prediction points. Recording a result advances the winner into the next
 * round's slot and scores every prediction on the match in one transaction.
 * Results are overwritable so administrative corrections re-run the same
 * path; scoring is deterministic so recomputes are idempotent.
 */

package api

import (
	"context"
	"errors"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-pool/api/engine"
	"bracket-pool/api/store"
)

const setsToWin = 3

// CompleteMatch records the result of a match, advances the winner into the
// next round and recomputes points for every prediction on the match.
// It receives the match id, the winning slot and the sets won by each side.
// It returns the updated match, or an error if a guard fails: the match is
// missing, its participants are not decided yet, or the set counts do not
// describe a best-of-5 result.
func (a *API) CompleteMatch(ctx context.Context, matchID string, winningSlot store.Slot, setsWonA, setsWonB int) (store.Match, error) {
	if !winningSlot.Valid() {
		return store.Match{}, precondition("invalid winning slot %q, must be A or B", winningSlot)
	}

	match, err := a.Store.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Match{}, precondition("match %q does not exist", matchID)
		}
		return store.Match{}, err
	}

	for _, team := range []string{match.SlotATeam, match.SlotBTeam} {
		if team == "" || team == store.TeamTBD {
			return store.Match{}, precondition("match participants are not decided yet")
		}
	}

	winnerSets, loserSets := setsWonA, setsWonB
	if winningSlot == store.SlotB {
		winnerSets, loserSets = setsWonB, setsWonA
	}
	if winnerSets != setsToWin {
		return store.Match{}, precondition("winner must take exactly %d sets, got %d", setsToWin, winnerSets)
	}
	if loserSets < 0 || loserSets >= setsToWin {
		return store.Match{}, precondition("loser must take between 0 and %d sets, got %d", setsToWin-1, loserSets)
	}

	match.Completed = true
	match.WinningSlot = winningSlot
	match.SetsWonA = setsWonA
	match.SetsWonB = setsWonB

	err = a.Store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := a.Store.RecordMatchResult(ctx, matchID, winningSlot, setsWonA, setsWonB); err != nil {
			return err
		}
		if err := a.advanceWinner(ctx, match); err != nil {
			return err
		}
		bracket, _, err := a.loadBracket(ctx)
		if err != nil {
			return err
		}
		return a.scoreMatch(ctx, bracket, match)
	})
	if err != nil {
		return store.Match{}, err
	}

	matchesCompleted.Inc()
	if a.Notifier != nil {
		if err := a.Notifier.MatchCompleted(match); err != nil {
			// Announcements are best effort; the result is already recorded.
			return match, nil
		}
	}
	return match, nil
}

// CompleteMatchByName records a result given the winner's team name instead
// of a slot, matching the name against the two participants with the same
// fuzzy matching used for team entry. The winner takes 3 sets and the loser
// the given count.
func (a *API) CompleteMatchByName(ctx context.Context, matchID, winnerName string, loserSets int) (store.Match, error) {
	match, err := a.Store.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Match{}, precondition("match %q does not exist", matchID)
		}
		return store.Match{}, err
	}

	slot, ok := matchSlotForName(match, winnerName)
	if !ok {
		return store.Match{}, precondition("team %q is not playing in this match (%s vs %s)", winnerName, match.SlotATeam, match.SlotBTeam)
	}

	setsWonA, setsWonB := setsToWin, loserSets
	if slot == store.SlotB {
		setsWonA, setsWonB = loserSets, setsToWin
	}
	return a.CompleteMatch(ctx, matchID, slot, setsWonA, setsWonB)
}

// matchSlotForName resolves a possibly misspelled team name to the slot it
// occupies in the match. Exact normalized matches win; otherwise the better
// fuzzy rank does.
func matchSlotForName(match store.Match, name string) (store.Slot, bool) {
	lower := strings.ToLower(name)
	candidates := []string{strings.ToLower(match.SlotATeam), strings.ToLower(match.SlotBTeam)}

	for i, c := range candidates {
		if c == lower {
			if i == 0 {
				return store.SlotA, true
			}
			return store.SlotB, true
		}
	}

	results := fuzzy.RankFind(lower, candidates)
	if len(results) == 0 {
		return "", false
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Target == candidates[0] {
		return store.SlotA, true
	}
	return store.SlotB, true
}

// RecalculateMatch recomputes points for every prediction on one completed
// match under the current scoring configuration.
func (a *API) RecalculateMatch(ctx context.Context, matchID string) error {
	match, err := a.Store.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return precondition("match %q does not exist", matchID)
		}
		return err
	}
	if !match.Completed {
		return precondition("match is not completed, nothing to score")
	}

	return a.Store.WithTransaction(ctx, func(ctx context.Context) error {
		// Validation only walks ancestors, so rounds above the match are
		// not loaded.
		matches, err := a.Store.ListMatchesUpToRound(ctx, match.Round)
		if err != nil {
			return err
		}
		return a.scoreMatch(ctx, engine.NewBracket(matches), match)
	})
}

// RecalculateAll recomputes points for every prediction on every completed
// match, the recovery path after a policy change or a data fix.
func (a *API) RecalculateAll(ctx context.Context) error {
	return a.Store.WithTransaction(ctx, func(ctx context.Context) error {
		bracket, matches, err := a.loadBracket(ctx)
		if err != nil {
			return err
		}
		for _, match := range matches {
			if !match.Completed {
				continue
			}
			if err := a.scoreMatch(ctx, bracket, match); err != nil {
				return err
			}
		}
		return nil
	})
}

// advanceWinner back-fills the winner's name into the slot of the next-round
// match it feeds. The Championship feeds nothing.
func (a *API) advanceWinner(ctx context.Context, match store.Match) error {
	next, ok, err := engine.NextMatch(match.Round, match.MatchNumber-1)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	bracket, _, err := a.loadBracket(ctx)
	if err != nil {
		return err
	}
	nm, err := bracket.MatchAt(next.Round, next.Index)
	if err != nil {
		return err
	}
	return a.Store.SetMatchSlotTeam(ctx, nm.ID, next.Slot, match.WinnerTeam())
}

// scoreMatch computes and stores the point value of every prediction on one
// completed match. Predictions past round 1 are gated by bracket path
// validation first: a prediction whose forecast matchup never happened earns
// zero regardless of the picked slot.
func (a *API) scoreMatch(ctx context.Context, bracket *engine.Bracket, match store.Match) error {
	preds, err := a.Store.ListMatchPredictions(ctx, match.ID)
	if err != nil {
		return err
	}
	res := engine.ResultFromMatch(match)

	for _, p := range preds {
		valid := true
		if match.Round > engine.FirstRound {
			userPreds, err := a.loadUserPreds(ctx, p.UserID)
			if err != nil {
				return err
			}
			valid, err = a.Config.ValidBracketPath(bracket, userPreds, match)
			if err != nil {
				return err
			}
		}

		points := decimal.Zero
		if valid {
			points = a.Config.Points(p.PredictedSlot, p.PredictedTotalSets, res)
		}
		f, _ := points.Float64()
		if err := a.Store.SetPointsEarned(ctx, p.ID, f); err != nil {
			return err
		}
		predictionsScored.Inc()
	}
	return nil
}
