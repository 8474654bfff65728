/* leaderboard.go
 * Contains the public methods for generating and fetching the leaderboard.
 * Generation aggregates every user's stored point values; ranking is by total
 * points, ties broken by number of correct predictions.
 */

package api

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"bracket-pool/api/store"
)

// GenerateLeaderboard recomputes the ranking from every stored prediction,
// persists the snapshot and returns it.
func (a *API) GenerateLeaderboard(ctx context.Context) (store.Leaderboard, error) {
	var (
		users []store.User
		preds []store.Prediction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = a.Store.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		preds, err = a.Store.ListAllPredictions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return store.Leaderboard{}, err
	}

	type tally struct {
		points  decimal.Decimal
		correct int
		total   int
	}
	tallies := make(map[string]*tally, len(users))
	for _, u := range users {
		tallies[u.ID] = &tally{points: decimal.Zero}
	}

	for _, p := range preds {
		t, ok := tallies[p.UserID]
		if !ok {
			// Orphaned prediction, its user row is gone.
			continue
		}
		t.total++
		if p.PointsEarned == nil {
			continue
		}
		earned := decimal.NewFromFloat(*p.PointsEarned)
		t.points = t.points.Add(earned)
		if earned.IsPositive() {
			t.correct++
		}
	}

	entries := make([]store.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		t := tallies[u.ID]
		pts, _ := t.points.Float64()
		entries = append(entries, store.LeaderboardEntry{
			UserID:             u.ID,
			DisplayName:        u.DisplayName,
			TotalPoints:        pts,
			CorrectPredictions: t.correct,
			TotalPredictions:   t.total,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].CorrectPredictions > entries[j].CorrectPredictions
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	lb := store.Leaderboard{
		GeneratedAt: time.Now().UTC(),
		Entries:     entries,
	}
	if err := a.Store.StoreLeaderboard(ctx, lb); err != nil {
		return store.Leaderboard{}, err
	}

	if a.Notifier != nil {
		// Best effort, the snapshot is already persisted.
		_ = a.Notifier.LeaderboardUpdated(lb)
	}
	return lb, nil
}

// GetLeaderboard returns the last persisted leaderboard snapshot.
func (a *API) GetLeaderboard(ctx context.Context) (store.Leaderboard, error) {
	return a.Store.FetchLeaderboard(ctx)
}
