/* api.go
 * Contains the API struct, its constructor and shared helpers. The public
 * methods for interacting with this package are split per concern:
 * predictions.go, results.go, leaderboard.go, setup.go and auth.go. For
 * consistent results, callers should only use these methods, never the store
 * or engine packages directly.
 */

package api

import (
	"context"
	"fmt"
	"sync"

	"bracket-pool/api/engine"
	"bracket-pool/api/store"
)

// Notifier receives announcements about tournament events. A nil Notifier is
// valid and means announcements are disabled.
type Notifier interface {
	MatchCompleted(match store.Match) error
	LeaderboardUpdated(lb store.Leaderboard) error
}

// API provides methods for interacting with the bracket pool data layer.
type API struct {
	Store    store.Interface
	Config   engine.Config
	Notifier Notifier

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewAPI creates a new API instance backed by the provided store, using the
// standard scoring configuration.
func NewAPI(s store.Interface) *API {
	return &API{
		Store:     s,
		Config:    engine.DefaultConfig(),
		userLocks: make(map[string]*sync.Mutex),
	}
}

// PreconditionError means the request was well-formed but the current state
// of the tournament forbids it, e.g. predicting a completed match. Callers
// map it to a 4xx rather than a 5xx.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

func precondition(format string, args ...interface{}) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// lockUser serialises prediction mutations per user so two concurrent edits
// to the same bracket cannot interleave their cascade deletes. Returns the
// unlock function.
func (a *API) lockUser(userID string) func() {
	a.mu.Lock()
	l, ok := a.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		a.userLocks[userID] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// loadBracket fetches the full match tree and indexes it for the engine.
func (a *API) loadBracket(ctx context.Context) (*engine.Bracket, []store.Match, error) {
	matches, err := a.Store.ListMatches(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load matches: %w", err)
	}
	return engine.NewBracket(matches), matches, nil
}

// loadUserPreds fetches one user's predictions keyed by match id, the shape
// the engine works on.
func (a *API) loadUserPreds(ctx context.Context, userID string) (map[string]store.Prediction, error) {
	preds, err := a.Store.ListUserPredictions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load predictions: %w", err)
	}
	return predsByMatchID(preds), nil
}

func predsByMatchID(preds []store.Prediction) map[string]store.Prediction {
	byID := make(map[string]store.Prediction, len(preds))
	for _, p := range preds {
		byID[p.MatchID] = p
	}
	return byID
}
