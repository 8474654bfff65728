/* store_interface.go
 * Defines the Interface that the api package depends on, so the db can be
 * swapped for a mock in tests.
 */

package store

import "context"

type Interface interface {
	// Matches
	InsertMatches(ctx context.Context, matches []Match) error
	GetMatch(ctx context.Context, matchID string) (Match, error)
	ListMatches(ctx context.Context) ([]Match, error)
	ListMatchesUpToRound(ctx context.Context, maxRound int) ([]Match, error)
	RecordMatchResult(ctx context.Context, matchID string, winningSlot Slot, setsWonA, setsWonB int) error
	SetMatchSlotTeam(ctx context.Context, matchID string, slot Slot, team string) error

	// Predictions
	GetPrediction(ctx context.Context, userID, matchID string) (Prediction, error)
	ListUserPredictions(ctx context.Context, userID string) ([]Prediction, error)
	ListMatchPredictions(ctx context.Context, matchID string) ([]Prediction, error)
	ListAllPredictions(ctx context.Context) ([]Prediction, error)
	InsertPrediction(ctx context.Context, prediction Prediction) error
	UpdatePrediction(ctx context.Context, prediction Prediction) error
	SetPointsEarned(ctx context.Context, predictionID string, points float64) error
	DeletePredictions(ctx context.Context, userID string, matchIDs []string) (int64, error)

	// Users
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	SetBracketSubmitted(ctx context.Context, userID string, submitted bool) error

	// Leaderboard
	StoreLeaderboard(ctx context.Context, lb Leaderboard) error
	FetchLeaderboard(ctx context.Context) (Leaderboard, error)

	// Transactions
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ Interface = (*Store)(nil)
