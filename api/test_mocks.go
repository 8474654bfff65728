/* test_mocks.go
 * Contains an in-memory store.Interface implementation for testing the API
 * package without a database.
 */

package api

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"

	"bracket-pool/api/store"
)

// MockStore implements store.Interface over in-memory maps.
type MockStore struct {
	Matches     map[string]store.Match
	Predictions map[string]store.Prediction // keyed by prediction id
	Users       map[string]store.User
	Leaderboard *store.Leaderboard

	// Error injection for testing error paths
	GetMatchError          error
	ListMatchesError       error
	InsertPredictionError  error
	SetPointsEarnedError   error
	DeletePredictionsError error
	WithTransactionError   error
}

var _ store.Interface = (*MockStore)(nil)

// NewMockStore creates a MockStore with empty collections.
func NewMockStore() *MockStore {
	return &MockStore{
		Matches:     make(map[string]store.Match),
		Predictions: make(map[string]store.Prediction),
		Users:       make(map[string]store.User),
	}
}

// region Matches

func (m *MockStore) InsertMatches(ctx context.Context, matches []store.Match) error {
	for _, match := range matches {
		m.Matches[match.ID] = match
	}
	return nil
}

func (m *MockStore) GetMatch(ctx context.Context, matchID string) (store.Match, error) {
	if m.GetMatchError != nil {
		return store.Match{}, m.GetMatchError
	}
	match, ok := m.Matches[matchID]
	if !ok {
		return store.Match{}, mongo.ErrNoDocuments
	}
	return match, nil
}

func (m *MockStore) ListMatches(ctx context.Context) ([]store.Match, error) {
	if m.ListMatchesError != nil {
		return nil, m.ListMatchesError
	}
	matches := make([]store.Match, 0, len(m.Matches))
	for _, match := range m.Matches {
		matches = append(matches, match)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
	return matches, nil
}

func (m *MockStore) ListMatchesUpToRound(ctx context.Context, maxRound int) ([]store.Match, error) {
	all, err := m.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	var matches []store.Match
	for _, match := range all {
		if match.Round <= maxRound {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (m *MockStore) RecordMatchResult(ctx context.Context, matchID string, winningSlot store.Slot, setsWonA, setsWonB int) error {
	match, ok := m.Matches[matchID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	match.Completed = true
	match.WinningSlot = winningSlot
	match.SetsWonA = setsWonA
	match.SetsWonB = setsWonB
	m.Matches[matchID] = match
	return nil
}

func (m *MockStore) SetMatchSlotTeam(ctx context.Context, matchID string, slot store.Slot, team string) error {
	match, ok := m.Matches[matchID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if slot == store.SlotA {
		match.SlotATeam = team
	} else {
		match.SlotBTeam = team
	}
	m.Matches[matchID] = match
	return nil
}

// endregion

// region Predictions

func (m *MockStore) GetPrediction(ctx context.Context, userID, matchID string) (store.Prediction, error) {
	for _, p := range m.Predictions {
		if p.UserID == userID && p.MatchID == matchID {
			return p, nil
		}
	}
	return store.Prediction{}, mongo.ErrNoDocuments
}

func (m *MockStore) ListUserPredictions(ctx context.Context, userID string) ([]store.Prediction, error) {
	var preds []store.Prediction
	for _, p := range m.Predictions {
		if p.UserID == userID {
			preds = append(preds, p)
		}
	}
	sortPredictions(preds)
	return preds, nil
}

func (m *MockStore) ListMatchPredictions(ctx context.Context, matchID string) ([]store.Prediction, error) {
	var preds []store.Prediction
	for _, p := range m.Predictions {
		if p.MatchID == matchID {
			preds = append(preds, p)
		}
	}
	sortPredictions(preds)
	return preds, nil
}

func (m *MockStore) ListAllPredictions(ctx context.Context) ([]store.Prediction, error) {
	preds := make([]store.Prediction, 0, len(m.Predictions))
	for _, p := range m.Predictions {
		preds = append(preds, p)
	}
	sortPredictions(preds)
	return preds, nil
}

func sortPredictions(preds []store.Prediction) {
	sort.Slice(preds, func(i, j int) bool {
		if !preds[i].CreatedAt.Equal(preds[j].CreatedAt) {
			return preds[i].CreatedAt.Before(preds[j].CreatedAt)
		}
		return preds[i].ID < preds[j].ID
	})
}

func (m *MockStore) InsertPrediction(ctx context.Context, prediction store.Prediction) error {
	if m.InsertPredictionError != nil {
		return m.InsertPredictionError
	}
	m.Predictions[prediction.ID] = prediction
	return nil
}

func (m *MockStore) UpdatePrediction(ctx context.Context, prediction store.Prediction) error {
	existing, ok := m.Predictions[prediction.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	existing.PredictedSlot = prediction.PredictedSlot
	existing.PredictedTeamName = prediction.PredictedTeamName
	existing.PredictedTotalSets = prediction.PredictedTotalSets
	m.Predictions[prediction.ID] = existing
	return nil
}

func (m *MockStore) SetPointsEarned(ctx context.Context, predictionID string, points float64) error {
	if m.SetPointsEarnedError != nil {
		return m.SetPointsEarnedError
	}
	p, ok := m.Predictions[predictionID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	p.PointsEarned = &points
	m.Predictions[predictionID] = p
	return nil
}

func (m *MockStore) DeletePredictions(ctx context.Context, userID string, matchIDs []string) (int64, error) {
	if m.DeletePredictionsError != nil {
		return 0, m.DeletePredictionsError
	}
	wanted := make(map[string]bool, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = true
	}
	var deleted int64
	for id, p := range m.Predictions {
		if p.UserID == userID && wanted[p.MatchID] {
			delete(m.Predictions, id)
			deleted++
		}
	}
	return deleted, nil
}

// endregion

// region Users

func (m *MockStore) CreateUser(ctx context.Context, user store.User) error {
	m.Users[user.ID] = user
	return nil
}

func (m *MockStore) GetUser(ctx context.Context, userID string) (store.User, error) {
	user, ok := m.Users[userID]
	if !ok {
		return store.User{}, mongo.ErrNoDocuments
	}
	return user, nil
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	for _, u := range m.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return store.User{}, mongo.ErrNoDocuments
}

func (m *MockStore) ListUsers(ctx context.Context) ([]store.User, error) {
	users := make([]store.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockStore) SetBracketSubmitted(ctx context.Context, userID string, submitted bool) error {
	user, ok := m.Users[userID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.BracketSubmitted = submitted
	m.Users[userID] = user
	return nil
}

// endregion

// region Leaderboard

func (m *MockStore) StoreLeaderboard(ctx context.Context, lb store.Leaderboard) error {
	m.Leaderboard = &lb
	return nil
}

func (m *MockStore) FetchLeaderboard(ctx context.Context) (store.Leaderboard, error) {
	if m.Leaderboard == nil {
		return store.Leaderboard{}, mongo.ErrNoDocuments
	}
	return *m.Leaderboard, nil
}

// endregion

// WithTransaction runs fn directly; the mock has no sessions.
func (m *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTransactionError != nil {
		return m.WithTransactionError
	}
	return fn(ctx)
}
