/* handlers_test.go
 * Contains unit tests for the HTTP handlers using httptest and a function
 * field mock of the Backend interface.
 */

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-pool/api"
	"bracket-pool/api/store"
)

// mockBackend implements Backend via overridable function fields; unset
// methods return zero values.
type mockBackend struct {
	registerUser        func(ctx context.Context, email, displayName, password string) (store.User, error)
	authenticateUser    func(ctx context.Context, email, password string) (store.User, error)
	getMatches          func(ctx context.Context) ([]store.Match, error)
	seedBracket         func(ctx context.Context, teams []string) ([]store.Match, error)
	createPrediction    func(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error)
	updatePrediction    func(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error)
	deletePrediction    func(ctx context.Context, userID, matchID string) (int64, error)
	getUserPredictions  func(ctx context.Context, userID string) ([]store.Prediction, error)
	submitBracket       func(ctx context.Context, userID string) error
	completeMatch       func(ctx context.Context, matchID string, winningSlot store.Slot, setsWonA, setsWonB int) (store.Match, error)
	completeMatchByName func(ctx context.Context, matchID, winnerName string, loserSets int) (store.Match, error)
	recalculateMatch    func(ctx context.Context, matchID string) error
	recalculateAll      func(ctx context.Context) error
	generateLeaderboard func(ctx context.Context) (store.Leaderboard, error)
	getLeaderboard      func(ctx context.Context) (store.Leaderboard, error)
}

func (m *mockBackend) RegisterUser(ctx context.Context, email, displayName, password string) (store.User, error) {
	if m.registerUser != nil {
		return m.registerUser(ctx, email, displayName, password)
	}
	return store.User{}, nil
}

func (m *mockBackend) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	if m.authenticateUser != nil {
		return m.authenticateUser(ctx, email, password)
	}
	return store.User{}, nil
}

func (m *mockBackend) GetMatches(ctx context.Context) ([]store.Match, error) {
	if m.getMatches != nil {
		return m.getMatches(ctx)
	}
	return nil, nil
}

func (m *mockBackend) SeedBracket(ctx context.Context, teams []string) ([]store.Match, error) {
	if m.seedBracket != nil {
		return m.seedBracket(ctx, teams)
	}
	return nil, nil
}

func (m *mockBackend) CreatePrediction(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error) {
	if m.createPrediction != nil {
		return m.createPrediction(ctx, userID, matchID, slot, totalSets)
	}
	return store.Prediction{}, nil
}

func (m *mockBackend) UpdatePrediction(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error) {
	if m.updatePrediction != nil {
		return m.updatePrediction(ctx, userID, matchID, slot, totalSets)
	}
	return store.Prediction{}, nil
}

func (m *mockBackend) DeletePrediction(ctx context.Context, userID, matchID string) (int64, error) {
	if m.deletePrediction != nil {
		return m.deletePrediction(ctx, userID, matchID)
	}
	return 0, nil
}

func (m *mockBackend) GetUserPredictions(ctx context.Context, userID string) ([]store.Prediction, error) {
	if m.getUserPredictions != nil {
		return m.getUserPredictions(ctx, userID)
	}
	return nil, nil
}

func (m *mockBackend) SubmitBracket(ctx context.Context, userID string) error {
	if m.submitBracket != nil {
		return m.submitBracket(ctx, userID)
	}
	return nil
}

func (m *mockBackend) CompleteMatch(ctx context.Context, matchID string, winningSlot store.Slot, setsWonA, setsWonB int) (store.Match, error) {
	if m.completeMatch != nil {
		return m.completeMatch(ctx, matchID, winningSlot, setsWonA, setsWonB)
	}
	return store.Match{}, nil
}

func (m *mockBackend) CompleteMatchByName(ctx context.Context, matchID, winnerName string, loserSets int) (store.Match, error) {
	if m.completeMatchByName != nil {
		return m.completeMatchByName(ctx, matchID, winnerName, loserSets)
	}
	return store.Match{}, nil
}

func (m *mockBackend) RecalculateMatch(ctx context.Context, matchID string) error {
	if m.recalculateMatch != nil {
		return m.recalculateMatch(ctx, matchID)
	}
	return nil
}

func (m *mockBackend) RecalculateAll(ctx context.Context) error {
	if m.recalculateAll != nil {
		return m.recalculateAll(ctx)
	}
	return nil
}

func (m *mockBackend) GenerateLeaderboard(ctx context.Context) (store.Leaderboard, error) {
	if m.generateLeaderboard != nil {
		return m.generateLeaderboard(ctx)
	}
	return store.Leaderboard{}, nil
}

func (m *mockBackend) GetLeaderboard(ctx context.Context) (store.Leaderboard, error) {
	if m.getLeaderboard != nil {
		return m.getLeaderboard(ctx)
	}
	return store.Leaderboard{}, nil
}

var _ Backend = (*mockBackend)(nil)

func newTestServer(backend Backend) *Server {
	return NewServer(Config{
		Backend:    backend,
		JWTSecret:  "test-secret",
		AdminToken: "admin-token",
	})
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func TestHandleLogin_IssuesUsableToken(t *testing.T) {
	backend := &mockBackend{
		authenticateUser: func(ctx context.Context, email, password string) (store.User, error) {
			return store.User{ID: "user1", Email: email, DisplayName: "Pat"}, nil
		},
		getUserPredictions: func(ctx context.Context, uid string) ([]store.Prediction, error) {
			assert.Equal(t, "user1", uid)
			return []store.Prediction{{ID: "p1", UserID: uid, MatchID: "r1m1"}}, nil
		},
	}
	s := newTestServer(backend)
	router := s.Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		jsonBody(t, loginRequest{Email: "pat@example.com", Password: "hunter2hunter2"})))
	require.Equal(t, http.StatusOK, rec.Code)

	var auth authResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&auth))
	require.NotEmpty(t, auth.Token)
	assert.Equal(t, "user1", auth.User.ID)

	// The issued token authenticates a protected route.
	req := httptest.NewRequest(http.MethodGet, "/predictions", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	backend := &mockBackend{
		authenticateUser: func(ctx context.Context, email, password string) (store.User, error) {
			return store.User{}, api.ErrInvalidCredentials
		},
	}
	s := newTestServer(backend)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		jsonBody(t, loginRequest{Email: "x@example.com", Password: "nope"})))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(&mockBackend{})
	router := s.Routes()

	for _, tc := range []struct {
		method, path string
	}{
		{http.MethodGet, "/predictions"},
		{http.MethodPost, "/matches/r1m1/prediction"},
		{http.MethodPost, "/bracket/submit"},
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestHandleCreatePrediction_MapsPreconditionTo422(t *testing.T) {
	backend := &mockBackend{
		createPrediction: func(ctx context.Context, uid, mid string, slot store.Slot, sets int) (store.Prediction, error) {
			return store.Prediction{}, &api.PreconditionError{Reason: "match is already completed, predictions are closed"}
		},
	}
	s := newTestServer(backend)
	token, err := s.issueToken("user1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/matches/r1m1/prediction",
		jsonBody(t, predictionRequest{Slot: store.SlotA, TotalSets: 3}))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.Error, "completed")
}

func TestHandleCreatePrediction_PassesThroughParams(t *testing.T) {
	var gotMatchID string
	var gotSlot store.Slot
	backend := &mockBackend{
		createPrediction: func(ctx context.Context, uid, mid string, slot store.Slot, sets int) (store.Prediction, error) {
			gotMatchID = mid
			gotSlot = slot
			return store.Prediction{ID: "p1", UserID: uid, MatchID: mid, PredictedSlot: slot, PredictedTotalSets: sets}, nil
		},
	}
	s := newTestServer(backend)
	token, err := s.issueToken("user1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/matches/r3m2/prediction",
		jsonBody(t, predictionRequest{Slot: store.SlotB, TotalSets: 4}))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "r3m2", gotMatchID)
	assert.Equal(t, store.SlotB, gotSlot)
}

func TestAdminRoutes_RequireAdminToken(t *testing.T) {
	s := newTestServer(&mockBackend{})
	router := s.Routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/recalculate", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/admin/recalculate", nil)
	req.Header.Set("X-Admin-Token", "admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleCompleteMatch_DispatchesOnWinnerName(t *testing.T) {
	var byName, bySlot bool
	backend := &mockBackend{
		completeMatch: func(ctx context.Context, mid string, slot store.Slot, a, b int) (store.Match, error) {
			bySlot = true
			return store.Match{ID: mid}, nil
		},
		completeMatchByName: func(ctx context.Context, mid, name string, loserSets int) (store.Match, error) {
			byName = true
			assert.Equal(t, "Nebraska", name)
			return store.Match{ID: mid}, nil
		},
	}
	s := newTestServer(backend)
	router := s.Routes()

	req := httptest.NewRequest(http.MethodPost, "/admin/matches/r1m1/complete",
		jsonBody(t, completeRequest{WinnerName: "Nebraska", LoserSets: 1}))
	req.Header.Set("X-Admin-Token", "admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, byName)
	assert.False(t, bySlot)

	req = httptest.NewRequest(http.MethodPost, "/admin/matches/r1m1/complete",
		jsonBody(t, completeRequest{WinningSlot: store.SlotA, SetsWonA: 3, SetsWonB: 1}))
	req.Header.Set("X-Admin-Token", "admin-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bySlot)
}

func TestHandleGetLeaderboard_NotFoundBeforeFirstCompute(t *testing.T) {
	backend := &mockBackend{
		getLeaderboard: func(ctx context.Context) (store.Leaderboard, error) {
			return store.Leaderboard{}, mongo.ErrNoDocuments
		},
	}
	s := newTestServer(backend)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leaderboard", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
