/* models.go
 * Contains the request and response types for the HTTP layer, the Server
 * struct and its Backend interface. Handlers translate between these DTOs
 * and the api package; no business logic lives here.
 */

package web

import (
	"context"

	"bracket-pool/api"
	"bracket-pool/api/store"
)

// Backend is the slice of the api package the HTTP layer uses. Defined here
// so handlers can be tested against a mock.
type Backend interface {
	RegisterUser(ctx context.Context, email, displayName, password string) (store.User, error)
	Authenticate(ctx context.Context, email, password string) (store.User, error)

	GetMatches(ctx context.Context) ([]store.Match, error)
	SeedBracket(ctx context.Context, teams []string) ([]store.Match, error)

	CreatePrediction(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error)
	UpdatePrediction(ctx context.Context, userID, matchID string, slot store.Slot, totalSets int) (store.Prediction, error)
	DeletePrediction(ctx context.Context, userID, matchID string) (int64, error)
	GetUserPredictions(ctx context.Context, userID string) ([]store.Prediction, error)
	SubmitBracket(ctx context.Context, userID string) error

	CompleteMatch(ctx context.Context, matchID string, winningSlot store.Slot, setsWonA, setsWonB int) (store.Match, error)
	CompleteMatchByName(ctx context.Context, matchID, winnerName string, loserSets int) (store.Match, error)
	RecalculateMatch(ctx context.Context, matchID string) error
	RecalculateAll(ctx context.Context) error

	GenerateLeaderboard(ctx context.Context) (store.Leaderboard, error)
	GetLeaderboard(ctx context.Context) (store.Leaderboard, error)
}

var _ Backend = (*api.API)(nil)

// Config carries the server's listen address and secrets.
type Config struct {
	Addr       string
	JWTSecret  string
	AdminToken string
	Backend    Backend
}

// Server holds the dependencies the handler methods close over.
type Server struct {
	backend    Backend
	jwtSecret  []byte
	adminToken string
}

type signupRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	DisplayName      string `json:"display_name"`
	BracketSubmitted bool   `json:"bracket_submitted"`
}

type predictionRequest struct {
	Slot      store.Slot `json:"slot"`
	TotalSets int        `json:"total_sets"`
}

type deleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// completeRequest records a match result. Either WinningSlot is given with
// both set counts, or WinnerName is given with the loser's set count.
type completeRequest struct {
	WinningSlot store.Slot `json:"winning_slot,omitempty"`
	SetsWonA    int        `json:"sets_won_a,omitempty"`
	SetsWonB    int        `json:"sets_won_b,omitempty"`
	WinnerName  string     `json:"winner_name,omitempty"`
	LoserSets   int        `json:"loser_sets,omitempty"`
}

type seedRequest struct {
	Teams []string `json:"teams"`
}

type errorResponse struct {
	Error string `json:"error"`
}
