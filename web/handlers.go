/* handlers.go
 * Contains the HTTP handler methods and the router. Handlers decode the
 * request, call the backend and translate errors: precondition failures map
 * to 422, missing documents to 404, bad credentials to 401.
 */

package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"bracket-pool/api"
	"bracket-pool/api/store"
)

// NewServer builds a Server from the config.
func NewServer(cfg Config) *Server {
	return &Server{
		backend:    cfg.Backend,
		jwtSecret:  []byte(cfg.JWTSecret),
		adminToken: cfg.AdminToken,
	}
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
	}))

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)
	r.Get("/matches", s.handleListMatches)
	r.Get("/leaderboard", s.handleGetLeaderboard)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/predictions", s.handleListPredictions)
		r.Post("/matches/{matchID}/prediction", s.handleCreatePrediction)
		r.Put("/matches/{matchID}/prediction", s.handleUpdatePrediction)
		r.Delete("/matches/{matchID}/prediction", s.handleDeletePrediction)
		r.Post("/bracket/submit", s.handleSubmitBracket)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/seed", s.handleSeedBracket)
		r.Post("/matches/{matchID}/complete", s.handleCompleteMatch)
		r.Post("/matches/{matchID}/recalculate", s.handleRecalculateMatch)
		r.Post("/recalculate", s.handleRecalculateAll)
		r.Post("/leaderboard/refresh", s.handleRefreshLeaderboard)
	})

	return r
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, err := s.backend.RegisterUser(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: viewUser(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	user, err := s.backend.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: viewUser(user)})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.backend.GetMatches(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (s *Server) handleCreatePrediction(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	p, err := s.backend.CreatePrediction(r.Context(), userID(r), chi.URLParam(r, "matchID"), req.Slot, req.TotalSets)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePrediction(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	p, err := s.backend.UpdatePrediction(r.Context(), userID(r), chi.URLParam(r, "matchID"), req.Slot, req.TotalSets)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePrediction(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.backend.DeletePrediction(r.Context(), userID(r), chi.URLParam(r, "matchID"))
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	preds, err := s.backend.GetUserPredictions(r.Context(), userID(r))
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, preds)
}

func (s *Server) handleSubmitBracket(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.SubmitBracket(r.Context(), userID(r)); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := s.backend.GetLeaderboard(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (s *Server) handleSeedBracket(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	matches, err := s.backend.SeedBracket(r.Context(), req.Teams)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, matches)
}

func (s *Server) handleCompleteMatch(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	matchID := chi.URLParam(r, "matchID")
	if req.WinnerName != "" {
		match, err := s.backend.CompleteMatchByName(r.Context(), matchID, req.WinnerName, req.LoserSets)
		if err != nil {
			writeBackendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, match)
		return
	}

	match, err := s.backend.CompleteMatch(r.Context(), matchID, req.WinningSlot, req.SetsWonA, req.SetsWonB)
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) handleRecalculateMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.RecalculateMatch(r.Context(), chi.URLParam(r, "matchID")); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecalculateAll(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.RecalculateAll(r.Context()); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefreshLeaderboard(w http.ResponseWriter, r *http.Request) {
	lb, err := s.backend.GenerateLeaderboard(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func viewUser(u store.User) userView {
	return userView{
		ID:               u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		BracketSubmitted: u.BracketSubmitted,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeBackendError maps api package errors onto HTTP statuses.
func writeBackendError(w http.ResponseWriter, err error) {
	var pe *api.PreconditionError
	switch {
	case errors.As(err, &pe):
		writeError(w, http.StatusUnprocessableEntity, pe.Reason)
	case errors.Is(err, api.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, mongo.ErrNoDocuments):
		writeError(w, http.StatusNotFound, "not found")
	default:
		log.Println("internal error:", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
