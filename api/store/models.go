/* models.go
 * Contains the structs and helper functions that relate to DB objects
 */

package store

import "time"

// TeamTBD is the placeholder occupying a match slot until the feeding
// matches have produced a winner.
const TeamTBD = "TBD"

// Slot identifies one of the two sides of a match.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// Valid reports whether s is one of the two recognised slots.
func (s Slot) Valid() bool {
	return s == SlotA || s == SlotB
}

// Other returns the opposing slot.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Match is a single contest in the tournament. Round 1 matches are seeded
// with concrete teams; later rounds start as TBD placeholders and are
// back-filled as earlier rounds complete.
type Match struct {
	ID          string `bson:"_id,omitempty"`
	Round       int    `bson:"round"`
	MatchNumber int    `bson:"match_number"` // 1-based, unique within a round
	SlotATeam   string `bson:"slot_a_team"`
	SlotBTeam   string `bson:"slot_b_team"`
	Completed   bool   `bson:"completed"`
	WinningSlot Slot   `bson:"winning_slot,omitempty"`
	SetsWonA    int    `bson:"sets_won_a,omitempty"`
	SetsWonB    int    `bson:"sets_won_b,omitempty"`
}

// SlotTeam returns the team name occupying the given slot.
func (m Match) SlotTeam(s Slot) string {
	if s == SlotA {
		return m.SlotATeam
	}
	return m.SlotBTeam
}

// WinnerTeam returns the team name that won the match, or an empty string if
// the match is not completed.
func (m Match) WinnerTeam() string {
	if !m.Completed || !m.WinningSlot.Valid() {
		return ""
	}
	return m.SlotTeam(m.WinningSlot)
}

// TotalSets returns the number of sets played.
func (m Match) TotalSets() int {
	return m.SetsWonA + m.SetsWonB
}

// Prediction is one user's forecast for one match. PredictedTeamName caches
// the concrete team the user meant; it may be absent for legacy rows and is
// reconstructed on demand. PointsEarned stays nil until the match completes
// and a score is computed.
type Prediction struct {
	ID                 string    `bson:"_id,omitempty"`
	UserID             string    `bson:"user_id"`
	MatchID            string    `bson:"match_id"`
	PredictedSlot      Slot      `bson:"predicted_slot"`
	PredictedTeamName  string    `bson:"predicted_team_name,omitempty"`
	PredictedTotalSets int       `bson:"predicted_total_sets"`
	PointsEarned       *float64  `bson:"points_earned,omitempty"`
	CreatedAt          time.Time `bson:"created_at,omitempty"`
}

// User is a bracket owner. Once BracketSubmitted is set the bracket is
// locked and no prediction belonging to the user may be mutated.
type User struct {
	ID               string    `bson:"_id,omitempty"`
	Email            string    `bson:"email"`
	DisplayName      string    `bson:"display_name,omitempty"`
	PasswordHash     string    `bson:"password_hash"`
	BracketSubmitted bool      `bson:"bracket_submitted"`
	CreatedAt        time.Time `bson:"created_at,omitempty"`
}

// LeaderboardEntry is one user's aggregate standing.
type LeaderboardEntry struct {
	UserID             string  `bson:"user_id"`
	DisplayName        string  `bson:"display_name"`
	TotalPoints        float64 `bson:"total_points"`
	CorrectPredictions int     `bson:"correct_predictions"`
	TotalPredictions   int     `bson:"total_predictions"`
	Rank               int     `bson:"rank"`
}

// Leaderboard is the persisted ranking snapshot for the tournament.
type Leaderboard struct {
	GeneratedAt time.Time          `bson:"generated_at"`
	Entries     []LeaderboardEntry `bson:"entries"`
}
