/* scoring.go
 * Pure point calculation for a single prediction against an actual result.
 * Scoring rules: correct winner = 1 point; correct winner AND correct total
 * sets = 1 point x the round's multiplier. The multiplier table and the
 * validation policy live in an explicit versioned Config so administrative
 * recomputes stay deterministic even if the table is tuned later.
 */

package engine

import (
	"github.com/shopspring/decimal"

	"bracket-pool/api/store"
)

// Policy selects how ValidBracketPath judges a round-N prediction.
type Policy string

const (
	// PolicyStrictPair requires the user to have forecast both teams that
	// actually met, in either orientation.
	PolicyStrictPair Policy = "strict-pair"
	// PolicyWinnerOnly is the legacy rule: the actual winner must equal
	// either team the user forecast to reach the match. Known to award
	// points to brackets that broke upstream; kept for recomputing
	// historical standings only.
	PolicyWinnerOnly Policy = "winner-only"
)

// Config is the scoring policy in force for a recompute run.
type Config struct {
	Version     int
	Multipliers map[int]decimal.Decimal
	Policy      Policy
}

// DefaultConfig returns the tournament's standard scoring policy.
func DefaultConfig() Config {
	return Config{
		Version: 2,
		Multipliers: map[int]decimal.Decimal{
			1: decimal.RequireFromString("1.10"), // Round of 64
			2: decimal.RequireFromString("1.25"), // Round of 32
			3: decimal.RequireFromString("1.50"), // Sweet 16
			4: decimal.RequireFromString("1.75"), // Elite 8
			5: decimal.RequireFromString("2.00"), // Final Four
			6: decimal.RequireFromString("2.50"), // Championship
		},
		Policy: PolicyStrictPair,
	}
}

// Multiplier returns the round's multiplier, defaulting to 1 for a round
// outside the table. The default should never be hit in practice; it keeps
// garbage round data from zeroing an otherwise correct prediction.
func (c Config) Multiplier(round int) decimal.Decimal {
	if m, ok := c.Multipliers[round]; ok {
		return m
	}
	return decimal.NewFromInt(1)
}

// Result is the completed outcome of a match as seen by the scorer.
type Result struct {
	WinningSlot store.Slot
	TotalSets   int
	Round       int
}

// ResultFromMatch extracts the scoring-relevant outcome of a completed match.
func ResultFromMatch(m store.Match) Result {
	return Result{
		WinningSlot: m.WinningSlot,
		TotalSets:   m.TotalSets(),
		Round:       m.Round,
	}
}

// Points computes the point value of one prediction against one result.
// Wrong winner earns 0, correct winner earns 1, and a correct total-set
// count multiplies the base by the round's multiplier.
func (c Config) Points(predictedSlot store.Slot, predictedTotalSets int, res Result) decimal.Decimal {
	if predictedSlot != res.WinningSlot {
		return decimal.Zero
	}
	points := decimal.NewFromInt(1)
	if predictedTotalSets == res.TotalSets {
		points = points.Mul(c.Multiplier(res.Round))
	}
	return points
}
