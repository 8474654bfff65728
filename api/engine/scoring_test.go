/* scoring_test.go
 * Contains unit tests for the point calculation rules.
 */

package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"bracket-pool/api/store"
)

func TestPoints_WrongWinnerScoresZero(t *testing.T) {
	cfg := DefaultConfig()
	for round := 1; round <= 6; round++ {
		for sets := 3; sets <= 5; sets++ {
			pts := cfg.Points(store.SlotA, sets, Result{WinningSlot: store.SlotB, TotalSets: sets, Round: round})
			assert.True(t, pts.IsZero(), "round %d sets %d", round, sets)
		}
	}
}

func TestPoints_CorrectWinnerWrongSets(t *testing.T) {
	cfg := DefaultConfig()
	pts := cfg.Points(store.SlotA, 5, Result{WinningSlot: store.SlotA, TotalSets: 3, Round: 6})
	assert.True(t, pts.Equal(decimal.NewFromInt(1)), "got %s", pts)
}

func TestPoints_CorrectWinnerAndSets_RoundMultipliers(t *testing.T) {
	cfg := DefaultConfig()
	expected := map[int]string{
		1: "1.10",
		2: "1.25",
		3: "1.50",
		4: "1.75",
		5: "2.00",
		6: "2.50",
	}
	for round, want := range expected {
		pts := cfg.Points(store.SlotB, 4, Result{WinningSlot: store.SlotB, TotalSets: 4, Round: round})
		assert.True(t, pts.Equal(decimal.RequireFromString(want)), "round %d: got %s want %s", round, pts, want)
	}
}

// TestPoints_UnknownRoundDefaultsToBase covers the defensive multiplier
// default: a round outside the table still pays the 1-point base.
func TestPoints_UnknownRoundDefaultsToBase(t *testing.T) {
	cfg := DefaultConfig()
	pts := cfg.Points(store.SlotA, 3, Result{WinningSlot: store.SlotA, TotalSets: 3, Round: 99})
	assert.True(t, pts.Equal(decimal.NewFromInt(1)), "got %s", pts)
}

// TestPoints_Bounds checks 0 <= score <= 2.5 across the whole input space.
func TestPoints_Bounds(t *testing.T) {
	cfg := DefaultConfig()
	max := decimal.RequireFromString("2.5")
	for round := 1; round <= 6; round++ {
		for _, slot := range []store.Slot{store.SlotA, store.SlotB} {
			for predSets := 3; predSets <= 5; predSets++ {
				for actualSets := 3; actualSets <= 5; actualSets++ {
					pts := cfg.Points(slot, predSets, Result{WinningSlot: store.SlotA, TotalSets: actualSets, Round: round})
					assert.False(t, pts.IsNegative())
					assert.True(t, pts.LessThanOrEqual(max))
				}
			}
		}
	}
}

// TestPoints_OpeningRoundExample pins the documented worked example: a
// round 1 sweep called exactly pays 1.10, the same pick with the set count
// missed pays the flat 1.
func TestPoints_OpeningRoundExample(t *testing.T) {
	cfg := DefaultConfig()
	match := store.Match{
		Round:       1,
		MatchNumber: 1,
		SlotATeam:   "Nebraska",
		SlotBTeam:   "Montana State",
		Completed:   true,
		WinningSlot: store.SlotA,
		SetsWonA:    3,
		SetsWonB:    0,
	}

	pts := cfg.Points(store.SlotA, 3, ResultFromMatch(match))
	assert.True(t, pts.Equal(decimal.RequireFromString("1.10")), "got %s", pts)

	match.SetsWonB = 1 // 3-1, four sets
	pts = cfg.Points(store.SlotA, 3, ResultFromMatch(match))
	assert.True(t, pts.Equal(decimal.NewFromInt(1)), "got %s", pts)
}

func TestResultFromMatch(t *testing.T) {
	m := store.Match{Round: 4, Completed: true, WinningSlot: store.SlotB, SetsWonA: 2, SetsWonB: 3}
	res := ResultFromMatch(m)
	assert.Equal(t, store.SlotB, res.WinningSlot)
	assert.Equal(t, 5, res.TotalSets)
	assert.Equal(t, 4, res.Round)
}

func TestMultiplier_VersionedConfigOverride(t *testing.T) {
	cfg := Config{
		Version:     3,
		Multipliers: map[int]decimal.Decimal{1: decimal.NewFromInt(2)},
		Policy:      PolicyStrictPair,
	}
	pts := cfg.Points(store.SlotA, 3, Result{WinningSlot: store.SlotA, TotalSets: 3, Round: 1})
	assert.True(t, pts.Equal(decimal.NewFromInt(2)))
}
