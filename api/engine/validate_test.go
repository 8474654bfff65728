/* validate_test.go
 * Contains unit tests for bracket path validation, including the policy
 * difference between the strict paired-teams rule and the legacy
 * winner-only rule.
 */

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracket-pool/api/store"
)

// round2Fixture builds a minimal two-round tree: r1m1 Alpha/Bravo, r1m2
// Charlie/Delta feeding r2m1, which has been completed with the given slot
// teams and winner.
func round2Fixture(slotA, slotB string, winner store.Slot) []store.Match {
	return []store.Match{
		{ID: "r1m1", Round: 1, MatchNumber: 1, SlotATeam: "Alpha", SlotBTeam: "Bravo"},
		{ID: "r1m2", Round: 1, MatchNumber: 2, SlotATeam: "Charlie", SlotBTeam: "Delta"},
		{ID: "r2m1", Round: 2, MatchNumber: 1, SlotATeam: slotA, SlotBTeam: slotB,
			Completed: true, WinningSlot: winner, SetsWonA: 3, SetsWonB: 1},
	}
}

func TestValidBracketPath_Round1AlwaysValid(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBracket(fullBracketMatches())
	m, err := b.MatchAt(1, 5)
	require.NoError(t, err)

	valid, err := cfg.ValidBracketPath(b, nil, m)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidBracketPath_IncompleteMatchIsMoot(t *testing.T) {
	cfg := DefaultConfig()
	matches := round2Fixture("Alpha", "Delta", store.SlotA)
	matches[2].Completed = false
	b := NewBracket(matches)

	valid, err := cfg.ValidBracketPath(b, nil, matches[2])
	require.NoError(t, err)
	assert.False(t, valid)
}

// TestValidBracketPath_WrongPairInvalidUnderStrict is the load-bearing
// scenario: the user forecast Alpha and Charlie to meet, the actual match
// was Alpha vs Delta. Even though the user's winning-slot pick matches the
// actual winner, the forecast pair is wrong and the prediction is dead.
func TestValidBracketPath_WrongPairInvalidUnderStrict(t *testing.T) {
	cfg := DefaultConfig()
	matches := round2Fixture("Alpha", "Delta", store.SlotA)
	b := NewBracket(matches)
	preds := map[string]store.Prediction{
		"r1m1": pred("r1m1", store.SlotA), // Alpha
		"r1m2": pred("r1m2", store.SlotA), // Charlie, who actually lost
		"r2m1": pred("r2m1", store.SlotA),
	}

	valid, err := cfg.ValidBracketPath(b, preds, matches[2])
	require.NoError(t, err)
	assert.False(t, valid)
}

// TestValidBracketPath_WrongPairValidUnderLoose documents the legacy policy
// difference on the exact same bracket: winner-only accepts the prediction
// because the actual winner (Alpha) appears among the forecast teams.
func TestValidBracketPath_WrongPairValidUnderLoose(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Policy = PolicyWinnerOnly
	matches := round2Fixture("Alpha", "Delta", store.SlotA)
	b := NewBracket(matches)
	preds := map[string]store.Prediction{
		"r1m1": pred("r1m1", store.SlotA),
		"r1m2": pred("r1m2", store.SlotA),
		"r2m1": pred("r2m1", store.SlotA),
	}

	valid, err := cfg.ValidBracketPath(b, preds, matches[2])
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidBracketPath_CorrectPairValid(t *testing.T) {
	cfg := DefaultConfig()
	matches := round2Fixture("Alpha", "Delta", store.SlotA)
	b := NewBracket(matches)
	preds := map[string]store.Prediction{
		"r1m1": pred("r1m1", store.SlotA), // Alpha
		"r1m2": pred("r1m2", store.SlotB), // Delta
		"r2m1": pred("r2m1", store.SlotB),
	}

	valid, err := cfg.ValidBracketPath(b, preds, matches[2])
	require.NoError(t, err)
	assert.True(t, valid)
}

// TestValidBracketPath_EitherOrientationAccepted: the user only has to call
// the set of participants, not which physical slot each occupies.
func TestValidBracketPath_EitherOrientationAccepted(t *testing.T) {
	cfg := DefaultConfig()
	// Actual slots are swapped relative to the feeding order.
	matches := round2Fixture("Delta", "Alpha", store.SlotB)
	b := NewBracket(matches)
	preds := map[string]store.Prediction{
		"r1m1": pred("r1m1", store.SlotA), // Alpha -> slot A side
		"r1m2": pred("r1m2", store.SlotB), // Delta -> slot B side
		"r2m1": pred("r2m1", store.SlotA),
	}

	valid, err := cfg.ValidBracketPath(b, preds, matches[2])
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidBracketPath_MissingAncestorInvalid(t *testing.T) {
	cfg := DefaultConfig()
	matches := round2Fixture("Alpha", "Delta", store.SlotA)
	b := NewBracket(matches)
	preds := map[string]store.Prediction{
		"r1m1": pred("r1m1", store.SlotA),
		// No r1m2 prediction: the bracket is broken at that node.
		"r2m1": pred("r2m1", store.SlotA),
	}

	valid, err := cfg.ValidBracketPath(b, preds, matches[2])
	require.NoError(t, err)
	assert.False(t, valid)
}

// TestValidBracketPath_NameComparisonNormalized: cached names may carry
// different casing or padding than the scraped match rows.
func TestValidBracketPath_NameComparisonNormalized(t *testing.T) {
	cfg := DefaultConfig()
	matches := round2Fixture("Alpha", "Delta", store.SlotA)
	b := NewBracket(matches)

	p1 := pred("r1m1", store.SlotA)
	p1.PredictedTeamName = "  ALPHA "
	p2 := pred("r1m2", store.SlotB)
	p2.PredictedTeamName = "delta"
	preds := map[string]store.Prediction{
		"r1m1": p1,
		"r1m2": p2,
		"r2m1": pred("r2m1", store.SlotA),
	}

	valid, err := cfg.ValidBracketPath(b, preds, matches[2])
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestNormalizeTeamName(t *testing.T) {
	assert.Equal(t, "montana state", NormalizeTeamName("  Montana   State "))
	assert.Equal(t, "nebraska", NormalizeTeamName("NEBRASKA"))
	assert.Equal(t, "", NormalizeTeamName("   "))
}
