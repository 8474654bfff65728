/* helpers_test.go
 * Shared fixtures for engine tests: a fully seeded 64-team bracket.
 */

package engine

import (
	"fmt"

	"bracket-pool/api/store"
)

// matchID builds the deterministic id used by test fixtures.
func matchID(round, number int) string {
	return fmt.Sprintf("r%dm%d", round, number)
}

// fullBracketMatches returns all 63 matches of a 64-team tournament. Round 1
// pairs Team 01/Team 02 ... Team 63/Team 64 in order; every later round is a
// TBD placeholder.
func fullBracketMatches() []store.Match {
	var matches []store.Match
	for round := FirstRound; round <= FinalRound; round++ {
		count, _ := MatchesInRound(round)
		for i := 0; i < count; i++ {
			m := store.Match{
				ID:          matchID(round, i+1),
				Round:       round,
				MatchNumber: i + 1,
				SlotATeam:   store.TeamTBD,
				SlotBTeam:   store.TeamTBD,
			}
			if round == FirstRound {
				m.SlotATeam = fmt.Sprintf("Team %02d", 2*i+1)
				m.SlotBTeam = fmt.Sprintf("Team %02d", 2*i+2)
			}
			matches = append(matches, m)
		}
	}
	return matches
}
