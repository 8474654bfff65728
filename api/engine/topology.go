/* topology.go
 * Pure description of the 64-team single-elimination tree: which two
 * previous-round matches feed a given match, and the inverse. The pairing is
 * NOT uniform across rounds: rounds 2, 3 and 6 pair sequentially, round 4
 * (Elite 8) pairs against the mirrored Sweet 16 position because the bracket
 * crosses over between regions, and round 5 (Final Four) cross-pairs Elite 8
 * matches 0-2 and 1-3. Everything here is table-driven and 0-indexed.
 */

package engine

import (
	"fmt"

	"bracket-pool/api/store"
)

const (
	// FirstRound is the Round of 64.
	FirstRound = 1
	// FinalRound is the Championship.
	FinalRound = 6
)

// TopologyError reports a pairing request outside the fixed 64-team, 6-round
// tree. It is a programmer or data error, never a routine outcome.
type TopologyError struct {
	Op    string
	Round int
	Index int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("bracket topology: %s: no such position round=%d index=%d", e.Op, e.Round, e.Index)
}

// MatchesInRound returns the number of matches played in a round
// (32, 16, 8, 4, 2, 1 for rounds 1..6).
func MatchesInRound(round int) (int, error) {
	if round < FirstRound || round > FinalRound {
		return 0, &TopologyError{Op: "matches in round", Round: round}
	}
	return 1 << (FinalRound - round), nil
}

// FeedingMatches returns the two previous-round match indices feeding the
// given match: the first feeds slot A, the second slot B. Round 1 has no
// predecessors and is rejected.
func FeedingMatches(round, index int) (int, int, error) {
	count, err := MatchesInRound(round)
	if err != nil || round == FirstRound || index < 0 || index >= count {
		return 0, 0, &TopologyError{Op: "feeding matches", Round: round, Index: index}
	}

	switch round {
	case 4:
		// Elite 8 sources from the mirrored Sweet 16 position:
		// E8[0] is fed by S16[6,7] ... E8[3] by S16[0,1].
		r := (count - 1) - index
		return 2 * r, 2*r + 1, nil
	case 5:
		// Final Four cross-pairs: FF[0] is fed by E8[0] and E8[2],
		// FF[1] by E8[1] and E8[3].
		return index, index + 2, nil
	default:
		// Rounds 2, 3 and 6 pair sequentially.
		return 2 * index, 2*index + 1, nil
	}
}

// FeederForSlot returns the single previous-round match index that feeds one
// slot of the given match.
func FeederForSlot(round, index int, slot store.Slot) (int, error) {
	if !slot.Valid() {
		return 0, &TopologyError{Op: "feeder for slot", Round: round, Index: index}
	}
	a, b, err := FeedingMatches(round, index)
	if err != nil {
		return 0, err
	}
	if slot == store.SlotA {
		return a, nil
	}
	return b, nil
}

// NextRef addresses the slot of the next-round match a winner advances into.
type NextRef struct {
	Round int
	Index int
	Slot  store.Slot
}

// NextMatch returns where the winner of the given match advances to. It is
// derived by scanning the forward feeding table rather than approximated
// arithmetically, so the Elite 8 mirror and Final Four cross rounds invert
// exactly. The second return value is false for the Championship, which
// feeds nothing.
func NextMatch(round, index int) (NextRef, bool, error) {
	count, err := MatchesInRound(round)
	if err != nil || index < 0 || index >= count {
		return NextRef{}, false, &TopologyError{Op: "next match", Round: round, Index: index}
	}
	if round == FinalRound {
		return NextRef{}, false, nil
	}

	nextCount, _ := MatchesInRound(round + 1)
	for j := 0; j < nextCount; j++ {
		a, b, err := FeedingMatches(round+1, j)
		if err != nil {
			return NextRef{}, false, err
		}
		if a == index {
			return NextRef{Round: round + 1, Index: j, Slot: store.SlotA}, true, nil
		}
		if b == index {
			return NextRef{Round: round + 1, Index: j, Slot: store.SlotB}, true, nil
		}
	}
	// Unreachable with a well-formed table: every match below the final
	// feeds exactly one later slot.
	return NextRef{}, false, &TopologyError{Op: "next match", Round: round, Index: index}
}
