/* bracket.go
 * In-memory snapshot of the match tree used by resolution, validation and
 * cascade computation. The engine never touches storage; callers load the
 * matches they need and hand them over.
 */

package engine

import "bracket-pool/api/store"

// Bracket indexes a set of matches by (round, 0-based index). Matches are
// positioned by their MatchNumber, so the slice for a round may contain gaps
// if the caller loaded a partial tree; missing positions surface as
// TopologyError from MatchAt.
type Bracket struct {
	rounds map[int][]*store.Match
}

// NewBracket builds a snapshot from the given matches.
func NewBracket(matches []store.Match) *Bracket {
	b := &Bracket{rounds: make(map[int][]*store.Match)}
	for i := range matches {
		m := matches[i]
		count, err := MatchesInRound(m.Round)
		if err != nil || m.MatchNumber < 1 || m.MatchNumber > count {
			continue
		}
		row := b.rounds[m.Round]
		if row == nil {
			row = make([]*store.Match, count)
			b.rounds[m.Round] = row
		}
		row[m.MatchNumber-1] = &m
	}
	return b
}

// MatchAt returns the match at the given position, or a TopologyError if the
// position is invalid or was not loaded into the snapshot.
func (b *Bracket) MatchAt(round, index int) (store.Match, error) {
	count, err := MatchesInRound(round)
	if err != nil || index < 0 || index >= count {
		return store.Match{}, &TopologyError{Op: "match at", Round: round, Index: index}
	}
	row := b.rounds[round]
	if row == nil || row[index] == nil {
		return store.Match{}, &TopologyError{Op: "match at", Round: round, Index: index}
	}
	return *row[index], nil
}
