/* setup.go
 * Contains the public methods for seeding a new tournament: parsing the
 * seeded team list and generating the 63-match tree. Round 1 matches pair
 * adjacent teams in seed order; every later match starts as a TBD vs TBD
 * placeholder.
 */

package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-andiamo/splitter"
	"github.com/google/uuid"

	"bracket-pool/api/engine"
	"bracket-pool/api/store"
)

// teamsRequired is the field size of the tournament.
const teamsRequired = 64

// ParseTeamList splits a seeding line into team names. We use splitter
// instead of strings.Fields so team names containing spaces can be entered
// quoted, e.g. "Montana State".
func ParseTeamList(input string) ([]string, error) {
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to build splitter: %w", err)
	}
	parts, err := spaceSplitter.Split(input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse team list: %w", err)
	}

	teams := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		name = strings.Trim(name, "\"")
		name = strings.Trim(name, "“”")
		if name == "" {
			continue
		}
		teams = append(teams, name)
	}
	return teams, nil
}

// SeedBracket generates and stores the full match tree for the given teams
// in seed order. It returns an error if the tournament already has matches,
// the team count is wrong, or any team name repeats.
func (a *API) SeedBracket(ctx context.Context, teams []string) ([]store.Match, error) {
	if len(teams) != teamsRequired {
		return nil, precondition("expected %d teams, got %d", teamsRequired, len(teams))
	}
	seen := make(map[string]bool, len(teams))
	for _, team := range teams {
		key := engine.NormalizeTeamName(team)
		if key == "" {
			return nil, precondition("empty team name in seed list")
		}
		if seen[key] {
			return nil, precondition("team %q entered multiple times", team)
		}
		seen[key] = true
	}

	existing, err := a.Store.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, precondition("tournament is already seeded with %d matches", len(existing))
	}

	var matches []store.Match
	for round := engine.FirstRound; round <= engine.FinalRound; round++ {
		count, err := engine.MatchesInRound(round)
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			m := store.Match{
				ID:          uuid.NewString(),
				Round:       round,
				MatchNumber: i + 1,
				SlotATeam:   store.TeamTBD,
				SlotBTeam:   store.TeamTBD,
			}
			if round == engine.FirstRound {
				m.SlotATeam = teams[2*i]
				m.SlotBTeam = teams[2*i+1]
			}
			matches = append(matches, m)
		}
	}

	if err := a.Store.InsertMatches(ctx, matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// GetMatches returns the full match tree ordered by round and match number.
func (a *API) GetMatches(ctx context.Context) ([]store.Match, error) {
	return a.Store.ListMatches(ctx)
}
