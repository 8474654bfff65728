/* discord_test.go
 * Contains unit tests for the Discord announcer using a mock session.
 */

package notify

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracket-pool/api/store"
)

type mockSession struct {
	channelIDs []string
	messages   []string
	err        error
}

func (m *mockSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.channelIDs = append(m.channelIDs, channelID)
	m.messages = append(m.messages, content)
	return &discordgo.Message{Content: content}, nil
}

func TestMatchCompleted_FormatsResult(t *testing.T) {
	session := &mockSession{}
	n := NewDiscordNotifier(session, "channel-1")

	err := n.MatchCompleted(store.Match{
		ID: "r1m1", Round: 1, MatchNumber: 1,
		SlotATeam: "Nebraska", SlotBTeam: "Montana State",
		Completed: true, WinningSlot: store.SlotA,
		SetsWonA: 3, SetsWonB: 0,
	})
	require.NoError(t, err)
	require.Len(t, session.messages, 1)
	assert.Equal(t, "**Nebraska** def. Montana State 3-0 (Round of 64)", session.messages[0])
	assert.Equal(t, "channel-1", session.channelIDs[0])
}

func TestLeaderboardUpdated_TopFiveOnly(t *testing.T) {
	session := &mockSession{}
	n := NewDiscordNotifier(session, "channel-1")

	lb := store.Leaderboard{GeneratedAt: time.Now()}
	for i := 1; i <= 8; i++ {
		lb.Entries = append(lb.Entries, store.LeaderboardEntry{
			Rank:        i,
			DisplayName: "Player",
			TotalPoints: float64(10 - i),
		})
	}

	require.NoError(t, n.LeaderboardUpdated(lb))
	require.Len(t, session.messages, 1)
	// Header plus five entries plus trailing newline.
	assert.Equal(t, 7, len(splitLines(session.messages[0])))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func TestMatchCompleted_PropagatesSendError(t *testing.T) {
	session := &mockSession{err: assert.AnError}
	n := NewDiscordNotifier(session, "channel-1")

	err := n.MatchCompleted(store.Match{
		Round: 6, Completed: true, WinningSlot: store.SlotB,
		SlotATeam: "A", SlotBTeam: "B", SetsWonA: 1, SetsWonB: 3,
	})
	assert.Error(t, err)
}
