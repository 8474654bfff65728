/* discord.go
 * Announces tournament events to a Discord channel. Sends are rate limited
 * so a batch recompute cannot flood the channel.
 */

package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"bracket-pool/api/store"
)

// Session is the slice of discordgo.Session the announcer uses, extracted so
// tests can run without a live gateway connection.
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts match results and leaderboard updates to one channel.
type DiscordNotifier struct {
	session   Session
	channelID string
	limiter   *rate.Limiter
	timeout   time.Duration
}

// NewDiscordNotifier builds a notifier over an open session. Discord allows
// roughly 5 messages per 5 seconds per channel; we stay under that.
func NewDiscordNotifier(session Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 4),
		timeout:   10 * time.Second,
	}
}

// MatchCompleted announces a recorded match result.
func (n *DiscordNotifier) MatchCompleted(match store.Match) error {
	msg := fmt.Sprintf("**%s** def. %s %d-%d (%s)",
		match.WinnerTeam(), loserTeam(match), winnerSets(match), loserSets(match), roundName(match.Round))
	return n.send(msg)
}

// LeaderboardUpdated announces the top of a freshly generated leaderboard.
func (n *DiscordNotifier) LeaderboardUpdated(lb store.Leaderboard) error {
	var b strings.Builder
	b.WriteString("**Leaderboard updated**\n")
	for i, e := range lb.Entries {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s: %.2f points (%d correct)\n", e.Rank, e.DisplayName, e.TotalPoints, e.CorrectPredictions)
	}
	return n.send(b.String())
}

func (n *DiscordNotifier) send(msg string) error {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if _, err := n.session.ChannelMessageSend(n.channelID, msg); err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	return nil
}

func loserTeam(m store.Match) string {
	return m.SlotTeam(m.WinningSlot.Other())
}

func winnerSets(m store.Match) int {
	if m.WinningSlot == store.SlotA {
		return m.SetsWonA
	}
	return m.SetsWonB
}

func loserSets(m store.Match) int {
	if m.WinningSlot == store.SlotA {
		return m.SetsWonB
	}
	return m.SetsWonA
}

func roundName(round int) string {
	switch round {
	case 1:
		return "Round of 64"
	case 2:
		return "Round of 32"
	case 3:
		return "Sweet 16"
	case 4:
		return "Elite 8"
	case 5:
		return "Final Four"
	case 6:
		return "Championship"
	}
	return fmt.Sprintf("Round %d", round)
}
