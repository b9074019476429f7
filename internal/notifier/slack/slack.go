package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtside/matchpoint/internal/league"
	"github.com/courtside/matchpoint/internal/metrics"
	"github.com/courtside/matchpoint/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendResultNotification posts a recorded match result to the channel.
func (s *Notifier) SendResultNotification(match *league.MatchView, dryRun bool) error {
	msg := s.formatResultNotification(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendRankings posts the current standings to the channel.
func (s *Notifier) SendRankings(players []league.Player, dryRun bool) error {
	msg := s.formatRankings(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func teamName(p1, p2 league.PlayerRef) string {
	return fmt.Sprintf("%s & %s", p1.Name, p2.Name)
}

// formatResultNotification creates the Slack message for a recorded match using Block Kit.
func (s *Notifier) formatResultNotification(match *league.MatchView) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎾 Match recorded! 🎾", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	teamA := teamName(match.TeamAPlayer1, match.TeamAPlayer2)
	teamB := teamName(match.TeamBPlayer1, match.TeamBPlayer2)

	winner := teamA
	if match.WinnerTeam == league.SideB {
		winner = teamB
	}
	detailsText := fmt.Sprintf("%s\n%s vs %s\nWinner: %s 🏆", match.MatchDate, teamA, teamB, winner)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	var setsFields []*slack.TextBlockObject
	for i, set := range match.Sets {
		setText := fmt.Sprintf("Set %d\n• %s: %d\n• %s: %d", i+1, teamA, set.TeamA, teamB, set.TeamB)
		setsFields = append(setsFields, slack.NewTextBlockObject("plain_text", setText, true, false))
	}
	if len(setsFields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Score:", true, false), setsFields, nil))
	}

	if match.Notes != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", match.Notes, true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatRankings creates a Slack message to display the club standings.
func (s *Notifier) formatRankings(players []league.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Club Rankings 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players yet. Go record some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, player := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇 "
		case 2:
			medal = "🥈 "
		case 3:
			medal = "🥉 "
		}

		lines = append(lines, fmt.Sprintf("%d. %s%s — %.0f (%d-%d in %d matches)",
			rank,
			medal,
			player.Name,
			player.Rating,
			player.Wins,
			player.Losses,
			player.MatchesPlayed,
		))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
