package services

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/tigarcia/validator-version-monitor/models"
)

// DistributionShiftThreshold is how many percentage points a minor group must
// move before a new summary is posted.
const DistributionShiftThreshold = 1.0

const maxEmbedGroups = 10

// DiscordNotifier posts the version distribution to a channel after a
// refresh moved it noticeably.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
	enabled   bool

	mu       sync.Mutex
	lastSent []models.GroupPoint
}

func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	if token == "" || channelID == "" {
		log.Println("Discord token or channel not provided, Discord notifications disabled")
		return &DiscordNotifier{enabled: false}, nil
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open Discord connection: %w", err)
	}

	log.Printf("Discord notifier connected, channel: %s", channelID)

	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
		enabled:   true,
	}, nil
}

func (d *DiscordNotifier) Enabled() bool {
	return d != nil && d.enabled
}

func (d *DiscordNotifier) Close() {
	if d.Enabled() && d.session != nil {
		log.Println("Closing Discord connection...")
		d.session.Close()
	}
}

// NotifyDistribution posts point when it differs enough from the last one
// sent. It returns whether a message went out.
func (d *DiscordNotifier) NotifyDistribution(point *models.VersionHistoryPoint) (bool, error) {
	if !d.Enabled() || point == nil {
		return false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !DistributionShifted(d.lastSent, point.Groups, DistributionShiftThreshold) {
		return false, nil
	}

	if _, err := d.session.ChannelMessageSendEmbed(d.channelID, BuildDistributionEmbed(point)); err != nil {
		return false, fmt.Errorf("failed to send Discord message: %w", err)
	}

	d.lastSent = point.Groups
	log.Printf("Version distribution sent to Discord (%d groups)", len(point.Groups))
	return true, nil
}

// DistributionShifted reports whether any group moved by at least threshold
// points, or appeared or disappeared.
func DistributionShifted(prev, next []models.GroupPoint, threshold float64) bool {
	if prev == nil {
		return len(next) > 0
	}
	before := make(map[string]float64, len(prev))
	for _, g := range prev {
		before[g.Group] = g.Percentage
	}
	if len(before) != len(next) {
		return true
	}
	for _, g := range next {
		p, ok := before[g.Group]
		if !ok || math.Abs(p-g.Percentage) >= threshold {
			return true
		}
	}
	return false
}

func BuildDistributionEmbed(point *models.VersionHistoryPoint) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, maxEmbedGroups)
	for i, g := range point.Groups {
		if i >= maxEmbedGroups {
			break
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   g.Group,
			Value:  fmt.Sprintf("%.2f%%", g.Percentage),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       "Validator version distribution",
		Description: fmt.Sprintf("%d validators, %s SOL active stake", point.Validators, FormatSOL(point.TotalStake)),
		Color:       3447003,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Stake share per minor version",
		},
		Timestamp: point.Timestamp.Format(time.RFC3339),
	}
}
