package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigarcia/validator-version-monitor/models"
)

func TestDistributionShifted(t *testing.T) {
	base := []models.GroupPoint{{Group: "3.1", Percentage: 60}, {Group: "3.0", Percentage: 40}}

	tests := []struct {
		name string
		prev []models.GroupPoint
		next []models.GroupPoint
		want bool
	}{
		{"first point", nil, base, true},
		{"first point empty", nil, []models.GroupPoint{}, false},
		{"unchanged", base, base, false},
		{"small drift", base, []models.GroupPoint{{Group: "3.1", Percentage: 60.5}, {Group: "3.0", Percentage: 39.5}}, false},
		{"threshold move", base, []models.GroupPoint{{Group: "3.1", Percentage: 61}, {Group: "3.0", Percentage: 39}}, true},
		{"new group", base, append([]models.GroupPoint{{Group: "3.2", Percentage: 0.1}}, base...), true},
		{"group replaced", base, []models.GroupPoint{{Group: "3.1", Percentage: 60}, {Group: "2.3", Percentage: 40}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DistributionShifted(tt.prev, tt.next, DistributionShiftThreshold))
		})
	}
}

func TestBuildDistributionEmbed(t *testing.T) {
	point := &models.VersionHistoryPoint{
		Timestamp:  time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
		TotalStake: 1000 * sol,
		Validators: 4,
	}
	for i := 0; i < 12; i++ {
		point.Groups = append(point.Groups, models.GroupPoint{Group: "3." + string(rune('a'+i)), Percentage: 1})
	}

	embed := BuildDistributionEmbed(point)
	require.Len(t, embed.Fields, maxEmbedGroups)
	assert.Equal(t, "1.00%", embed.Fields[0].Value)
	assert.Contains(t, embed.Description, "1000.00 SOL")
	assert.Equal(t, "2026-10-14T12:00:00Z", embed.Timestamp)
}

func TestDiscordNotifierDisabled(t *testing.T) {
	d, err := NewDiscordNotifier("", "")
	require.NoError(t, err)
	assert.False(t, d.Enabled())

	sent, err := d.NotifyDistribution(&models.VersionHistoryPoint{})
	assert.NoError(t, err)
	assert.False(t, sent)

	var nilNotifier *DiscordNotifier
	assert.False(t, nilNotifier.Enabled())
	nilNotifier.Close()
}

func TestNewVersionHistoryPoint(t *testing.T) {
	all := fixture()
	at := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	point := NewVersionHistoryPoint(VersionGroups(all, all), all, at)
	assert.Equal(t, at, point.Timestamp)
	assert.Equal(t, 4, point.Validators)
	assert.Equal(t, TotalStake(all), point.TotalStake)
	require.Len(t, point.Groups, 3)
	assert.Equal(t, "3.1", point.Groups[0].Group)
	assert.InDelta(t, 70.0, point.Groups[0].Percentage, 0.0001)

	empty := NewVersionHistoryPoint(nil, nil, at)
	assert.Empty(t, empty.Groups)
}
