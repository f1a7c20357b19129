package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

func TestApplyFilter(t *testing.T) {
	all := fixture()

	tests := []struct {
		name   string
		filter models.FilterState
		want   []string
	}{
		{"default keeps everything", models.DefaultFilterState(), []string{"vote-a", "vote-b", "vote-c", "vote-d"}},
		{"zero value keeps everything", models.FilterState{}, []string{"vote-a", "vote-b", "vote-c", "vote-d"}},
		{"sfdp participants", models.FilterState{Sfdp: models.SfdpParticipant}, []string{"vote-a", "vote-b"}},
		{"non participants", models.FilterState{Sfdp: models.SfdpNonParticipant}, []string{"vote-c", "vote-d"}},
		{"literal sfdp state", models.FilterState{Sfdp: "Approved"}, []string{"vote-a"}},
		{"literal state nobody has", models.FilterState{Sfdp: "Rejected"}, []string{}},
		{"raw version", models.FilterState{Versions: models.NewStringSet("3.1.8")}, []string{"vote-a"}},
		{"missing version", models.FilterState{Versions: models.NewStringSet(utils.UnknownGroup)}, []string{"vote-c"}},
		{"unknown client", models.FilterState{Clients: models.NewStringSet(utils.UnknownLabel)}, []string{"vote-c"}},
		{"asn", models.FilterState{ASNs: models.NewStringSet("24940")}, []string{"vote-a", "vote-d"}},
		{"unknown data center", models.FilterState{DataCenters: models.NewStringSet(utils.UnknownLabel)}, []string{"vote-c", "vote-d"}},
		{
			"dimensions combine with and",
			models.FilterState{
				Versions: models.NewStringSet("3.1.8", "3.0.1"),
				Clients:  models.NewStringSet("Agave"),
				ASNs:     models.NewStringSet("24940"),
			},
			[]string{"vote-a", "vote-d"},
		},
		{
			"no overlap",
			models.FilterState{Sfdp: models.SfdpParticipant, Clients: models.NewStringSet(utils.UnknownLabel)},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, voteKeys(ApplyFilter(all, tt.filter)))
		})
	}
}

func TestApplyFilterIsIdempotent(t *testing.T) {
	all := fixture()
	f := models.FilterState{Sfdp: models.SfdpAll, Clients: models.NewStringSet("Agave", "Firedancer")}

	once := ApplyFilter(all, f)
	twice := ApplyFilter(once, f)
	assert.Equal(t, once, twice)
}

func TestApplyFilterLeavesInputAlone(t *testing.T) {
	all := fixture()
	before := voteKeys(all)

	ApplyFilter(all, models.FilterState{Sfdp: models.SfdpParticipant})
	assert.Equal(t, before, voteKeys(all))
}

func TestBuildFilterOptions(t *testing.T) {
	opts := BuildFilterOptions(fixture())

	assert.Equal(t, []string{"Approved", "Pending"}, opts.SfdpStates)
	assert.Equal(t, []string{"Agave", "Firedancer", utils.UnknownLabel}, opts.Clients)
	assert.Equal(t, []string{"24940", "16276", utils.UnknownLabel}, opts.ASNs)
	assert.Equal(t, []string{"24940-DE-Falkenstein", "16276-FR-Roubaix", utils.UnknownLabel}, opts.DataCenters)
}

func TestBuildFilterOptionsEmpty(t *testing.T) {
	opts := BuildFilterOptions(nil)
	assert.Empty(t, opts.SfdpStates)
	assert.Empty(t, opts.Clients)
	assert.Empty(t, opts.ASNs)
	assert.Empty(t, opts.DataCenters)
}
