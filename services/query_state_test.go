package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

func TestEncodeQueryDefaultIsEmpty(t *testing.T) {
	q := EncodeQuery(models.DefaultFilterState(), models.DefaultSortState())
	assert.Empty(t, q.Encode())

	f, s := DecodeQuery(url.Values{})
	assert.True(t, f.IsDefault())
	assert.True(t, s.IsDefault())
}

func TestQueryRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		filter models.FilterState
		sort   models.SortState
	}{
		{
			"everything set",
			models.FilterState{
				Versions:    models.NewStringSet("3.1.8", "0.811.30108", utils.UnknownGroup),
				Sfdp:        models.SfdpNonParticipant,
				Clients:     models.NewStringSet("Agave", "Jito, Labs", " padded ", utils.UnknownLabel),
				ASNs:        models.NewStringSet("24940", utils.UnknownLabel),
				DataCenters: models.NewStringSet("24940-DE-Falkenstein", "odd,key with spaces"),
			},
			models.SortState{Key: models.SortVersion, Dir: models.SortAsc},
		},
		{
			"literal sfdp state with default sort key ascending",
			models.FilterState{Sfdp: "Approved"},
			models.SortState{Key: models.SortStake, Dir: models.SortAsc},
		},
		{
			"sort only",
			models.DefaultFilterState(),
			models.SortState{Key: models.SortName, Dir: models.SortDesc},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := EncodeQuery(tt.filter, tt.sort).Encode()
			parsed, err := url.ParseQuery(raw)
			require.NoError(t, err)

			f, s := DecodeQuery(parsed)
			assert.True(t, f.Equal(tt.filter), "filter mismatch for %q", raw)
			assert.Equal(t, tt.sort, s)
		})
	}
}

func TestEncodeQueryIsCanonical(t *testing.T) {
	f := models.FilterState{Versions: models.NewStringSet("3.1.8", "3.0.1", "2.3.12")}
	q := EncodeQuery(f, models.DefaultSortState())

	assert.Equal(t, "2.3.12,3.0.1,3.1.8", q.Get(ParamVersions))
	assert.Empty(t, q.Get(ParamSort))
	assert.Empty(t, q.Get(ParamSortDir))

	q = EncodeQuery(models.DefaultFilterState(), models.SortState{Key: models.SortName, Dir: models.SortDesc})
	assert.Equal(t, models.SortName, q.Get(ParamSort))
	assert.Empty(t, q.Get(ParamSortDir))
}

func TestEncodeQueryEscapesClients(t *testing.T) {
	f := models.FilterState{Clients: models.NewStringSet("Jito, Labs", "Agave")}
	q := EncodeQuery(f, models.DefaultSortState())

	assert.Equal(t, "Agave,Jito%2C+Labs", q.Get(ParamClients))

	parsed, err := url.ParseQuery(q.Encode())
	require.NoError(t, err)
	decoded, _ := DecodeQuery(parsed)
	assert.Equal(t, []string{"Agave", "Jito, Labs"}, decoded.Clients.Sorted())
}

func TestDecodeQueryMalformed(t *testing.T) {
	q := url.Values{
		ParamVersions:    {"3.1.8,,"},
		ParamSfdp:        {"  sfdp "},
		ParamSort:        {"uptime"},
		ParamSortDir:     {"sideways"},
		ParamClients:     {",,"},
		ParamASNs:        {"abc, 24940 ,-5,Unknown"},
		ParamDataCenters: {"%zz,24940-DE-Falkenstein"},
	}

	f, s := DecodeQuery(q)

	assert.Equal(t, []string{"3.1.8"}, f.Versions.Sorted())
	assert.Equal(t, models.SfdpParticipant, f.Sfdp)
	assert.Equal(t, 0, f.Clients.Len())
	assert.Equal(t, []string{"24940", utils.UnknownLabel}, f.ASNs.Sorted())
	assert.Equal(t, []string{"24940-DE-Falkenstein"}, f.DataCenters.Sorted())

	// a bad sort key only resets the key, a bad direction only the direction
	assert.Equal(t, models.DefaultSortState(), s)

	_, s = DecodeQuery(url.Values{ParamSort: {"uptime"}, ParamSortDir: {"asc"}})
	assert.Equal(t, models.SortState{Key: models.SortStake, Dir: models.SortAsc}, s)

	_, s = DecodeQuery(url.Values{ParamSort: {models.SortName}, ParamSortDir: {"up"}})
	assert.Equal(t, models.SortState{Key: models.SortName, Dir: models.SortDesc}, s)
}

func TestQuerySync(t *testing.T) {
	qs := NewQuerySync()

	f, s, changed := qs.Load(url.Values{ParamSfdp: {"sfdp"}})
	require.True(t, changed)
	assert.Equal(t, models.SfdpParticipant, f.Sfdp)
	assert.True(t, s.IsDefault())

	// a user edit publishes a new query
	next := ToggleClient(f, "Agave")
	q, changed := qs.Update(next, s)
	require.True(t, changed)
	assert.Equal(t, "Agave", q.Get(ParamClients))

	// the navigation triggered by that publish must not re-apply state
	_, _, changed = qs.Load(q)
	assert.False(t, changed)

	// publishing identical state is a no-op
	_, changed = qs.Update(next, s)
	assert.False(t, changed)

	// a genuine external navigation is applied
	f, _, changed = qs.Load(url.Values{})
	assert.True(t, changed)
	assert.True(t, f.IsDefault())

	cur, _ := qs.State()
	assert.True(t, cur.Equal(f))
}
