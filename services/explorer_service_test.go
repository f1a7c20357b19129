package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigarcia/validator-version-monitor/config"
	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

type stubFetcher struct {
	tables   models.EnrichmentTables
	statuses []SourceStatus
}

func (s stubFetcher) FetchAll(context.Context) (models.EnrichmentTables, []SourceStatus) {
	return s.tables, s.statuses
}

type stubLookup map[string]utils.InfraLocation

func (s stubLookup) Enabled() bool { return true }

func (s stubLookup) Lookup(ip string) utils.InfraLocation { return s[ip] }

const snapshotJSON = `[
  {"identityPubkey":"id-a","voteAccountPubkey":"vote-a","activatedStake":400,"version":"3.1.8","delinquent":false,"gossipIp":"10.0.0.1"},
  {"identityPubkey":"id-b","voteAccountPubkey":"vote-b","activatedStake":300,"version":"0.811.30108","delinquent":false,"gossipIp":"10.0.0.2"},
  {"identityPubkey":"id-c","voteAccountPubkey":"vote-c","activatedStake":300,"version":"2.3.12","delinquent":true}
]`

func explorerConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "validators.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0o644))

	cfg := config.Default()
	cfg.Snapshot.Path = path
	return cfg
}

func TestExplorerRefresh(t *testing.T) {
	cfg := explorerConfig(t)
	fetcher := stubFetcher{
		tables: models.EnrichmentTables{
			Names:         models.NameTable{"vote-a": "Alpha"},
			Participation: models.ParticipationTable{"id-b": {Participant: true, State: "Approved"}},
			Infra:         models.InfraTable{"vote-a": {ASN: intPtr(24940), Client: strPtr("Agave")}},
		},
		statuses: []SourceStatus{{Name: "names", OK: true, Entries: 1}},
	}
	lookup := stubLookup{
		"10.0.0.1": {ASN: intPtr(1)},
		"10.0.0.2": {ASN: intPtr(16276), DataCenterKey: strPtr("16276-FR-Roubaix")},
	}

	es := NewExplorerService(cfg, fetcher, lookup, NewCacheService(cfg), nil, nil)
	assert.Empty(t, es.Current().Validators)

	ds := es.Refresh(context.Background())
	require.Len(t, ds.Validators, 3)
	assert.Same(t, ds, es.Current())
	assert.False(t, ds.UpdatedAt.IsZero())
	assert.Equal(t, fetcher.statuses, ds.Sources)

	a, b, c := ds.Validators[0], ds.Validators[1], ds.Validators[2]
	assert.Equal(t, "Alpha", a.Name)
	// registry entry wins over GeoIP
	assert.Equal(t, 24940, *a.AutonomousSystemNumber)
	assert.True(t, b.Sfdp)
	assert.Equal(t, 16276, *b.AutonomousSystemNumber)
	assert.Equal(t, "16276-FR-Roubaix", *b.DataCenterKey)
	assert.Nil(t, b.SoftwareClient)
	assert.Nil(t, c.AutonomousSystemNumber)
}

func TestExplorerWarmFromCache(t *testing.T) {
	cfg := explorerConfig(t)
	cache := NewCacheService(cfg)
	defer cache.Stop()

	first := NewExplorerService(cfg, stubFetcher{}, nil, cache, nil, nil)
	assert.False(t, first.WarmFromCache())
	first.Refresh(context.Background())

	second := NewExplorerService(cfg, stubFetcher{}, nil, cache, nil, nil)
	require.True(t, second.WarmFromCache())
	assert.Len(t, second.Current().Validators, 3)
	assert.Equal(t, "3.1.8", second.Current().Validators[0].Version)
}

func TestExplorerMissingSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.Snapshot.Path = filepath.Join(t.TempDir(), "missing.json")

	es := NewExplorerService(cfg, nil, nil, nil, nil, nil)
	ds := es.Refresh(context.Background())
	assert.NotNil(t, ds.Validators)
	assert.Empty(t, ds.Validators)
}

func TestExplorerHistoryWithoutMongo(t *testing.T) {
	es := NewExplorerService(config.Default(), nil, nil, nil, nil, nil)
	_, err := es.History(context.Background(), time.Hour)
	assert.True(t, errors.Is(err, ErrMongoDisabled))
}

func TestExplorerStartStop(t *testing.T) {
	cfg := explorerConfig(t)
	cfg.Snapshot.RefreshInterval = 3600

	es := NewExplorerService(cfg, stubFetcher{}, nil, nil, nil, nil)
	es.Start()
	assert.Len(t, es.Current().Validators, 3)
	es.Stop()
	es.Stop()
}

func TestSupplementInfra(t *testing.T) {
	snapshot := []models.SnapshotRecord{
		{VoteAccountPubkey: "vote-a", GossipIP: "10.0.0.1"},
		{VoteAccountPubkey: "vote-b", GossipIP: "10.0.0.2"},
		{VoteAccountPubkey: "vote-c"},
		{VoteAccountPubkey: "vote-d", GossipIP: "10.0.0.4"},
	}
	registry := models.InfraTable{"vote-a": {Client: strPtr("Agave")}}
	lookup := stubLookup{
		"10.0.0.1": {ASN: intPtr(1)},
		"10.0.0.2": {ASN: intPtr(24940)},
	}

	out := SupplementInfra(snapshot, registry, lookup)

	assert.Len(t, registry, 1, "input must not change")
	assert.Len(t, out, 2)
	assert.Nil(t, out["vote-a"].ASN)
	assert.Equal(t, 24940, *out["vote-b"].ASN)
	assert.NotContains(t, out, "vote-d")

	assert.Len(t, SupplementInfra(snapshot, registry, nil), 1)
}
