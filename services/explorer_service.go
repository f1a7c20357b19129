package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tigarcia/validator-version-monitor/config"
	"github.com/tigarcia/validator-version-monitor/models"
	"github.com/tigarcia/validator-version-monitor/utils"
)

const cacheKeyDataset = "dataset"

// Dataset is one merged snapshot. It is replaced wholesale on refresh and
// never modified in place.
type Dataset struct {
	Validators []models.Validator `json:"validators"`
	Sources    []SourceStatus     `json:"sources"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// TableFetcher supplies the enrichment tables for a merge pass
type TableFetcher interface {
	FetchAll(ctx context.Context) (models.EnrichmentTables, []SourceStatus)
}

// InfraLookup resolves infrastructure details for a host address
type InfraLookup interface {
	Enabled() bool
	Lookup(ip string) utils.InfraLocation
}

type ExplorerService struct {
	cfg      *config.Config
	fetcher  TableFetcher
	resolver InfraLookup
	cache    *CacheService
	mongo    *MongoDBService
	discord  *DiscordNotifier

	mu      sync.RWMutex
	current *Dataset

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewExplorerService wires the refresh pipeline. cache, mongo and discord
// may be nil.
func NewExplorerService(cfg *config.Config, fetcher TableFetcher, resolver InfraLookup, cache *CacheService, mongo *MongoDBService, discord *DiscordNotifier) *ExplorerService {
	return &ExplorerService{
		cfg:      cfg,
		fetcher:  fetcher,
		resolver: resolver,
		cache:    cache,
		mongo:    mongo,
		discord:  discord,
		stopChan: make(chan struct{}),
	}
}

// Current returns the active dataset, never nil
func (es *ExplorerService) Current() *Dataset {
	es.mu.RLock()
	defer es.mu.RUnlock()
	if es.current == nil {
		return &Dataset{Validators: []models.Validator{}}
	}
	return es.current
}

func (es *ExplorerService) swap(ds *Dataset) {
	es.mu.Lock()
	es.current = ds
	es.mu.Unlock()
}

// WarmFromCache serves the last cached dataset until the first refresh lands
func (es *ExplorerService) WarmFromCache() bool {
	if es.cache == nil {
		return false
	}
	var ds Dataset
	found, err := es.cache.Get(cacheKeyDataset, &ds)
	if err != nil {
		log.Printf("⚠️  Cached dataset unreadable: %v", err)
		return false
	}
	if !found {
		return false
	}
	if ds.Validators == nil {
		ds.Validators = []models.Validator{}
	}
	es.swap(&ds)
	log.Printf("✓ Warmed from cache: %d validators (from %s)", len(ds.Validators), ds.UpdatedAt.Format(time.RFC3339))
	return true
}

// Refresh loads the snapshot, fetches the registries and swaps in the new
// merged dataset. Failures of individual sources only shrink the enrichment.
func (es *ExplorerService) Refresh(ctx context.Context) *Dataset {
	start := time.Now()

	snapshot := LoadSnapshot(es.cfg.Snapshot.Path)

	tables := models.EnrichmentTables{}
	var statuses []SourceStatus
	if es.fetcher != nil {
		tables, statuses = es.fetcher.FetchAll(ctx)
	}
	tables.Infra = SupplementInfra(snapshot, tables.Infra, es.resolver)

	ds := &Dataset{
		Validators: MergeTables(snapshot, tables),
		Sources:    statuses,
		UpdatedAt:  time.Now().UTC(),
	}
	es.swap(ds)

	if es.cache != nil {
		if err := es.cache.Set(cacheKeyDataset, ds, es.cfg.CacheTTLDuration()); err != nil {
			log.Printf("⚠️  Failed to cache dataset: %v", err)
		}
	}

	es.recordHistory(ctx, ds)

	log.Printf("Dataset refreshed (%s): %d validators, %d names, %d sfdp, %d infra",
		time.Since(start), len(ds.Validators), len(tables.Names), len(tables.Participation), len(tables.Infra))
	return ds
}

func (es *ExplorerService) recordHistory(ctx context.Context, ds *Dataset) {
	if !es.mongo.Enabled() && !es.discord.Enabled() {
		return
	}

	point := NewVersionHistoryPoint(VersionGroups(ds.Validators, ds.Validators), ds.Validators, ds.UpdatedAt)

	if es.mongo.Enabled() {
		mctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := es.mongo.InsertVersionHistory(mctx, point); err != nil {
			log.Printf("⚠️  Failed to store version history: %v", err)
		}
		cancel()
	}

	if _, err := es.discord.NotifyDistribution(point); err != nil {
		log.Printf("⚠️  Discord notification failed: %v", err)
	}
}

// History returns stored distribution points for the last window
func (es *ExplorerService) History(ctx context.Context, window time.Duration) ([]models.VersionHistoryPoint, error) {
	if !es.mongo.Enabled() {
		return nil, ErrMongoDisabled
	}
	return es.mongo.GetVersionHistory(ctx, time.Now().Add(-window))
}

func (es *ExplorerService) Start() {
	log.Println("Starting Explorer refresh loop...")

	es.Refresh(context.Background())

	interval := es.cfg.RefreshIntervalDuration()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				es.Refresh(context.Background())
			case <-es.stopChan:
				log.Println("Explorer refresh loop stopped")
				return
			}
		}
	}()
}

func (es *ExplorerService) Stop() {
	es.stopOnce.Do(func() {
		close(es.stopChan)
	})
}

// SupplementInfra adds GeoIP-derived entries for validators the registry
// doesn't know. Registry entries always win. The input table is not modified.
func SupplementInfra(snapshot []models.SnapshotRecord, infra models.InfraTable, lookup InfraLookup) models.InfraTable {
	out := make(models.InfraTable, len(infra))
	for k, v := range infra {
		out[k] = v
	}
	if lookup == nil || !lookup.Enabled() {
		return out
	}

	for _, rec := range snapshot {
		if rec.GossipIP == "" {
			continue
		}
		if _, ok := out[rec.VoteAccountPubkey]; ok {
			continue
		}
		loc := lookup.Lookup(rec.GossipIP)
		if loc.ASN == nil && loc.DataCenterKey == nil {
			continue
		}
		out[rec.VoteAccountPubkey] = models.InfraInfo{
			ASN:        loc.ASN,
			DataCenter: loc.DataCenterKey,
		}
	}
	return out
}
