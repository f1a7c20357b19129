package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tigarcia/validator-version-monitor/config"
	"github.com/tigarcia/validator-version-monitor/models"
)

// RegistryClient fetches the three enrichment tables
type RegistryClient struct {
	httpClient *http.Client
	cfg        config.RegistriesConfig
	timeout    time.Duration
}

func NewRegistryClient(cfg *config.Config) *RegistryClient {
	timeout := cfg.RegistryTimeoutDuration()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RegistryClient{
		httpClient: &http.Client{Timeout: timeout},
		cfg:        cfg.Registries,
		timeout:    timeout,
	}
}

type nameEntry struct {
	VoteIdentity string `json:"vote_identity"`
	Name         string `json:"name"`
}

type participantEntry struct {
	MainnetBetaPubkey string `json:"mainnetBetaPubkey"`
	State             string `json:"state"`
	Name              string `json:"name"`
}

type infraEntry struct {
	VoteAccount            string  `json:"vote_account"`
	AutonomousSystemNumber *int    `json:"autonomous_system_number"`
	DataCenterKey          *string `json:"data_center_key"`
	SoftwareClient         *string `json:"software_client"`
}

func (rc *RegistryClient) getJSON(ctx context.Context, url string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, rc.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if url == rc.cfg.InfraURL && rc.cfg.InfraToken != "" {
		req.Header.Set("Token", rc.cfg.InfraToken)
	}

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http error %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (rc *RegistryClient) FetchNames(ctx context.Context) (models.NameTable, error) {
	table := models.NameTable{}
	if rc.cfg.NamesURL == "" {
		return table, nil
	}

	var entries []nameEntry
	if err := rc.getJSON(ctx, rc.cfg.NamesURL, &entries); err != nil {
		return table, fmt.Errorf("name registry: %w", err)
	}
	for _, e := range entries {
		if e.VoteIdentity != "" && e.Name != "" {
			table[e.VoteIdentity] = e.Name
		}
	}
	return table, nil
}

func (rc *RegistryClient) FetchParticipation(ctx context.Context) (models.ParticipationTable, error) {
	table := models.ParticipationTable{}
	if rc.cfg.ParticipationURL == "" {
		return table, nil
	}

	var entries []participantEntry
	if err := rc.getJSON(ctx, rc.cfg.ParticipationURL, &entries); err != nil {
		return table, fmt.Errorf("participation registry: %w", err)
	}
	for _, e := range entries {
		if e.MainnetBetaPubkey != "" {
			table[e.MainnetBetaPubkey] = models.ParticipationInfo{Participant: true, State: e.State}
		}
	}
	return table, nil
}

func (rc *RegistryClient) FetchInfra(ctx context.Context) (models.InfraTable, error) {
	table := models.InfraTable{}
	if rc.cfg.InfraURL == "" {
		return table, nil
	}

	var entries []infraEntry
	if err := rc.getJSON(ctx, rc.cfg.InfraURL, &entries); err != nil {
		return table, fmt.Errorf("infrastructure registry: %w", err)
	}
	for _, e := range entries {
		if e.VoteAccount == "" {
			continue
		}
		table[e.VoteAccount] = models.InfraInfo{
			ASN:        e.AutonomousSystemNumber,
			DataCenter: e.DataCenterKey,
			Client:     e.SoftwareClient,
		}
	}
	return table, nil
}

// SourceStatus records how one registry fetch went
type SourceStatus struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

// FetchAll runs the three fetches in parallel. A failing source is logged
// and contributes an empty table; the others are unaffected.
func (rc *RegistryClient) FetchAll(ctx context.Context) (models.EnrichmentTables, []SourceStatus) {
	tables := models.EnrichmentTables{
		Names:         models.NameTable{},
		Participation: models.ParticipationTable{},
		Infra:         models.InfraTable{},
	}
	statuses := make([]SourceStatus, 3)

	record := func(i int, name string, entries int, err error) {
		statuses[i] = SourceStatus{Name: name, OK: err == nil, Entries: entries}
		if err != nil {
			statuses[i].Error = err.Error()
			log.Printf("⚠️  %s fetch failed, continuing without it: %v", name, err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := rc.FetchNames(gctx)
		if err == nil {
			tables.Names = t
		}
		record(0, "names", len(t), err)
		return nil
	})
	g.Go(func() error {
		t, err := rc.FetchParticipation(gctx)
		if err == nil {
			tables.Participation = t
		}
		record(1, "sfdp", len(t), err)
		return nil
	})
	g.Go(func() error {
		t, err := rc.FetchInfra(gctx)
		if err == nil {
			tables.Infra = t
		}
		record(2, "infrastructure", len(t), err)
		return nil
	})

	_ = g.Wait()

	return tables, statuses
}
