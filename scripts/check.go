package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tigarcia/validator-version-monitor/config"
	"github.com/tigarcia/validator-version-monitor/services"
	"github.com/tigarcia/validator-version-monitor/utils"
)

// Dry run of one refresh against the configured sources.
// Usage: go run ./scripts -snapshot data/validators.json

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("❌ Config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Snapshot ===")
	snapshot, err := services.ReadSnapshot(cfg.Snapshot.Path)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ %d records in %s\n\n", len(snapshot), cfg.Snapshot.Path)

	fmt.Println("=== Registries ===")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	tables, statuses := services.NewRegistryClient(cfg).FetchAll(ctx)
	for _, s := range statuses {
		if s.OK {
			fmt.Printf("✅ %-15s %6d entries\n", s.Name, s.Entries)
		} else {
			fmt.Printf("❌ %-15s %s\n", s.Name, s.Error)
		}
	}
	fmt.Printf("   (took %v)\n\n", time.Since(start))

	resolver := utils.NewInfraResolver(cfg.GeoIP.ASNDBPath, cfg.GeoIP.CityDBPath)
	defer resolver.Close()
	before := len(tables.Infra)
	tables.Infra = services.SupplementInfra(snapshot, tables.Infra, resolver)
	if resolver.Enabled() {
		fmt.Printf("GeoIP filled %d infrastructure entries\n\n", len(tables.Infra)-before)
	}

	validators := services.MergeTables(snapshot, tables)
	summary := services.Summarize(validators, validators)

	fmt.Println("=== Version Distribution ===")
	for _, g := range services.VersionGroups(validators, validators) {
		fmt.Printf("%-8s %7s%%  (%d versions)\n", g.Group, g.StakePercentage, len(g.Versions))
	}
	fmt.Printf("\nSFDP stake: %s%%, delinquent: %d\n\n", summary.SfdpPercentage, summary.DelinquentCount)

	if cfg.Redis.Enabled {
		fmt.Println("=== Redis ===")
		checkRedis(cfg.Redis)
	}
}

func checkRedis(rc config.RedisConfig) {
	options := &redis.Options{
		Addr:         rc.Address,
		Password:     rc.Password,
		DB:           rc.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if rc.UseTLS {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(options)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	pong, err := client.Ping(ctx).Result()
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("❌ FAILED: %v (took %v)\n", err, elapsed)
		fmt.Printf("   - TLS enabled: %v\n", rc.UseTLS)
		return
	}
	fmt.Printf("✅ %s (took %v)\n", pong, elapsed)
}
