package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig     `json:"server"`
	Snapshot   SnapshotConfig   `json:"snapshot"`
	Registries RegistriesConfig `json:"registries"`
	Cache      CacheConfig      `json:"cache"`
	Redis      RedisConfig      `json:"redis"`
	GeoIP      GeoIPConfig      `json:"geoip"`
	MongoDB    MongoDBConfig    `json:"mongodb"`
	Discord    DiscordConfig    `json:"discord"`
	Versions   VersionsConfig   `json:"versions"`
}

type ServerConfig struct {
	Port           int      `json:"port"`
	Host           string   `json:"host"`
	AllowedOrigins []string `json:"allowed_origins"`
}

type SnapshotConfig struct {
	Path            string `json:"path"`
	RefreshInterval int    `json:"refresh_interval_seconds"`
}

// RegistriesConfig points at the three enrichment sources. An empty URL
// disables that source, which then contributes an empty table.
type RegistriesConfig struct {
	NamesURL         string `json:"names_url"`
	ParticipationURL string `json:"participation_url"`
	InfraURL         string `json:"infra_url"`
	InfraToken       string `json:"infra_token"`
	Timeout          int    `json:"timeout_seconds"`
}

type CacheConfig struct {
	TTL int `json:"ttl_seconds"`
}

type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `json:"enabled"`
	UseTLS   bool   `json:"use_tls"`
}

type GeoIPConfig struct {
	ASNDBPath  string `json:"asn_db_path"`
	CityDBPath string `json:"city_db_path"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
	Enabled  bool   `json:"enabled"`
}

type DiscordConfig struct {
	Token     string `json:"token"`
	ChannelID string `json:"channel_id"`
}

type VersionsConfig struct {
	CurrentStable string `json:"current_stable"`
	MinSupported  string `json:"min_supported"`
	Deprecated    string `json:"deprecated"`
}

// Default returns the built-in configuration before any overrides
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		Snapshot: SnapshotConfig{
			Path:            "data/validators.json",
			RefreshInterval: 300,
		},
		Registries: RegistriesConfig{
			NamesURL:         "https://api.stakewiz.com/validators",
			ParticipationURL: "https://api.solana.org/api/community/v1/sfdp_participants",
			InfraURL:         "https://www.validators.app/api/v1/validators/mainnet.json",
			Timeout:          10,
		},
		Cache: CacheConfig{
			TTL: 600,
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
			DB:      0,
			Enabled: false,
		},
		MongoDB: MongoDBConfig{
			URI:      "mongodb://localhost:27017",
			Database: "validator_versions",
			Enabled:  false,
		},
		Versions: VersionsConfig{
			CurrentStable: "3.1.0",
			MinSupported:  "3.0.0",
			Deprecated:    "2.3.0",
		},
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := Default()

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config/config.json"
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err == nil {
			defer file.Close()
			if err := json.NewDecoder(file).Decode(cfg); err != nil {
				fmt.Printf("Warning: Failed to decode config file: %v\n", err)
			}
		}
	}

	// Environment overrides the config file
	loadEnv(cfg)

	// Command-line flags override everything
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var serverPort int
	var serverHost, snapshotPath string

	fs.IntVar(&serverPort, "port", 0, "Server port")
	fs.StringVar(&serverHost, "host", "", "Server host")
	fs.StringVar(&snapshotPath, "snapshot", "", "Validator snapshot JSON file")

	_ = fs.Parse(os.Args[1:])

	if isFlagPassed(fs, "port") {
		cfg.Server.Port = serverPort
	}
	if isFlagPassed(fs, "host") {
		cfg.Server.Host = serverHost
	}
	if isFlagPassed(fs, "snapshot") {
		cfg.Snapshot.Path = snapshotPath
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the services cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Snapshot.RefreshInterval <= 0 {
		return fmt.Errorf("invalid snapshot refresh interval %d", c.Snapshot.RefreshInterval)
	}
	return nil
}

func isFlagPassed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func envInt(name string, dst *int) {
	if val := os.Getenv(name); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			*dst = p
		}
	}
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		*dst = val == "true" || val == "1"
	}
}

func loadEnv(cfg *Config) {
	envInt("SERVER_PORT", &cfg.Server.Port)
	envString("SERVER_HOST", &cfg.Server.Host)
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.Server.AllowedOrigins = parts
	}

	envString("SNAPSHOT_PATH", &cfg.Snapshot.Path)
	envInt("SNAPSHOT_REFRESH_INTERVAL", &cfg.Snapshot.RefreshInterval)

	envString("NAMES_REGISTRY_URL", &cfg.Registries.NamesURL)
	envString("SFDP_REGISTRY_URL", &cfg.Registries.ParticipationURL)
	envString("INFRA_REGISTRY_URL", &cfg.Registries.InfraURL)
	envString("INFRA_REGISTRY_TOKEN", &cfg.Registries.InfraToken)
	envInt("REGISTRY_TIMEOUT", &cfg.Registries.Timeout)

	envInt("CACHE_TTL", &cfg.Cache.TTL)

	envString("REDIS_ADDRESS", &cfg.Redis.Address)
	envString("REDIS_PASSWORD", &cfg.Redis.Password)
	envInt("REDIS_DB", &cfg.Redis.DB)
	envBool("REDIS_ENABLED", &cfg.Redis.Enabled)
	envBool("REDIS_USE_TLS", &cfg.Redis.UseTLS)

	envString("GEOIP_ASN_DB_PATH", &cfg.GeoIP.ASNDBPath)
	envString("GEOIP_CITY_DB_PATH", &cfg.GeoIP.CityDBPath)

	envString("MONGODB_URI", &cfg.MongoDB.URI)
	envString("MONGODB_DATABASE", &cfg.MongoDB.Database)
	envBool("MONGODB_ENABLED", &cfg.MongoDB.Enabled)

	envString("DISCORD_BOT_TOKEN", &cfg.Discord.Token)
	envString("DISCORD_CHANNEL_ID", &cfg.Discord.ChannelID)

	envString("VERSION_CURRENT_STABLE", &cfg.Versions.CurrentStable)
	envString("VERSION_MIN_SUPPORTED", &cfg.Versions.MinSupported)
	envString("VERSION_DEPRECATED", &cfg.Versions.Deprecated)
}

// Helper methods for duration conversion
func (c *Config) RegistryTimeoutDuration() time.Duration {
	return time.Duration(c.Registries.Timeout) * time.Second
}

func (c *Config) RefreshIntervalDuration() time.Duration {
	return time.Duration(c.Snapshot.RefreshInterval) * time.Second
}

func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}
