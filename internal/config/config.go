package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Logging LoggingConfig `json:"logging"`
	Store   StoreConfig   `json:"store"`
	Redis   RedisConfig   `json:"redis"`
	Ingest  IngestConfig  `json:"ingest"`
	Query   QueryConfig   `json:"query"`
}

type ServerConfig struct {
	BindAddr string `json:"bindAddr"`
}

type LoggingConfig struct {
	Level string `json:"level"`
}

// StoreConfig selects the backing store. When DatabaseURL is set the
// networked PostgreSQL store is used; otherwise the embedded SQLite
// file at SQLitePath.
type StoreConfig struct {
	DatabaseURL string `json:"databaseURL"`
	SQLitePath  string `json:"sqlitePath"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type IngestConfig struct {
	Interval      string `json:"interval"`      // e.g. "4h"
	InitialDelay  string `json:"initialDelay"`  // e.g. "5s"; "off" disables the startup run
	SourceTimeout string `json:"sourceTimeout"` // per-source fetch timeout
	MaxEntries    int    `json:"maxEntries"`    // entries taken per source per run
	SourcesFile   string `json:"sourcesFile"`   // optional YAML source list
	TaxonomyFile  string `json:"taxonomyFile"`  // optional YAML taxonomy override
}

type QueryConfig struct {
	DefaultLimit int `json:"defaultLimit"`
	MaxLimit     int `json:"maxLimit"`
}

func Load() (*Config, error) {
	configFile := flag.String("f", "", "Path to configuration file")
	flag.Parse()

	cfg := &Config{
		Server: ServerConfig{
			BindAddr: getEnv("SERVER_BIND_ADDR", "0.0.0.0:8080"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			DatabaseURL: getEnv("DATABASE_URL", ""),
			SQLitePath:  getEnv("SQLITE_PATH", "alerts.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Ingest: IngestConfig{
			Interval:      getEnv("INGEST_INTERVAL", "4h"),
			InitialDelay:  getEnv("INGEST_INITIAL_DELAY", "5s"),
			SourceTimeout: getEnv("INGEST_SOURCE_TIMEOUT", "10s"),
			MaxEntries:    getEnvInt("INGEST_MAX_ENTRIES", 20),
			SourcesFile:   getEnv("INGEST_SOURCES_FILE", ""),
			TaxonomyFile:  getEnv("INGEST_TAXONOMY_FILE", ""),
		},
		Query: QueryConfig{
			DefaultLimit: getEnvInt("QUERY_DEFAULT_LIMIT", 50),
			MaxLimit:     getEnvInt("QUERY_MAX_LIMIT", 500),
		},
	}

	if *configFile != "" {
		if err := loadFromFile(cfg, *configFile); err != nil {
			return nil, err
		}
	}

	// fill reasonable defaults when fields omitted in file
	if cfg.Server.BindAddr == "" {
		cfg.Server.BindAddr = "0.0.0.0:8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "alerts.db"
	}
	if cfg.Ingest.Interval == "" {
		cfg.Ingest.Interval = "4h"
	}
	if cfg.Ingest.SourceTimeout == "" {
		cfg.Ingest.SourceTimeout = "10s"
	}
	if cfg.Ingest.MaxEntries == 0 {
		cfg.Ingest.MaxEntries = 20
	}
	if cfg.Query.DefaultLimit == 0 {
		cfg.Query.DefaultLimit = 50
	}
	if cfg.Query.MaxLimit == 0 {
		cfg.Query.MaxLimit = 500
	}

	return cfg, nil
}

// ParseDuration parses s, falling back to def on empty or invalid
// input. "off" yields a negative duration, which disables the startup
// ingestion run.
func ParseDuration(s string, def time.Duration) time.Duration {
	if s == "off" {
		return -1
	}
	if s == "" {
		return def
	}
	if v, err := time.ParseDuration(s); err == nil {
		return v
	}
	return def
}

func loadFromFile(cfg *Config, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
