package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Detector   DetectorConfig   `yaml:"detector"`
	Load       LoadConfig       `yaml:"load"`
	Ingest     IngestConfig     `yaml:"ingest"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the connection configuration for the durable history
// sink.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // sqlite (default) or postgres
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// DetectorConfig tunes the bottleneck and mistake detection cycle.
type DetectorConfig struct {
	Enabled              bool          `yaml:"enabled"`
	IntervalSeconds      int           `yaml:"interval_seconds"`
	Interval             time.Duration `yaml:"-"` // Ignored by YAML parser
	BaseBacklogThreshold int           `yaml:"base_backlog_threshold"`
	MiningWindowMinutes  int           `yaml:"mining_window_minutes"`
	MiningWindow         time.Duration `yaml:"-"`
	MinOccurrences       int           `yaml:"min_occurrences"`
	CriticalOccurrences  int           `yaml:"critical_occurrences"`
}

// LoadConfig seeds the operator-tunable kitchen load state.
type LoadConfig struct {
	GlobalPercent        int            `yaml:"global_percent"`
	LateThresholdMinutes int            `yaml:"late_threshold_minutes"`
	Stations             map[string]int `yaml:"stations"`
}

// IngestConfig tunes the built-in ticket ingestion simulator.
type IngestConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
	Operator        string        `yaml:"operator"`
	Seed            int64         `yaml:"seed"`
}

// WorkerPoolConfig holds the configuration for the ticket archive worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills zero values with workable defaults. Exported so tests
// can build configs without a file on disk.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 3
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "kitchen.db"
	}

	if cfg.Detector.IntervalSeconds <= 0 {
		cfg.Detector.IntervalSeconds = 5
	}
	cfg.Detector.Interval = time.Duration(cfg.Detector.IntervalSeconds) * time.Second
	if cfg.Detector.BaseBacklogThreshold <= 0 {
		cfg.Detector.BaseBacklogThreshold = 5
	}
	if cfg.Detector.MiningWindowMinutes <= 0 {
		cfg.Detector.MiningWindowMinutes = 240
	}
	cfg.Detector.MiningWindow = time.Duration(cfg.Detector.MiningWindowMinutes) * time.Minute
	if cfg.Detector.MinOccurrences <= 0 {
		cfg.Detector.MinOccurrences = 3
	}
	if cfg.Detector.CriticalOccurrences <= 0 {
		cfg.Detector.CriticalOccurrences = 5
	}

	if cfg.Load.LateThresholdMinutes <= 0 {
		cfg.Load.LateThresholdMinutes = 10
	}

	if cfg.Ingest.IntervalSeconds <= 0 {
		cfg.Ingest.IntervalSeconds = 20
	}
	cfg.Ingest.Interval = time.Duration(cfg.Ingest.IntervalSeconds) * time.Second
	if cfg.Ingest.Operator == "" {
		cfg.Ingest.Operator = "order-intake"
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
