// Package config loads the vale configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no Riot API key is configured.
var ErrMissingAPIKey = errors.New("riot API key not found: set RIOT_API_KEY or create ~/.vale/riot_api_key")

// Storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config represents the application configuration
type Config struct {
	Riot     RiotConfig     `yaml:"riot"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Groups   []GroupConfig  `yaml:"groups"`
	Seeds    []SeedConfig   `yaml:"seeds"`
	Storage  StorageConfig  `yaml:"storage"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Schedule ScheduleConfig `yaml:"schedule"`
}

// RiotConfig holds Riot API client settings
type RiotConfig struct {
	APIKey      string        `yaml:"api_key"`
	Spacing     time.Duration `yaml:"spacing"`
	// MaxRetries caps 429 retries; 0 disables them. Unset means 5.
	MaxRetries  *int          `yaml:"max_retries"`
	RetryMargin time.Duration `yaml:"retry_margin"`
	Timeout     time.Duration `yaml:"timeout"`
}

// IngestConfig controls what is collected per player
type IngestConfig struct {
	MatchesPerPlayer int   `yaml:"matches_per_player"`
	// Queue filters match enumeration; 0 enumerates every queue. Unset means 420.
	Queue            *int  `yaml:"queue"`
	SeedQueues       []int `yaml:"seed_queues"`
	Mastery          bool  `yaml:"mastery"`
}

// GroupConfig is one routing group (americas, europe, asia, sea) and the
// platforms collected through it, in order.
type GroupConfig struct {
	Name      string           `yaml:"name"`
	Platforms []PlatformConfig `yaml:"platforms"`
}

// PlatformConfig sets how many players to discover on a platform and how
// many stored matches the monitor counts as complete.
type PlatformConfig struct {
	Name    string `yaml:"name"`
	Players int    `yaml:"players"`
	Target  int    `yaml:"target"`
}

// SeedConfig is a player addressed by Riot ID.
type SeedConfig struct {
	GameName string `yaml:"game_name"`
	TagLine  string `yaml:"tag_line"`
	Group    string `yaml:"group"`
	Platform string `yaml:"platform"`
}

// StorageConfig selects the store
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxConnections  int           `yaml:"max_connections"`
	MinConnections  int           `yaml:"min_connections"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// RedisConfig holds the shared seen-set connection. Disabled unless enabled.
type RedisConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	Key         string        `yaml:"key"`
	PoolSize    int           `yaml:"pool_size"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// KafkaConfig holds the ingested-match publisher configuration
type KafkaConfig struct {
	Enabled       bool     `yaml:"enabled"`
	Brokers       []string `yaml:"brokers"`
	Topic         string   `yaml:"topic"`
	RetryAttempts int      `yaml:"retry_attempts"`
}

// ArchiveConfig enables raw payload archiving when Dir is set.
type ArchiveConfig struct {
	Dir string `yaml:"dir"`
}

// ScheduleConfig holds the cron spec of the schedule command (with seconds).
type ScheduleConfig struct {
	Spec string `yaml:"spec"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory is loaded first so the file can reference its variables.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to DefaultConfig
// otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		_ = godotenv.Load()
		return DefaultConfig(), nil
	}
	return Load(path)
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Riot.Spacing == 0 {
		c.Riot.Spacing = 1300 * time.Millisecond
	}
	if c.Riot.MaxRetries == nil {
		c.Riot.MaxRetries = intPtr(5)
	}
	if c.Riot.RetryMargin == 0 {
		c.Riot.RetryMargin = 2 * time.Second
	}
	if c.Riot.Timeout == 0 {
		c.Riot.Timeout = 15 * time.Second
	}

	if c.Ingest.MatchesPerPlayer == 0 {
		c.Ingest.MatchesPerPlayer = 30
	}
	if c.Ingest.Queue == nil {
		c.Ingest.Queue = intPtr(420)
	}
	if len(c.Ingest.SeedQueues) == 0 {
		c.Ingest.SeedQueues = []int{420, 440}
	}

	if len(c.Groups) == 0 {
		c.Groups = defaultGroups()
	}
	for i := range c.Seeds {
		if c.Seeds[i].Group == "" {
			c.Seeds[i].Group = "americas"
		}
		if c.Seeds[i].Platform == "" {
			c.Seeds[i].Platform = "br1"
		}
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendSQLite
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(homeDir(), ".vale", "analytics.db")
	}

	if c.Postgres.DSN == "" {
		c.Postgres.DSN = os.Getenv("DATABASE_URL")
	}
	if c.Postgres.MaxConnections == 0 {
		c.Postgres.MaxConnections = 10
	}
	if c.Postgres.MinConnections == 0 {
		c.Postgres.MinConnections = 1
	}
	if c.Postgres.MaxConnLifetime == 0 {
		c.Postgres.MaxConnLifetime = 1 * time.Hour
	}
	if c.Postgres.MaxConnIdleTime == 0 {
		c.Postgres.MaxConnIdleTime = 30 * time.Minute
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.Key == "" {
		c.Redis.Key = "vale:seen_matches"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}

	if len(c.Kafka.Brokers) == 0 {
		c.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "vale-matches-ingested"
	}
	if c.Kafka.RetryAttempts == 0 {
		c.Kafka.RetryAttempts = 3
	}

	if c.Schedule.Spec == "" {
		c.Schedule.Spec = "0 0 */6 * * *"
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres backend selected but no dsn configured (postgres.dsn or DATABASE_URL)")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	seen := make(map[string]bool, len(c.Groups))
	for _, g := range c.Groups {
		if g.Name == "" {
			return errors.New("region group without a name")
		}
		if seen[g.Name] {
			return fmt.Errorf("region group %q configured twice", g.Name)
		}
		seen[g.Name] = true
		for _, p := range g.Platforms {
			if p.Name == "" {
				return fmt.Errorf("group %s: platform without a name", g.Name)
			}
		}
	}
	return nil
}

// Group returns the configured group with the given name.
func (c *Config) Group(name string) (GroupConfig, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return GroupConfig{}, false
}

// GroupOf returns the routing group that serves platform.
func (c *Config) GroupOf(platform string) (string, bool) {
	platform = strings.ToLower(platform)
	for _, g := range c.Groups {
		for _, p := range g.Platforms {
			if p.Name == platform {
				return g.Name, true
			}
		}
	}
	return "", false
}

// Targets maps each configured platform to its monitor target.
func (c *Config) Targets() map[string]int {
	out := make(map[string]int)
	for _, g := range c.Groups {
		for _, p := range g.Platforms {
			out[p.Name] = p.Target
		}
	}
	return out
}

// APIKey returns the Riot API key from the config file, the RIOT_API_KEY
// environment variable or ~/.vale/riot_api_key, in that order.
func (c *Config) APIKey() (string, error) {
	if c.Riot.APIKey != "" {
		return c.Riot.APIKey, nil
	}
	if key := os.Getenv("RIOT_API_KEY"); key != "" {
		return key, nil
	}
	data, err := os.ReadFile(filepath.Join(homeDir(), ".vale", "riot_api_key"))
	if err != nil {
		return "", ErrMissingAPIKey
	}
	key := strings.TrimSpace(string(data))
	if key == "" {
		return "", ErrMissingAPIKey
	}
	return key, nil
}

func defaultGroups() []GroupConfig {
	return []GroupConfig{
		{Name: "americas", Platforms: []PlatformConfig{
			{Name: "na1", Players: 1000, Target: 6000},
			{Name: "br1", Players: 1000, Target: 6000},
			{Name: "la1", Players: 500, Target: 1000},
			{Name: "la2", Players: 500, Target: 1000},
		}},
		{Name: "europe", Platforms: []PlatformConfig{
			{Name: "euw1", Players: 1000, Target: 8000},
			{Name: "eun1", Players: 800, Target: 2000},
			{Name: "tr1", Players: 500, Target: 1000},
			{Name: "ru", Players: 300, Target: 500},
		}},
		{Name: "asia", Platforms: []PlatformConfig{
			{Name: "kr", Players: 2000, Target: 12000},
		}},
		{Name: "sea", Platforms: []PlatformConfig{
			{Name: "oc1", Players: 300, Target: 2000},
		}},
	}
}

func intPtr(v int) *int { return &v }

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
