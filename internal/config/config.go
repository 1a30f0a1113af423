package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"streakTrackerAPI/internal/streak"
)

type Config struct {
	Port        string `env:"PORT,default=5000"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"JWT_TTL,default=24h"`

	StreakTimezone  string `env:"STREAK_TIMEZONE,default=Asia/Kolkata"`
	StreakGapPolicy string `env:"STREAK_GAP_POLICY,default=tolerant"`

	RedisURL       string        `env:"REDIS_URL"`
	StreakCacheTTL time.Duration `env:"STREAK_CACHE_TTL,default=5m"`

	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC,default=streak-events"`
	EventWorkers int    `env:"EVENT_WORKERS,default=3"`

	MetricsUser string `env:"METRICS_USER"`
	MetricsPass string `env:"METRICS_PASS"`
	PprofSecret string `env:"PPROF_SECRET"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogPretty bool   `env:"LOG_PRETTY,default=false"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=30"`

	MigrateOnStart bool `env:"MIGRATE_ON_START,default=true"`

	// resolved from StreakTimezone and StreakGapPolicy by Load
	loc    *time.Location
	policy streak.GapPolicy
}

// Load reads an optional .env file and decodes the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) resolve() error {
	loc, err := time.LoadLocation(c.StreakTimezone)
	if err != nil {
		return fmt.Errorf("invalid STREAK_TIMEZONE %q: %w", c.StreakTimezone, err)
	}
	policy, err := streak.ParseGapPolicy(c.StreakGapPolicy)
	if err != nil {
		return fmt.Errorf("invalid STREAK_GAP_POLICY: %w", err)
	}
	c.loc = loc
	c.policy = policy
	return nil
}

// Location is the zone streak days are resolved in. Only valid on a Config
// returned by Load.
func (c *Config) Location() *time.Location {
	return c.loc
}

func (c *Config) GapPolicy() streak.GapPolicy {
	return c.policy
}

func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
