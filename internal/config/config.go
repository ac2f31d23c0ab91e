package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported durable state backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Port   string
	AppEnv string

	StateBackend  string
	StateKey      string
	SQLitePath    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JobFeeds     []string
	JobFeedsOPML string
	// PollInterval overrides the stored polling setting at startup when
	// POLL_INTERVAL is set; OverridePoll records that it was.
	PollInterval time.Duration
	OverridePoll bool

	LogLevel string

	// DevUser, when set, is the identity used for requests that arrive
	// without the auth proxy headers. Format: "Name|Initials|Avatar".
	DevUser string

	ReplyMinDelay   time.Duration
	ReplyMaxDelay   time.Duration
	RescheduleDelay time.Duration
	ToastTTL        time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := &Config{
		Port:   getEnvString("PORT", "8080"),
		AppEnv: getEnvString("APP_ENV", "development"),

		StateBackend:  strings.ToLower(getEnvString("STATE_BACKEND", BackendSQLite)),
		StateKey:      getEnvString("STATE_KEY", "persist:root"),
		SQLitePath:    getEnvString("SQLITE_PATH", "jobdesk.sqlite"),
		DatabaseURL:   getEnvString("DATABASE_URL", ""),
		RedisAddr:     getEnvString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvString("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JobFeeds:     getEnvList("JOB_FEEDS"),
		JobFeedsOPML: getEnvString("JOB_FEEDS_OPML", ""),
		PollInterval: getEnvDuration("POLL_INTERVAL", 30*time.Minute),

		DevUser:  getEnvString("DEV_USER", ""),
		LogLevel: getEnvString("LOG_LEVEL", ""),

		ReplyMinDelay:   getEnvDuration("REPLY_MIN_DELAY", 1500*time.Millisecond),
		ReplyMaxDelay:   getEnvDuration("REPLY_MAX_DELAY", 3500*time.Millisecond),
		RescheduleDelay: getEnvDuration("RESCHEDULE_DELAY", 1200*time.Millisecond),
		ToastTTL:        getEnvDuration("TOAST_TTL", 4*time.Second),
	}

	_, cfg.OverridePoll = os.LookupEnv("POLL_INTERVAL")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the combinations that cannot start.
func (c *Config) Validate() error {
	switch c.StateBackend {
	case BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must be set for the sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for the postgres backend")
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR must be set for the redis backend")
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.ReplyMaxDelay < c.ReplyMinDelay {
		return fmt.Errorf("REPLY_MAX_DELAY (%s) is below REPLY_MIN_DELAY (%s)", c.ReplyMaxDelay, c.ReplyMinDelay)
	}
	return nil
}

// IsProduction reports whether production logging should be used.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
