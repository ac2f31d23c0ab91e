package config

import (
	"reflect"
	"testing"
	"time"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{
		StateBackend:  BackendSQLite,
		SQLitePath:    "jobdesk.sqlite",
		PollInterval:  30 * time.Minute,
		ReplyMinDelay: 1500 * time.Millisecond,
		ReplyMaxDelay: 3500 * time.Millisecond,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate = %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STATE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("JOB_FEEDS", " https://a.example/rss , ,https://b.example/rss")
	t.Setenv("POLL_INTERVAL", "15m")
	t.Setenv("REPLY_MIN_DELAY", "10ms")
	t.Setenv("REPLY_MAX_DELAY", "20ms")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StateBackend != BackendRedis || cfg.RedisAddr != "cache:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis settings = %+v", cfg)
	}
	if want := []string{"https://a.example/rss", "https://b.example/rss"}; !reflect.DeepEqual(cfg.JobFeeds, want) {
		t.Errorf("JobFeeds = %v", cfg.JobFeeds)
	}
	if !cfg.OverridePoll || cfg.PollInterval != 15*time.Minute {
		t.Errorf("poll = %v, override = %v", cfg.PollInterval, cfg.OverridePoll)
	}
	if cfg.ReplyMinDelay != 10*time.Millisecond || cfg.ReplyMaxDelay != 20*time.Millisecond {
		t.Errorf("reply delays = %v..%v", cfg.ReplyMinDelay, cfg.ReplyMaxDelay)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			StateBackend:  BackendSQLite,
			SQLitePath:    "x.sqlite",
			PollInterval:  time.Minute,
			ReplyMinDelay: time.Second,
			ReplyMaxDelay: 2 * time.Second,
		}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.StateBackend = "mongo" }},
		{"sqlite without path", func(c *Config) { c.SQLitePath = "" }},
		{"postgres without url", func(c *Config) { c.StateBackend = BackendPostgres }},
		{"redis without addr", func(c *Config) { c.StateBackend = BackendRedis }},
		{"zero poll", func(c *Config) { c.PollInterval = 0 }},
		{"reply window inverted", func(c *Config) { c.ReplyMaxDelay = time.Millisecond }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("Validate accepted an invalid config")
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("JD_INT", "nope")
	t.Setenv("JD_DUR", "3s")
	t.Setenv("JD_EMPTY", "")

	if got := getEnvInt("JD_INT", 7); got != 7 {
		t.Errorf("getEnvInt = %d", got)
	}
	if got := getEnvDuration("JD_DUR", time.Second); got != 3*time.Second {
		t.Errorf("getEnvDuration = %v", got)
	}
	if got := getEnvString("JD_EMPTY", "fallback"); got != "" {
		t.Errorf("getEnvString = %q, want the set empty value", got)
	}
	if got := getEnvList("JD_UNSET_LIST"); got != nil {
		t.Errorf("getEnvList = %v", got)
	}
}
