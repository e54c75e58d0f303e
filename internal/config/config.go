package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/yourname/sleeprelay/internal"
)

// Context names accepted by Config.Context.
const (
	SleepTracking = "sleep-tracking"
	LifeOS        = "life-os-config"
)

// Credentials is the (token, database) pair for one Notion context.
type Credentials struct {
	Token      string `validate:"required"`
	DatabaseID string `validate:"required"`
}

type Config struct {
	Env      string `validate:"oneof=development staging production"`
	LogLevel string `validate:"oneof=debug info warn error"`
	HTTPAddr string `validate:"required"`

	SleepTracking Credentials
	// LifeOS is reserved; no endpoint uses it yet, so it may be left empty.
	LifeOS Credentials `validate:"-"`

	NotionBaseURL string        `validate:"required,url"`
	NotionVersion string        `validate:"required"`
	NotionTimeout time.Duration `validate:"gt=0"`

	JournalBackend string `validate:"oneof=file postgres none"`
	JournalFile    string `validate:"required_if=JournalBackend file"`
	PostgresDSN    string `validate:"required_if=JournalBackend postgres"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"gte=0"`

	// WakeLockTTL must outlive a whole wake: one query and one update call.
	WakeLockTTL time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, internal.ConfigError("failed to read .env", err)
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPAddr: getEnv("HTTP_ADDR", ":5000"),
		SleepTracking: Credentials{
			Token:      os.Getenv("NOTION_TOKEN"),
			DatabaseID: os.Getenv("DATABASE_ID"),
		},
		LifeOS: Credentials{
			Token:      os.Getenv("LIFEOS_NOTION_TOKEN"),
			DatabaseID: os.Getenv("LIFEOS_DATABASE_ID"),
		},
		NotionBaseURL:  getEnv("NOTION_BASE_URL", "https://api.notion.com/v1"),
		NotionVersion:  getEnv("NOTION_VERSION", "2022-06-28"),
		NotionTimeout:  getDuration("NOTION_TIMEOUT", 15*time.Second),
		JournalBackend: getEnv("JOURNAL_BACKEND", "file"),
		JournalFile:    getEnv("JOURNAL_FILE", "data/relay_events.json"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getInt("REDIS_DB", 0),
		WakeLockTTL:    getDuration("WAKE_LOCK_TTL", time.Minute),
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return internal.ConfigError("invalid configuration", err)
	}
	if c.WakeLockTTL <= 2*c.NotionTimeout {
		return internal.ConfigError(
			fmt.Sprintf("WAKE_LOCK_TTL (%s) must exceed twice NOTION_TIMEOUT (%s)", c.WakeLockTTL, c.NotionTimeout), nil)
	}
	return nil
}

// Context resolves a named context to its credentials. The snake_case names are
// accepted for compatibility with older deployments.
func (c *Config) Context(name string) (Credentials, error) {
	switch name {
	case SleepTracking, "sleep_tracker":
		return c.SleepTracking, nil
	case LifeOS, "lifeos_config":
		return c.LifeOS, nil
	default:
		return Credentials{}, internal.ConfigError(
			fmt.Sprintf("invalid context %q: use %q or %q", name, SleepTracking, LifeOS),
			internal.ErrUnknownContext)
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return d
}

// loadDotEnv sets variables from path without overriding ones already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
