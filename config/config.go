package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	NotifySync  = "sync"
	NotifyQueue = "queue"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// text or json
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	Database      Database
	Redis         Redis
	Kafka         Kafka
	Elasticsearch Elasticsearch
	SMTP          SMTP
	Sentry        Sentry

	NotifyMode string `envconfig:"NOTIFY_MODE" default:"sync"`
	// lawyer search results may lag authorization changes by up to this long; 0 disables
	LawyerCacheTTL time.Duration `envconfig:"LAWYER_CACHE_TTL" default:"0s"`
}

type Database struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"justissimo"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
}

func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

type Redis struct {
	Host     string `envconfig:"REDIS_HOST"`
	Password string `envconfig:"REDIS_PASSWORD"`
}

type Kafka struct {
	Broker            string `envconfig:"KAFKA_BROKER" default:"localhost:9092"`
	NotificationTopic string `envconfig:"KAFKA_NOTIFICATION_TOPIC" default:"scheduling_notifications"`
	GroupID           string `envconfig:"KAFKA_GROUP_ID" default:"justissimo-notifications"`
}

type Elasticsearch struct {
	URL string `envconfig:"ELASTICSEARCH_URL"`
}

type SMTP struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	User     string `envconfig:"SMTP_AUTH_USER"`
	Password string `envconfig:"SMTP_AUTH_PASS"`
	// sender address; falls back to the auth user
	From string `envconfig:"SMTP_FROM"`
}

func (s SMTP) Sender() string {
	if s.From != "" {
		return s.From
	}
	return s.User
}

type Sentry struct {
	DSN string `envconfig:"SENTRY_DSN"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}

	switch cfg.NotifyMode {
	case NotifySync, NotifyQueue:
	default:
		return Config{}, fmt.Errorf("invalid NOTIFY_MODE %q (want %s or %s)", cfg.NotifyMode, NotifySync, NotifyQueue)
	}
	return cfg, nil
}
