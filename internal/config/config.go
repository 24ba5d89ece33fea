package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// DevJWTSecret signs tokens in development when JWT_SECRET is unset. Any
// other environment must provide its own secret.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"development"`
	APIBaseURL  string `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`

	// Storage settings
	StorageDriver      string `envconfig:"STORAGE_DRIVER" default:"postgres"`
	DBConnectionString string `envconfig:"DATABASE_URL"`
	AutoMigrate        bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	JWTSecret string `envconfig:"JWT_SECRET"`

	// Stripe settings
	StripeSecretKey      string `envconfig:"STRIPE_SECRET_KEY" required:"true"`
	StripePublishableKey string `envconfig:"STRIPE_PUBLISHABLE_KEY" required:"true"`
	StripeWebhookSecret  string `envconfig:"STRIPE_WEBHOOK_SECRET"`

	// Contact notifications
	SendGridAPIKey     string `envconfig:"SENDGRID_API_KEY"`
	ContactNotifyEmail string `envconfig:"CONTACT_NOTIFY_EMAIL"`
	FromEmail          string `envconfig:"FROM_EMAIL" default:"no-reply@cyberacademy.local"`

	// Course list cache
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	// Course and blog images
	S3URL       string        `envconfig:"S3_URL"`
	S3Bucket    string        `envconfig:"S3_BUCKET"`
	S3Region    string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string        `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string        `envconfig:"S3_SECRET_KEY"`
	S3URLExpiry time.Duration `envconfig:"S3_URL_EXPIRY" default:"1h"`

	// Pub/Sub settings
	GCPProjectID          string `envconfig:"GCP_PROJECT_ID"`
	PubSubEnrollmentTopic string `envconfig:"ENROLLMENT_TOPIC" default:"enrollment-events"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY must not be empty")
	}
	if c.StripePublishableKey == "" {
		return fmt.Errorf("STRIPE_PUBLISHABLE_KEY must not be empty")
	}
	if c.JWTSecret == "" {
		if c.Environment != "development" {
			return fmt.Errorf("JWT_SECRET is required when ENV=%s", c.Environment)
		}
		c.JWTSecret = DevJWTSecret
	}
	if c.Environment != "development" && c.JWTSecret == DevJWTSecret {
		return fmt.Errorf("JWT_SECRET must not be the development secret when ENV=%s", c.Environment)
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DBConnectionString == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}
