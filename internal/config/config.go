package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/MrJamesThe3rd/levy/internal/database"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Levy"`
		Port int    `envconfig:"PORT" default:"8080"`

		// Printed on demand notices.
		Authority        string `envconfig:"AUTHORITY_NAME" default:"Abuja Municipal Area Council"`
		AuthorityAddress string `envconfig:"AUTHORITY_ADDRESS"`
		AuthorityContact string `envconfig:"AUTHORITY_CONTACT"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"levy"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`

		MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
		MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
		ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"SERVER_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`

		// Recorded as the verifier on decisions made from the console.
		Operator string `envconfig:"LEVY_OPERATOR"`
	}

	Assessment struct {
		GracePeriod  time.Duration `envconfig:"NOTICE_GRACE_PERIOD" default:"720h"`
		ValidityDays int           `envconfig:"ASSESSMENT_VALIDITY_DAYS" default:"365"`
	}

	Redis struct {
		Addr        string        `envconfig:"REDIS_ADDR"`
		Password    string        `envconfig:"REDIS_PASSWORD"`
		DB          int           `envconfig:"REDIS_DB" default:"0"`
		CacheTTL    time.Duration `envconfig:"REDIS_CACHE_TTL" default:"5m"`
		FeedChannel string        `envconfig:"REDIS_FEED_CHANNEL" default:"levy:payments"`
	}

	Kafka struct {
		Brokers []string `envconfig:"KAFKA_BROKERS"`
		Topic   string   `envconfig:"KAFKA_TOPIC" default:"levy.payments"`
	}

	Storage struct {
		Endpoint  string        `envconfig:"STORAGE_ENDPOINT"`
		AccessKey string        `envconfig:"STORAGE_ACCESS_KEY"`
		SecretKey string        `envconfig:"STORAGE_SECRET_KEY"`
		Bucket    string        `envconfig:"STORAGE_BUCKET" default:"levy-documents"`
		UseSSL    bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
		URLExpiry time.Duration `envconfig:"STORAGE_URL_EXPIRY" default:"168h"`
	}

	Gateway struct {
		Provider string        `envconfig:"GATEWAY_PROVIDER" default:"paystack"`
		Timeout  time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"10s"`

		PaystackSecret  string `envconfig:"PAYSTACK_SECRET_KEY"`
		PaystackBaseURL string `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
		CallbackURL     string `envconfig:"PAYSTACK_CALLBACK_URL"`

		RemitaMerchantID string `envconfig:"REMITA_MERCHANT_ID"`
		RemitaServiceID  string `envconfig:"REMITA_SERVICE_TYPE_ID"`
		RemitaAPIKey     string `envconfig:"REMITA_API_KEY"`
		RemitaBaseURL    string `envconfig:"REMITA_BASE_URL" default:"https://remitademo.net/remita/exapp/api/v1/send/api"`
	}

	Notify struct {
		SMTPHost     string `envconfig:"SMTP_HOST"`
		SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
		SMTPUser     string `envconfig:"SMTP_USER"`
		SMTPPassword string `envconfig:"SMTP_PASSWORD"`
		From         string `envconfig:"NOTIFY_FROM" default:"noreply@levy.local"`

		SMSBaseURL string `envconfig:"SMS_BASE_URL"`
		SMSAPIKey  string `envconfig:"SMS_API_KEY"`
		SMSSender  string `envconfig:"SMS_SENDER" default:"LEVY"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Pool() database.Pool {
	return database.Pool{
		MaxOpen:     c.DB.MaxOpenConns,
		MaxIdle:     c.DB.MaxIdleConns,
		MaxLifetime: c.DB.ConnMaxLifetime,
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
