package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Payment   PaymentConfig   `yaml:"payment"`
	Mail      MailConfig      `yaml:"mail"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	TrustedProxies  []string      `yaml:"trusted_proxies" validate:"dive,cidr"`
	RateLimit       float64       `yaml:"rate_limit" validate:"gte=0"`
	RateBurst       int           `yaml:"rate_burst" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	DSN            string `yaml:"dsn" validate:"required"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

type AuthConfig struct {
	TokenSecret string        `yaml:"token_secret" validate:"required,min=16"`
	TokenTTL    time.Duration `yaml:"token_ttl" validate:"gt=0"`
	AdminEmails []string      `yaml:"admin_emails"`
}

type StorageConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	Region        string        `yaml:"region" validate:"required"`
	Bucket        string        `yaml:"bucket" validate:"required"`
	AccessKey     string        `yaml:"access_key"`
	SecretKey     string        `yaml:"secret_key"`
	PublicBaseURL string        `yaml:"public_base_url" validate:"required,url"`
	PresignTTL    time.Duration `yaml:"presign_ttl"`
}

type PaymentConfig struct {
	BaseURL            string        `yaml:"base_url" validate:"required,url"`
	SecretKey          string        `yaml:"secret_key" validate:"required"`
	CallbackToken      string        `yaml:"callback_token" validate:"required"`
	SuccessRedirectURL string        `yaml:"success_redirect_url" validate:"omitempty,url"`
	FailureRedirectURL string        `yaml:"failure_redirect_url" validate:"omitempty,url"`
	InvoiceDuration    time.Duration `yaml:"invoice_duration" validate:"gt=0"`
}

// MailConfig with an empty host disables outgoing mail.
type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from" validate:"required_with=Host"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

type SchedulerConfig struct {
	ExpirySpec string `yaml:"expiry_spec" validate:"required"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			RateLimit:       1,
			RateBurst:       5,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Storage: StorageConfig{
			Region:     "auto",
			PresignTTL: 15 * time.Minute,
		},
		Payment: PaymentConfig{
			BaseURL:         "https://api.xendit.co",
			InvoiceDuration: 24 * time.Hour,
		},
		Mail: MailConfig{
			Port: 587,
		},
		Log: LogConfig{
			Level: "info",
		},
		Scheduler: SchedulerConfig{
			ExpirySpec: "@every 5m",
		},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error. Variables from a
// .env file in the working directory are loaded first when it exists.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "failed to read config")
		}
		if err == nil {
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "failed to parse config")
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("MAKARA_HTTP_ADDR", &c.HTTP.Addr)
	setString("DATABASE_URL", &c.Database.DSN)
	setString("TOKEN_AUTH_SECRET", &c.Auth.TokenSecret)
	setString("S3_ENDPOINT", &c.Storage.Endpoint)
	setString("S3_REGION", &c.Storage.Region)
	setString("S3_BUCKET", &c.Storage.Bucket)
	setString("S3_ACCESS_KEY", &c.Storage.AccessKey)
	setString("S3_SECRET_KEY", &c.Storage.SecretKey)
	setString("S3_PUBLIC_BASE_URL", &c.Storage.PublicBaseURL)
	setString("PAYMENT_BASE_URL", &c.Payment.BaseURL)
	setString("PAYMENT_SECRET_KEY", &c.Payment.SecretKey)
	setString("PAYMENT_CALLBACK_TOKEN", &c.Payment.CallbackToken)
	setString("SMTP_HOST", &c.Mail.Host)
	setString("SMTP_USERNAME", &c.Mail.Username)
	setString("SMTP_PASSWORD", &c.Mail.Password)
	setString("SMTP_FROM", &c.Mail.From)
	setString("LOG_LEVEL", &c.Log.Level)

	if v, ok := os.LookupEnv("SMTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "SMTP_PORT")
		}
		c.Mail.Port = port
	}

	if v, ok := os.LookupEnv("ADMIN_EMAILS"); ok {
		c.Auth.AdminEmails = splitList(v)
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.HTTP.CORSOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("TRUSTED_PROXIES"); ok {
		c.HTTP.TrustedProxies = splitList(v)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
