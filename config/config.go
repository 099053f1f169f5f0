// Package config loads process configuration from the environment (optionally
// seeded from a .env file), applies defaults and validates the result.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// defaultOrigins are the web clients allowed to call the API with credentials.
var defaultOrigins = []string{
	"http://localhost:5173",
	"https://animals-38e02.web.app",
	"https://animals-38e02.firebaseapp.com",
}

type AuthConfig struct {
	TokenSecret string        `validate:"required"`
	TokenTTL    time.Duration `validate:"gt=0"`
	CookieName  string        `validate:"required"`
	AdminEmails []string      `validate:"dive,email"`
}

type PaymentsConfig struct {
	StripeSecretKey string
	Currency        string `validate:"required,len=3"`
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether all credentials needed for uploads are present.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type MailConfig struct {
	APIURL string
	APIKey string
	From   string
	ToName string
}

func (m MailConfig) Enabled() bool {
	return m.APIURL != "" && m.APIKey != "" && m.From != ""
}

type OTELConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	ServiceName string  `validate:"required"`
	SampleRatio float64 `validate:"gte=0,lte=1"`
}

type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration `validate:"gte=0"`
}

// Config holds every setting the server needs at start-up.
type Config struct {
	// Server
	Env               string        `validate:"oneof=development production test"`
	Port              string        `validate:"required,numeric"`
	GinMode           string        `validate:"oneof=debug release test"`
	ReadTimeout       time.Duration `validate:"gt=0"`
	ReadHeaderTimeout time.Duration `validate:"gt=0"`
	WriteTimeout      time.Duration `validate:"gt=0"`
	IdleTimeout       time.Duration `validate:"gt=0"`
	RequestTimeout    time.Duration `validate:"gt=0"`
	MaxBodyBytes      int64         `validate:"gt=0"`
	MaxUploadBytes    int64         `validate:"gtefield=MaxBodyBytes"`

	// Logging
	LogLevel  string `validate:"oneof=debug info warn error fatal panic"`
	LogPretty bool

	// Storage
	StorageDriver string `validate:"oneof=mongo memory"`
	MongoURI      string `validate:"required_if=StorageDriver mongo"`
	DBName        string `validate:"required"`

	// Rate limiting
	RateRPS   float64 `validate:"gte=0"`
	RateBurst int     `validate:"gte=1"`

	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; empty trusts none.
	TrustedProxies []string `validate:"dive,ip|cidr"`

	Auth       AuthConfig
	Payments   PaymentsConfig
	Cloudinary CloudinaryConfig
	Mail       MailConfig
	OTEL       OTELConfig
	Security   SecurityConfig
}

// Production reports whether cookies must be issued cross-site and secure.
func (c *Config) Production() bool { return c.Env == EnvProduction }

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads .env (when present) and the process environment, applies
// defaults, normalizes values and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:               strings.ToLower(firstNonEmpty(v.GetString("APP_ENV"), v.GetString("NODE_ENV"), EnvDevelopment)),
		Port:              strings.TrimSpace(v.GetString("PORT")),
		GinMode:           strings.ToLower(v.GetString("GIN_MODE")),
		ReadTimeout:       v.GetDuration("READ_TIMEOUT"),
		ReadHeaderTimeout: v.GetDuration("READ_HEADER_TIMEOUT"),
		WriteTimeout:      v.GetDuration("WRITE_TIMEOUT"),
		IdleTimeout:       v.GetDuration("IDLE_TIMEOUT"),
		RequestTimeout:    v.GetDuration("REQUEST_TIMEOUT"),
		MaxBodyBytes:      v.GetInt64("MAX_BODY_BYTES"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),

		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogPretty: v.GetBool("LOG_PRETTY"),

		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MongoURI:      v.GetString("MONGODB_URI"),
		DBName:        v.GetString("DB_NAME"),

		RateRPS:   v.GetFloat64("RATE_RPS"),
		RateBurst: v.GetInt("RATE_BURST"),

		AllowedOrigins: splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		TrustedProxies: splitCSV(v.GetString("TRUSTED_PROXIES")),

		Auth: AuthConfig{
			TokenSecret: v.GetString("TOKEN_SECRET"),
			TokenTTL:    v.GetDuration("TOKEN_TTL"),
			CookieName:  v.GetString("COOKIE_NAME"),
			AdminEmails: splitCSV(strings.ToLower(v.GetString("ADMIN_EMAILS"))),
		},
		Payments: PaymentsConfig{
			StripeSecretKey: v.GetString("STRIPE_SECRET_KEY"),
			Currency:        strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
			Folder:    v.GetString("CLOUDINARY_FOLDER"),
		},
		Mail: MailConfig{
			APIURL: v.GetString("ZEPTO_API_URL"),
			APIKey: v.GetString("ZEPTO_API_KEY"),
			From:   v.GetString("EMAIL_FROM"),
			ToName: v.GetString("EMAIL_TO_NAME"),
		},
		OTEL: OTELConfig{
			Enabled:     v.GetBool("OTEL_ENABLED"),
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			Insecure:    v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
			SampleRatio: v.GetFloat64("OTEL_TRACES_SAMPLER_ARG"),
		},
		Security: SecurityConfig{
			EnableHSTS: v.GetBool("ENABLE_HSTS"),
			HSTSMaxAge: v.GetDuration("HSTS_MAX_AGE"),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = append([]string(nil), defaultOrigins...)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("READ_TIMEOUT", 15*time.Second)
	v.SetDefault("READ_HEADER_TIMEOUT", 10*time.Second)
	v.SetDefault("WRITE_TIMEOUT", 20*time.Second)
	v.SetDefault("IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("STORAGE_DRIVER", StorageMongo)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "animels_pet")

	v.SetDefault("RATE_RPS", 10.0)
	v.SetDefault("RATE_BURST", 20)

	v.SetDefault("TOKEN_TTL", 90*24*time.Hour)
	v.SetDefault("COOKIE_NAME", "token")
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("CLOUDINARY_FOLDER", "pets")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("OTEL_SERVICE_NAME", "pet-adoption-api")
	v.SetDefault("OTEL_TRACES_SAMPLER_ARG", 1.0)

	v.SetDefault("ENABLE_HSTS", false)
	v.SetDefault("HSTS_MAX_AGE", 180*24*time.Hour)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
