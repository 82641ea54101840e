package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Google    GoogleConfig
	RabbitMQ  RabbitMQConfig
	Upload    UploadConfig
	Sentry    SentryConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port        string
	Env         string
	BaseURL     string
	AdminEmails []string
	CORSOrigins []string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type GoogleConfig struct {
	ClientID string
	JWKSURL  string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

type SentryConfig struct {
	DSN string
}

type TelemetryConfig struct {
	Endpoint    string
	ServiceName string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_BASE_URL", "http://localhost:8080")
	v.SetDefault("ADMIN_EMAILS", "")
	v.SetDefault("CORS_ORIGINS", "")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "medical")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ACCESS_EXPIRY", "24h")

	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "marketplace.events")

	v.SetDefault("UPLOAD_DIR", "public/uploads")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)

	v.SetDefault("SENTRY_DSN", "")

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_SERVICE_NAME", "medical-marketplace")
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	return load(viper.New(), ".env")
}

func load(v *viper.Viper, envFile string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 24 * time.Hour
	}

	baseURL := strings.TrimRight(v.GetString("APP_BASE_URL"), "/")
	corsOrigins := ParseOriginList(v.GetString("CORS_ORIGINS"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{baseURL}
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			BaseURL:     baseURL,
			AdminEmails: ParseEmailList(v.GetString("ADMIN_EMAILS")),
			CORSOrigins: corsOrigins,
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Google: GoogleConfig{
			ClientID: v.GetString("GOOGLE_CLIENT_ID"),
			JWKSURL:  v.GetString("GOOGLE_JWKS_URL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		Upload: UploadConfig{
			Dir:      v.GetString("UPLOAD_DIR"),
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
		},
		Sentry: SentryConfig{
			DSN: v.GetString("SENTRY_DSN"),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName: v.GetString("OTEL_SERVICE_NAME"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, ErrMissingJWTSecret
	}

	return config, nil
}

// ParseEmailList splits a comma separated list, trimming and lower-casing entries.
func ParseEmailList(s string) []string {
	return parseList(s, func(p string) string {
		return strings.ToLower(strings.TrimSpace(p))
	})
}

// ParseOriginList splits a comma separated list of origins such as
// "https://app.example.com, http://localhost:3000/", dropping trailing slashes.
func ParseOriginList(s string) []string {
	return parseList(s, func(p string) string {
		return strings.TrimRight(strings.ToLower(strings.TrimSpace(p)), "/")
	})
}

func parseList(s string, normalize func(string) string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := normalize(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}
