package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the application reads. All values
// come from the environment; a local .env file is honored when present.
type Config struct {
	Env         string // local, development, production
	Port        int
	DatabaseURL string

	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Minio MinioConfig
	SMTP  SMTPConfig

	// BaseURL is used to build password-reset links.
	BaseURL string

	// Fixed-window rate limit applied to the auth endpoints.
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// MinioConfig holds the object storage settings for service images.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// SMTPConfig holds mail delivery settings. An empty Password disables
// real delivery; the notifier then only logs the reset link.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// MustLoad reads configuration from the environment and panics on values
// that cannot be parsed. Call it once at startup.
func MustLoad() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:         getEnv("ANHA_ENV", "development"),
		Port:        mustInt("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: mustDuration("ACCESS_TOKEN_TTL", "12h"),
		ResetTokenTTL:  mustDuration("RESET_TOKEN_TTL", "30m"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       mustInt("REDIS_DB", "0"),

		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
			Bucket:    getEnv("MINIO_BUCKET", "service-images"),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     mustInt("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "noreply@anha.example"),
		},

		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		RateLimitMax:    mustInt("RATE_LIMIT_MAX", "10"),
		RateLimitWindow: mustDuration("RATE_LIMIT_WINDOW", "1m"),
	}
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

func mustInt(key, fallback string) int {
	n, err := strconv.Atoi(getEnv(key, fallback))
	if err != nil {
		panic("config: " + key + " must be an integer")
	}
	return n
}

func mustDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		panic("config: " + key + " must be a duration")
	}
	return d
}
