package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	APIVersion string
	Domain     string
	LogLevel   string

	DatabaseURL string

	JWTSecret    []byte
	JWTAlgorithm string

	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	JTIExpiry          time.Duration
	SafeTokenExpiry    time.Duration

	RedisHost string
	RedisPort string

	ResendAPIKey string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	return &Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		APIVersion: EnvDefault("API_VERSION", "v1"),
		Domain:     EnvDefault("DOMAIN", "localhost:8080"),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		JWTAlgorithm: EnvDefault("JWT_ALGORITHM", "HS256"),

		AccessTokenExpiry:  time.Duration(EnvIntDefault("ACCESS_TOKEN_EXPIRY", 15)) * time.Minute,
		RefreshTokenExpiry: time.Duration(EnvIntDefault("REFRESH_TOKEN_EXPIRY", 2)) * 24 * time.Hour,
		JTIExpiry:          time.Duration(EnvIntDefault("JTI_EXPIRY", 3600)) * time.Second,
		SafeTokenExpiry:    time.Duration(EnvIntDefault("SAFE_TOKEN_EXPIRY", 86400)) * time.Second,

		RedisHost: EnvDefault("REDIS_HOST", "localhost"),
		RedisPort: EnvDefault("REDIS_PORT", "6379"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
