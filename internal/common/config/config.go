package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret    string
	AccessTTL time.Duration
}

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// RedisConfig holds cache settings. An empty URL disables caching.
type RedisConfig struct {
	URL string
	TTL time.Duration
}

// S3Config holds object storage settings. An empty bucket disables uploads.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Load reads an optional .env file and returns a viper instance bound to
// environment variables with the given prefix (e.g. RENTAL_DB_HOST).
func Load(prefix string) (*viper.Viper, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ACCESS_TTL", "24h")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("S3_REGION", "us-east-1")

	if IsProduction(GetAppEnv(v)) && v.GetString("JWT_SECRET") == defaultJWTSecret {
		return nil, fmt.Errorf("config: %s_JWT_SECRET must be set in production", prefix)
	}
	return v, nil
}

// GetAppEnv returns the lower-cased APP_ENV value.
func GetAppEnv(v *viper.Viper) string {
	return strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV")))
}

// GetServicePort returns the listen address for the given key, defaulting to :8080.
func GetServicePort(v *viper.Viper, key string) string {
	port := strings.TrimSpace(v.GetString(key))
	if port == "" {
		return ":8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

// LoadDatabaseConfig reads the database group; dbNameKey names the database key.
func LoadDatabaseConfig(v *viper.Viper, dbNameKey string) DatabaseConfig {
	return DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetString("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString(dbNameKey),
		SSLMode:  v.GetString("DB_SSLMODE"),
	}
}

// LoadJWTConfig reads the JWT group.
func LoadJWTConfig(v *viper.Viper) JWTConfig {
	ttl := v.GetDuration("JWT_ACCESS_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return JWTConfig{Secret: v.GetString("JWT_SECRET"), AccessTTL: ttl}
}

// LoadKafkaConfig reads the Kafka group; brokers are comma separated.
func LoadKafkaConfig(v *viper.Viper) KafkaConfig {
	return KafkaConfig{
		Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
		GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
	}
}

// LoadRedisConfig reads the cache group.
func LoadRedisConfig(v *viper.Viper) RedisConfig {
	ttl := v.GetDuration("CACHE_TTL")
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return RedisConfig{URL: v.GetString("REDIS_URL"), TTL: ttl}
}

// LoadS3Config reads the object storage group.
func LoadS3Config(v *viper.Viper) S3Config {
	return S3Config{
		Bucket:        v.GetString("S3_BUCKET"),
		Region:        v.GetString("S3_REGION"),
		Endpoint:      v.GetString("S3_ENDPOINT"),
		PublicBaseURL: strings.TrimRight(v.GetString("S3_PUBLIC_BASE_URL"), "/"),
	}
}

// GetList returns a comma separated value as a trimmed slice.
func GetList(v *viper.Viper, key string) []string {
	return splitList(v.GetString(key))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsProduction reports whether env names a production-like environment.
// Logging and secret checks both key off it.
func IsProduction(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "release":
		return true
	}
	return false
}
