package config

import (
	"github.com/Nestaway-Rentals/service-rental/internal/common/config"
)

// EnvPrefix is the environment variable prefix for this service.
const EnvPrefix = "RENTAL"

// ServiceConfig holds all configuration for the rental service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    config.DatabaseConfig
	JWTConfig   config.JWTConfig
	KafkaConfig config.KafkaConfig
	RedisConfig config.RedisConfig
	S3Config    config.S3Config
	CORSOrigins []string
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load(EnvPrefix)
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "rental_db")

	return &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		RedisConfig: config.LoadRedisConfig(v),
		S3Config:    config.LoadS3Config(v),
		CORSOrigins: config.GetList(v, "CORS_ALLOWED_ORIGINS"),
	}, nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development" || c.AppEnv == "dev"
}
