package config

import (
	"fmt"
	"time"

	"gocab/pkg/configparser"
)

// Config contains every configuration variable of the application.
type (
	Config struct {
		HTTP      HTTPConfig
		Database  DatabaseConfig
		Redis     RedisConfig
		RabbitMQ  RabbitMQConfig
		Maps      MapsConfig
		Auth      AuthConfig
		Matching  MatchingConfig
		LogLevel  string `env:"LOG_LEVEL" default:"DEBUG"`
	}

	HTTPConfig struct {
		Host string `env:"HTTP_HOST" default:"0.0.0.0"`
		Port string `env:"HTTP_PORT" default:"3000"`
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"gocab_user"`
		Password string `env:"DATABASE_PASSWORD" default:"gocab_pass"`
		Database string `env:"DATABASE_DATABASE" default:"gocab_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RedisConfig struct {
		Host     string `env:"REDIS_HOST" default:"localhost"`
		Port     string `env:"REDIS_PORT" default:"6379"`
		Password string `env:"REDIS_PASSWORD"`
		DB       int    `env:"REDIS_DB" default:"0"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	MapsConfig struct {
		GoogleAPIKey string `env:"MAPS_GOOGLE_API_KEY"`
	}

	AuthConfig struct {
		AccessTokenTTL time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"24h"`
		JWTSecret      string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}

	MatchingConfig struct {
		// RadiusKm bounds driver discovery around the pickup point.
		RadiusKm float64 `env:"MATCHING_RADIUS_KM" default:"2"`
		// OfferRideType toggles fan-out filtering by the driver's vehicle class.
		FilterByVehicleClass bool `env:"MATCHING_FILTER_BY_VEHICLE_CLASS" default:"false"`
	}
)

// NewConfig loads config.yaml (if present) into the environment and parses
// the result into a Config.
func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}
	return cfg, nil
}

func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}
