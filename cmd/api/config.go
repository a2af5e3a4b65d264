package main

import (
	"time"

	"github.com/fastprodman/dicevault/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"APP_LOG_LEVEL" envDefault:"info"`
	AppEnv          string        `env:"APP_ENV" envDefault:"PROD"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	Postgres  config.PostgresConfig
	Redis     config.RedisConfig
	RateLimit config.RateLimitConfig
	NATS      config.NATSConfig
	Auth      config.AuthConfig
	Oracle    config.OracleConfig
	Platform  config.PlatformConfig
}
