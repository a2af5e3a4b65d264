package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN,required"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// RedisConfig enables request rate limiting when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type RateLimitConfig struct {
	Requests int64         `env:"RATE_LIMIT_REQUESTS" envDefault:"30"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

// NATSConfig enables event publishing when URL is set.
type NATSConfig struct {
	URL string `env:"NATS_URL"`
}

type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET,required"`
}

// Oracle modes.
const (
	OracleHTTP  = "http"
	OracleLocal = "local"
)

type OracleConfig struct {
	Mode       string        `env:"ORACLE_MODE" envDefault:"local"`
	URL        string        `env:"ORACLE_URL"`
	Identity   string        `env:"ORACLE_IDENTITY" envDefault:"randomness-oracle"`
	LocalDelay time.Duration `env:"ORACLE_LOCAL_DELAY" envDefault:"2s"`
}

// PlatformConfig seeds the policy knobs at initialization and tunes the
// wager lifecycle.
type PlatformConfig struct {
	MaxBet             int64         `env:"PLATFORM_MAX_BET" envDefault:"5000000000"`
	DailyWithdrawLimit int64         `env:"PLATFORM_DAILY_WITHDRAW_LIMIT" envDefault:"15000000000"`
	WagerTimeout       time.Duration `env:"WAGER_TIMEOUT" envDefault:"10m"`
	NativeDecimals     int32         `env:"NATIVE_DECIMALS" envDefault:"9"`
}
