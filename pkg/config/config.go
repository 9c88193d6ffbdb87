package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "merybery"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "MERYBERY_APP_ENV"
	EnvPort     = "MERYBERY_APP_PORT"
	EnvDBDSN    = "MERYBERY_DB_DSN"
	EnvDBHost   = "MERYBERY_DB_HOST"
	EnvDBUser   = "MERYBERY_DB_USER"
	EnvDBName   = "MERYBERY_DB_NAME"
	EnvRedisURL = "MERYBERY_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Idempotency  IdempotencyConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MERYBERY_APP_ENV" required:"true"`
	Port         string `envconfig:"MERYBERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MERYBERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MERYBERY_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"MERYBERY_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MERYBERY_DB_DSN"`
	Driver string `envconfig:"MERYBERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MERYBERY_DB_HOST"`
	LegacyPort     int    `envconfig:"MERYBERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MERYBERY_DB_USER"`
	LegacyPassword string `envconfig:"MERYBERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"MERYBERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"MERYBERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MERYBERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MERYBERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MERYBERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MERYBERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MERYBERY_REDIS_URL"`
	Address      string        `envconfig:"MERYBERY_REDIS_ADDR"`
	Password     string        `envconfig:"MERYBERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"MERYBERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MERYBERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MERYBERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MERYBERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MERYBERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MERYBERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The
// idempotency middleware degrades to a pass-through without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"MERYBERY_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MERYBERY_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
