package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Payments     PaymentsConfig
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
	Env          string `envconfig:"PAYMENTS_APP_ENV" required:"true"`
	Port         string `envconfig:"PAYMENTS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PAYMENTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PAYMENTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PAYMENTS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PAYMENTS_DB_DSN"`
	Driver string `envconfig:"PAYMENTS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PAYMENTS_DB_HOST"`
	LegacyPort     int    `envconfig:"PAYMENTS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PAYMENTS_DB_USER"`
	LegacyPassword string `envconfig:"PAYMENTS_DB_PASSWORD"`
	LegacyName     string `envconfig:"PAYMENTS_DB_NAME"`
	LegacySSLMode  string `envconfig:"PAYMENTS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PAYMENTS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PAYMENTS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PAYMENTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PAYMENTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PAYMENTS_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"PAYMENTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PAYMENTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PAYMENTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PAYMENTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PAYMENTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PaymentsConfig carries the intent lifecycle policy knobs. Both values are
// expressed in seconds to match the deployment environment conventions.
type PaymentsConfig struct {
	ExpirationTimeoutSeconds int `envconfig:"PAYMENTS_EXPIRATION_TIMEOUT_SECONDS" default:"120"`
	SweepIntervalSeconds     int `envconfig:"PAYMENTS_SWEEP_INTERVAL_SECONDS" default:"30"`
}

// ExpirationTimeout returns how long a confirmed intent stays capturable.
func (p PaymentsConfig) ExpirationTimeout() time.Duration {
	return time.Duration(p.ExpirationTimeoutSeconds) * time.Second
}

// SweepInterval returns the cadence of the expiration worker.
func (p PaymentsConfig) SweepInterval() time.Duration {
	return time.Duration(p.SweepIntervalSeconds) * time.Second
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PAYMENTS_AUTO_MIGRATE" default:"false"`
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
