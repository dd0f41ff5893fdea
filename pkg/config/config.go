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
	FeatureFlags FeatureFlagsConfig
	API          APIConfig
	Scan         ScanConfig
	Affinity     AffinityConfig
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
	Env          string `envconfig:"CATALOGPULSE_APP_ENV" required:"true"`
	Port         string `envconfig:"CATALOGPULSE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CATALOGPULSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CATALOGPULSE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CATALOGPULSE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CATALOGPULSE_DB_DSN"`
	Driver string `envconfig:"CATALOGPULSE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CATALOGPULSE_DB_HOST"`
	LegacyPort     int    `envconfig:"CATALOGPULSE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CATALOGPULSE_DB_USER"`
	LegacyPassword string `envconfig:"CATALOGPULSE_DB_PASSWORD"`
	LegacyName     string `envconfig:"CATALOGPULSE_DB_NAME"`
	LegacySSLMode  string `envconfig:"CATALOGPULSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CATALOGPULSE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CATALOGPULSE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CATALOGPULSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CATALOGPULSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CATALOGPULSE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CATALOGPULSE_REDIS_ADDR"`
	Password     string        `envconfig:"CATALOGPULSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"CATALOGPULSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CATALOGPULSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CATALOGPULSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CATALOGPULSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CATALOGPULSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CATALOGPULSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CATALOGPULSE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CATALOGPULSE_AUTO_MIGRATE" default:"false"`
}

type APIConfig struct {
	MutationRateLimit  int           `envconfig:"CATALOGPULSE_API_MUTATION_RATE_LIMIT" default:"30"`
	MutationRateWindow time.Duration `envconfig:"CATALOGPULSE_API_MUTATION_RATE_WINDOW" default:"1m"`
}

type ScanConfig struct {
	ChunkSize    int           `envconfig:"CATALOGPULSE_SCAN_CHUNK_SIZE" default:"50"`
	Workers      int           `envconfig:"CATALOGPULSE_SCAN_WORKERS" default:"4"`
	Interval     time.Duration `envconfig:"CATALOGPULSE_SCAN_INTERVAL" default:"24h"`
	LockTTL      time.Duration `envconfig:"CATALOGPULSE_SCAN_LOCK_TTL" default:"30m"`
	ItemTimeout  time.Duration `envconfig:"CATALOGPULSE_SCAN_ITEM_TIMEOUT" default:"30s"`
}

type AffinityConfig struct {
	TopN int `envconfig:"CATALOGPULSE_AFFINITY_TOP_N" default:"20"`
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
