package config

// EnvPrefix is the envconfig prefix for every setting.
const EnvPrefix = "CATALOGPULSE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names used in validation messages and tests.
const (
	EnvAppEnv   = "CATALOGPULSE_APP_ENV"
	EnvPort     = "CATALOGPULSE_APP_PORT"
	EnvDBDSN    = "CATALOGPULSE_DB_DSN"
	EnvDBHost   = "CATALOGPULSE_DB_HOST"
	EnvDBUser   = "CATALOGPULSE_DB_USER"
	EnvDBName   = "CATALOGPULSE_DB_NAME"
	EnvRedisURL = "CATALOGPULSE_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
