package config

// EnvPrefix is empty because every variable carries the PAYMENTS_ prefix in
// its envconfig tag already.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "PAYMENTS_APP_ENV"
	EnvAppPort  = "PAYMENTS_APP_PORT"
	EnvDBDSN    = "PAYMENTS_DB_DSN"
	EnvDBHost   = "PAYMENTS_DB_HOST"
	EnvDBUser   = "PAYMENTS_DB_USER"
	EnvDBName   = "PAYMENTS_DB_NAME"
	EnvRedisURL = "PAYMENTS_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
