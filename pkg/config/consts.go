package config

// EnvPrefix scopes all envconfig lookups.
const EnvPrefix = "HEALTHMATE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "HEALTHMATE_APP_ENV"
	EnvPort       = "HEALTHMATE_APP_PORT"
	EnvDBDSN      = "HEALTHMATE_DB_DSN"
	EnvDBHost     = "HEALTHMATE_DB_HOST"
	EnvDBUser     = "HEALTHMATE_DB_USER"
	EnvDBName     = "HEALTHMATE_DB_NAME"
	EnvRedisURL   = "HEALTHMATE_REDIS_URL"
	EnvJWTSecret  = "HEALTHMATE_JWT_SECRET"
	EnvJWTIssuer  = "HEALTHMATE_JWT_ISSUER"
	EnvJWTExpMins = "HEALTHMATE_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
