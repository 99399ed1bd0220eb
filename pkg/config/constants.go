package config

// EnvPrefix is passed to envconfig; individual tags carry the full names.
const EnvPrefix = "elevate"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "ELEVATE_DB_DSN"
	EnvDBHost = "ELEVATE_DB_HOST"
	EnvDBUser = "ELEVATE_DB_USER"
	EnvDBName = "ELEVATE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
