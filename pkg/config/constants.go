package config

const (
	EnvPrefix = "PDFLEX"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	EnvAppEnv          = "PDFLEX_APP_ENV"
	EnvPort            = "PDFLEX_APP_PORT"
	EnvDBDSN           = "PDFLEX_DB_DSN"
	EnvDBHost          = "PDFLEX_DB_HOST"
	EnvDBUser          = "PDFLEX_DB_USER"
	EnvDBName          = "PDFLEX_DB_NAME"
	EnvUseSQLite       = "PDFLEX_USE_SQLITE"
	EnvRedisURL        = "PDFLEX_REDIS_URL"
	EnvJWTSecret       = "PDFLEX_JWT_SECRET"
	EnvJWTIssuer       = "PDFLEX_JWT_ISSUER"
	EnvJWTExpMins      = "PDFLEX_JWT_EXPIRE_MIN"
	EnvStorageDriver   = "PDFLEX_STORAGE_DRIVER"
	EnvStorageLocalDir = "PDFLEX_STORAGE_LOCAL_DIR"
	EnvS3Bucket        = "PDFLEX_S3_BUCKET"
	EnvPricesCents     = "PDFLEX_PRICES_CENTS"
	EnvCharityPercents = "PDFLEX_CHARITY_PERCENTS"
	EnvFreeLimit       = "PDFLEX_FREE_MONTHLY_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
