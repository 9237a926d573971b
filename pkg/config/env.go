package config

const (
	EnvPrefix = "GIGBOARD"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "GIGBOARD_APP_ENV"
	EnvPort     = "GIGBOARD_APP_PORT"
	EnvLogLevel = "GIGBOARD_LOG_LEVEL"

	EnvDBDSN      = "GIGBOARD_DB_DSN"
	EnvDBHost     = "GIGBOARD_DB_HOST"
	EnvDBUser     = "GIGBOARD_DB_USER"
	EnvDBName     = "GIGBOARD_DB_NAME"
	EnvRedisURL   = "GIGBOARD_REDIS_URL"
	EnvRedisAddr  = "GIGBOARD_REDIS_ADDR"
	EnvUseSQLite  = "GIGBOARD_USE_SQLITE"
	EnvSQLitePath = "GIGBOARD_SQLITE_PATH"

	EnvAuthStrategy  = "GIGBOARD_AUTH_STRATEGY"
	EnvAuthJWTSecret = "GIGBOARD_AUTH_JWT_SECRET"
	EnvAuthJWTIssuer = "GIGBOARD_AUTH_JWT_ISSUER"

	EnvPaystackSecret   = "GIGBOARD_PAYSTACK_SECRET"
	EnvBidsAllowSelfBid = "GIGBOARD_BIDS_ALLOW_SELF_BID"

	EnvGCPProjectID        = "GIGBOARD_GCP_PROJECT_ID"
	EnvPubSubBidsTopic     = "GIGBOARD_PUBSUB_BIDS_TOPIC"
	EnvPubSubPaymentsTopic = "GIGBOARD_PUBSUB_PAYMENTS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

// Auth strategies selectable through GIGBOARD_AUTH_STRATEGY.
const (
	AuthStrategyDev      = "dev"
	AuthStrategyProvider = "provider"
)
