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
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Paystack     PaystackConfig
	Bids         BidsConfig
	Webhooks     WebhooksConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.Auth.Strategy {
	case AuthStrategyDev:
		if c.App.IsProd() {
			return fmt.Errorf("%s=%s is not allowed in %s", EnvAuthStrategy, AuthStrategyDev, AppEnvProd)
		}
	case AuthStrategyProvider:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("%s is required when %s=%s", EnvAuthJWTSecret, EnvAuthStrategy, AuthStrategyProvider)
		}
	default:
		return fmt.Errorf("unsupported %s %q", EnvAuthStrategy, c.Auth.Strategy)
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"GIGBOARD_APP_ENV" required:"true"`
	Port         string `envconfig:"GIGBOARD_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"GIGBOARD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GIGBOARD_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"GIGBOARD_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GIGBOARD_DB_DSN"`

	LegacyHost     string `envconfig:"GIGBOARD_DB_HOST"`
	LegacyPort     int    `envconfig:"GIGBOARD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GIGBOARD_DB_USER"`
	LegacyPassword string `envconfig:"GIGBOARD_DB_PASSWORD"`
	LegacyName     string `envconfig:"GIGBOARD_DB_NAME"`
	LegacySSLMode  string `envconfig:"GIGBOARD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GIGBOARD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GIGBOARD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GIGBOARD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GIGBOARD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GIGBOARD_REDIS_URL"`
	Address      string        `envconfig:"GIGBOARD_REDIS_ADDR"`
	Password     string        `envconfig:"GIGBOARD_REDIS_PASSWORD"`
	DB           int           `envconfig:"GIGBOARD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GIGBOARD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GIGBOARD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GIGBOARD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GIGBOARD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GIGBOARD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AuthConfig selects how request principals are resolved. The strategy is
// fixed at startup.
type AuthConfig struct {
	Strategy  string `envconfig:"GIGBOARD_AUTH_STRATEGY" default:"provider"`
	JWTSecret string `envconfig:"GIGBOARD_AUTH_JWT_SECRET"`
	JWTIssuer string `envconfig:"GIGBOARD_AUTH_JWT_ISSUER" default:"gigboard"`
}

type PaystackConfig struct {
	Secret          string `envconfig:"GIGBOARD_PAYSTACK_SECRET"`
	SignatureHeader string `envconfig:"GIGBOARD_PAYSTACK_SIGNATURE_HEADER" default:"x-paystack-signature"`
	MaxBodyBytes    int64  `envconfig:"GIGBOARD_PAYSTACK_MAX_BODY_BYTES" default:"1048576"`
}

type BidsConfig struct {
	AllowSelfBid bool `envconfig:"GIGBOARD_BIDS_ALLOW_SELF_BID" default:"true"`
}

type WebhooksConfig struct {
	IdempotencyTTL time.Duration `envconfig:"GIGBOARD_WEBHOOKS_IDEMPOTENCY_TTL" default:"720h"`
	RequestKeyTTL  time.Duration `envconfig:"GIGBOARD_REQUEST_IDEMPOTENCY_TTL" default:"24h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool   `envconfig:"GIGBOARD_USE_SQLITE" default:"false"`
	SQLitePath  string `envconfig:"GIGBOARD_SQLITE_PATH" default:"gigboard.db"`
	AutoMigrate bool   `envconfig:"GIGBOARD_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"GIGBOARD_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"GIGBOARD_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	BidsTopic     string `envconfig:"GIGBOARD_PUBSUB_BIDS_TOPIC" default:"gb-bid-events"`
	PaymentsTopic string `envconfig:"GIGBOARD_PUBSUB_PAYMENTS_TOPIC" default:"gb-payment-events"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"GIGBOARD_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"GIGBOARD_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"GIGBOARD_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"GIGBOARD_OUTBOX_METRICS_PORT" default:"9091"`
}

// CronConfig drives the sweeper worker.
type CronConfig struct {
	Interval        time.Duration `envconfig:"GIGBOARD_CRON_INTERVAL" default:"24h"`
	OutboxRetention time.Duration `envconfig:"GIGBOARD_CRON_OUTBOX_RETENTION" default:"720h"`
	MetricsPort     string        `envconfig:"GIGBOARD_CRON_METRICS_PORT" default:"9092"`
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
