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
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Stripe       StripeConfig
	Mail         MailConfig
	Billing      BillingConfig
	Sweep        SweepConfig
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
	Env          string `envconfig:"ELEVATE_APP_ENV" required:"true"`
	Port         string `envconfig:"ELEVATE_APP_PORT" required:"true"`
	SiteURL      string `envconfig:"ELEVATE_SITE_URL" default:"https://www.elevate.training"`
	LogLevel     string `envconfig:"ELEVATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ELEVATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ELEVATE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ELEVATE_DB_DSN"`
	Driver string `envconfig:"ELEVATE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ELEVATE_DB_HOST"`
	LegacyPort     int    `envconfig:"ELEVATE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ELEVATE_DB_USER"`
	LegacyPassword string `envconfig:"ELEVATE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ELEVATE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ELEVATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ELEVATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ELEVATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ELEVATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ELEVATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ELEVATE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ELEVATE_REDIS_ADDR"`
	Password     string        `envconfig:"ELEVATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ELEVATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ELEVATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ELEVATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ELEVATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ELEVATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ELEVATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ELEVATE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ELEVATE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ELEVATE_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ELEVATE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ELEVATE_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey string `envconfig:"ELEVATE_STRIPE_API_KEY"`
	Env    string `envconfig:"ELEVATE_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type MailConfig struct {
	SMTPHost    string `envconfig:"ELEVATE_SMTP_HOST"`
	SMTPPort    int    `envconfig:"ELEVATE_SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"ELEVATE_SMTP_USER"`
	SMTPPass    string `envconfig:"ELEVATE_SMTP_PASS"`
	DefaultFrom string `envconfig:"ELEVATE_MAIL_FROM" default:"billing@elevate.training"`
	MaxAttempts int    `envconfig:"ELEVATE_MAIL_MAX_ATTEMPTS" default:"3"`
}

type BillingConfig struct {
	GraceDays          int           `envconfig:"ELEVATE_BILLING_GRACE_DAYS" default:"7"`
	PaymentLinkTTL     time.Duration `envconfig:"ELEVATE_BILLING_PAYMENT_LINK_TTL" default:"168h"`
	OverdueAfterDays   int           `envconfig:"ELEVATE_BILLING_OVERDUE_AFTER_DAYS" default:"7"`
	PaymentWeekday     int           `envconfig:"ELEVATE_BILLING_PAYMENT_WEEKDAY" default:"5"`
	ProgramSlug        string        `envconfig:"ELEVATE_BILLING_PROGRAM_SLUG" default:"barber-apprenticeship"`
	SuccessRedirectURL string        `envconfig:"ELEVATE_BILLING_SUCCESS_REDIRECT_URL"`
}

type SweepConfig struct {
	Interval time.Duration `envconfig:"ELEVATE_SWEEP_INTERVAL" default:"168h"`
	LockTTL  time.Duration `envconfig:"ELEVATE_SWEEP_LOCK_TTL" default:"6h"`
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
