package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "gramkart"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvDBDSN  = "GRAMKART_DB_DSN"
	EnvDBHost = "GRAMKART_DB_HOST"
	EnvDBUser = "GRAMKART_DB_USER"
	EnvDBName = "GRAMKART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Razorpay     RazorpayConfig
	Instagram    InstagramConfig
	SMS          SMSConfig
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
	if err := cfg.Razorpay.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GRAMKART_APP_ENV" required:"true"`
	Port         string `envconfig:"GRAMKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GRAMKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GRAMKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GRAMKART_DB_DSN"`
	Driver string `envconfig:"GRAMKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GRAMKART_DB_HOST"`
	LegacyPort     int    `envconfig:"GRAMKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GRAMKART_DB_USER"`
	LegacyPassword string `envconfig:"GRAMKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"GRAMKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"GRAMKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GRAMKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GRAMKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GRAMKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GRAMKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GRAMKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GRAMKART_REDIS_ADDR"`
	Password     string        `envconfig:"GRAMKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"GRAMKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GRAMKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GRAMKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GRAMKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GRAMKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GRAMKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RazorpayConfig carries the webhook shared secret and the event tag that
// triggers order fulfillment. Only the payment-link flow fulfills by default;
// pointing FulfillmentEvent at payment.captured switches the trigger without
// a code change.
type RazorpayConfig struct {
	WebhookSecret    string        `envconfig:"GRAMKART_RAZORPAY_WEBHOOK_SECRET" required:"true"`
	FulfillmentEvent string        `envconfig:"GRAMKART_RAZORPAY_FULFILLMENT_EVENT" default:"payment_link.paid"`
	EventGuardTTL    time.Duration `envconfig:"GRAMKART_RAZORPAY_EVENT_GUARD_TTL" default:"72h"`
}

func (r RazorpayConfig) validate() error {
	switch r.FulfillmentEvent {
	case "payment_link.paid", "payment.captured", "payment.authorized":
		return nil
	}
	return fmt.Errorf("unsupported fulfillment event %q", r.FulfillmentEvent)
}

type InstagramConfig struct {
	GraphBaseURL string        `envconfig:"GRAMKART_IG_GRAPH_BASE_URL" default:"https://graph.instagram.com/v21.0"`
	SendTimeout  time.Duration `envconfig:"GRAMKART_IG_SEND_TIMEOUT" default:"10s"`
	SendAttempts int           `envconfig:"GRAMKART_IG_SEND_ATTEMPTS" default:"1"`
}

type SMSConfig struct {
	BaseURL       string        `envconfig:"GRAMKART_SMS_BASE_URL" default:"https://control.msg91.com/api/v5/flow/"`
	AuthKey       string        `envconfig:"GRAMKART_SMS_AUTH_KEY"`
	TemplateID    string        `envconfig:"GRAMKART_SMS_TEMPLATE_ID"`
	SenderID      string        `envconfig:"GRAMKART_SMS_SENDER_ID"`
	SendTimeout   time.Duration `envconfig:"GRAMKART_SMS_SEND_TIMEOUT" default:"15s"`
	SendAttempts  int           `envconfig:"GRAMKART_SMS_SEND_ATTEMPTS" default:"1"`
	CountryPrefix string        `envconfig:"GRAMKART_SMS_COUNTRY_PREFIX" default:"91"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GRAMKART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GRAMKART_AUTO_MIGRATE" default:"false"`
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
