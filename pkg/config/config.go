package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix scopes every environment variable this service reads.
const EnvPrefix = "CLOUD9"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "CLOUD9_DB_DSN"
	EnvDBHost = "CLOUD9_DB_HOST"
	EnvDBUser = "CLOUD9_DB_USER"
	EnvDBName = "CLOUD9_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Paystack      PaystackConfig
	SMTP          SMTPConfig
	Media         MediaConfig
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
	Env          string `envconfig:"CLOUD9_APP_ENV" required:"true"`
	Port         string `envconfig:"CLOUD9_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"CLOUD9_APP_BASE_URL" default:"http://localhost:3000"`
	LogLevel     string `envconfig:"CLOUD9_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLOUD9_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CLOUD9_DB_DSN"`
	Driver string `envconfig:"CLOUD9_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CLOUD9_DB_HOST"`
	LegacyPort     int    `envconfig:"CLOUD9_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CLOUD9_DB_USER"`
	LegacyPassword string `envconfig:"CLOUD9_DB_PASSWORD"`
	LegacyName     string `envconfig:"CLOUD9_DB_NAME"`
	LegacySSLMode  string `envconfig:"CLOUD9_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CLOUD9_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CLOUD9_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CLOUD9_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CLOUD9_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CLOUD9_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CLOUD9_REDIS_ADDR"`
	Password     string        `envconfig:"CLOUD9_REDIS_PASSWORD"`
	DB           int           `envconfig:"CLOUD9_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CLOUD9_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CLOUD9_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CLOUD9_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CLOUD9_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CLOUD9_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CLOUD9_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CLOUD9_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CLOUD9_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CLOUD9_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CLOUD9_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CLOUD9_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CLOUD9_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CLOUD9_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CLOUD9_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CLOUD9_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CLOUD9_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CLOUD9_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CLOUD9_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CLOUD9_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CLOUD9_AUTO_MIGRATE" default:"false"`
}

type PaystackConfig struct {
	SecretKey   string        `envconfig:"CLOUD9_PAYSTACK_SECRET_KEY"`
	BaseURL     string        `envconfig:"CLOUD9_PAYSTACK_BASE_URL"`
	CallbackURL string        `envconfig:"CLOUD9_PAYSTACK_CALLBACK_URL"`
	Timeout     time.Duration `envconfig:"CLOUD9_PAYSTACK_TIMEOUT" default:"15s"`
	MaxRetries  int           `envconfig:"CLOUD9_PAYSTACK_MAX_RETRIES" default:"3"`
}

type SMTPConfig struct {
	Host     string `envconfig:"CLOUD9_SMTP_HOST"`
	Port     int    `envconfig:"CLOUD9_SMTP_PORT" default:"587"`
	Username string `envconfig:"CLOUD9_SMTP_USERNAME"`
	Password string `envconfig:"CLOUD9_SMTP_PASSWORD"`
	From     string `envconfig:"CLOUD9_SMTP_FROM" default:"orders@cloud9wear.com"`
	Sandbox  bool   `envconfig:"CLOUD9_SMTP_SANDBOX" default:"false"`
}

type MediaConfig struct {
	UploadDir   string `envconfig:"CLOUD9_MEDIA_UPLOAD_DIR" default:"public/uploads"`
	PublicPath  string `envconfig:"CLOUD9_MEDIA_PUBLIC_PATH" default:"/uploads"`
	MaxUploadMB int    `envconfig:"CLOUD9_MEDIA_MAX_UPLOAD_MB" default:"5"`
}

// MaxUploadBytes converts the configured megabyte cap to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
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
