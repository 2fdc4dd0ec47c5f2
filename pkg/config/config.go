package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "CJNATION"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv    = "CJNATION_APP_ENV"
	EnvPort      = "CJNATION_APP_PORT"
	EnvDBDSN     = "CJNATION_DB_DSN"
	EnvDBHost    = "CJNATION_DB_HOST"
	EnvDBUser    = "CJNATION_DB_USER"
	EnvDBName    = "CJNATION_DB_NAME"
	EnvRedisURL  = "CJNATION_REDIS_URL"
	EnvJWTSecret = "CJNATION_JWT_SECRET"
	EnvJWTIssuer = "CJNATION_JWT_ISSUER"
	EnvGCSBucket = "CJNATION_GCS_BUCKET_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Tokens        TokenConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GoogleOAuth   GoogleOAuthConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	SMTP          SMTPConfig
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
	Env          string `envconfig:"CJNATION_APP_ENV" required:"true"`
	Port         string `envconfig:"CJNATION_APP_PORT" required:"true"`
	BaseURL      string `envconfig:"CJNATION_APP_BASE_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"CJNATION_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CJNATION_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CJNATION_DB_DSN"`
	Driver string `envconfig:"CJNATION_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CJNATION_DB_HOST"`
	LegacyPort     int    `envconfig:"CJNATION_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CJNATION_DB_USER"`
	LegacyPassword string `envconfig:"CJNATION_DB_PASSWORD"`
	LegacyName     string `envconfig:"CJNATION_DB_NAME"`
	LegacySSLMode  string `envconfig:"CJNATION_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CJNATION_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CJNATION_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CJNATION_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CJNATION_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CJNATION_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CJNATION_REDIS_ADDR"`
	Password     string        `envconfig:"CJNATION_REDIS_PASSWORD"`
	DB           int           `envconfig:"CJNATION_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CJNATION_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CJNATION_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CJNATION_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CJNATION_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CJNATION_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CJNATION_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CJNATION_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CJNATION_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CJNATION_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"CJNATION_PASSWORD_MIN_LENGTH" default:"8"`
	ArgonMemoryKB    int `envconfig:"CJNATION_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CJNATION_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CJNATION_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CJNATION_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CJNATION_ARGON_KEY_LEN" default:"32"`
}

// TokenConfig governs the single-use email verification and password reset tokens.
type TokenConfig struct {
	VerificationTTL  time.Duration `envconfig:"CJNATION_VERIFICATION_TOKEN_TTL" default:"10m"`
	PasswordResetTTL time.Duration `envconfig:"CJNATION_PASSWORD_RESET_TOKEN_TTL" default:"10m"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CJNATION_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CJNATION_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CJNATION_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CJNATION_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CJNATION_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CJNATION_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CJNATION_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CJNATION_AUTO_MIGRATE" default:"false"`
}

type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"CJNATION_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"CJNATION_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"CJNATION_GOOGLE_REDIRECT_URL"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CJNATION_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CJNATION_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CJNATION_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"CJNATION_GCS_BUCKET_NAME" required:"true"`
	PublicBaseURL     string        `envconfig:"CJNATION_GCS_PUBLIC_BASE_URL" default:"https://storage.googleapis.com"`
	DownloadURLExpiry time.Duration `envconfig:"CJNATION_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type MediaConfig struct {
	MaxUploadMB int    `envconfig:"CJNATION_MAX_UPLOAD_MB" default:"20"`
	Folder      string `envconfig:"CJNATION_MEDIA_FOLDER" default:"cjnation"`
}

type SMTPConfig struct {
	Host     string `envconfig:"CJNATION_SMTP_HOST"`
	Port     string `envconfig:"CJNATION_SMTP_PORT" default:"587"`
	Username string `envconfig:"CJNATION_SMTP_USER"`
	Password string `envconfig:"CJNATION_SMTP_PASS"`
	From     string `envconfig:"CJNATION_SMTP_FROM"`
}

// Enabled reports whether outbound email is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Port != "" && s.From != ""
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
