package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel    string `env:"LOG_LEVEL"`
	Postgres    Postgres
	Redis       Redis
	HTTP        HTTP
	API         API
	Cache       Cache
	Valuation   Valuation
	Auth        Auth
	Jobs        Jobs
	Telegram    Telegram
	Email       Email
	GoogleDrive GoogleDrive
}

type Postgres struct {
	Host              string        `env:"PG_HOST"`
	Port              int           `env:"PG_PORT"`
	DbName            string        `env:"PG_DB_NAME"`
	Password          string        `env:"PG_PASSWORD"`
	User              string        `env:"PG_USER"`
	MaxOpenConns      int           `env:"PG_MAX_OPEN_CONNS"`
	ConnMaxLifetime   int           `env:"PG_CONN_MAX_LIFETIME"`
	MaxIdleConns      int           `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime   int           `env:"PG_CONN_MAX_IDLE_TIME"`
	MigrationDir      string        `env:"PG_MIGRATION_DIR" envDefault:"migrations"`
	SSLMode           string        `env:"PG_SSL_MODE" envDefault:"disable"`
	ConnAttempts      int           `env:"PG_CONN_ATTEMPTS" envDefault:"10"`
	ConnRetryInterval time.Duration `env:"PG_CONN_RETRY_INTERVAL" envDefault:"1s"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type HTTP struct {
	Port            int           `env:"HTTP_PORT"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	AllowOrigins    []string      `env:"HTTP_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	SnapshotSecret  string        `env:"HTTP_SNAPSHOT_SECRET"`
}

type API struct {
	Debug      bool          `env:"API_DEBUG"`
	Timeout    time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	YahooApi   YahooApi
	BinanceApi BinanceApi
	BoiApi     BoiApi
}

type YahooApi struct {
	Url    string `env:"YAHOO_API_URL" envDefault:"https://yahoo-finance15.p.rapidapi.com"`
	Host   string `env:"YAHOO_API_HOST" envDefault:"yahoo-finance15.p.rapidapi.com"`
	ApiKey string `env:"RAPIDAPI_KEY"`
}

type BinanceApi struct {
	Url string `env:"BINANCE_API_URL" envDefault:"https://api.binance.com"`
}

type BoiApi struct {
	Url    string `env:"BOI_API_URL" envDefault:"https://api.boi.gov.il"`
	ApiKey string `env:"BOI_API_KEY"`
}

type Cache struct {
	Driver                 string        `env:"CACHE_DRIVER" envDefault:"redis"`
	MarketDataExpiration   time.Duration `env:"CACHE_MARKET_DATA_EXPIRATION" envDefault:"1h"`
	VerificationExpiration time.Duration `env:"CACHE_VERIFICATION_EXPIRATION" envDefault:"10m"`
}

type Valuation struct {
	BaseCurrency           string `env:"VALUATION_BASE_CURRENCY" envDefault:"NIS"`
	TrackedForeignCurrency string `env:"VALUATION_TRACKED_FOREIGN_CURRENCY" envDefault:"USD"`
	Concurrency            int    `env:"VALUATION_CONCURRENCY" envDefault:"4"`
}

type Auth struct {
	JWTSecret    string        `env:"JWT_SECRET"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	CookieMaxAge time.Duration `env:"AUTH_COOKIE_MAX_AGE" envDefault:"168h"`
	CookieSecure bool          `env:"AUTH_COOKIE_SECURE"`
}

type Jobs struct {
	SnapshotCrontab       string        `env:"SNAPSHOT_JOB_CRONTAB" envDefault:"0 0 18 * * *"`
	DeleteReportsInterval time.Duration `env:"DELETE_REPORTS_JOB_INTERVAL" envDefault:"1h"`
}

type Telegram struct {
	Token  string `env:"TELEGRAM_TOKEN"`
	ChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

// Email is delivered through AWS SES; credentials come from the standard AWS environment.
type Email struct {
	Enabled  bool   `env:"EMAIL_ENABLED" envDefault:"true"`
	Region   string `env:"EMAIL_AWS_REGION" envDefault:"us-east-1"`
	From     string `env:"EMAIL_FROM"`
	Endpoint string `env:"EMAIL_SES_ENDPOINT" envDefault:""`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
