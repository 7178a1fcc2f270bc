package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "RFQDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreDriverSheets = "sheets"
	StoreDriverXLSX   = "xlsx"
	StoreDriverSQL    = "sql"
	StoreDriverMemory = "memory"
)

const (
	EnvAppEnv          = "RFQDESK_APP_ENV"
	EnvPort            = "RFQDESK_APP_PORT"
	EnvPlatformPort    = "PORT"
	EnvTimezone        = "RFQDESK_TIMEZONE"
	EnvStoreDriver     = "RFQDESK_STORE_DRIVER"
	EnvUsersTable      = "RFQDESK_USERS_TABLE"
	EnvDBDriver        = "RFQDESK_DB_DRIVER"
	EnvDBDSN           = "RFQDESK_DB_DSN"
	EnvSheetID         = "RFQDESK_GOOGLE_SHEET_ID"
	EnvSheetsCredsB64  = "RFQDESK_GOOGLE_SERVICE_ACCOUNT_BASE64"
	EnvRedisURL        = "RFQDESK_REDIS_URL"
	EnvImageGenAPIKey  = "RFQDESK_DEEPSEEK_API_KEY"
	EnvImageGenTimeout = "RFQDESK_IMAGEGEN_TIMEOUT"
	EnvBotToken        = "RFQDESK_BOT_TOKEN"
)

type Config struct {
	App         AppConfig
	Store       StoreConfig
	DB          DBConfig
	Sheets      SheetsConfig
	Redis       RedisConfig
	ImageGen    ImageGenConfig
	Telegram    TelegramConfig
	Idempotency IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Driver == StoreDriverSQL {
		if err := cfg.DB.validate(); err != nil {
			return nil, err
		}
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	if p := strings.TrimSpace(cfg.App.PlatformPort); p != "" {
		cfg.App.Port = p
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RFQDESK_APP_ENV" default:"dev"`
	Port         string `envconfig:"RFQDESK_APP_PORT" default:"5000"`
	// PlatformPort is the PORT injected by hosting platforms; it wins over Port.
	PlatformPort string `envconfig:"PORT"`
	LogLevel     string `envconfig:"RFQDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RFQDESK_LOG_WARN_STACK" default:"false"`
	PublicDir    string `envconfig:"RFQDESK_PUBLIC_DIR" default:"public"`
	Timezone     string `envconfig:"RFQDESK_TIMEZONE"`
	// CORSOrigins is a comma separated allow list; empty allows any origin.
	CORSOrigins []string `envconfig:"RFQDESK_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the zone used for calendar-date rules. Empty means the host zone.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

type StoreConfig struct {
	Driver          string `envconfig:"RFQDESK_STORE_DRIVER" default:"sheets"`
	UsersTable      string `envconfig:"RFQDESK_USERS_TABLE" default:"BOT_USERS"`
	ItemsTable      string `envconfig:"RFQDESK_ITEMS_TABLE" default:"items"`
	QuotationsTable string `envconfig:"RFQDESK_QUOTATIONS_TABLE" default:"QUOTATIONS"`
	XLSXPath        string `envconfig:"RFQDESK_XLSX_PATH" default:"data/rfqdesk.xlsx"`
}

// Tables lists the three table names the service reads and writes.
func (s StoreConfig) Tables() []string {
	return []string{s.UsersTable, s.ItemsTable, s.QuotationsTable}
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case StoreDriverSheets, StoreDriverXLSX, StoreDriverSQL, StoreDriverMemory:
	default:
		return fmt.Errorf("%s must be one of sheets, xlsx, sql, memory; got %q", EnvStoreDriver, s.Driver)
	}
	for _, name := range s.Tables() {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("table names must not be empty")
		}
	}
	return nil
}

const (
	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"
)

type DBConfig struct {
	Driver          string        `envconfig:"RFQDESK_DB_DRIVER" default:"sqlite"`
	DSN             string        `envconfig:"RFQDESK_DB_DSN" default:"file:rfqdesk.db"`
	MaxOpenConns    int           `envconfig:"RFQDESK_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"RFQDESK_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"RFQDESK_DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"RFQDESK_DB_CONN_MAX_IDLE_TIME" default:"5m"`
}

func (d *DBConfig) validate() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case DBDriverSQLite, DBDriverPostgres:
	default:
		return fmt.Errorf("%s must be sqlite or postgres; got %q", EnvDBDriver, d.Driver)
	}
	if strings.TrimSpace(d.DSN) == "" {
		return fmt.Errorf("%s is required for the sql store", EnvDBDSN)
	}
	return nil
}

type SheetsConfig struct {
	SpreadsheetID       string        `envconfig:"RFQDESK_GOOGLE_SHEET_ID"`
	CredentialsBase64   string        `envconfig:"RFQDESK_GOOGLE_SERVICE_ACCOUNT_BASE64"`
	ServiceAccountEmail string        `envconfig:"RFQDESK_GOOGLE_SERVICE_ACCOUNT_EMAIL"`
	PrivateKey          string        `envconfig:"RFQDESK_GOOGLE_PRIVATE_KEY"`
	CredentialsFile     string        `envconfig:"RFQDESK_GOOGLE_CREDENTIALS_FILE" default:"credentials.json"`
	RequestTimeout      time.Duration `envconfig:"RFQDESK_GOOGLE_REQUEST_TIMEOUT" default:"20s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RFQDESK_REDIS_URL"`
	DB           int           `envconfig:"RFQDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RFQDESK_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"RFQDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RFQDESK_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"RFQDESK_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether a Redis instance was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type ImageGenConfig struct {
	APIKey    string        `envconfig:"RFQDESK_DEEPSEEK_API_KEY"`
	BaseURL   string        `envconfig:"RFQDESK_IMAGEGEN_BASE_URL" default:"https://api.deepseek.com/v1"`
	ImageSize string        `envconfig:"RFQDESK_IMAGEGEN_IMAGE_SIZE" default:"512x512"`
	ChatModel string        `envconfig:"RFQDESK_IMAGEGEN_CHAT_MODEL" default:"deepseek-chat"`
	Timeout   time.Duration `envconfig:"RFQDESK_IMAGEGEN_TIMEOUT" default:"10s"`
}

type TelegramConfig struct {
	BotToken  string `envconfig:"RFQDESK_BOT_TOKEN"`
	WebAppURL string `envconfig:"RFQDESK_WEBAPP_URL"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"RFQDESK_IDEMPOTENCY_TTL" default:"24h"`
}
