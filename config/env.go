package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage
	PostgresURI string `env:"POSTGRES_URI,required"`
	RedisURL    string `env:"REDIS_URL"`
	MongoURI    string `env:"MONGO_URI"`
	MongoDB     string `env:"MONGO_DB" envDefault:"adchat"`
	GCSBucket   string `env:"GCS_BUCKET"`

	// LLM
	LLMProvider        string        `env:"LLM_PROVIDER" envDefault:"openrouter"`
	OpenRouterAPIKey   string        `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL  string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterReferrer string        `env:"OPENROUTER_REFERRER" envDefault:"https://telegram.org"`
	OpenRouterTitle    string        `env:"OPENROUTER_TITLE" envDefault:"ElderlyApp"`
	LLMDefaultModel    string        `env:"LLM_DEFAULT_MODEL" envDefault:"openai/gpt-4o-mini"`
	LLMTimeout         time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
	VertexProjectID    string        `env:"VERTEX_PROJECT_ID"`
	VertexLocation     string        `env:"VERTEX_LOCATION" envDefault:"us-central1"`
	VertexModel        string        `env:"VERTEX_MODEL" envDefault:"gemini-1.5-flash"`

	// Telegram mini app
	TelegramBotToken   string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAuthMaxAge time.Duration `env:"TELEGRAM_AUTH_MAX_AGE" envDefault:"24h"`
	AuthDevUserID      int64         `env:"AUTH_DEV_USER_ID"`

	// Chat pipeline
	ClickBaseURL  string        `env:"CLICK_BASE_URL" envDefault:"/api/click"`
	HistoryWindow int           `env:"HISTORY_WINDOW" envDefault:"10"`
	ClickAuditTTL time.Duration `env:"CLICK_AUDIT_TTL" envDefault:"720h"`

	// Admin
	AdminUsername     string        `env:"ADMIN_USERNAME"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	AdminJWTSecret    string        `env:"ADMIN_JWT_SECRET"`
	AdminTokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`
	DashboardCacheTTL time.Duration `env:"DASHBOARD_CACHE_TTL" envDefault:"1m"`

	// Catalog sync
	SheetsSpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	SheetsRange           string `env:"SHEETS_RANGE" envDefault:"Products!A2:G"`
	SheetsCredentialsFile string `env:"SHEETS_CREDENTIALS_FILE"`
	CatalogSyncCron       string `env:"CATALOG_SYNC_CRON" envDefault:"*/30 * * * *"`
}

// Load parses Config from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
