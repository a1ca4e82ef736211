// Package config provides configuration loading, validation, and management
// for the counsellor service. It reads a YAML file, applies environment
// overrides, fills defaults and validates the result.
package config

import (
	"time"

	"github.com/go-telegram/bot/models"
)

// Config is the root configuration for all components of the service.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Directory DirectoryConfig `mapstructure:"directory"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig points at the SQLite file holding profiles and conversations.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// GeminiConfig configures the generative model client.
type GeminiConfig struct {
	APIKey            string        `mapstructure:"api_key"             validate:"required"`
	ModelName         string        `mapstructure:"model_name"          validate:"required"`
	Temperature       float32       `mapstructure:"temperature"         validate:"min=0,max=2"`
	Timeout           time.Duration `mapstructure:"timeout"             validate:"min=1s,max=10m"`
	MaxRetries        int           `mapstructure:"max_retries"         validate:"min=0,max=5"`
	RetryDelaySeconds int           `mapstructure:"retry_delay_seconds" validate:"min=0,max=60"`
}

// DirectoryConfig configures the third-party university directory client.
type DirectoryConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"min=1s,max=2m"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// CacheConfig enables the Redis-backed directory cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr string        `mapstructure:"redis_addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"  validate:"min=0"`
	TTL       time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// HTTPConfig configures the REST API.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"             validate:"required"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	JWTSecret       string        `mapstructure:"jwt_secret"       validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"  validate:"min=1s"`
}

// TelegramConfig configures the optional Telegram front end.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token" validate:"required_if=Enabled true"`

	// BotInfo is filled at runtime from getMe.
	BotInfo *models.User `mapstructure:"-"`
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
	// ConversationRetention is how long an idle conversation is kept.
	ConversationRetention time.Duration `mapstructure:"conversation_retention" validate:"min=0"`
}

// TaskConfig enables a task and sets its cron expression.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds user-facing texts.
type MessagesConfig struct {
	ChatFallback     string `mapstructure:"chat_fallback"      validate:"required"`
	Welcome          string `mapstructure:"welcome"            validate:"required"`
	Help             string `mapstructure:"help"               validate:"required"`
	GeneralError     string `mapstructure:"general_error"      validate:"required"`
	ProvideArgument  string `mapstructure:"provide_argument"   validate:"required"`
	NoResults        string `mapstructure:"no_results"         validate:"required"`
	ConversationDone string `mapstructure:"conversation_reset" validate:"required"`
}
