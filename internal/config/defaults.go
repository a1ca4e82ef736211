package config

import "time"

const (
	DefaultLogLevel = "info"

	DefaultDBPath = "counsellor.db"

	DefaultGeminiModel       = "gemini-1.5-flash"
	DefaultGeminiTemperature = 0.7
	DefaultGeminiTimeout     = 60 * time.Second

	DefaultDirectoryBaseURL = "http://universities.hipolabs.com"
	DefaultDirectoryTimeout = 10 * time.Second
	DefaultDirectoryTTL     = 6 * time.Hour

	DefaultHTTPAddr            = ":8000"
	DefaultHTTPShutdownTimeout = 10 * time.Second
	DefaultHTTPRequestTimeout  = 2 * time.Minute

	DefaultConversationRetention = 90 * 24 * time.Hour
)

// DefaultCORSOrigins mirrors the local front-end dev servers.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

var defaults = map[string]any{
	"logger.level": DefaultLogLevel,
	"logger.json":  false,

	"database.path": DefaultDBPath,

	"gemini.api_key":             "",
	"gemini.model_name":          DefaultGeminiModel,
	"gemini.temperature":         DefaultGeminiTemperature,
	"gemini.timeout":             DefaultGeminiTimeout,
	"gemini.max_retries":         0,
	"gemini.retry_delay_seconds": 2,

	"directory.base_url":         DefaultDirectoryBaseURL,
	"directory.timeout":          DefaultDirectoryTimeout,
	"directory.cache.redis_addr": "",
	"directory.cache.password":   "",
	"directory.cache.db":         0,
	"directory.cache.ttl":        DefaultDirectoryTTL,

	"http.addr":             DefaultHTTPAddr,
	"http.cors_origins":     DefaultCORSOrigins,
	"http.jwt_secret":       "",
	"http.shutdown_timeout": DefaultHTTPShutdownTimeout,
	"http.request_timeout":  DefaultHTTPRequestTimeout,

	"telegram.enabled": false,
	"telegram.token":   "",

	"scheduler.conversation_retention":            DefaultConversationRetention,
	"scheduler.tasks.sql_maintenance.enabled":     true,
	"scheduler.tasks.sql_maintenance.schedule":    "0 0 4 * * *",
	"scheduler.tasks.conversation_prune.enabled":  true,
	"scheduler.tasks.conversation_prune.schedule": "0 30 3 * * *",

	"messages.chat_fallback":      "I apologize, but I'm having trouble processing your request right now. Please try again in a moment.",
	"messages.welcome":            "Hi! I'm your study and career counsellor. Send me a message about your plans, or try /careers, /courses or /universities <country>.",
	"messages.help":               "Commands:\n/careers [field] - career paths that fit you\n/courses [career goal] - courses and degree programs\n/universities <country> - universities in a country\n/reset - start a new conversation\n\nAny other message is a question for the counsellor.",
	"messages.general_error":      "Something went wrong. Please try again later.",
	"messages.provide_argument":   "Please add an argument to this command, for example /universities Canada.",
	"messages.no_results":         "I couldn't find anything for that. Try a different query.",
	"messages.conversation_reset": "Conversation cleared. Let's start fresh.",
}

// legacyEnv lists environment variable names accepted in addition to the
// COUNSELLOR_ prefixed ones.
var legacyEnv = map[string]string{
	"gemini.api_key":     "GEMINI_API_KEY",
	"directory.base_url": "UNIVERSITY_API_URL",
	"http.jwt_secret":    "SECRET_KEY",
	"http.cors_origins":  "CORS_ORIGINS",
	"telegram.token":     "TELEGRAM_BOT_TOKEN",
}
