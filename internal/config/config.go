package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port              int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel          string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DatabaseConfig contains all database-related configuration settings.
// URL is a PostgreSQL connection URL or a SQLite file DSN depending on Driver,
// and is ignored by the memory driver.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres sqlite memory"`
	URL          string `mapstructure:"url" validate:"required_unless=Driver memory"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1,lte=1000"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,lte=100"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime" validate:"gt=0"`
}

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// LLMConfig contains the settings of the chat relay's upstream model.
type LLMConfig struct {
	Provider       string        `mapstructure:"provider" validate:"required,oneof=gemini ollama"`
	GeminiAPIKey   string        `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	GeminiModel    string        `mapstructure:"gemini_model" validate:"required"`
	OllamaURL      string        `mapstructure:"ollama_url" validate:"required,url"`
	OllamaModel    string        `mapstructure:"ollama_model" validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	// MaxRetries bounds how often a failed upstream call is retried before
	// any output has been streamed.
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
}

// StudyConfig contains the defaults of item generation.
type StudyConfig struct {
	ItemsPerGeneration int      `mapstructure:"items_per_generation" validate:"gt=0,lte=200"`
	DefaultKinds       []string `mapstructure:"default_kinds" validate:"min=1,dive,oneof=flashcard mcq truefalse"`
}

// UploadConfig limits document uploads.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gt=0"`
}
