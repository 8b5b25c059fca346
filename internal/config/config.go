package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"600s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`

	AuthToken string `env:"AUTH_TOKEN"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	UploadDir       string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	WatchDir        string        `env:"WATCH_DIR"`
	UploadRetention time.Duration `env:"UPLOAD_RETENTION" envDefault:"24h"`

	GeminiAPIKey       string        `env:"GEMINI_API_KEY"`
	OpenAIAPIKey       string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL      string        `env:"OPENAI_BASE_URL"`
	CorrectionProvider string        `env:"CORRECTION_PROVIDER" envDefault:"gemini"`
	CorrectionModel    string        `env:"CORRECTION_MODEL" envDefault:"gemini-2.5-flash"`
	CorrectionTimeout  time.Duration `env:"CORRECTION_TIMEOUT" envDefault:"120s"`

	MaxChunkSize int           `env:"MAX_CHUNK_SIZE" envDefault:"3000"`
	MaxRetries   int           `env:"MAX_RETRIES" envDefault:"2"`
	RetryDelay   time.Duration `env:"RETRY_DELAY" envDefault:"5s"`

	TranscribeProvider string        `env:"TRANSCRIBE_PROVIDER" envDefault:"whisper"`
	WhisperURL         string        `env:"WHISPER_URL" envDefault:"http://localhost:9000/v1/audio/transcriptions"`
	WhisperTimeout     time.Duration `env:"WHISPER_TIMEOUT" envDefault:"300s"`
	DeepInfraAPIKey    string        `env:"DEEPINFRA_API_KEY"`
	DeepInfraModel     string        `env:"DEEPINFRA_MODEL" envDefault:"openai/whisper-large-v3-turbo"`
	Language           string        `env:"TRANSCRIBE_LANGUAGE" envDefault:"ja"`
	ModelSizes         []string      `env:"MODEL_SIZES" envDefault:"tiny,base,small,medium,large"`
	DefaultModelSize   string        `env:"DEFAULT_MODEL_SIZE" envDefault:"base"`
	PreprocessAudio    bool          `env:"PREPROCESS_AUDIO" envDefault:"false"`
}

// OracleConfigured reports whether the selected correction provider has an
// API key set. Correction still runs without one but every request fails
// with a credential error, so health reports it as degraded.
func (c *Config) OracleConfigured() bool {
	switch c.CorrectionProvider {
	case "openai":
		return c.OpenAIAPIKey != ""
	default:
		return c.GeminiAPIKey != ""
	}
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile   string
	HTTPAddr  string
	LogLevel  string
	UploadDir string
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	// Load .env file (silent if missing)
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	// Parse environment variables into config struct
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Apply CLI overrides (non-empty values win)
	if overrides.HTTPAddr != "" {
		cfg.HTTPAddr = overrides.HTTPAddr
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.UploadDir != "" {
		cfg.UploadDir = overrides.UploadDir
	}

	return cfg, nil
}
