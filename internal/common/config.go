package common

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/screenshot-vocab/constants"
)

// Config holds all application configuration
type Config struct {
	Log    LogConfig    `yaml:"log"`
	OCR    OCRConfig    `yaml:"ocr"`
	LLM    LLMConfig    `yaml:"llm"`
	Upload UploadConfig `yaml:"upload"`
	Store  StoreConfig  `yaml:"store"`
	Batch  BatchConfig  `yaml:"batch"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// OCRConfig holds tesseract settings.
type OCRConfig struct {
	Tesseract     string `yaml:"tesseract"      env:"TESSERACT_BIN"      env-default:"tesseract"`
	Lang          string `yaml:"lang"           env:"TESSERACT_LANG"     env-default:"eng"`
	TessdataDir   string `yaml:"tessdata_dir"   env:"TESSDATA_PREFIX"`
	PSM           int    `yaml:"psm"            env:"OCR_PSM"            env-default:"0"`
	OEM           int    `yaml:"oem"            env:"OCR_OEM"            env-default:"0"`
	TSVConfidence bool   `yaml:"tsv_confidence" env:"OCR_TSV_CONFIDENCE" env-default:"false"`
	Clean         bool   `yaml:"clean"          env:"OCR_CLEAN"          env-default:"true"`
	DetectLang    bool   `yaml:"detect_lang"    env:"OCR_DETECT_LANG"    env-default:"true"`
}

// LLMConfig holds backend selection and per-backend settings.
type LLMConfig struct {
	Backend         string        `yaml:"backend"           env:"LLM_BACKEND"       env-default:"openai"`
	Temperature     float64       `yaml:"temperature"       env:"LLM_TEMPERATURE"   env-default:"0.7"`
	MaxTokens       int           `yaml:"max_tokens"        env:"LLM_MAX_TOKENS"    env-default:"500"`
	Timeout         time.Duration `yaml:"timeout"           env:"LLM_TIMEOUT"       env-default:"30s"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"    env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"   env:"OPENAI_BASE_URL"   env-default:"https://api.openai.com/v1"`
	OpenAIModel     string        `yaml:"openai_model"      env:"OPENAI_MODEL"      env-default:"gpt-3.5-turbo"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `yaml:"anthropic_model"   env:"ANTHROPIC_MODEL"   env-default:"claude-3-5-haiku-latest"`
	OllamaBaseURL   string        `yaml:"ollama_base_url"   env:"OLLAMA_BASE_URL"   env-default:"http://localhost:11434"`
	OllamaModel     string        `yaml:"ollama_model"      env:"OLLAMA_MODEL"      env-default:"deepseek-llm"`
}

// UploadConfig holds credentials for the image hosts and Notion.
type UploadConfig struct {
	ImgurClientID    string `yaml:"imgur_client_id"    env:"IMGUR_CLIENT_ID"`
	ImgBBAPIKey      string `yaml:"imgbb_api_key"      env:"IMGBB_API_KEY"`
	NotionToken      string `yaml:"notion_token"       env:"NOTION_TOKEN"`
	NotionDatabaseID string `yaml:"notion_database_id" env:"NOTION_DATABASE_ID"`
	NotionBaseURL    string `yaml:"notion_base_url"    env:"NOTION_BASE_URL"    env-default:"https://api.notion.com"`
}

// StoreConfig holds the notes database settings.
type StoreConfig struct {
	DSN         string        `yaml:"dsn"          env:"NOTES_DB_DSN"          env-default:"file:vocab.db"`
	MaxConns    int32         `yaml:"max_conns"    env:"NOTES_DB_MAX_CONNS"    env-default:"4"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"NOTES_DB_DIAL_TIMEOUT" env-default:"3s"`
}

// BatchConfig holds directory processing settings.
type BatchConfig struct {
	Workers    int           `yaml:"workers"     env:"BATCH_WORKERS"     env-default:"1"`
	JobTimeout time.Duration `yaml:"job_timeout" env:"BATCH_JOB_TIMEOUT" env-default:"3m"`
}

// LoadConfig reads a .env file if present, then the YAML file at path (or
// CONFIG_PATH) with environment overrides, or the environment alone.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, NewAppError("CONFIG_ERROR", "read .env", err)
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("config file %s not found", path), ErrConfig)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "read config file", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "read env", err)
	}

	if b, ok := constants.CanonicalBackend(cfg.LLM.Backend); ok {
		cfg.LLM.Backend = b
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks values that do not depend on which commands run.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		return NewAppError("CONFIG_ERROR", "LOG_LEVEL must be one of debug, info, warn, error", ErrConfig)
	}
	if _, ok := constants.CanonicalBackend(c.LLM.Backend); !ok {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown LLM_BACKEND %q (want %s)", c.LLM.Backend, strings.Join(constants.Backends(), ", ")), ErrConfig)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return NewAppError("CONFIG_ERROR", "LLM_TEMPERATURE must be within 0..2", ErrConfig)
	}
	if c.LLM.MaxTokens <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM_MAX_TOKENS must be positive", ErrConfig)
	}
	if c.LLM.Timeout <= 0 {
		return NewAppError("CONFIG_ERROR", "LLM_TIMEOUT must be positive", ErrConfig)
	}
	if c.Batch.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_WORKERS must be positive", ErrConfig)
	}
	if c.Batch.JobTimeout <= 0 {
		return NewAppError("CONFIG_ERROR", "BATCH_JOB_TIMEOUT must be positive", ErrConfig)
	}
	return nil
}

// ValidateFor checks the credentials a given backend needs.
func (c *Config) ValidateFor(backend string) error {
	name, ok := constants.CanonicalBackend(backend)
	if !ok {
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown backend %q", backend), ErrConfig)
	}
	switch name {
	case constants.BackendOpenAI:
		if c.LLM.OpenAIAPIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrConfig)
		}
	case constants.BackendAnthropic:
		if c.LLM.AnthropicAPIKey == "" {
			return NewAppError("CONFIG_ERROR", "ANTHROPIC_API_KEY is required", ErrConfig)
		}
	case constants.BackendOllama:
		if c.LLM.OllamaBaseURL == "" {
			return NewAppError("CONFIG_ERROR", "OLLAMA_BASE_URL is required", ErrConfig)
		}
	}
	return nil
}

// ValidateNotion checks the Notion credentials.
func (c *Config) ValidateNotion() error {
	if c.Upload.NotionToken == "" || c.Upload.NotionDatabaseID == "" {
		return NewAppError("CONFIG_ERROR", "NOTION_TOKEN and NOTION_DATABASE_ID are required", ErrConfig)
	}
	return nil
}
