package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Validate when the selected LLM provider
// has no credential configured.
var ErrMissingAPIKey = errors.New("config: LLM provider API key is not set")

type Config struct {
	Environment      string
	ServiceName      string
	ServiceVersion   string
	HTTPPort         string
	HTTPSPort        string
	Domains          []string
	CertCacheDir     string
	LogDir           string
	MaxUploadSize    int64
	StrictValidation bool

	LLMProvider        string
	OpenAIAPIKey       string
	OpenAIAPIURL       string
	OpenAIModelName    string
	AnthropicAPIKey    string
	AnthropicAPIURL    string
	AnthropicModelName string
	LLMMaxTokens       int
	LLMTimeout         time.Duration
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

func Load() Config {
	return Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		ServiceName:      "LLM Document Abstractor",
		ServiceVersion:   "0.1.0",
		HTTPPort:         getEnv("HTTP_PORT", "8086"),
		HTTPSPort:        getEnv("HTTPS_PORT", "443"),
		Domains:          []string{getEnv("DOMAIN", "example.com")},
		CertCacheDir:     getEnv("CERT_CACHE_DIR", "/etc/letsencrypt/live/example.com"),
		LogDir:           getEnv("LOG_DIR", "logs"),
		MaxUploadSize:    getEnvAsInt64("MAX_UPLOAD_SIZE", 10<<20),
		StrictValidation: getEnvAsBool("STRICT_VALIDATION", false),

		LLMProvider:        getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL:       getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModelName:    getEnv("OPENAI_MODEL_NAME", "gpt-4"),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicAPIURL:    getEnv("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages"),
		AnthropicModelName: getEnv("ANTHROPIC_MODEL_NAME", "claude-3-5-sonnet-latest"),
		LLMMaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 4096),
		LLMTimeout:         time.Duration(getEnvAsInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,
	}
}

// Validate checks the options the extraction pipeline cannot run without.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return ErrMissingAPIKey
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return ErrMissingAPIKey
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
