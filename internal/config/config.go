package config

import (
	"os"
	"strconv"

	"cognikit/internal/retry"
)

// LanguageConfig holds Language service connection settings.
type LanguageConfig struct {
	Endpoint string
	Key      string
}

// TranslatorConfig holds Translator service connection settings.
type TranslatorConfig struct {
	Endpoint string
	Key      string
	Region   string
}

// VisionConfig holds Computer Vision connection settings.
type VisionConfig struct {
	Endpoint string
	Key      string
}

// ChatConfig holds chat completion provider settings. OpenAI fields
// target an Azure OpenAI deployment; AnthropicKey selects the
// alternative provider.
type ChatConfig struct {
	OpenAIEndpoint   string
	OpenAIKey        string
	OpenAIDeployment string
	OpenAIAPIVersion string
	AnthropicKey     string
}

// AppConfig is the centralized configuration for all sample binaries.
// It is populated from environment variables; a .env file can be loaded
// beforehand with godotenv.
type AppConfig struct {
	Language     LanguageConfig
	Translator   TranslatorConfig
	Vision       VisionConfig
	Chat         ChatConfig
	MaxRetries   int
	BatchWorkers int
}

// Load reads configuration from environment variables. Real environment
// variables take precedence over anything a .env file provided.
func Load() *AppConfig {
	return &AppConfig{
		Language: LanguageConfig{
			Endpoint: getEnv("AZURE_LANGUAGE_ENDPOINT", ""),
			Key:      getEnv("AZURE_LANGUAGE_KEY", ""),
		},
		Translator: TranslatorConfig{
			Endpoint: getEnv("TRANSLATOR_ENDPOINT", ""),
			Key:      getEnv("TRANSLATOR_KEY", ""),
			Region:   getEnv("TRANSLATOR_REGION", ""),
		},
		Vision: VisionConfig{
			Endpoint: getEnv("AZURE_VISION_ENDPOINT", ""),
			Key:      getEnv("AZURE_VISION_KEY", ""),
		},
		Chat: ChatConfig{
			OpenAIEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			OpenAIKey:        getEnv("AZURE_OPENAI_API_KEY", ""),
			OpenAIDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4o"),
			OpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-10-21"),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
		},
		MaxRetries:   getEnvInt("COGNIKIT_MAX_RETRIES", 3),
		BatchWorkers: getEnvInt("COGNIKIT_BATCH_WORKERS", 5),
	}
}

// Retry builds the retry bounds service clients run with. MaxRetries
// caps the attempt count; the backoff intervals keep their defaults.
func (c *AppConfig) Retry() retry.Config {
	rc := retry.DefaultConfig()
	if c.MaxRetries > 0 {
		rc.MaxAttempts = c.MaxRetries
	}
	return rc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
