package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Speech providers
const (
	TTSProviderGoogle = "google"
	TTSProviderOpenAI = "openai"
)

// Config holds the settings read from the environment at startup
type Config struct {
	OpenWeatherAPIKey string
	ModelPath         string
	ModelClassOffset  int
	MLServiceURL      string
	DatabaseURL       string

	TTSProvider    string
	OpenAIAPIKey   string
	OpenAITTSModel string

	GeoBaseURL   string
	OWMBaseURL   string
	MeteoBaseURL string
	TTSBaseURL   string

	SessionTTL time.Duration
	Timezone   string
	Port       string
	Env        string
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := &Config{
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		ModelPath:         getEnv("MODEL_PATH", ""),
		MLServiceURL:      getEnv("ML_SERVICE_URL", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TTSProvider:       getEnv("TTS_PROVIDER", TTSProviderGoogle),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAITTSModel:    getEnv("OPENAI_TTS_MODEL", "gpt-4o-mini-tts"),
		GeoBaseURL:        getEnv("GEO_BASE_URL", "http://api.openweathermap.org"),
		OWMBaseURL:        getEnv("OWM_BASE_URL", "http://api.openweathermap.org"),
		MeteoBaseURL:      getEnv("METEO_BASE_URL", "https://api.open-meteo.com"),
		TTSBaseURL:        getEnv("TTS_BASE_URL", "https://translate.google.com"),
		Timezone:          getEnv("TIMEZONE", "Asia/Karachi"),
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("GO_ENV", "development"),
	}

	offset, err := strconv.Atoi(getEnv("MODEL_CLASS_OFFSET", "1"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid MODEL_CLASS_OFFSET: %w", err)
	}
	cfg.ModelClassOffset = offset

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// UseRemoteModel reports whether inference goes to the ML service instead of a local model file
func (c *Config) UseRemoteModel() bool {
	return c.MLServiceURL != ""
}

func (c *Config) validate() error {
	if c.OpenWeatherAPIKey == "" {
		return fmt.Errorf("OpenWeatherMap API key is required (set OPENWEATHER_API_KEY)")
	}
	if c.ModelPath == "" && c.MLServiceURL == "" {
		return fmt.Errorf("model is required (set MODEL_PATH or ML_SERVICE_URL)")
	}
	switch c.TTSProvider {
	case TTSProviderGoogle:
	case TTSProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OpenAI API key is required for TTS_PROVIDER=openai (set OPENAI_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown TTS_PROVIDER %q (want %q or %q)", c.TTSProvider, TTSProviderGoogle, TTSProviderOpenAI)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
