package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ChannelSecret      string
	ChannelAccessToken string

	OpenAIAPIKey string
	OpenAIModel  string

	ServiceAccountEmail string
	ServiceAccountKey   string
	SpreadsheetID       string
	CacheTTL            time.Duration
	FallbackFile        string

	Port string
}

func Load() (*Config, error) {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfg := &Config{
		ChannelSecret:       os.Getenv("LINE_CHANNEL_SECRET"),
		ChannelAccessToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         os.Getenv("OPENAI_MODEL"),
		ServiceAccountEmail: os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		ServiceAccountKey:   os.Getenv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY"),
		SpreadsheetID:       os.Getenv("GOOGLE_SHEETS_ID"),
		CacheTTL:            parseMillisEnv("SHEETS_CACHE_MS"),
		FallbackFile:        os.Getenv("STORE_FALLBACK_FILE"),
		Port:                os.Getenv("PORT"),
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.FallbackFile == "" {
		cfg.FallbackFile = "data/store.json"
	}

	// The OpenAI key and the Sheets credentials are deliberately not
	// required: without them the bot degrades to rules plus the fallback
	// file instead of refusing to start.
	for _, req := range []struct {
		name, val string
	}{
		{"LINE_CHANNEL_SECRET", cfg.ChannelSecret},
		{"LINE_CHANNEL_ACCESS_TOKEN", cfg.ChannelAccessToken},
	} {
		if req.val == "" {
			return nil, fmt.Errorf("required env var %s is not set", req.name)
		}
	}

	return cfg, nil
}

func parseMillisEnv(key string) time.Duration {
	ms, _ := strconv.Atoi(os.Getenv(key))
	return time.Duration(ms) * time.Millisecond
}
