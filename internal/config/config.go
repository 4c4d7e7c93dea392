package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                        string
	AllowedOrigin               string
	DatabaseURL                 string
	RedisAddr                   string
	RedisPassword               string
	RedisDB                     int
	DataDir                     string
	AuthSecret                  string
	AccessTokenTTLMinutes       int
	WebhookTimeoutSeconds       int
	SummaryCheckIntervalSeconds int
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokenTTL, err := strconv.Atoi(getEnv("ACCESS_TOKEN_TTL_MINUTES", "480"))
	if err != nil || tokenTTL < 1 {
		tokenTTL = 480
	}
	webhookTimeout, err := strconv.Atoi(getEnv("WEBHOOK_TIMEOUT_SECONDS", "10"))
	if err != nil || webhookTimeout < 1 {
		webhookTimeout = 10
	}
	summaryInterval, err := strconv.Atoi(getEnv("SUMMARY_CHECK_INTERVAL_SECONDS", "60"))
	if err != nil || summaryInterval < 1 {
		summaryInterval = 60
	}

	cfg := Config{
		Port:                        getEnv("PORT", "8080"),
		AllowedOrigin:               getEnv("ALLOWED_ORIGIN", "http://127.0.0.1:3000"),
		DatabaseURL:                 os.Getenv("DATABASE_URL"),
		RedisAddr:                   os.Getenv("REDIS_ADDR"),
		RedisPassword:               os.Getenv("REDIS_PASSWORD"),
		RedisDB:                     redisDB,
		DataDir:                     strings.TrimSpace(os.Getenv("DATA_DIR")),
		AuthSecret:                  strings.TrimSpace(os.Getenv("AUTH_SECRET")),
		AccessTokenTTLMinutes:       tokenTTL,
		WebhookTimeoutSeconds:       webhookTimeout,
		SummaryCheckIntervalSeconds: summaryInterval,
	}

	return cfg
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
