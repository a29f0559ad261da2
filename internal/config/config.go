package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ServerPort    string
	ClientOrigin  string
	SessionSecret string
	SessionTTLHrs int

	RedisAddr     string
	RedisPassword string

	OpenAIAPIKey string
	TextModel    string
	EmbedModel   string
	ImageModel   string
	ImageSize    string

	SimThreshold    float64
	MaxGenRetries   int
	LookbackDays    int
	AvoidListLimit  int
	ImageGenEnabled bool

	CronSpec  string
	Timezone  string
	QuizStart string
	QuizEnd   string
	GenStart  string
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "gkapp"),

		ServerPort:    getEnv("SERVER_PORT", "5001"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:3000"),
		SessionSecret: getEnv("SESSION_SECRET", "super-secret-key-change-me"),
		SessionTTLHrs: getEnvInt("SESSION_TTL_HOURS", 24*7),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		TextModel:    getEnv("OPENAI_TEXT_MODEL", "gpt-4o"),
		EmbedModel:   getEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		ImageModel:   getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		ImageSize:    getEnv("IMAGE_SIZE", "1024x1024"),

		SimThreshold:    getEnvFloat("SIM_THRESHOLD", 0.35),
		MaxGenRetries:   getEnvInt("GEN_MAX_RETRY", 5),
		LookbackDays:    getEnvInt("SIM_LOOKBACK_DAYS", 30),
		AvoidListLimit:  getEnvInt("AVOID_LIST_LIMIT", 80),
		ImageGenEnabled: getEnv("IMAGE_GEN_ENABLED", "true") == "true",

		CronSpec:  getEnv("DAILY_CRON", "58 7 * * *"),
		Timezone:  getEnv("TZ", "Europe/Istanbul"),
		QuizStart: getEnv("QUIZ_START", "20:00"),
		QuizEnd:   getEnv("QUIZ_END", "20:15"),
		GenStart:  getEnv("GEN_WINDOW_START", "07:45"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}
