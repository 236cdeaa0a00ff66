package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
)

// BotCredentials is one bot account's login pair.
type BotCredentials struct {
	Username string
	Password string
}

// Config holds everything the bot subsystem reads from the
// environment.
type Config struct {
	BackendBaseURL string
	Bots           map[domain.BotType]BotCredentials

	SchedulerEnabled bool
	Schedules        map[domain.BotType]string

	WebhookPort   string
	WebhookSecret string

	OpenAIAPIKey        string
	OpenAIModel         string
	OpenAIFallbackModel string

	NaverBaseURL      string
	NaverClientID     string
	NaverClientSecret string

	KISBaseURL   string
	KISAppKey    string
	KISAppSecret string

	DatabaseURL string

	TelegramBotToken string
	TelegramChatID   string
}

// Default KST posting schedules (5-field cron, evaluated in UTC+9).
var defaultSchedules = map[domain.BotType]string{
	domain.BotTypeStock:     "0 9 * * 1-5",
	domain.BotTypePolitical: "0 12 * * *",
	domain.BotTypeGeneral:   "0 18 * * *",
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		BackendBaseURL: getEnv("BACKEND_BASE_URL", "http://localhost:3000/api"),
		Bots: map[domain.BotType]BotCredentials{
			domain.BotTypeStock: {
				Username: os.Getenv("STOCK_BOT_USERNAME"),
				Password: os.Getenv("STOCK_BOT_PASSWORD"),
			},
			domain.BotTypePolitical: {
				Username: os.Getenv("POLITICAL_BOT_USERNAME"),
				Password: os.Getenv("POLITICAL_BOT_PASSWORD"),
			},
			domain.BotTypeGeneral: {
				Username: os.Getenv("GENERAL_BOT_USERNAME"),
				Password: os.Getenv("GENERAL_BOT_PASSWORD"),
			},
		},
		SchedulerEnabled: os.Getenv("SCHEDULER_ENABLED") == "true",
		Schedules:        make(map[domain.BotType]string),

		WebhookPort:   getEnv("WEBHOOK_PORT", "4000"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),

		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         os.Getenv("OPENAI_MODEL"),
		OpenAIFallbackModel: os.Getenv("OPENAI_FALLBACK_MODEL"),

		NaverBaseURL:      getEnv("NAVER_API_BASE_URL", "https://openapi.naver.com"),
		NaverClientID:     os.Getenv("NAVER_CLIENT_ID"),
		NaverClientSecret: os.Getenv("NAVER_CLIENT_SECRET"),

		KISBaseURL:   getEnv("KIS_BASE_URL", "https://openapi.koreainvestment.com:9443"),
		KISAppKey:    os.Getenv("KIS_APP_KEY"),
		KISAppSecret: os.Getenv("KIS_APP_SECRET"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
	}

	for botType, def := range defaultSchedules {
		cfg.Schedules[botType] = getEnv(scheduleEnvName(botType), def)
	}

	for botType, creds := range cfg.Bots {
		if creds.Username == "" || creds.Password == "" {
			return nil, fmt.Errorf("missing credentials for %s bot", botType)
		}
	}
	return cfg, nil
}

func scheduleEnvName(botType domain.BotType) string {
	switch botType {
	case domain.BotTypeStock:
		return "STOCK_BOT_SCHEDULE"
	case domain.BotTypePolitical:
		return "POLITICAL_BOT_SCHEDULE"
	default:
		return "GENERAL_BOT_SCHEDULE"
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
