package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/0yeonnnn0/kimitter-sub000/internal/bots"
	"github.com/0yeonnnn0/kimitter-sub000/internal/brain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/config"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/domain"
	"github.com/0yeonnnn0/kimitter-sub000/internal/core/ports"
	"github.com/0yeonnnn0/kimitter-sub000/internal/market"
	"github.com/0yeonnnn0/kimitter-sub000/internal/news"
	"github.com/0yeonnnn0/kimitter-sub000/internal/notify"
	"github.com/0yeonnnn0/kimitter-sub000/internal/platform"
	"github.com/0yeonnnn0/kimitter-sub000/internal/scheduler"
	"github.com/0yeonnnn0/kimitter-sub000/internal/storage"
	"github.com/0yeonnnn0/kimitter-sub000/internal/webhook"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}

	ctx := context.Background()

	var store ports.Storage
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStorage(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres storage unavailable")
		}
		store = pg
		log.Info().Msg("storage: postgresql")
	} else {
		js, err := storage.NewJSONStorage("data/storage.json")
		if err != nil {
			log.Fatal().Err(err).Msg("json storage unavailable")
		}
		store = js
		log.Info().Msg("storage: json file")
	}

	myBrain, err := brain.NewOpenAIBrain(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIFallbackModel)
	if err != nil {
		log.Fatal().Err(err).Msg("content generator unavailable")
	}

	var notifier ports.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier unavailable, continuing without it")
		} else {
			notifier = tg
			log.Info().Msg("operator notifications: telegram")
		}
	}

	marketData := market.NewClient(cfg.KISBaseURL, cfg.KISAppKey, cfg.KISAppSecret)
	newsData := news.NewClient(cfg.NaverBaseURL, cfg.NaverClientID, cfg.NaverClientSecret)

	// Scheduler side: one session-bound client per bot identity.
	sched := scheduler.New(cfg.SchedulerEnabled)
	for botType, creds := range cfg.Bots {
		client := platform.NewClient(cfg.BackendBaseURL, creds.Username, creds.Password)
		var bot *bots.Bot
		switch botType {
		case domain.BotTypeStock:
			bot = bots.NewStockBot(client, myBrain, store, notifier, marketData)
		case domain.BotTypePolitical:
			bot = bots.NewPoliticalNewsBot(client, myBrain, store, notifier, newsData)
		default:
			bot = bots.NewGeneralNewsBot(client, myBrain, store, notifier, newsData)
		}
		sched.Register(string(botType), cfg.Schedules[botType], bot)
	}

	if err := sched.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler initialization failed")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}

	// Webhook side: its own client set, resolved through the registry.
	webhookCreds := make(map[domain.BotType]webhook.Credentials, len(cfg.Bots))
	for botType, creds := range cfg.Bots {
		webhookCreds[botType] = webhook.Credentials{Username: creds.Username, Password: creds.Password}
	}
	registry, err := webhook.InitializeBotClients(ctx, cfg.BackendBaseURL, webhookCreds)
	if err != nil {
		log.Fatal().Err(err).Msg("webhook client initialization failed")
	}

	handler := webhook.NewHandler(registry, myBrain, store)
	server := webhook.NewServer(handler, cfg.WebhookSecret)
	go func() {
		if err := server.ListenAndServe(":" + cfg.WebhookPort); err != nil {
			log.Fatal().Err(err).Msg("webhook server stopped")
		}
	}()

	log.Info().Msg("kimitter bot subsystem operational")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	log.Info().Msg("shut down")
}
