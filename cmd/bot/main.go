// JEE Math Solver Telegram bot.
package main

import (
	"log/slog"
	"os"

	"jee-solver/internal/config"
	"jee-solver/internal/engine"
	"jee-solver/internal/engine/gemini"
	"jee-solver/internal/engine/openai"
	"jee-solver/internal/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN is required")
		os.Exit(1)
	}

	engines := &engine.Engines{
		Gemini:  gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
		Default: cfg.DefaultEngine,
	}
	if cfg.OpenAIAPIKey != "" {
		engines.OpenAI = openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("Failed to connect to Telegram", "error", err)
		os.Exit(1)
	}
	bot.Debug = cfg.Debug
	slog.Info("Bot authorized", "username", bot.Self.UserName)

	router := telegram.NewRouter(bot, telegram.NewManager(engines), cfg.TelegramToken, logger)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	for upd := range bot.GetUpdatesChan(u) {
		router.HandleUpdate(upd)
	}
}
