package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"gemini-relay-bot/internal/config"
	"gemini-relay-bot/internal/entities"
	"gemini-relay-bot/internal/infrastructure"
	httpiface "gemini-relay-bot/internal/interfaces/http"
	"gemini-relay-bot/internal/log"
	"gemini-relay-bot/internal/repository"
	"gemini-relay-bot/internal/usecases"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := log.New(cfg.LogLevel)

	sqliteClient, err := infrastructure.NewSQLiteClient(cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer sqliteClient.Close()

	userRepo := repository.NewUserRepository(sqliteClient.DB)

	geminiClient, err := infrastructure.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, usecases.SystemInstruction)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}

	telegramClient, err := infrastructure.NewTelegramClient(cfg.BotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect telegram bot")
	}
	logger.Info().Str("bot", telegramClient.BotName()).Str("model", cfg.GeminiModel).Msg("telegram bot connected")

	messageService := usecases.NewMessageService(geminiClient, telegramClient, userRepo, cfg.AdminIDSet(), *logger)

	// Operator status server
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	httpiface.SetupRoutes(r, messageService, userRepo)
	go func() {
		if err := r.Run(cfg.HTTPAddr); err != nil {
			logger.Fatal().Err(err).Str("addr", cfg.HTTPAddr).Msg("status server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telegram polling
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := telegramClient.Bot.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		telegramClient.Bot.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		if update.Message.From == nil {
			_ = telegramClient.SendMessage(chatID, "Could not identify you. Please send a direct message to the bot.")
			continue
		}

		text := update.Message.Text
		if update.Message.Caption != "" {
			if text != "" {
				text += "\n"
			}
			text += update.Message.Caption
		}

		msg := entities.Message{
			ChatID:    chatID,
			UserID:    update.Message.From.ID,
			FirstName: update.Message.From.FirstName,
			Text:      text,
		}

		// Each update is handled independently; the service logs its
		// own failures and masks them from the user.
		if update.Message.IsCommand() {
			args := update.Message.CommandArguments()
			switch update.Message.Command() {
			case "start", "help":
				go messageService.Greet(ctx, msg)
			case "balance":
				go messageService.Balance(ctx, msg)
			case "setplan":
				go messageService.SetPlan(ctx, msg, args)
			case "stats":
				go messageService.AdminStats(ctx, msg)
			default:
				go messageService.HandleMessage(ctx, msg)
			}
			continue
		}

		go messageService.HandleMessage(ctx, msg)
	}
}
