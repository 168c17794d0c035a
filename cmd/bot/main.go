package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/config"
	"vk-match-bot/internal/handlers"
	"vk-match-bot/internal/services"
	"vk-match-bot/pkg/vkbot"
	"vk-match-bot/pkg/vkclient"
)

func main() {
	// Load .env before anything reads the environment
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Setup logger
	logger := setupLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: ", err)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the database
	db, err := services.ConnectDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	repo := services.NewRepository(db, logger)
	if err := repo.InitSchema(ctx); err != nil {
		logger.Fatal("Failed to initialize database structure: ", err)
	}

	// Acquire the user token before any directory call
	qrService := services.NewQRService(logger)
	bootstrap := services.NewBootstrap(cfg.VK, qrService, logger)
	token, err := bootstrap.EnsureToken()
	if err != nil {
		logger.Fatal("Failed to acquire user token: ", err)
	}

	// Initialize services
	vkClient := vkclient.NewClient(cfg.VK, logger)
	vkClient.SetUserToken(token)

	stateService := services.NewUserStateService(cfg.State.TTLMinutes, logger)
	pager := services.NewPager(vkClient, cfg.Search.RPS, logger)

	// Initialize the dialog handler
	dialog := handlers.NewDialogHandler(vkClient, stateService, pager, vkClient, repo, cfg.Search.Count, logger)

	// Initialize bot
	bot := vkbot.NewBot(vkClient, dialog, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		logger.Info("Received shutdown signal")
		cancel()
	}()

	// Start bot
	logger.Info("Starting VK matchmaking bot")
	if err := bot.Start(ctx); err != nil {
		logger.Fatal("Bot failed: ", err)
	}
}

// setupLogger sets up the logger
func setupLogger() *logrus.Logger {
	logger := logrus.New()

	// Set log level from environment variable or default to info
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Printf("Invalid log level %s, defaulting to info", logLevel)
		level = logrus.InfoLevel
	}

	logger.SetLevel(level)

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return logger
}
