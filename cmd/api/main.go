package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"telegram-chat-gateway/config"
	_ "telegram-chat-gateway/docs" // Swagger docs
	tgDelivery "telegram-chat-gateway/internal/chat/delivery/telegram"
	"telegram-chat-gateway/internal/chat/dispatcher"
	"telegram-chat-gateway/internal/chat/handlers"
	"telegram-chat-gateway/internal/httpserver"
	"telegram-chat-gateway/internal/lifecycle"
	"telegram-chat-gateway/internal/router"
	"telegram-chat-gateway/internal/session"
	"telegram-chat-gateway/pkg/completion"
	"telegram-chat-gateway/pkg/log"
	"telegram-chat-gateway/pkg/telegram"
)

// @title       Telegram Chat Gateway API
// @description Webhook-driven Telegram bot gateway backed by LLM chat completion.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Telegram Chat Gateway...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Telegram Bot client
	telegramBot := telegram.NewBot(cfg.Telegram.BotToken)

	// 4. Completion providers with priority fallback
	providers, err := completion.InitializeProviders(&cfg.LLM)
	if err != nil {
		logger.Error(ctx, "Failed to initialize completion providers: ", err)
		return
	}
	completionClient := completion.NewManager(providers, completion.ManagerConfigFromLLM(&cfg.LLM), logger)

	// 5. Session store
	store, err := session.New(session.Config{
		MaxTurns:         cfg.Session.MaxTurns,
		MaxConversations: cfg.Session.MaxConversations,
		SystemPrompt:     cfg.Session.SystemPrompt,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize session store: ", err)
		return
	}

	// 6. Handler router: commands, keywords, then the LLM fallback
	rt := router.New()
	rt.Command("/start", handlers.NewStart())
	rt.Command("/help", handlers.NewHelp())
	rt.Command("/clear", handlers.NewClear(store))
	if err := rt.Keyword(`hi|hello|hey`, handlers.Static(handlers.GreetingText)); err != nil {
		logger.Error(ctx, "Failed to register greeting keyword: ", err)
		return
	}
	if err := rt.Keyword(`tell me a joke|joke`, handlers.Static(handlers.JokeText)); err != nil {
		logger.Error(ctx, "Failed to register joke keyword: ", err)
		return
	}
	rt.Fallback(handlers.NewChat(store, completionClient, completion.Options{}))

	// 7. Webhook URL: manual config or auto-detected ngrok tunnel
	webhookURL := cfg.Telegram.WebhookURL
	if webhookURL == "" {
		ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
		if ngrokErr != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
		} else {
			webhookURL = ngrokURL
			logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
		}
	}
	if webhookURL != "" {
		webhookURL += "/webhook"
	}

	// 8. Lifecycle coordinator & dispatcher
	coordinator := lifecycle.New(logger, telegramBot, webhookURL, lifecycle.DefaultGracePeriod)
	disp := dispatcher.New(logger, rt, store, telegramBot, coordinator)

	// 9. Telegram delivery handler
	telegramHandler := tgDelivery.New(logger, disp, coordinator)

	// 10. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 11. Register webhook and start accepting updates
	if err := coordinator.Start(ctx); err != nil {
		logger.Error(ctx, "Failed to start lifecycle coordinator: ", err)
		return
	}

	// 12. Run until interrupted
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
	}

	// 13. Drain in-flight dispatches before exiting
	if err := coordinator.Stop(context.Background()); err != nil {
		logger.Warnf(ctx, "Shutdown drain incomplete: %v", err)
	}

	logger.Info(ctx, "Server stopped gracefully")
}
