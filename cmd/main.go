package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	discordclient "github.com/noname9006/form2100/clients/discord"
	"github.com/noname9006/form2100/config"
	"github.com/noname9006/form2100/handlers"
	"github.com/noname9006/form2100/middleware"
	"github.com/noname9006/form2100/services/scheduler"
	"github.com/noname9006/form2100/services/stats"
	"github.com/noname9006/form2100/services/tickets"
	"github.com/noname9006/form2100/usecases/intake"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "form2100",
	})

	// One shared gateway session backs both the event handlers and the API client
	session, err := discordgo.New("Bot " + cfg.DiscordConfig.BotToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}
	discordClient := discordclient.NewDiscordClient(session)

	ticketsService := tickets.NewTicketsService()
	statsService := stats.NewStatsService()
	waitScheduler := scheduler.NewScheduler("first-message")
	closeScheduler := scheduler.NewScheduler("closure")

	intakeUseCase := intake.NewIntakeUseCase(
		discordClient,
		ticketsService,
		statsService,
		waitScheduler,
		closeScheduler,
		cfg.DiscordConfig.TargetCategoryID,
		cfg.IntakeConfig.FirstMessageTimeout,
		cfg.IntakeConfig.CloseDelay,
	)
	intakeUseCase.SetErrorHook(alertMiddleware.AlertTaskError)

	discordHandler := handlers.NewDiscordEventsHandler(session, intakeUseCase)
	if err := discordHandler.StartBot(); err != nil {
		return err
	}
	defer discordHandler.StopBot()

	if botUser, err := discordClient.GetBotUser(); err != nil {
		log.Printf("⚠️ Could not resolve bot identity: %v", err)
	} else {
		log.Printf("🤖 Logged in as %s (%s)", botUser.Username, botUser.ID)
	}

	// Create a new router for the monitoring surface
	router := mux.NewRouter()
	statusHandler := handlers.NewStatusAPIHandler(intakeUseCase)
	statusHandler.SetupEndpoints(router)

	// Start the periodic status reporter
	statusTicker := time.NewTicker(cfg.IntakeConfig.StatusInterval)
	go func() {
		for range statusTicker.C {
			_ = alertMiddleware.WrapBackgroundTask("ReportStatus", func() error {
				return intakeUseCase.ReportStatus(context.Background())
			})()
		}
	}()
	defer statusTicker.Stop()
	defer intakeUseCase.Shutdown()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
