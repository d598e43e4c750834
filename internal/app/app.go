package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/amital-ui/aichat/internal/api"
	"github.com/amital-ui/aichat/internal/config"
	"github.com/amital-ui/aichat/internal/database"
	"github.com/amital-ui/aichat/internal/service"
	"github.com/amital-ui/aichat/internal/transport"
)

// App holds the application's wired dependencies.
type App struct {
	DB       *sql.DB
	Server   *http.Server
	Sessions *service.SessionManager
}

// NewApp wires the full dependency graph from a loaded configuration.
func NewApp(cfg *config.Config) (*App, error) {
	setupLogger(cfg.LogLevel)

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.")

	settingsService := service.NewSettingsService(db)
	defaults := service.Settings{
		EnableStreaming: cfg.EnableStreaming,
		ShowCitations:   cfg.ShowCitations,
		UseRAGByDefault: cfg.UseRAGByDefault,
		Placeholder:     "Type your message...",
	}
	settings, err := settingsService.InitAndGet(context.Background(), defaults)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize widget settings: %w", err)
	}
	slog.Info("Loaded widget settings", "streaming", settings.EnableStreaming, "citations", settings.ShowCitations)

	chatClient := transport.NewClient(cfg.ChatAPIURL)
	sessions := service.NewSessionManager(chatClient, chatClient, settingsService,
		time.Duration(cfg.ErrorTTLSeconds)*time.Second)

	widgetHandler := api.NewWidgetHandler(sessions)
	settingsHandler := api.NewSettingsHandler(settingsService)
	router := api.NewRouter(widgetHandler, settingsHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server, Sessions: sessions}, nil
}

// Run loads the configuration, starts the HTTP server, and blocks until
// shutdown. It returns the process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to build application", "error", err)
		return 1
	}
	defer func() {
		if err := app.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	logConfigSource()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", app.Server.Addr)
		errCh <- app.Server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Server.Shutdown(ctx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}

		// Tear down every live widget session so held documents are released.
		app.Sessions.CloseAll()
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
