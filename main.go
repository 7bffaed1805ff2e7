package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ellavondegurechaff/fankee/fankee"
	"github.com/ellavondegurechaff/fankee/fankee/database"
	"github.com/ellavondegurechaff/fankee/fankee/database/repositories"
	"github.com/ellavondegurechaff/fankee/fankee/logger"
	"github.com/ellavondegurechaff/fankee/fankee/server"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler("Fankee")
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Fankee API",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	seedDemo := flag.Bool("seed-demo", false, "insert demo users, tracks and missions on startup")
	flag.Parse()

	cfg, err := fankee.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	customHandler.SetLevel(cfg.Log.Level)
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbConfig := database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	}

	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Schema initialization failed", slog.Any("error", err))
		os.Exit(-1)
	}

	if *seedDemo {
		if err := db.SeedDemoData(ctx); err != nil {
			slog.Error("Demo data seeding failed", slog.Any("error", err))
			os.Exit(-1)
		}
		slog.Info("Demo data seeded")
	}

	repos := server.Repositories{
		Users:       repositories.NewUserRepository(db.BunDB()),
		Tracks:      repositories.NewTrackRepository(db.BunDB()),
		Missions:    repositories.NewMissionRepository(db.BunDB()),
		Completions: repositories.NewCompletionRepository(db.BunDB()),
	}

	app := server.New(cfg.Server, repos)

	go func() {
		slog.Info("HTTP server listening", slog.String("addr", cfg.Server.Addr()))
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			slog.Error("HTTP server stopped", slog.Any("error", err))
			os.Exit(-1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("Shutdown failed", slog.Any("error", err))
	}
}
