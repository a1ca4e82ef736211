// Package main contains the entrypoint for the counsellor service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/counsellor/internal/bot"
	"github.com/edgard/counsellor/internal/bot/handlers"
	"github.com/edgard/counsellor/internal/bot/tasks"
	"github.com/edgard/counsellor/internal/config"
	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/gemini"
	"github.com/edgard/counsellor/internal/logger"
	"github.com/edgard/counsellor/internal/metrics"
	"github.com/edgard/counsellor/internal/server"
	apihandlers "github.com/edgard/counsellor/internal/server/handlers"
	"github.com/edgard/counsellor/internal/server/middleware"
	"github.com/edgard/counsellor/internal/telegram"
	"github.com/edgard/counsellor/internal/university"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the exit
// code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	m := metrics.New()

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}
	advisor := counsellor.New(gemClient, log, counsellor.Options{
		ChatFallback: cfg.Messages.ChatFallback,
		Metrics:      m,
	})

	cache, err := university.NewCache(ctx, cfg.Directory.Cache)
	if err != nil {
		// The directory works without its cache.
		log.Warn("Directory cache unavailable, continuing without it", "addr", cfg.Directory.Cache.RedisAddr, "error", err)
		cache = nil
	}
	defer func() {
		if err := cache.Close(); err != nil {
			log.Warn("Failed to close directory cache", "error", err)
		}
	}()
	directory := university.NewClient(cfg.Directory, cache, m, log)

	apiDeps := apihandlers.Deps{
		Logger:     log,
		Store:      store,
		Counsellor: advisor,
		Directory:  directory,
	}
	if cache != nil {
		apiDeps.CachePing = cache.Ping
	}
	router := server.NewRouter(server.RouterConfig{
		Logger:         log,
		Metrics:        m,
		Auth:           middleware.NewAuth(cfg.HTTP.JWTSecret, log),
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		Deps:           apiDeps,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	httpServer := server.New(cfg.HTTP.Addr, router, cfg.HTTP.ShutdownTimeout, log)

	var tg *tgbot.Bot
	if cfg.Telegram.Enabled {
		tg, err = newTelegram(ctx, cfg, log, handlers.HandlerDeps{
			Logger:     log,
			Config:     cfg,
			Store:      store,
			Counsellor: advisor,
			Directory:  directory,
		})
		if err != nil {
			log.Error("Failed to set up Telegram bot", "error", err)
			return 1
		}
	}

	taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store, Config: cfg, Metrics: m})
	sched, err := bot.NewScheduler(log, &cfg.Scheduler, taskMap)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewApp(log, httpServer, tg, sched)
	log.Info("Starting counsellor service...")
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Service stopped due to error", "error", err)
		return 1
	}

	log.Info("Service stopped gracefully.")
	return 0
}

func newTelegram(ctx context.Context, cfg *config.Config, log *slog.Logger, deps handlers.HandlerDeps) (*tgbot.Bot, error) {
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, deps)
	if err != nil {
		return nil, err
	}

	cfg.Telegram.BotInfo, err = telegram.Identify(ctx, tg)
	if err != nil {
		return nil, err
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(deps)); err != nil {
		return nil, err
	}
	return tg, nil
}
