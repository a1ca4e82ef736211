// Package bot orchestrates the long-running components of the counsellor
// service: the REST API, the optional Telegram listener and the scheduler.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
	"golang.org/x/sync/errgroup"
)

// Runner is a component that runs until its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// App manages the lifecycle of the service components.
type App struct {
	logger    *slog.Logger
	http      Runner
	tgBot     *tgbot.Bot
	scheduler *Scheduler
}

// NewApp creates the orchestrator. tgBot may be nil when Telegram is
// disabled.
func NewApp(logger *slog.Logger, http Runner, tgBot *tgbot.Bot, scheduler *Scheduler) *App {
	return &App{
		logger:    logger.With("component", "app"),
		http:      http,
		tgBot:     tgBot,
		scheduler: scheduler,
	}
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails, in which case the others are stopped too.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting components...")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.http.Run(gCtx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.tgBot != nil {
		g.Go(func() error {
			a.logger.Info("Starting Telegram bot listener...")
			a.tgBot.Start(gCtx)
			a.logger.Info("Telegram bot listener stopped.")
			if gCtx.Err() == nil {
				return fmt.Errorf("telegram listener stopped unexpectedly")
			}
			return nil
		})
	}

	if a.scheduler != nil {
		g.Go(func() error {
			if err := a.scheduler.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			<-gCtx.Done()
			a.logger.Info("Shutdown signal received, stopping scheduler...")
			if err := a.scheduler.Stop(); err != nil {
				a.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	a.logger.Info("Running. Waiting for shutdown signal or error...")
	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Stopped due to error", "error", err)
		return err
	}

	a.logger.Info("Stopped gracefully.")
	return nil
}
