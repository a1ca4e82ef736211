package handlers

import (
	"log/slog"

	"github.com/edgard/counsellor/internal/config"
	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/university"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Counsellor *counsellor.Counsellor
	Directory  *university.Client
}
