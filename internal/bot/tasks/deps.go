// Package tasks implements the scheduled maintenance tasks of the
// counsellor service.
package tasks

import (
	"log/slog"

	"github.com/edgard/counsellor/internal/config"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/metrics"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger  *slog.Logger
	Store   database.Store
	Config  *config.Config
	Metrics *metrics.Metrics
}
