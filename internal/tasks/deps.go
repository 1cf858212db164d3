// Package tasks implements scheduled background tasks for floodassist.
// It includes task definitions, dependencies, and registration mechanisms.
package tasks

import (
	"log/slog"

	"github.com/floodwatch/floodassist/internal/config"
	"github.com/floodwatch/floodassist/internal/database"
	"github.com/floodwatch/floodassist/internal/web"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Store    database.Store
	Sessions *web.SessionManager
	Config   *config.Config
}
