package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/angas/chartdef-go/config"
)

// Maintainer is the part of the database the maintenance task uses.
type Maintainer interface {
	Backup(ctx context.Context) error
	PurgeBackups(ctx context.Context, retentionDays int) error
	PurgeLog(ctx context.Context, keep int) (int64, error)
	PurgeDefinitions(ctx context.Context, retentionDays int) (int64, error)
}

func NewMaintenanceTask(logger *slog.Logger, db Maintainer, cnfg *config.AppConfig) func() {
	return func() {
		logger.Debug("running maintenance task...")

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		if err := db.Backup(ctx); err != nil {
			logger.Error("database backup error", slog.Any("error", err))
		}

		if err := db.PurgeBackups(ctx, cnfg.Database.GetBackupRetentionDays()); err != nil {
			logger.Error("backup maintenance error", slog.Any("error", err))
		}

		if n, err := db.PurgeLog(ctx, cnfg.Logging.GetDbMaxEntries()); err != nil {
			logger.Error("log maintenance error", slog.Any("error", err))
		} else {
			logger.Debug("log purged", slog.Int64("deleted", n))
		}

		if n, err := db.PurgeDefinitions(ctx, cnfg.Database.GetDefinitionRetentionDays()); err != nil {
			logger.Error("definition maintenance error", slog.Any("error", err))
		} else {
			logger.Debug("expired definitions purged", slog.Int64("deleted", n))
		}

		logger.Info("maintenance task done")
	}
}
