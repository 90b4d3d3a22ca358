package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/angas/chartdef-go/config"
	"github.com/robfig/cron/v3"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	MaintenanceTask func()
	PublishTask     func()
}

func NewTasks(db Maintainer, renderer Renderer, publishers []Publisher, cnfg *config.AppConfig) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), db, cnfg),
		PublishTask:     NewPublishTask(logger.With(slog.String("task", "publish")), renderer, publishers...),
	}
}

// Run schedules the tasks and starts the scheduler. Publishing is only
// scheduled when maintenance.publish_at is set.
func (t *Tasks) Run() error {
	if _, err := t.cron.AddFunc(t.cnfg.Maintenance.GetRunAt(), t.MaintenanceTask); err != nil {
		return fmt.Errorf("scheduling maintenance task: %w", err)
	}
	if at := t.cnfg.Maintenance.PublishAt; at != nil && *at != "" {
		if _, err := t.cron.AddFunc(*at, t.PublishTask); err != nil {
			return fmt.Errorf("scheduling publish task: %w", err)
		}
	}
	t.cron.Start()
	return nil
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
