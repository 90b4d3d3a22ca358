package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/angas/chartdef-go/catalog"
	"github.com/angas/chartdef-go/charts"
	"github.com/angas/chartdef-go/config"
	"github.com/angas/chartdef-go/database"
	"github.com/angas/chartdef-go/logging"
	"github.com/angas/chartdef-go/publish"
	"github.com/angas/chartdef-go/render"
	"github.com/angas/chartdef-go/task"
	"github.com/angas/chartdef-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := logging.NewConsoleHandler(os.Stdout, cnfg.Logging.GetConsoleLevel())
	slog.New(consoleHandler).Debug("chartdef is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	cat, err := catalog.Open(cnfg.Catalog.GetDir(), logger)
	if err != nil {
		panic(fmt.Sprintf("failed to open chart catalog: %v", err))
	}
	defer cat.Close()

	registry := render.Default()
	if _, err := registry.Adapter(cnfg.Charts.GetDefaultLibrary()); err != nil {
		panic(fmt.Sprintf("invalid default library: %v", err))
	}

	service := charts.New(logger, cat, registry, db, charts.Defaults{
		Library:     cnfg.Charts.GetDefaultLibrary(),
		Colors:      cnfg.Charts.Colors,
		StrictMerge: cnfg.Charts.StrictMerge,
	})

	server := www.NewServer(service, db, cnfg.Api)

	cat.OnChange(func(ids []string) {
		logger.Info("chart documents changed", slog.Any("charts", ids))
		service.Invalidate(ctx, ids)
		server.ChartsChanged(ctx, ids)
	})
	if cnfg.Catalog.GetWatch() {
		if err := cat.Watch(); err != nil {
			logger.Warn("watching chart documents failed", slog.Any("error", err))
		}
	}

	publisher := publish.New(cnfg.Mqtt)
	if isDevMode() {
		logger.Info("dev mode, skipping MQTT connection")
	} else {
		if err := publisher.Connect(); err != nil {
			panic(fmt.Sprintf("MQTT connection error: %v", err))
		}
		defer publisher.Disconnect()
	}

	publishers := []task.Publisher{server}
	if publisher.Enabled() && !isDevMode() {
		publishers = append(publishers, publisher)
	}

	tasks := task.NewTasks(db, service, publishers, cnfg)
	if isDevMode() {
		logger.Info("dev mode, skipping task scheduling")
	} else {
		if err := tasks.Run(); err != nil {
			panic(fmt.Sprintf("failed to schedule tasks: %v", err))
		}
		defer tasks.Stop()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ctx.Done():
			logger.Info("main context done")
		case sig := <-sigCh:
			logger.Info("received signal", slog.Any("signal", sig))
			cancel()
		}
	}()

	server.Run(ctx)
}

func isDevMode() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "development")
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
