package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/orderpulse-lab/orderpulse/internal/core/config"
	"github.com/orderpulse-lab/orderpulse/internal/core/storage/postgres"
	"github.com/orderpulse-lab/orderpulse/internal/dashboard"
	"github.com/orderpulse-lab/orderpulse/internal/importer"
	"github.com/orderpulse-lab/orderpulse/internal/migrations"
	"github.com/orderpulse-lab/orderpulse/internal/server"
)

func main() {
	configPath := flag.String("config", "orderpulse.yaml", "Path to configuration file")
	importPath := flag.String("import", "", "Bulk-import a CSV export and exit")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Storage (PostgreSQL)
	db, err := postgres.Open(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(db, cfg.Database.AutoMigrate); err != nil {
		db.Close()
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	store, err := postgres.NewAdapter(db)
	if err != nil {
		db.Close()
		slog.Error("Failed to initialize database adapter", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// 3. Initialize Ingestion (CSV bulk import and single-record upsert)
	importSvc := importer.NewService(store, cfg.Server.MaxBodySizeMB, cfg.Import.OnRowError)

	// One-shot import mode: load the file, print the report, exit.
	if *importPath != "" {
		report, err := importSvc.ImportFile(context.Background(), *importPath)
		if err != nil {
			slog.Error("Import failed", "file", *importPath, "error", err)
			os.Exit(1)
		}
		slog.Info("Import complete",
			"run_id", report.RunID,
			"rows_read", report.RowsRead,
			"imported", report.Imported,
			"skipped", report.Skipped,
			"duration", report.Duration,
		)
		for _, rowErr := range report.RowErrors {
			slog.Warn("Skipped row", "line", rowErr.Line, "error", rowErr.Err)
		}
		return
	}

	// 4. Initialize Dashboard (query API over the order collection)
	dashboardSvc := dashboard.NewService(store, cfg.MetricRules)

	// 5. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), store.DB(), cfg.Server.Mode)
	importSvc.RegisterRoutes(srv.Engine)
	dashboardSvc.RegisterRoutes(srv.Engine)

	// 6. Start Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
