// Command export runs every statement in the SQL directory against the
// analytical database and writes one CSV snapshot per statement.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/hoops/internal/adapters/store"
	"github.com/okian/hoops/internal/config"
	"github.com/okian/hoops/internal/export"
	"github.com/okian/hoops/pkg/logger"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "Database file (default: db_path from config)")
		sqlDir  = flag.String("sql", "", "Directory of *.sql statements (default: sql_dir from config)")
		outDir  = flag.String("out", "", "Directory for the CSV snapshots (default: datasets_dir from config)")
		workers = flag.Int("workers", 0, "Concurrent export jobs (default: export_workers from config)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, overrides{dbPath: *dbPath, sqlDir: *sqlDir, outDir: *outDir, workers: *workers}); err != nil {
		os.Stderr.WriteString("export: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// overrides are command-line values that win over the loaded config.
type overrides struct {
	dbPath  string
	sqlDir  string
	outDir  string
	workers int
}

func (o overrides) apply(cfg *config.Config) {
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.sqlDir != "" {
		cfg.SQLDir = o.sqlDir
	}
	if o.outDir != "" {
		cfg.DatasetsDir = o.outDir
	}
	if o.workers > 0 {
		cfg.ExportWorkers = o.workers
	}
}

func run(ctx context.Context, o overrides) error {
	cfg, err := config.Read(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	o.apply(cfg)
	// Exports always read the database, whatever the server is set to serve.
	cfg.Source = config.SourceDatabase
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	// Statements are run as written, so no relation mapping is needed.
	st, err := store.OpenDatabase(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := os.MkdirAll(cfg.DatasetsDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", cfg.DatasetsDir, err)
	}

	ex := export.New(st, cfg.SQLDir, cfg.DatasetsDir,
		export.WithWorkers(cfg.ExportWorkers),
		export.WithLogger(logger.Get()),
	)
	_, err = ex.Run(ctx)
	return err
}
