package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"projectdesk/internal/config"
	"projectdesk/internal/db"
	"projectdesk/internal/filestore"
	"projectdesk/internal/server"
	"projectdesk/internal/store"
)

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Connect to PostgreSQL, apply pending migrations and serve the API
until SIGINT or SIGTERM is received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
}

func openFiles(ctx context.Context, cfg config.Config) (filestore.Backend, error) {
	if cfg.StorageBackend == config.BackendS3 {
		return filestore.NewMinio(ctx, cfg.S3)
	}
	return filestore.NewLocal(cfg.UploadDir)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.WithField("service", "backend")

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Error("db_connect_failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	if !skipMigrations {
		log.Info("running_migrations")
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			log.WithError(err).Error("migration_failed")
			return err
		}
		log.Info("migrations_complete")
	}

	files, err := openFiles(cmd.Context(), cfg)
	if err != nil {
		log.WithError(err).Error("storage_init_failed")
		return err
	}

	build := server.BuildInfo{Version: cfg.Version, Commit: cfg.Commit}
	srv := server.New(server.Config{
		Addr:              cfg.Addr,
		Store:             store.New(conn),
		Files:             files,
		Logger:            logger,
		CORSOrigins:       cfg.CORSOrigins,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		DefaultUploaderID: cfg.DefaultUploaderID,
		Build:             build,
	})

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.Addr,
			"storage": files.Name(),
			"version": build.Version,
			"commit":  build.Commit,
		}).Info("starting")
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting_down")
		// in-flight requests get 5 seconds
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("shutdown_error")
			return err
		}
		log.Info("shutdown_complete")
		return nil
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("server_error")
		}
		return err
	}
}
