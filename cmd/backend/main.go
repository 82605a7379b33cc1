// Command backend runs the projectdesk HTTP API and manages its schema.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"projectdesk/internal/config"
)

var envFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "backend",
	Short: "Employee, project and task API",
	Long: `backend serves the projectdesk REST API on top of PostgreSQL.

Configuration is read from the environment. A .env file is loaded first
when present; variables already set in the environment win.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the process logger from cfg.
func newLogger(cfg config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

func loadConfig() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
