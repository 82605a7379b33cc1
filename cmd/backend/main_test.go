package main

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectdesk/internal/config"
)

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
	} {
		cmd, rest, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("env-file"))
	assert.NotNil(t, serveCmd.Flags().Lookup("skip-migrations"))
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(config.Config{LogLevel: "warn", LogFormat: "json"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger, err = newLogger(config.Config{LogLevel: "debug", LogFormat: "text"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

	_, err = newLogger(config.Config{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestServeRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"serve", "--env-file", ""})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "DATABASE_URL", verr.Fields[0].Field)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "no migrations applied", formatVersion(0, false, false))
	assert.Equal(t, "2", formatVersion(2, false, true))
	assert.Equal(t, "1 (dirty)", formatVersion(1, true, true))
}
