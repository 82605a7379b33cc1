// config.go - Process configuration for the projectdesk API.
//
// Values come from the environment, optionally seeded from a .env file.
// Everything is validated up front so a misconfigured deployment fails at
// startup with the complete list of problems.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"projectdesk/internal/filestore"
)

// Storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Defaults applied when a variable is unset.
const (
	DefaultAddr           = ":8000"
	DefaultUploadDir      = "uploads"
	DefaultS3Prefix       = "uploads/"
	DefaultMaxUploadBytes = 50 << 20
	DefaultUploaderID     = 1
)

// DefaultCORSOrigins are the frontends allowed when PD_CORS_ORIGINS is
// unset.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:3000",
	"https://design-sowftware-education.vercel.app",
}

// Config is the validated process configuration.
type Config struct {
	DatabaseURL string
	Addr        string

	StorageBackend string
	UploadDir      string
	S3             filestore.MinioConfig

	MaxUploadBytes    int64
	DefaultUploaderID int64
	CORSOrigins       []string

	LogLevel  string
	LogFormat string
	Env       string
	Version   string
	Commit    string
}

// Production reports whether the service runs in production.
func (c Config) Production() bool { return c.Env == "production" }

// Load reads envFile into the environment when it exists, without
// overriding variables that are already set, then calls FromEnv.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	return FromEnv()
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FromEnv builds and validates a Config from environment variables.
func FromEnv() (Config, error) {
	v := &Validator{}

	cfg := Config{
		DatabaseURL:    getenv("DATABASE_URL", ""),
		Addr:           getenv("PD_ADDR", DefaultAddr),
		StorageBackend: getenv("PD_STORAGE_BACKEND", BackendLocal),
		UploadDir:      getenv("PD_UPLOAD_DIR", DefaultUploadDir),
		S3: filestore.MinioConfig{
			Endpoint:  getenv("PD_S3_ENDPOINT", ""),
			AccessKey: getenv("PD_S3_ACCESS_KEY", ""),
			SecretKey: getenv("PD_S3_SECRET_KEY", ""),
			Bucket:    getenv("PD_S3_BUCKET", ""),
			Prefix:    getenv("PD_S3_PREFIX", DefaultS3Prefix),
		},
		CORSOrigins: DefaultCORSOrigins,
		LogLevel:    getenv("PD_LOG_LEVEL", "info"),
		LogFormat:   getenv("PD_LOG_FORMAT", ""),
		Env:         getenv("PD_ENV", "development"),
		Version:     getenv("PD_VERSION", "dev"),
		Commit:      getenv("PD_COMMIT", "unknown"),
	}
	if origins := splitList(os.Getenv("PD_CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.Production() {
			cfg.LogFormat = "json"
		}
	}

	v.Required("DATABASE_URL", cfg.DatabaseURL)
	v.PostgresDSN("DATABASE_URL", cfg.DatabaseURL)
	v.Addr("PD_ADDR", cfg.Addr)
	v.Enum("PD_STORAGE_BACKEND", cfg.StorageBackend, []string{BackendLocal, BackendS3})
	v.Enum("PD_LOG_FORMAT", cfg.LogFormat, []string{"json", "text"})
	v.Enum("PD_LOG_LEVEL", cfg.LogLevel, []string{"debug", "info", "warn", "error"})
	v.Enum("PD_ENV", cfg.Env, []string{"development", "production", "staging"})
	cfg.MaxUploadBytes = v.PositiveInt("PD_MAX_UPLOAD_BYTES", os.Getenv("PD_MAX_UPLOAD_BYTES"), DefaultMaxUploadBytes)
	cfg.DefaultUploaderID = v.PositiveInt("PD_DEFAULT_UPLOADER_ID", os.Getenv("PD_DEFAULT_UPLOADER_ID"), DefaultUploaderID)

	if cfg.StorageBackend == BackendS3 {
		v.Required("PD_S3_ENDPOINT", cfg.S3.Endpoint)
		v.Required("PD_S3_ACCESS_KEY", cfg.S3.AccessKey)
		v.Required("PD_S3_SECRET_KEY", cfg.S3.SecretKey)
		v.Required("PD_S3_BUCKET", cfg.S3.Bucket)
	}

	if err := v.Err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
