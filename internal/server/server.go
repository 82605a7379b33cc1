package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"projectdesk/internal/filestore"
)

// BuildInfo identifies the running binary in /health and /metrics.
type BuildInfo struct {
	Version string
	Commit  string
}

type Config struct {
	Addr string // e.g. ":8000"

	Store  Repository
	Files  filestore.Backend
	Logger *logrus.Logger

	CORSOrigins       []string
	MaxUploadBytes    int64
	DefaultUploaderID int64
	Build             BuildInfo
}

type Server struct {
	httpServer *http.Server

	store    Repository
	files    filestore.Backend
	log      *logrus.Logger
	validate *validator.Validate
	metrics  *Metrics
	started  time.Time

	maxUpload  int64
	uploaderID int64
	build      BuildInfo
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Server{
		store:      cfg.Store,
		files:      cfg.Files,
		log:        logger,
		validate:   newValidator(),
		metrics:    &Metrics{},
		started:    time.Now(),
		maxUpload:  cfg.MaxUploadBytes,
		uploaderID: cfg.DefaultUploaderID,
		build:      cfg.Build,
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 50 << 20
	}
	if s.uploaderID <= 0 {
		s.uploaderID = 1
	}

	mux := http.NewServeMux()
	s.routes(mux)

	// Outermost first: request id -> access log -> recover -> cors ->
	// security headers -> gzip -> mux
	var handler http.Handler = mux
	handler = compressionMiddleware(handler)
	handler = securityHeadersMiddleware(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = s.recoverMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Metrics returns the counters behind /metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.log.WithField("addr", ln.Addr().String()).Info("listening")
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
