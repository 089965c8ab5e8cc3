// Package server serves evaluation reports as an HTTP dashboard.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mwiater/evalview/internal/results"
)

const defaultShutdownTimeout = 10 * time.Second

// Server exposes the dashboard HTTP server lifecycle.
type Server interface {
	Start(ctx context.Context) error
	Stop() error
	// Addr is the bound listen address, valid after Start.
	Addr() string
	Handler() http.Handler
}

var _ Server = (*server)(nil)

// Options configures a dashboard.
type Options struct {
	Listen           string
	MaxUploadBytes   int64
	UploadsPerMinute int
	SessionCacheSize int
	CORSOrigins      []string
	ShutdownTimeout  time.Duration
	// Selection is applied when a request carries no filter parameters.
	Selection results.Selection
	// Document is shown at / when set. DocumentName labels it.
	Document     *results.Document
	DocumentName string
}

type server struct {
	log        logrus.FieldLogger
	opts       Options
	sessions   *sessionStore
	metrics    *metrics
	uploads    *rateLimiterMap
	handler    http.Handler
	httpServer *http.Server
	addr       string
	wg         sync.WaitGroup
}

// New builds a dashboard server. The router is ready immediately, so tests
// can drive Handler without listening.
func New(log logrus.FieldLogger, opts Options) (Server, error) {
	if opts.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload size must be positive, got %d", opts.MaxUploadBytes)
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	log = log.WithField("component", "server")
	m := newMetrics()
	sessions, err := newSessionStore(log, opts.SessionCacheSize, m)
	if err != nil {
		return nil, fmt.Errorf("creating session cache: %w", err)
	}

	s := &server{
		log:      log,
		opts:     opts,
		sessions: sessions,
		metrics:  m,
		uploads:  newRateLimiterMap(opts.UploadsPerMinute),
	}
	s.handler = s.buildRouter()
	return s, nil
}

func (s *server) Handler() http.Handler { return s.handler }

func (s *server) Addr() string { return s.addr }

// Start binds the listener and serves in the background until Stop or ctx
// is done.
func (s *server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Listen, err)
	}
	s.addr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.log.WithField("listen", s.addr).Info("Dashboard starting")

		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("HTTP server error")
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.uploads.run(ctx)
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *server) Stop() error {
	s.uploads.stop()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.log.WithError(err).Warn("HTTP server shutdown error")
		}
	}

	s.wg.Wait()
	s.log.Info("Dashboard stopped")
	return nil
}
