package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nao1215/phishscan/internal/history"
	"github.com/nao1215/phishscan/internal/model"
	"github.com/nao1215/phishscan/internal/pipeline"
	"github.com/nao1215/phishscan/internal/scrape"
	"github.com/nao1215/phishscan/internal/submit"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = "127.0.0.1:8080"

	// FormPath is where the scan form posts to on this server.
	FormPath = "/predict"

	// SessionCookie names the cookie that identifies a browser session.
	SessionCookie = "phishscan_session"

	// HeaderRequestID carries the request id in responses.
	HeaderRequestID = "X-Request-ID"

	// shutdownTimeout bounds graceful shutdown. In-flight submissions are
	// allowed to finish within it.
	shutdownTimeout = 5 * time.Second

	// readHeaderTimeout protects against slow clients.
	readHeaderTimeout = 10 * time.Second
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("server already started")

// Server serves the scan UI.
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	history   *history.Store
	submitter pipeline.Submitter
	extractor *scrape.Extractor
	gates     *submit.Gates
	addr      string
	action    string
	logger    *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithAction sets the upstream form action the submissions are posted to.
// A relative action is resolved by the submitter against its base URL.
func WithAction(action string) Option {
	return func(s *Server) {
		s.action = action
	}
}

// WithExtractor sets the result page extractor.
func WithExtractor(e *scrape.Extractor) Option {
	return func(s *Server) {
		s.extractor = e
	}
}

// WithLogger sets the logger for server events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server. The server is not started until Start is called.
func New(hist *history.Store, submitter pipeline.Submitter, opts ...Option) *Server {
	s := &Server{
		history:   hist,
		submitter: submitter,
		gates:     submit.NewGates(),
		addr:      DefaultAddr,
		action:    model.DefaultAction,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.extractor == nil {
		s.extractor = scrape.MustNewExtractor(scrape.DefaultSelectors())
	}
	return s
}

// Handler returns the HTTP handler with every route and the request
// logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST "+FormPath, s.handlePredict)
	mux.HandleFunc("GET /history", s.handleHistoryFragment)
	mux.HandleFunc("GET /api/history", s.handleHistoryJSON)
	return s.withRequestID(mux)
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns once the listener is bound. When ctx
// is cancelled the server shuts down gracefully. The returned channel is
// closed when the server has stopped.
func (s *Server) Start(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return nil, ErrAlreadyStarted
	}

	// Bind first so a busy port is reported synchronously.
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	done := make(chan struct{})
	served := make(chan struct{})
	srv := s.httpServer

	go func() {
		defer close(served)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	// Shut down on context cancellation. done is closed only after the
	// in-flight requests have finished or the shutdown timed out.
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("http server shutdown error", "error", err)
			}
			<-served
		case <-served:
		}
	}()

	s.logger.Info("serving scan UI", "addr", ln.Addr().String())
	return done, nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// newPipeline builds the submission pipeline for one request.
func (s *Server) newPipeline(logger *slog.Logger) *pipeline.Pipeline {
	return pipeline.NewSubmission(pipeline.Deps{
		Submitter: s.submitter,
		Extractor: s.extractor,
		Recorder:  s.history,
		Render:    s.renderResult,
		Logger:    logger,
	})
}
