package live

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/formvalidator/internal/errors"
	"github.com/vango-dev/formvalidator/pkg/dom"
	"github.com/vango-dev/formvalidator/pkg/metrics"
	"github.com/vango-dev/formvalidator/pkg/validator"
)

// Server serves a page and validates its form server-side over WebSocket.
type Server struct {
	cfg      Config
	markup   string
	page     string
	router   chi.Router
	upgrader websocket.Upgrader
	tracer   trace.Tracer
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[*Session]struct{}

	submitMu sync.Mutex
}

// New parses the page, assigns element identifiers and checks that a
// validator can be built for it.
func New(cfg Config) (*Server, error) {
	cfg.applyDefaults()

	if len(cfg.Page) == 0 {
		return nil, errors.New("E141").WithDetail("The live server needs a page to serve")
	}

	doc, err := dom.ParseString(string(cfg.Page), dom.WithLogger(cfg.Logger))
	if err != nil {
		return nil, errors.New("E143").Wrap(err)
	}
	doc.AssignIDs()

	trial, err := validator.New(doc, cfg.Validator, validator.WithLogger(cfg.Logger))
	if err != nil {
		return nil, err
	}
	if !trial.Bound() {
		cfg.Logger.Warn("form not found in page, sessions will not validate", "form", cfg.Validator.Form)
	}

	srv := &Server{
		cfg:      cfg,
		markup:   doc.String(),
		tracer:   otel.Tracer(cfg.TracerName),
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		sessions: make(map[*Session]struct{}),
	}
	srv.page = injectScript(srv.markup)

	if onSubmit := cfg.Validator.OnSubmit; onSubmit != nil {
		srv.cfg.Validator.OnSubmit = func(data validator.FormData) {
			srv.submitMu.Lock()
			defer srv.submitMu.Unlock()
			onSubmit(data)
		}
	}

	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = sameOrigin
	}
	srv.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin,
	}

	srv.router = srv.routes()
	return srv, nil
}

func (srv *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.requestLogger)

	r.Get("/", srv.handlePage)
	r.Get(WebSocketPath, srv.HandleWebSocket)
	r.Get(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	if srv.cfg.Gatherer != nil {
		r.Handle(MetricsPath, promhttp.HandlerFor(srv.cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// requestLogger logs each request at debug level.
func (srv *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		srv.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// sameOrigin accepts requests without an Origin header and those whose
// Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// Handler returns the HTTP handler of the server.
func (srv *Server) Handler() http.Handler {
	return srv.router
}

// Page returns the served page: the configured page with element
// identifiers and the client script.
func (srv *Server) Page() string {
	return srv.page
}

func (srv *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(srv.page))
}

// HandleWebSocket upgrades the connection and runs a session on it.
func (srv *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.logger.Warn("websocket upgrade failed", "error", errors.New("E160").Wrap(err))
		srv.recordWebSocketError("upgrade")
		return
	}

	s, err := srv.newSession(conn)
	if err != nil {
		srv.logger.Error("session setup failed", "error", err)
		conn.Close()
		return
	}

	srv.mu.Lock()
	srv.sessions[s] = struct{}{}
	srv.mu.Unlock()
	if srv.metrics != nil {
		srv.metrics.SessionOpened()
	}
	s.logger.Debug("session opened", "remote", r.RemoteAddr)

	defer func() {
		srv.mu.Lock()
		delete(srv.sessions, s)
		srv.mu.Unlock()
		if srv.metrics != nil {
			srv.metrics.SessionClosed()
		}
		conn.Close()
		s.logger.Debug("session closed")
	}()

	s.ReadLoop(r.Context())
}

// NewSession creates a session that is not bound to a connection. Its
// events are handled with Session.Handle.
func (srv *Server) NewSession() (*Session, error) {
	return srv.newSession(nil)
}

// SessionCount returns the number of connected sessions.
func (srv *Server) SessionCount() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return len(srv.sessions)
}

func (srv *Server) recordWebSocketError(kind string) {
	if srv.metrics != nil {
		srv.metrics.RecordWebSocketError(kind)
	}
}

// Close closes all session connections.
func (srv *Server) Close() {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	for s := range srv.sessions {
		if s.conn != nil {
			s.conn.Close()
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (srv *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("live server listening", "addr", addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New("E143").Wrap(err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Close()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return errors.New("E143").Wrap(err)
	}
	return nil
}
