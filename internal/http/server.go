package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"exptracker/internal/app"
	"exptracker/internal/id"
	applog "exptracker/internal/log"
	"exptracker/internal/middleware/ratelimit"
	appweb "exptracker/web"
)

type Server struct {
	http.Server
	templates *template.Template
	app       *app.App
	logger    *applog.Logger
	limiter   *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, a *app.App, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		app:     a,
		logger:  logger,
		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", staticCache(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/{$}", allow(s.handleIndex, http.MethodGet, http.MethodHead))
	mux.HandleFunc("/expenses", allow(s.handleExpenses, http.MethodGet, http.MethodPost))
	mux.HandleFunc("/total", allow(s.handleTotal, http.MethodGet))
	mux.HandleFunc("/reset", allow(s.handleReset, http.MethodPost))
	mux.HandleFunc("/healthz", handleHealth)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(clientIP)(handler)
	handler = withSecurityHeaders(handler)
	handler = withRequestLogging(handler)
	handler = applog.RequestIDMiddleware(func(*http.Request) string { return id.New() })(handler)
	handler = applog.Middleware(logger)(handler)
	s.Handler = handler

	return s
}

// Shutdown gracefully shuts down the server; later calls are no-ops
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
