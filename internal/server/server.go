// Package server exposes the toolbox over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	toolbox "github.com/alnah/go-toolbox"
	"github.com/alnah/go-toolbox/internal/password"
	"github.com/alnah/go-toolbox/internal/rates"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 2 * time.Minute
	idleTimeout       = 2 * time.Minute
	shutdownTimeout   = 15 * time.Second
)

// DefaultMaxUpload bounds a conversion upload when Deps leaves it unset.
const DefaultMaxUpload = 20 << 20

// Deps are the services the API serves. Converter and Calendar are required.
type Deps struct {
	Converter toolbox.Converter
	Calendar  *toolbox.Calendar
	Rates     *rates.Service // conversions, cached
	Fetcher   rates.Fetcher  // proxy, uncached
	Passwords *password.Generator
	// PasswordDefaults apply to query parameters the request leaves out.
	PasswordDefaults password.Options
	MaxUpload        int64
	Logger           *slog.Logger
	Now              func() time.Time
}

// Server routes API requests.
type Server struct {
	deps Deps
	mux  *http.ServeMux
}

// New builds a Server, filling unset optional dependencies.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MaxUpload <= 0 {
		deps.MaxUpload = DefaultMaxUpload
	}
	if deps.Passwords == nil {
		deps.Passwords = password.NewGenerator(nil)
	}
	if deps.PasswordDefaults.Length == 0 {
		deps.PasswordDefaults = password.DefaultOptions()
	}
	if deps.Fetcher == nil {
		deps.Fetcher = rates.NewClient("", nil)
	}
	if deps.Rates == nil {
		deps.Rates = rates.NewService(rates.NewClient("", nil), 0)
	}

	s := &Server{deps: deps, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /api/convert", s.handleConvert)
	s.mux.HandleFunc("GET /api/formats", s.handleFormats)
	s.mux.HandleFunc("GET /api/calendar", s.handleMonth)
	s.mux.HandleFunc("GET /api/calendar/{year}", s.handleYear)
	s.mux.Handle("GET /api/currency", rates.ProxyHandler(s.deps.Fetcher, s.deps.Logger))
	s.mux.HandleFunc("GET /api/currencies", s.handleCurrencies)
	s.mux.HandleFunc("GET /api/convert-currency", s.handleConvertCurrency)
	s.mux.HandleFunc("GET /api/password", s.handlePassword)
	s.mux.HandleFunc("GET /api/bmi", s.handleBMI)
}

// Handler returns the routed handler wrapped in request id, logging and
// panic recovery middleware.
func (s *Server) Handler() http.Handler {
	return requestID(logRequests(s.deps.Logger, recoverPanics(s.deps.Logger, s.mux)))
}

// ListenAndServe serves on addr until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ErrorLog:          slog.NewLogLogger(s.deps.Logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.deps.Logger.Info("Listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
