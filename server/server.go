// server/server.go
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	"github.com/dalemusser/regcheck/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// errInsecureKey marks a key file readable by group or others.
var errInsecureKey = errors.New("TLS key file has overly permissive permissions")

// WithShutdownSignals returns a context canceled on SIGINT or SIGTERM.
// The returned cancel function also stops signal delivery.
func WithShutdownSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			if logger != nil {
				logger.Info("shutdown signal received", zap.Any("signal", sig))
			}
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// Server serves one handler over HTTP, or over HTTPS with a certificate pair
// from disk plus a plain-HTTP redirect listener.
type Server struct {
	cfg     *config.Config
	handler http.Handler
	logger  *zap.Logger

	// ready receives the primary listener address once it is bound.
	ready chan net.Addr
}

// New returns a Server for cfg. It does not listen until Run.
func New(cfg *config.Config, handler http.Handler, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ready:   make(chan net.Addr, 1),
	}
}

// Ready delivers the primary listener's address once Run has bound it.
func (s *Server) Ready() <-chan net.Addr {
	return s.ready
}

// Run listens and serves until ctx is canceled, then shuts down gracefully
// within shutdown_timeout. It returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg == nil {
		return errors.New("server: config is nil")
	}
	if s.handler == nil {
		return errors.New("server: handler is nil")
	}
	hc := s.cfg.HTTP

	primary := s.httpServer(s.handler)
	var redirect *http.Server

	var (
		ln  net.Listener
		err error
	)
	if !hc.UseHTTPS {
		addr := ":" + strconv.Itoa(hc.HTTPPort)
		if ln, err = net.Listen("tcp", addr); err != nil {
			return fmt.Errorf("listen http %s: %w", addr, err)
		}
		s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	} else {
		tlsCfg, err := s.tlsConfig()
		if err != nil {
			return err
		}
		primary.TLSConfig = tlsCfg

		addr := ":" + strconv.Itoa(hc.HTTPSPort)
		base, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen https %s: %w", addr, err)
		}
		ln = tls.NewListener(base, tlsCfg)
		s.logger.Info("HTTPS server listening",
			zap.String("addr", base.Addr().String()),
			zap.String("cert_file", hc.CertFile))

		redirect = s.httpServer(RedirectHandler(hc.HTTPSPort))
		redirect.Addr = ":" + strconv.Itoa(hc.HTTPPort)
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- serve(func() error { return primary.Serve(ln) })
	}()
	if redirect != nil {
		s.logger.Info("HTTP → HTTPS redirect listening", zap.String("addr", redirect.Addr))
		go func() {
			errCh <- serve(redirect.ListenAndServe)
		}()
	}
	s.ready <- ln.Addr()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), hc.ShutdownTimeout)
		defer cancel()

		if redirect != nil {
			_ = redirect.Shutdown(shutdownCtx)
		}
		if err := primary.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		s.logger.Info("server stopped gracefully")
		return nil

	case err := <-errCh:
		_ = primary.Close()
		if redirect != nil {
			_ = redirect.Close()
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

func (s *Server) httpServer(h http.Handler) *http.Server {
	hc := s.cfg.HTTP
	srv := &http.Server{
		Handler:           h,
		ReadTimeout:       hc.ReadTimeout,
		ReadHeaderTimeout: hc.ReadTimeout,
		WriteTimeout:      hc.WriteTimeout,
		IdleTimeout:       hc.IdleTimeout,
	}
	if stdlog, err := zap.NewStdLogAt(s.logger, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = stdlog
	}
	return srv
}

// tlsConfig loads the certificate pair after checking the files. A key
// readable by others is fatal in prod and a warning elsewhere.
func (s *Server) tlsConfig() (*tls.Config, error) {
	hc := s.cfg.HTTP
	if err := validateTLSFiles(hc.CertFile, hc.KeyFile); err != nil {
		if !errors.Is(err, errInsecureKey) {
			return nil, err
		}
		if s.cfg.Env == "prod" {
			return nil, fmt.Errorf("production security: %w", err)
		}
		s.logger.Warn("TLS key file security warning (fatal in prod)", zap.Error(err))
	}

	cert, err := tls.LoadX509KeyPair(hc.CertFile, hc.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load TLS cert/key: %w", err)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}, nil
}

// serve runs fn and maps http.ErrServerClosed to nil.
func serve(fn func() error) error {
	if err := fn(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RedirectHandler sends every request to the same host and URI over HTTPS
// on httpsPort. Hosts or URIs carrying control characters are rejected.
func RedirectHandler(httpsPort int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, ok := redirectHost(r.Host, httpsPort)
		uri := r.URL.RequestURI()
		if !ok || hasControl(uri) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "https://"+host+uri, http.StatusMovedPermanently)
	})
}

// redirectHost validates the Host header and swaps its port for httpsPort
// (dropped when 443).
func redirectHost(host string, httpsPort int) (string, bool) {
	if host == "" || hasControl(host) || strings.ContainsAny(host, " /\\@") {
		return "", false
	}
	name := host
	if h, port, err := net.SplitHostPort(host); err == nil {
		if p, err := strconv.Atoi(port); err != nil || p <= 0 || p > 65535 {
			return "", false
		}
		name = h
	}
	if name == "" {
		return "", false
	}
	if strings.Contains(name, ":") {
		name = strings.Trim(name, "[]")
		if net.ParseIP(strings.SplitN(name, "%", 2)[0]) == nil {
			return "", false
		}
		name = "[" + name + "]"
	}
	if httpsPort == 443 || httpsPort == 0 {
		return name, true
	}
	return name + ":" + strconv.Itoa(httpsPort), true
}

func hasControl(s string) bool {
	for _, c := range s {
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}

// validateTLSFiles checks that both files exist and are regular files, and
// that the key is not readable by group or others.
func validateTLSFiles(certFile, keyFile string) error {
	for _, f := range []struct{ kind, path string }{{"certificate", certFile}, {"key", keyFile}} {
		info, err := os.Stat(f.path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("TLS %s file does not exist: %s", f.kind, f.path)
			}
			return fmt.Errorf("cannot access TLS %s file %s: %w", f.kind, f.path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("TLS %s path is a directory, not a file: %s", f.kind, f.path)
		}
		if f.kind == "key" && runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
			return fmt.Errorf("%w: %s is %o (recommended: 0600)", errInsecureKey, f.path, info.Mode().Perm())
		}
	}
	return nil
}
