package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tomz197/arviewer/internal/config"
	"github.com/tomz197/arviewer/internal/logging"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arviewer-web: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := logging.New(logging.Options{
		Level:  config.GetEnv("ARVIEWER_LOG_LEVEL", "info"),
		Format: "json",
		Output: config.GetEnv("ARVIEWER_LOG_FILE", ""),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_DISPLAY_PORT", "2222")

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newHandler(renderPage(sshHost, sshPort)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting web server", zap.String("addr", "http://"+srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// renderPage fills the connection details into the landing page.
func renderPage(sshHost, sshPort string) string {
	return strings.NewReplacer(
		"{{.SSHHost}}", sshHost,
		"{{.SSHPort}}", sshPort,
	).Replace(htmlPage)
}

func newHandler(page string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	return mux
}
