package server

import (
	"context"
	"net/http"
	"time"

	"hub-go/internal/hub"
)

// New builds the http.Server for the dashboard with sane timeouts and
// request logging wrapped around the handler's routes.
func New(addr string, h *Handler, logger hub.Logger) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      loggingMiddleware(logger)(h.Routes()),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Run starts srv and blocks until ctx is cancelled, then shuts down
// gracefully with a bounded drain period.
func Run(ctx context.Context, srv *http.Server, logger hub.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
