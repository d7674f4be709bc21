package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/krau/filekit/config"
	"github.com/krau/filekit/storage"
)

// Resolver picks the storage a request operates on. An empty name means the default storage.
type Resolver func(ctx context.Context, name string) (storage.Storage, error)

var server *http.Server

// Init starts the HTTP API server when it is enabled; it stops when ctx is done.
func Init(ctx context.Context, cfg config.APIConfig, resolve Resolver) error {
	if !cfg.Enable {
		return nil
	}
	if cfg.Token == "" {
		return fmt.Errorf("API is enabled but token is not configured. Please set 'api.token' in your configuration file for security")
	}

	logger := log.FromContext(ctx).WithPrefix("api")

	server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewHandler(logger, cfg, resolve),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Infof("Starting API server on port %d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("API server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Failed to shutdown API server: %v", err)
		} else {
			logger.Info("API server stopped")
		}
	}()

	return nil
}

// NewHandler builds the routed and wrapped API handler.
func NewHandler(logger *log.Logger, cfg config.APIConfig, resolve Resolver) http.Handler {
	h := &handlers{cfg: cfg}
	mux := http.NewServeMux()
	registerRoutes(mux, h)

	var handler http.Handler = storageMiddleware(resolve)(mux)
	handler = authMiddleware(cfg)(handler)
	handler = rateLimitMiddleware(cfg)(handler)
	return loggingMiddleware(logger)(handler)
}

func registerRoutes(mux *http.ServeMux, h *handlers) {
	// Health check endpoint (no auth required)
	mux.HandleFunc("/health", handleHealth)

	mux.HandleFunc("POST /api/v1/files", h.handleUpload)
	mux.HandleFunc("POST /api/v1/files/move", h.handleMove)
	mux.HandleFunc("GET /api/v1/files/{path...}", h.handleDownload)
	mux.HandleFunc("HEAD /api/v1/files/{path...}", h.handleExists)
	mux.HandleFunc("DELETE /api/v1/files/{path...}", h.handleDelete)
	mux.HandleFunc("GET /api/v1/info/{path...}", h.handleInfo)
}
