package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wraps the gin engine in an *http.Server configured with
// timeouts and graceful shutdown support.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer builds a Server bound to port, serving router.
func NewServer(port string, router *gin.Engine, log *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      router,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Start runs the server until it errors or is shut down; it returns
// nil on a clean shutdown (http.ErrServerClosed is swallowed).
func (s *Server) Start() error {
	s.log.Info("http_server_starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight
// requests to finish until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http_server_stopping")
	return s.httpServer.Shutdown(ctx)
}
