package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/usual2970/daywise/httpapi/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerConfig addresses the HTTP listener.
type ServerConfig struct {
	Host string
	Port int
}

// Address renders host:port for http.Server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Server wraps the gin engine the way the teacher's server package does.
type Server struct {
	engine     *gin.Engine
	config     ServerConfig
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer builds a Server with request logging, panic recovery and the
// task/plan routes registered.
func NewServer(cfg ServerConfig, h *Handler, log *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Recovery(log))

	s := &Server{engine: engine, config: cfg, log: log}
	s.registerRoutes(h)
	return s
}

func (s *Server) registerRoutes(h *Handler) {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().Format(time.RFC3339)})
	})

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/tasks", h.CreateTask)
		v1.GET("/tasks", h.ListTasks)
		v1.GET("/tasks/stats", h.GetStats)
		v1.GET("/tasks/:id", h.GetTask)
		v1.PATCH("/tasks/:id", h.UpdateTask)
		v1.DELETE("/tasks/:id", h.DeleteTask)
		v1.POST("/tasks/:id/complete", h.CompleteTask)
		v1.POST("/tasks/:id/reopen", h.ReopenTask)

		v1.GET("/plan", h.PlanDay)
	}
}

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{Addr: s.config.Address(), Handler: s.engine}
	s.log.Info("starting http server", zap.String("addr", s.config.Address()))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.httpServer.Shutdown(ctx)
}
