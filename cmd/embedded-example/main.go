package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/usual2970/daywise/internal/task"
	"github.com/usual2970/daywise/pkg/daywise"
)

// This example demonstrates embedding daywise into a host application
// that owns its own gin engine and HTTP server, rather than running
// daywise's standalone httpapi.Server.
func main() {
	log.Println("Daywise Embedded Example")
	log.Println("========================")

	dsn := os.Getenv("DATABASE_URL")

	var opts []daywise.Option
	if dsn == "" {
		log.Println("DATABASE_URL not set, using the in-memory store for this demo")
		opts = append(opts, daywise.WithMemoryStore())
	} else {
		opts = append(opts, daywise.WithPostgres(dsn))
	}
	opts = append(opts, daywise.WithRoutePrefix("/internal/tasks"))

	dw, err := daywise.New(opts...)
	if err != nil {
		log.Fatalf("failed to initialize daywise: %v", err)
	}

	ctx := context.Background()
	if err := dw.Start(ctx); err != nil {
		log.Fatalf("failed to start daywise: %v", err)
	}
	log.Println("daywise started successfully")

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		status := dw.HealthCheck(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"app":     "ok",
			"daywise": status,
		})
	})

	if err := dw.RegisterRoutes(router); err != nil {
		log.Fatalf("failed to register daywise routes: %v", err)
	}

	router.POST("/quick-tasks", func(c *gin.Context) {
		var req struct {
			Title   string `json:"title"`
			Project string `json:"project"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		t, err := dw.CreateTask(c.Request.Context(), task.CreateInput{
			Title:   req.Title,
			Project: req.Project,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": t.ID, "title": t.Title, "status": t.Status})
	})

	srv := &http.Server{Addr: ":8080", Handler: router}

	go func() {
		log.Println("Server started on :8080")
		log.Println("Endpoints:")
		log.Println("  GET  /health                    - host + daywise health")
		log.Println("  POST /quick-tasks                - shortcut task creation")
		log.Println("  *    /internal/tasks/...          - full daywise task/plan API")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := dw.Shutdown(shutdownCtx); err != nil {
		log.Printf("daywise shutdown error: %v", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
