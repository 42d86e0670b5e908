package daywise

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/usual2970/daywise/httpapi/middleware"
)

// RegisterRoutes mounts Daywise's task and planning endpoints onto a
// caller-supplied gin engine under the configured route prefix, for a
// host application that already owns its own HTTP server.
func (d *Daywise) RegisterRoutes(engine *gin.Engine) error {
	if engine == nil {
		return fmt.Errorf("engine cannot be nil")
	}

	group := engine.Group(d.config.RoutePrefix)
	group.Use(middleware.RequestLogger(d.logger))
	group.Use(middleware.Recovery(d.logger))

	group.GET("/health", d.healthCheckHandler)

	tasks := group.Group("/tasks")
	{
		tasks.POST("", d.handler.CreateTask)
		tasks.GET("", d.handler.ListTasks)
		tasks.GET("/stats", d.handler.GetStats)
		tasks.GET("/:id", d.handler.GetTask)
		tasks.PATCH("/:id", d.handler.UpdateTask)
		tasks.DELETE("/:id", d.handler.DeleteTask)
		tasks.POST("/:id/complete", d.handler.CompleteTask)
		tasks.POST("/:id/reopen", d.handler.ReopenTask)
	}

	group.GET("/plan", d.handler.PlanDay)

	d.logger.Info("daywise routes registered",
		zap.String("prefix", d.config.RoutePrefix),
		zap.Int("endpoints", 9),
	)

	return nil
}

func (d *Daywise) healthCheckHandler(c *gin.Context) {
	status := d.HealthCheck(c.Request.Context())

	httpStatus := 200
	if status.Status == "unhealthy" {
		httpStatus = 503
	}

	c.JSON(httpStatus, status)
}
