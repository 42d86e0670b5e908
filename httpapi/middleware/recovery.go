package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery recovers from any panic in a downstream handler and logs it
// through log rather than the stdlib logger the teacher used.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		switch err := recovered.(type) {
		case string:
			log.Error("panic recovered", zap.String("panic", err), zap.ByteString("stack", debug.Stack()))
		case error:
			log.Error("panic recovered", zap.Error(err), zap.ByteString("stack", debug.Stack()))
		default:
			log.Error("panic recovered", zap.Any("panic", recovered), zap.ByteString("stack", debug.Stack()))
		}

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal server error"})
		c.Abort()
	})
}
