package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id, echoed back in the response
// header, and logs the outcome once the handler chain returns.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			if v, err := common.MakeRandHexString(8); err == nil {
				id = v
			}
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)

		c.Next()

		s.logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// recovery turns a panic into a 500. Panics from the stores signal broken
// invariants, so they are logged at error level with the recovered value.
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic recovered",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(rec),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
