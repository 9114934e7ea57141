package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response. Internal errors are logged and hidden
// from the client.
func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(code, gin.H{"error": "internal error"})
		return
	}

	s.logger.Debug(c.Request.Context(), "request rejected", "path", c.FullPath(), "status", code, "error", err)
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

func (s *Server) badBody(c *gin.Context, err error) {
	s.logger.Debug(c.Request.Context(), "malformed body", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed request body: " + err.Error()})
}
