package http

import (
	"errors"
	"net/http"

	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
)

func statusOf(err error) int {
	switch services.KindOf(err) {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindAuth:
		// bad credentials on signin are a client error, bad tokens are not authenticated
		if errors.Is(err, services.ErrInvalidCredentials) {
			return http.StatusBadRequest
		}
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": msg}. Unclassified errors are logged and
// hidden behind a generic message.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).
			Str("request_id", c.GetString(ctxRequestID)).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.AbortWithStatusJSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
