package http

import (
	"net/http"
	"strings"
	"time"

	"shop-service/internal/domain"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ctxRequestID = "request_id"
	ctxUserID    = "user_id"
	ctxRole      = "role"

	headerRequestID = "X-Request-ID"
)

// RequestID reuses an incoming X-Request-ID or generates one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = log.Error()
		case status >= http.StatusBadRequest:
			evt = log.Warn()
		}
		if uid, ok := c.Get(ctxUserID); ok {
			evt = evt.Interface(ctxUserID, uid)
		}
		evt.Str("request_id", c.GetString(ctxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// RequireAuth accepts "Authorization: Bearer <access token>" and stores the
// caller's id and role on the context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization header is missing"})
			return
		}
		scheme, raw, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization header must be a bearer token"})
			return
		}

		claims, err := h.auth.Authenticate(strings.TrimSpace(raw))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !domain.Role(c.GetString(ctxRole)).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: services.ErrAdminRequired.Error()})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint64 {
	return c.GetUint64(ctxUserID)
}
