package web

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hlop3z/linkdb/internal/model"
)

const (
	headerRequestID = "X-Request-ID"

	keyRequestID = "requestID"
	keyEnv       = "env"
)

// requestID propagates the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(keyRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// logRequests writes one line per request.
func logRequests(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(keyRequestID),
		)
	}
}

// principal reads the authenticated user id from the configured header and
// stores a per-request Env running as that user. Requests without the
// header run unauthenticated.
func (s *Server) principal() gin.HandlerFunc {
	return func(c *gin.Context) {
		env := s.env
		if id := strings.TrimSpace(c.GetHeader(s.cfg.PrincipalHeader)); id != "" {
			env = env.WithPrincipal(&model.Principal{ID: id})
		}
		c.Set(keyEnv, env)
		c.Next()
	}
}
