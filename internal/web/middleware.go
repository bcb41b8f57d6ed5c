package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log/v2"
	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/auth"
	"github.com/zulandar/bookmarky/internal/metrics"
	"gorm.io/gorm"
)

const (
	sessionCookie = "bk_session"
	identityKey   = "identity"
)

// Identity is the logged-in caller, resolved from the session cookie.
type Identity struct {
	ID          uint
	Login       string
	DisplayName string
	Role        string
	Token       string
}

// requestLogger logs each request and counts it by route template.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"dur", time.Since(start).Round(time.Microsecond),
		}
		if len(c.Errors) > 0 {
			logger.Error("request failed", append(kv, "err", c.Errors.String())...)
			return
		}
		logger.Info("request", kv...)
	}
}

// loadIdentity attaches the caller's Identity when the request carries a
// live session. Requests without one pass through anonymously.
func loadIdentity(db *gorm.DB, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		u, err := auth.Lookup(c.Request.Context(), db, token)
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				logger.Error("session lookup failed", "err", err)
			}
			c.Next()
			return
		}
		c.Set(identityKey, &Identity{
			ID:          u.ID,
			Login:       u.Login,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Token:       token,
		})
		c.Next()
	}
}

// requireAuth rejects anonymous callers with 403.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity(c) == nil {
			renderError(c, http.StatusForbidden)
			return
		}
		c.Next()
	}
}

// identity returns the caller, or nil when anonymous.
func identity(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
