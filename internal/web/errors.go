package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/auth"
	"github.com/zulandar/bookmarky/internal/bookmark"
	"github.com/zulandar/bookmarky/internal/bug"
	"github.com/zulandar/bookmarky/internal/user"
)

// statusFor maps data-layer errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrBadCredentials):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrLoginTaken), errors.Is(err, user.ErrLoginTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidInput),
		errors.Is(err, bug.ErrInvalidInput),
		errors.Is(err, bookmark.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, bug.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	default:
		// Includes txn.ErrExhausted.
		return http.StatusInternalServerError
	}
}

// fail logs err when it is a server fault and renders the matching error
// page.
func fail(c *gin.Context, err error) {
	failWith(c, statusFor(err), err)
}

func failWith(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		c.Error(err)
	}
	renderError(c, status)
}

func renderError(c *gin.Context, status int) {
	render(c, status, "error.html", gin.H{
		"Status":  status,
		"Message": http.StatusText(status),
	})
	c.Abort()
}

// render executes a page template with the caller's identity attached.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Identity"] = identity(c)
	c.HTML(status, name, data)
}
