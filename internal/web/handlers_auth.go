package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/auth"
	"github.com/zulandar/bookmarky/internal/bookmark"
	"gorm.io/gorm"
)

type sessionSettings struct {
	ttl    time.Duration
	secure bool
}

func handleHome(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := identity(c)
		if id == nil {
			render(c, http.StatusOK, "login.html", nil)
			return
		}
		marks, err := bookmark.ForUser(c.Request.Context(), db, id.ID)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "home.html", gin.H{"Bookmarks": marks})
	}
}

// handleLogin serves both buttons of the login form: "Log in" checks the
// credentials, "Create account" registers a new user. Either way the caller
// ends up with a fresh session.
func handleLogin(db *gorm.DB, s sessionSettings) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		login := c.PostForm("user")
		password := c.PostForm("passwd")

		var (
			uid uint
			err error
		)
		switch c.PostForm("action") {
		case "Log in":
			uid, err = auth.CheckAuth(ctx, db, login, password)
		case "Create account":
			uid, err = auth.CreateUser(ctx, db, auth.NewUser{
				Login:       login,
				Password:    password,
				DisplayName: c.PostForm("display_name"),
				Email:       c.PostForm("e_mail"),
				Role:        c.PostForm("role"),
			})
		default:
			renderError(c, http.StatusBadRequest)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}

		sess, err := auth.NewSession(ctx, db, uid, s.ttl)
		if err != nil {
			fail(c, err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, sess.Token, int(s.ttl.Seconds()), "/", "", s.secure, true)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func handleLogout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.EndSession(c.Request.Context(), db, identity(c).Token); err != nil {
			fail(c, err)
			return
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func handleCreateBookmark(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := bookmark.Create(c.Request.Context(), db, identity(c).ID, bookmark.Form{
			URL:   c.PostForm("url"),
			Title: c.PostForm("title"),
			Notes: c.PostForm("notes"),
			Tags:  c.PostForm("tags"),
		})
		if err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}
