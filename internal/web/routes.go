package web

import (
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes sets up all routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	db := opts.DB
	sessions := sessionSettings{ttl: opts.SessionTTL, secure: opts.SecureCookie}

	// Embedded static assets (served from assets/ subdir of the embed.FS).
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.NoRoute(func(c *gin.Context) { renderError(c, http.StatusNotFound) })

	pages := router.Group("/", loadIdentity(db, opts.Logger))
	pages.GET("/", handleHome(db))
	pages.POST("/login", handleLogin(db, sessions))

	authed := pages.Group("/", requireAuth())
	authed.POST("/logout", handleLogout(db))

	authed.GET("/create_bug", handleCreateBugForm(db))
	authed.POST("/create_bug", handleCreateBug(db))
	authed.GET("/edit_bug/:bug_id", handleEditBugForm(db))
	authed.POST("/edit_bug/:bug_id", handleEditBug(db, opts.Policy))
	authed.GET("/bug_details/:bug_id", handleBugDetails(db))
	authed.GET("/bug_list", handleBugList(db))
	authed.GET("/add_comment/:bug_id", handleCommentForm())
	authed.POST("/add_comment/:bug_id", handleAddComment(db))
	authed.GET("/add_hours_worked/:bug_id", handleHoursForm())
	authed.POST("/add_hours_worked/:bug_id", handleAddHours(db))
	authed.POST("/subscribe/:bug_id", handleSubscribe(db, true))
	authed.POST("/unsubscribe/:bug_id", handleSubscribe(db, false))

	authed.GET("/news_feed", handleNewsFeed(db))
	authed.GET("/api/news/events", handleNewsEvents(db, opts.Logger))

	authed.GET("/user_profile", handleProfile(db))
	authed.GET("/edit_user_profile", handleEditProfileForm(db))
	authed.POST("/edit_user_profile", handleEditProfile(db, opts.Policy))

	authed.POST("/bookmarks", handleCreateBookmark(db))
	authed.GET("/reports/:rid", handleReport(db))
}

// bugID parses the :bug_id path parameter. Non-numeric ids are a 404, as if
// the route did not match.
func bugID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("bug_id"), 10, 64)
	if err != nil {
		renderError(c, http.StatusNotFound)
		return 0, false
	}
	return uint(n), true
}
