package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/models"
	"github.com/zulandar/bookmarky/internal/report"
	"github.com/zulandar/bookmarky/internal/txn"
	"github.com/zulandar/bookmarky/internal/user"
	"gorm.io/gorm"
)

var roles = []string{models.RoleDeveloper, models.RoleTester, models.RoleManager}

func handleProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := user.Info(c.Request.Context(), db, identity(c).ID)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "user_profile.html", gin.H{"Profile": p})
	}
}

func handleEditProfileForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := user.Info(c.Request.Context(), db, identity(c).ID)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "edit_user_profile.html", gin.H{"Profile": p, "Roles": roles})
	}
}

func handleEditProfile(db *gorm.DB, policy txn.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := user.Update(c.Request.Context(), db, policy, identity(c).ID, user.ProfileForm{
			Login:       c.PostForm("user_name"),
			DisplayName: c.PostForm("display_name"),
			Email:       c.PostForm("e_mail"),
			Role:        c.PostForm("role"),
		})
		if errors.Is(err, user.ErrNotFound) {
			renderError(c, http.StatusForbidden)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/user_profile")
	}
}

func handleReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var (
			rows interface{}
			err  error
		)
		switch c.Param("rid") {
		case "1":
			rows, err = report.HoursByBug(ctx, db)
		case "2":
			rows, err = report.HoursByUser(ctx, db)
		case "3":
			rows, err = report.StatusByMilestone(ctx, db)
		default:
			renderError(c, http.StatusNotFound)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "report_"+c.Param("rid")+".html", gin.H{"Rows": rows})
	}
}
