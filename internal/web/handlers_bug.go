package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/bug"
	"github.com/zulandar/bookmarky/internal/models"
	"github.com/zulandar/bookmarky/internal/txn"
	"gorm.io/gorm"
)

func bugForm(c *gin.Context) bug.Form {
	return bug.Form{
		Title:     c.PostForm("bug_title"),
		Details:   c.PostForm("bug_details"),
		Priority:  c.PostForm("bug_priority"),
		Milestone: c.PostForm("milestone"),
		Assignee:  c.PostForm("assignee"),
		Status:    c.PostForm("status"),
		Tags:      c.PostForm("tags"),
	}
}

// pickers loads the milestone and developer lists shown on bug forms.
func pickers(c *gin.Context, db *gorm.DB) (gin.H, error) {
	ctx := c.Request.Context()
	milestones, err := bug.Milestones(ctx, db)
	if err != nil {
		return nil, err
	}
	developers, err := bug.Developers(ctx, db)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"Milestones": milestones,
		"Developers": developers,
		"Statuses":   models.Statuses,
	}, nil
}

func handleCreateBugForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := pickers(c, db)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "create_bug.html", data)
	}
}

func handleCreateBug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := bug.Create(c.Request.Context(), db, identity(c).ID, bugForm(c)); err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func handleEditBugForm(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		b, err := bug.Get(c.Request.Context(), db, id)
		if errors.Is(err, bug.ErrNotFound) {
			renderError(c, http.StatusForbidden)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		data, err := pickers(c, db)
		if err != nil {
			fail(c, err)
			return
		}
		data["Bug"] = b
		render(c, http.StatusOK, "edit_bug.html", data)
	}
}

// handleEditBug applies an edit. A bug that does not exist is reported as
// 403, the same as an unauthorized edit.
func handleEditBug(db *gorm.DB, policy txn.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		err := bug.Update(c.Request.Context(), db, policy, id, bugForm(c))
		if errors.Is(err, bug.ErrNotFound) {
			renderError(c, http.StatusForbidden)
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	}
}

func handleBugDetails(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		b, err := bug.Get(ctx, db, id)
		if err != nil {
			fail(c, err)
			return
		}
		comments, err := bug.Comments(ctx, db, id)
		if err != nil {
			fail(c, err)
			return
		}
		subscribed, err := bug.Subscribed(ctx, db, identity(c).ID, id)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "bug_details.html", gin.H{
			"Bug":        b,
			"Comments":   comments,
			"Subscribed": subscribed,
		})
	}
}

func handleBugList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bugs, err := bug.List(c.Request.Context(), db)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "bug_list.html", gin.H{"Bugs": bugs})
	}
}

func handleCommentForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		render(c, http.StatusOK, "add_comment.html", gin.H{"BugID": id})
	}
}

func handleAddComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		if _, err := bug.AddComment(c.Request.Context(), db, id, identity(c).ID, c.PostForm("comment_text")); err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, detailsPath(id))
	}
}

func handleHoursForm() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		render(c, http.StatusOK, "add_hours_worked.html", gin.H{"BugID": id})
	}
}

func handleAddHours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		if _, err := bug.AddHours(c.Request.Context(), db, id, identity(c).ID, c.PostForm("hours_worked")); err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, detailsPath(id))
	}
}

func handleSubscribe(db *gorm.DB, subscribe bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := bugID(c)
		if !ok {
			return
		}
		op := bug.Unsubscribe
		if subscribe {
			op = bug.Subscribe
		}
		if err := op(c.Request.Context(), db, identity(c).ID, id); err != nil {
			fail(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, detailsPath(id))
	}
}

func handleNewsFeed(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := bug.NewsComments(c.Request.Context(), db, identity(c).ID)
		if err != nil {
			fail(c, err)
			return
		}
		render(c, http.StatusOK, "news_feed.html", gin.H{"Comments": comments})
	}
}

func detailsPath(id uint) string {
	return fmt.Sprintf("/bug_details/%d", id)
}
