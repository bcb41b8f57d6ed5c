package web

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log/v2"
	"github.com/gin-gonic/gin"
	"github.com/zulandar/bookmarky/internal/bug"
	"gorm.io/gorm"
)

// Poll and heartbeat periods for the news stream. Tests shorten them.
var (
	newsPollInterval      = 3 * time.Second
	newsHeartbeatInterval = 15 * time.Second
)

// commentEvent is the payload of a "comment" event on the news stream.
type commentEvent struct {
	ID         uint      `json:"id"`
	BugID      uint      `json:"bug_id"`
	BugTitle   string    `json:"bug_title"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// handleNewsEvents streams comments that land in the caller's news feed. A
// reconnecting client resumes after its Last-Event-ID; a fresh one only sees
// comments posted after it connected.
func handleNewsEvents(db *gorm.DB, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := identity(c).ID
		ctx := c.Request.Context()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		lastSeen, resumed := lastEventID(c)
		if !resumed {
			latest, err := bug.NewsComments(ctx, db, uid)
			if err != nil {
				logger.Error("news stream: initial query", "user", uid, "err", err)
			} else if len(latest) > 0 {
				lastSeen = latest[0].ID
			}
		}

		writeSSE(c.Writer, "", "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		ticker := time.NewTicker(newsPollInterval)
		heartbeat := time.NewTicker(newsHeartbeatInterval)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "", "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				rows, err := bug.CommentsSince(ctx, db, uid, lastSeen)
				if err != nil {
					if ctx.Err() == nil {
						logger.Error("news stream: poll", "user", uid, "err", err)
					}
					continue
				}
				for _, r := range rows {
					writeSSE(c.Writer, strconv.FormatUint(uint64(r.ID), 10), "comment", commentEvent{
						ID:         r.ID,
						BugID:      r.BugID,
						BugTitle:   r.BugTitle,
						AuthorName: r.AuthorName,
						Text:       r.Text,
						CreatedAt:  r.CreatedAt,
					})
					lastSeen = r.ID
				}
				if len(rows) > 0 {
					c.Writer.Flush()
				}
			}
		}
	}
}

func lastEventID(c *gin.Context) (uint, bool) {
	raw := c.GetHeader("Last-Event-ID")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// writeSSE writes a single SSE event to the writer. An empty id is omitted.
func writeSSE(w io.Writer, id, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	if id != "" {
		fmt.Fprintf(w, "id: %s\n", id)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
