package auth

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log/v2"
	"github.com/robfig/cron/v3"
	"github.com/zulandar/bookmarky/internal/metrics"
	"gorm.io/gorm"
)

// StartSweeper deletes expired sessions on the given cron schedule until ctx
// is cancelled.
func StartSweeper(ctx context.Context, db *gorm.DB, schedule string, logger *log.Logger) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		n, err := SweepExpired(ctx, db)
		if err != nil {
			logger.Error("session sweep failed", "err", err)
			return
		}
		metrics.SessionsSwept.Add(float64(n))
		if n > 0 {
			logger.Info("swept expired sessions", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("auth: sweep schedule %q: %w", schedule, err)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return c, nil
}
