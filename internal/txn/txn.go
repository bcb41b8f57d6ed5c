// Package txn runs multi-statement write transactions under a bounded retry
// policy.
package txn

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/log/v2"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/zulandar/bookmarky/internal/metrics"
	"gorm.io/gorm"
)

// DefaultMaxAttempts is the attempt budget when Policy.MaxAttempts is unset.
const DefaultMaxAttempts = 5

// ErrExhausted is returned when every attempt failed.
var ErrExhausted = errors.New("txn: retries exhausted")

// Policy bounds how a transaction is retried.
type Policy struct {
	// Op labels log lines and metrics, e.g. "bug.update".
	Op          string
	MaxAttempts int
	// Backoff is the base wait between attempts. Zero retries immediately.
	Backoff time.Duration
	Logger  *log.Logger
}

// WithOp returns a copy of p labelled op.
func (p Policy) WithOp(op string) Policy {
	p.Op = op
	return p
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

func (p Policy) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

type stopError struct{ err error }

func (e *stopError) Error() string { return e.err.Error() }
func (e *stopError) Unwrap() error { return e.err }

// Stop marks err as final: Run rolls back and returns it without retrying.
// Use it for application outcomes such as not-found or invalid input.
func Stop(err error) error {
	if err == nil {
		return nil
	}
	return &stopError{err: err}
}

// Run executes fn inside a transaction, re-running it from scratch after a
// rollback when it fails. A failed attempt leaves no writes behind. Errors
// wrapped with Stop and context cancellation end the loop immediately; after
// the last failed attempt the returned error matches ErrExhausted.
func Run(ctx context.Context, db *gorm.DB, p Policy, fn func(tx *gorm.DB) error) error {
	attempts := p.attempts()
	logger := p.logger()

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := db.WithContext(ctx).Transaction(fn)
		if err == nil {
			if attempt > 1 {
				logger.Debug("transaction committed after retry", "op", p.Op, "attempt", attempt)
			}
			return nil
		}

		var stop *stopError
		if errors.As(err, &stop) {
			return stop.err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		last = err
		logger.Warn("transaction rolled back",
			"op", p.Op, "attempt", attempt, "max", attempts,
			"conflict", IsConflict(err), "err", err)

		if attempt < attempts {
			metrics.TxRetries.WithLabelValues(p.Op).Inc()
			if err := wait(ctx, p.Backoff, attempt); err != nil {
				return err
			}
		}
	}

	metrics.TxExhausted.WithLabelValues(p.Op).Inc()
	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, last)
}

// wait sleeps for a linearly growing, jittered share of base.
func wait(ctx context.Context, base time.Duration, attempt int) error {
	if base <= 0 {
		return nil
	}
	d := base*time.Duration(attempt) + time.Duration(rand.Int63n(int64(base)))
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MySQL server error numbers for lock contention.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// IsConflict reports whether err looks like lock contention: a MySQL
// deadlock or lock wait timeout, or a busy/locked SQLite database.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	var me *gomysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDeadlock || me.Number == mysqlLockWaitTimeout
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
