package crud

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialFeed/errs"
)

// pgUniqueViolation is the postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// GuardConfig configures the guard every crud service runs its queries through.
type GuardConfig struct {
	// Timeout bounds each database call. Zero disables the deadline.
	Timeout time.Duration
	// MinRequests is the number of calls in a window before the breaker may trip.
	MinRequests uint32
	// FailureRatio trips the breaker once this share of calls failed.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	Logger      *zap.Logger
}

// DefaultGuardConfig returns the configuration used when none is given.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Timeout:      5 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
		OpenTimeout:  30 * time.Second,
		Logger:       zap.NewNop(),
	}
}

// guard bounds every database call with a deadline and a circuit breaker,
// and translates driver level failures into application errors.
// It holds no lock around the call itself.
type guard struct {
	db      *gorm.DB
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
}

// newGuard returns a guard around db.
func newGuard(db *gorm.DB, cfg GuardConfig) *guard {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &guard{
		db:      db,
		timeout: cfg.Timeout,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "database",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < cfg.MinRequests {
					return false
				}
				return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
			IsSuccessful: isHealthy,
		}),
	}
}

// run executes fn with a database handle bound to a deadline-scoped context.
func (g *guard) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, fn(g.db.WithContext(ctx))
	})
	return translate(ctx, err)
}

// isHealthy reports whether err says nothing bad about the database itself.
// Missing records, duplicates and validation failures are normal outcomes.
func isHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || isUniqueViolation(err) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	return errs.ErrorCode(err) != errs.EINTERNAL
}

// translate maps breaker and deadline failures to application errors and passes
// everything else through unchanged.
func translate(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errs.Errorf(errs.EUNAVAILABLE, "The database is unavailable, try again later.")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.Errorf(errs.ETIMEOUT, "The database did not respond in time.")
	}
	return err
}

// isUniqueViolation reports whether err is a unique constraint violation,
// whichever dialect raised it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
