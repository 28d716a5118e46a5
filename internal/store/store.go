// Package store implements the inventory and sales ledger: categories,
// products, customers and sales over one SQLite database.
//
// Every operation runs in its own short transaction. Operations that read and
// then write related rows (recording or deleting a sale, deleting a category,
// clearing the sales history) do so inside a single transaction, so sold
// counts and sale rows can never disagree after a failure.
package store

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retail-ledger/internal/logger"

	"gorm.io/gorm"
)

// Store is the ledger.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the wall clock used for sale dates and customer creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Store over an initialized and migrated database.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:  db,
		log: logger.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// conn returns a handle scoped to ctx for single-statement reads.
func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// tx runs fn in one transaction. Any error from fn, or a panic, rolls back
// everything fn did. Unexpected storage errors are logged under op.
func (s *Store) tx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		s.logFailure(op, err)
	}
	return err
}

// logFailure records storage errors; expected outcomes (rule violations,
// lookups that miss, bad input) are left to the caller.
func (s *Store) logFailure(op string, err error, attrs ...any) {
	if err == nil || isExpected(err) {
		return
	}
	s.log.Error("ledger operation failed", append([]any{"op", op, "err", err}, attrs...)...)
}

func isExpected(err error) bool {
	for _, e := range []error{
		ErrNotFound, ErrDuplicateName, ErrDuplicateKey, ErrDefaultCategory,
		ErrProductHasSales, ErrInsufficientStock, ErrNoChanges, ErrInvalidInput,
		context.Canceled, context.DeadlineExceeded,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// isUniqueViolation detects duplicate keys, with or without gorm's error translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// likePattern builds a case-insensitive LIKE pattern matching term anywhere,
// treating % and _ in the term literally. Use with ESCAPE '\'.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(term)) + "%"
}
