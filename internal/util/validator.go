package util

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the YYYY-MM-DD form accepted by date filters.
const DateLayout = "2006-01-02"

var maxPrice = decimal.NewFromInt(10_000_000)

// ValidatePrice checks that a money amount is positive and below ten million.
func ValidatePrice(d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", d)
	}
	if d.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("amount too large, got %s", d)
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD day in local time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %w", err)
	}
	return t, nil
}

// ParseOptionalDate returns nil for an empty string.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseID parses a positive numeric id such as a route parameter.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

// ParseOptionalID returns nil for an empty string.
func ParseOptionalID(s string) (*uint, error) {
	if s == "" {
		return nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseKeyNumber parses a positive product key number.
func ParseKeyNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid key number %q", s)
	}
	return n, nil
}
