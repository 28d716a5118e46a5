package store

import "errors"

var (
	// ErrNotFound is returned when a category, product, customer or sale does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a category name is already taken.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrDuplicateKey is returned when a product key number is already taken.
	ErrDuplicateKey = errors.New("duplicate key number")
	// ErrDefaultCategory is returned when deleting the default category.
	ErrDefaultCategory = errors.New("the default category cannot be deleted")
	// ErrProductHasSales is returned when deleting a product that has sales history.
	ErrProductHasSales = errors.New("product has sales history")
	// ErrInsufficientStock is returned when a sale asks for more than remains.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNoChanges is returned by partial updates that set no field.
	ErrNoChanges = errors.New("no fields to update")
	// ErrInvalidInput is returned for values that can never be stored.
	ErrInvalidInput = errors.New("invalid input")
)

// IsBusinessRule reports whether err is a ledger rule violation the caller
// should show to the user, as opposed to a lookup or storage failure.
func IsBusinessRule(err error) bool {
	return errors.Is(err, ErrDefaultCategory) ||
		errors.Is(err, ErrProductHasSales) ||
		errors.Is(err, ErrInsufficientStock)
}
