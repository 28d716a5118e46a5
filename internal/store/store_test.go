package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"retail-ledger/internal/config"
	"retail-ledger/internal/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 14, 30, 45, 0, time.Local)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, nil))

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(db, opts...)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// addMattress stocks product 100 "Twin Mattress", 50.00 / 90.00, 10 units.
func addMattress(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.AddProduct(context.Background(), NewProduct{
		KeyNumber:     100,
		Name:          "Twin Mattress",
		PurchasePrice: dec("50.00"),
		SalePrice:     dec("90.00"),
		TotalAdded:    10,
	}))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%mattress%", likePattern("Mattress"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\d%`, likePattern(`C:\d`))
}

func TestOptional(t *testing.T) {
	var unset Optional[int]
	_, ok := unset.Get()
	assert.False(t, ok)

	zero := Some(0)
	v, ok := zero.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestIsBusinessRule(t *testing.T) {
	assert.True(t, IsBusinessRule(ErrInsufficientStock))
	assert.True(t, IsBusinessRule(ErrDefaultCategory))
	assert.True(t, IsBusinessRule(ErrProductHasSales))
	assert.False(t, IsBusinessRule(ErrNotFound))
	assert.False(t, IsBusinessRule(ErrDuplicateKey))
}
