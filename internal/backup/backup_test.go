package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"retail-ledger/internal/config"
	"retail-ledger/internal/database"
	"retail-ledger/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, key string) (*store.Store, *Service) {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(dir, "ledger.db"), MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db, nil))

	return store.New(db), NewService(db, key, filepath.Join(dir, "backups"), nil)
}

func seed(t *testing.T, s *store.Store) uint {
	t.Helper()
	ctx := context.Background()
	beds, err := s.AddCategory(ctx, "Beds", "")
	require.NoError(t, err)
	require.NoError(t, s.AddProduct(ctx, store.NewProduct{
		KeyNumber: 100, Name: "Twin Mattress",
		PurchasePrice: decimal.RequireFromString("50"), SalePrice: decimal.RequireFromString("90"),
		TotalAdded: 10, CategoryID: beds, ImageData: []byte("png"),
	}))
	cust, err := s.AddCustomer(ctx, store.CustomerInput{Name: "Meena", Phone: "555"})
	require.NoError(t, err)
	_, err = s.RecordSale(ctx, 100, 3, decimal.RequireFromString("90"), &cust)
	require.NoError(t, err)
	return beds
}

func TestCreateAndRestore(t *testing.T) {
	ctx := context.Background()
	s, svc := setup(t, "backup-secret")
	beds := seed(t, s)

	b, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Sales)
	assert.FileExists(t, b.FilePath)

	raw, err := os.ReadFile(b.FilePath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Twin Mattress", "file is encrypted")

	// diverge from the snapshot
	_, err = s.ClearSalesHistory(ctx)
	require.NoError(t, err)
	require.NoError(t, s.DeleteCategory(ctx, beds))
	require.NoError(t, s.DeleteProduct(ctx, 100))

	counts, err := svc.Restore(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, &Counts{Categories: 2, Products: 1, Customers: 1, Sales: 1}, counts)

	p, err := s.GetProduct(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Sold)
	assert.Equal(t, "Beds", p.CategoryName)
	assert.True(t, p.HasImage())

	total, err := s.TotalProfit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "120", total.String())

	sales, err := s.ListSales(ctx, store.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "Meena", sales[0].CustomerName)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s, svc := setup(t, "k")
	seed(t, s)

	first, err := svc.Create(ctx)
	require.NoError(t, err)
	second, err := svc.Create(ctx)
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.NoFileExists(t, first.FilePath)
	assert.ErrorIs(t, svc.Delete(ctx, first.ID), ErrNotFound)

	_, err = svc.Restore(ctx, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestore_WrongKeyLeavesLedger(t *testing.T) {
	ctx := context.Background()
	s, svc := setup(t, "right")
	seed(t, s)
	b, err := svc.Create(ctx)
	require.NoError(t, err)

	_, err = s.ClearSalesHistory(ctx)
	require.NoError(t, err)

	svc.key = "wrong"
	_, err = svc.Restore(ctx, b.ID)
	assert.ErrorIs(t, err, ErrCorrupt)

	sales, err := s.ListSales(ctx, store.SaleFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreate_RequiresKey(t *testing.T) {
	_, svc := setup(t, "")
	_, err := svc.Create(context.Background())
	assert.ErrorIs(t, err, ErrNoKey)
}
