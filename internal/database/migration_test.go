package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retail-ledger/internal/config"
	"retail-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Init(config.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "ledger.db"),
		MaxOpenConns: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestMigrate_FreshDatabase(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, nil))

	for _, table := range []string{"categories", "products", "customers", "sales", "backups", "sessions"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}

	var def models.Category
	require.NoError(t, db.First(&def, models.DefaultCategoryID).Error)
	assert.Equal(t, models.DefaultCategoryName, def.Name)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db, nil))

	require.NoError(t, db.Create(&models.Category{Name: "Premium"}).Error)
	require.NoError(t, Migrate(db, nil))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 2, count, "second run must not reseed or drop rows")
}

// An early shop database had no categories/customers tables and lacked
// products.category_id, products.image_data and sales.customer_id.
func TestMigrate_UpgradesLegacySchema(t *testing.T) {
	db := openTestDB(t)

	legacy := []string{
		`CREATE TABLE products (
			key_number INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			purchase_price REAL NOT NULL,
			sale_price REAL NOT NULL,
			total_added INTEGER NOT NULL,
			sold INTEGER DEFAULT 0,
			image_path TEXT
		)`,
		`CREATE TABLE sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key_number INTEGER NOT NULL,
			quantity INTEGER NOT NULL,
			sale_price REAL NOT NULL,
			sale_date TEXT NOT NULL,
			profit REAL NOT NULL,
			FOREIGN KEY (key_number) REFERENCES products (key_number)
		)`,
		`INSERT INTO products (key_number, name, purchase_price, sale_price, total_added, sold)
			VALUES (100, 'Twin Mattress', 50.0, 90.0, 10, 3)`,
		`INSERT INTO sales (key_number, quantity, sale_price, sale_date, profit)
			VALUES (100, 3, 90.0, '2024-03-01 10:15:00', 120.0)`,
	}
	for _, stmt := range legacy {
		require.NoError(t, db.Exec(stmt).Error)
	}

	require.NoError(t, Migrate(db, nil))

	mig := db.Migrator()
	assert.True(t, mig.HasColumn(&models.Product{}, "category_id"))
	assert.True(t, mig.HasColumn(&models.Product{}, "image_data"))
	assert.True(t, mig.HasColumn(&models.Sale{}, "customer_id"))
	assert.True(t, mig.HasTable(&models.Customer{}))

	var p models.Product
	require.NoError(t, db.First(&p, "key_number = ?", 100).Error)
	assert.Equal(t, "Twin Mattress", p.Name)
	assert.Equal(t, 3, p.Sold)
	assert.Equal(t, models.DefaultCategoryID, p.CategoryID, "new column picks up the default category")

	var s models.Sale
	require.NoError(t, db.First(&s).Error)
	assert.Nil(t, s.CustomerID)
	assert.Equal(t, "2024-03-01 10:15:00", s.SaleDate.String())
	assert.Equal(t, "120", s.Profit.String())
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Path: "data/shop.db"})
	assert.Contains(t, dsn, "file:data/shop.db?")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_busy_timeout=5000")

	dsn = DSN(config.DatabaseConfig{Path: "data/shop?v=2#1 100%.db", BusyTimeoutMS: 250})
	assert.True(t, strings.HasPrefix(dsn, "file:data/shop%3Fv=2%231 100%25.db?_foreign_keys=on"), dsn)
	assert.Contains(t, dsn, "_busy_timeout=250")
}

func TestInit_PathWithURICharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop?#1.db")
	db, err := Init(config.DatabaseConfig{Path: path, MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db, nil))

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk, "pragmas survive the escaped path")

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file created under its literal name")
}
