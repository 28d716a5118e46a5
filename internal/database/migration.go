package database

import (
	"errors"
	"fmt"
	"log/slog"

	"retail-ledger/internal/logger"
	"retail-ledger/internal/models"

	"gorm.io/gorm"
)

// ledgerModels are created in dependency order.
var ledgerModels = []any{
	&models.Category{},
	&models.Product{},
	&models.Customer{},
	&models.Sale{},
}

// supportModels are owned entirely by this application.
var supportModels = []any{
	&models.Backup{},
	&models.Session{},
}

// Migrate brings the schema up to date and seeds the default category. It is
// safe to run on every start: existing ledger tables only ever gain missing
// columns and indexes, nothing is dropped or rewritten.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	if log == nil {
		log = logger.Discard()
	}

	for _, m := range ledgerModels {
		if err := migrateAdditive(db, m, log); err != nil {
			return err
		}
	}

	if err := db.AutoMigrate(supportModels...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return seedDefaultCategory(db, log)
}

func migrateAdditive(db *gorm.DB, model any, log *slog.Logger) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("parse %T: %w", model, err)
	}
	table := stmt.Schema.Table
	mig := db.Migrator()

	if !mig.HasTable(model) {
		log.Info("migrating database: creating table", "table", table)
		if err := mig.CreateTable(model); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		return nil
	}

	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" || mig.HasColumn(model, field.DBName) {
			continue
		}
		log.Info("migrating database: adding column", "table", table, "column", field.DBName)
		if err := mig.AddColumn(model, field.Name); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, field.DBName, err)
		}
	}

	for _, idx := range stmt.Schema.ParseIndexes() {
		if mig.HasIndex(model, idx.Name) {
			continue
		}
		if err := mig.CreateIndex(model, idx.Name); err != nil {
			// legacy rows may violate a unique index; keep going without it
			log.Warn("migrating database: index not created", "table", table, "index", idx.Name, "err", err)
		}
	}
	return nil
}

func seedDefaultCategory(db *gorm.DB, log *slog.Logger) error {
	var existing models.Category
	err := db.First(&existing, models.DefaultCategoryID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check default category: %w", err)
	}

	def := models.Category{
		ID:          models.DefaultCategoryID,
		Name:        models.DefaultCategoryName,
		Description: models.DefaultCategoryDescription,
	}
	err = db.Create(&def).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// an older database holds "General" under another id
		log.Warn("default category name taken, seeding under an alternate name", "name", def.Name)
		def.Name = models.DefaultCategoryName + " (default)"
		err = db.Create(&def).Error
	}
	if err != nil {
		return fmt.Errorf("seed default category: %w", err)
	}
	log.Info("seeded default category", "id", def.ID, "name", def.Name)
	return nil
}
