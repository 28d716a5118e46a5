// Package backup writes encrypted snapshots of the whole ledger to disk and
// restores them.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"retail-ledger/internal/logger"
	"retail-ledger/internal/models"
	"retail-ledger/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("backup not found")
	ErrNoKey    = errors.New("security.encryption_key is not configured")
	ErrCorrupt  = errors.New("backup file is unreadable")
)

// snapshotVersion is bumped when the snapshot layout changes.
const snapshotVersion = 1

type snapshot struct {
	Version    int               `json:"version"`
	Created    time.Time         `json:"created"`
	Categories []models.Category `json:"categories"`
	Products   []models.Product  `json:"products"`
	Customers  []models.Customer `json:"customers"`
	Sales      []models.Sale     `json:"sales"`
}

// Counts reports how many rows a restore wrote.
type Counts struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Customers  int `json:"customers"`
	Sales      int `json:"sales"`
}

// Service manages backups in one directory.
type Service struct {
	db  *gorm.DB
	key string
	dir string
	log *slog.Logger
}

// NewService returns a backup service. A nil log discards output.
func NewService(db *gorm.DB, encryptionKey, dir string, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{db: db, key: encryptionKey, dir: dir, log: log}
}

// Create snapshots every ledger table in one read transaction, encrypts the
// JSON and records the file.
func (s *Service) Create(ctx context.Context) (*models.Backup, error) {
	if s.key == "" {
		return nil, ErrNoKey
	}

	snap := snapshot{Version: snapshotVersion, Created: time.Now()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id").Find(&snap.Categories).Error; err != nil {
			return fmt.Errorf("read categories: %w", err)
		}
		if err := tx.Order("key_number").Find(&snap.Products).Error; err != nil {
			return fmt.Errorf("read products: %w", err)
		}
		if err := tx.Order("id").Find(&snap.Customers).Error; err != nil {
			return fmt.Errorf("read customers: %w", err)
		}
		if err := tx.Order("id").Find(&snap.Sales).Error; err != nil {
			return fmt.Errorf("read sales: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	enc, err := util.EncryptAES(s.key, raw)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}
	fileName := fmt.Sprintf("ledger-%s-%s.bin", snap.Created.Format("20060102-150405"), uuid.NewString())
	filePath := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		return nil, fmt.Errorf("write backup: %w", err)
	}

	b := models.Backup{
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
		Sales:    len(snap.Sales),
	}
	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("save backup record: %w", err)
	}

	s.log.Info("backup created", "id", b.ID, "file", fileName, "sales", b.Sales, "size", b.Size)
	return &b, nil
}

// List returns recorded backups, newest first.
func (s *Service) List(ctx context.Context) ([]models.Backup, error) {
	list := []models.Backup{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return list, nil
}

// Get returns one backup record.
func (s *Service) Get(ctx context.Context, id uint) (*models.Backup, error) {
	var b models.Backup
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("backup %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get backup: %w", err)
	}
	return &b, nil
}

// Delete removes the file first, then the record.
func (s *Service) Delete(ctx context.Context, id uint) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(b.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove backup file: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&models.Backup{}, id).Error; err != nil {
		return fmt.Errorf("delete backup record: %w", err)
	}
	return nil
}

// Restore replaces the whole ledger with the backup's contents in a single
// transaction. On any failure the current ledger is left as it was.
func (s *Service) Restore(ctx context.Context, id uint) (*Counts, error) {
	if s.key == "" {
		return nil, ErrNoKey
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.read(b.FilePath)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// children first so foreign keys hold at every step
		for _, m := range []any{&models.Sale{}, &models.Customer{}, &models.Product{}, &models.Category{}} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}

		if err := createAll(tx, snap.Categories); err != nil {
			return fmt.Errorf("restore categories: %w", err)
		}
		if err := createAll(tx, snap.Products); err != nil {
			return fmt.Errorf("restore products: %w", err)
		}
		if err := createAll(tx, snap.Customers); err != nil {
			return fmt.Errorf("restore customers: %w", err)
		}
		if err := createAll(tx, snap.Sales); err != nil {
			return fmt.Errorf("restore sales: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("backup restore failed", "id", id, "err", err)
		return nil, err
	}

	counts := &Counts{
		Categories: len(snap.Categories),
		Products:   len(snap.Products),
		Customers:  len(snap.Customers),
		Sales:      len(snap.Sales),
	}
	s.log.Info("backup restored", "id", id, "products", counts.Products, "sales", counts.Sales)
	return counts, nil
}

func (s *Service) read(path string) (*snapshot, error) {
	enc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	raw, err := util.DecryptAES(s.key, enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, snap.Version)
	}

	hasDefault := false
	for _, c := range snap.Categories {
		if c.ID == models.DefaultCategoryID {
			hasDefault = true
			break
		}
	}
	if !hasDefault {
		return nil, fmt.Errorf("%w: default category missing", ErrCorrupt)
	}
	return &snap, nil
}

func createAll[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).CreateInBatches(&rows, 100).Error
}
