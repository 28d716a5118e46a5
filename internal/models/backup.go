package models

import "time"

// Backup describes an encrypted ledger snapshot on disk.
type Backup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	FilePath  string    `gorm:"size:1024;not null" json:"-"`
	Size      int64     `json:"size"`
	Sales     int       `json:"sales"` // number of sale rows in the snapshot
	CreatedAt time.Time `json:"created_at"`
}
