package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SyncRun records one orchestrated sync across all connected platforms.
type SyncRun struct {
	ID        string         `json:"id" gorm:"type:uuid;primary_key"`
	Platforms pq.StringArray `json:"platforms" gorm:"type:text[]"`
	Synced    int            `json:"synced"`
	Failed    int            `json:"failed"`
	Logs      pq.StringArray `json:"logs" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"created_at"`
}

func (s *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
