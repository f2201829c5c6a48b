package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Credential is one platform's stored credential set. Fields are encrypted
// before they reach the row; only connectors ever see them decrypted.
type Credential struct {
	ID         string    `json:"id" gorm:"type:uuid;primary_key"`
	Platform   string    `json:"platform" gorm:"unique;not null"`
	Ciphertext string    `json:"-" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
