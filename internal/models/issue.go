package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Issue is a data-quality finding recorded against a synced product.
// Negative inventory and missing SKUs are flags, not errors; they land
// here instead of failing the sync.
type Issue struct {
	ID          string     `json:"id" gorm:"type:uuid;primary_key"`
	ProductID   string     `json:"product_id" gorm:"not null"`
	Platform    string     `json:"platform" gorm:"not null"`
	Code        string     `json:"code" gorm:"not null"`
	Severity    string     `json:"severity" gorm:"not null"`
	Explanation string     `json:"explanation" gorm:"not null"`
	IsResolved  bool       `json:"is_resolved" gorm:"default:false"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type IssueSeverity string

const (
	IssueSeverityError   IssueSeverity = "ERROR"
	IssueSeverityWarning IssueSeverity = "WARNING"
	IssueSeverityInfo    IssueSeverity = "INFO"
)

const (
	IssueCodeNegativeInventory = "NEGATIVE_INVENTORY"
	IssueCodeMissingSKU        = "MISSING_SKU"
	IssueCodeMissingImage      = "MISSING_IMAGE"
)

func (i *Issue) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
