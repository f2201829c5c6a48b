package validation

import (
	"fmt"

	"gorm.io/gorm"

	"merchsync/internal/logger"
	"merchsync/internal/models"
)

// Validator scans synced products for data-quality flags. Flags are not
// errors: negative inventory or a missing SKU lands in the issues table
// instead of failing a sync.
type Validator struct {
	db     *gorm.DB
	logger *logger.Logger
}

func New(db *gorm.DB, logger *logger.Logger) *Validator {
	return &Validator{
		db:     db,
		logger: logger,
	}
}

// Check returns the findings for one product without touching storage.
func (v *Validator) Check(product *models.Product, platform string) []models.Issue {
	var issues []models.Issue

	for _, variant := range product.Variants {
		if variant.InventoryQuantity < 0 {
			issues = append(issues, models.Issue{
				ProductID:   product.ID,
				Platform:    platform,
				Code:        models.IssueCodeNegativeInventory,
				Severity:    string(models.IssueSeverityWarning),
				Explanation: fmt.Sprintf("variant %s reports inventory %d", variant.ID, variant.InventoryQuantity),
			})
		}
		if variant.SKU == "" {
			issues = append(issues, models.Issue{
				ProductID:   product.ID,
				Platform:    platform,
				Code:        models.IssueCodeMissingSKU,
				Severity:    string(models.IssueSeverityWarning),
				Explanation: fmt.Sprintf("variant %s has no SKU; cross-platform matching will fall back to the platform id", variant.ID),
			})
		}
	}

	if product.PrimaryImageURL == "" || product.PrimaryImageURL == models.PlaceholderImageURL {
		issues = append(issues, models.Issue{
			ProductID:   product.ID,
			Platform:    platform,
			Code:        models.IssueCodeMissingImage,
			Severity:    string(models.IssueSeverityInfo),
			Explanation: "product has no image; listings will show the placeholder",
		})
	}

	return issues
}

// Record stores findings, skipping ones already open for the same
// product and code so re-validation after every sync does not pile up
// duplicates.
func (v *Validator) Record(issues []models.Issue) error {
	for i := range issues {
		var count int64
		v.db.Model(&models.Issue{}).
			Where("product_id = ? AND code = ? AND is_resolved = ?", issues[i].ProductID, issues[i].Code, false).
			Count(&count)
		if count > 0 {
			continue
		}

		if err := v.db.Create(&issues[i]).Error; err != nil {
			return fmt.Errorf("failed to record issue: %w", err)
		}
	}
	return nil
}
