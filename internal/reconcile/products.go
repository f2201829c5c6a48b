package reconcile

import (
	"sort"

	"merchsync/internal/models"
)

// MergeProducts joins products observed via multiple platforms. Within a
// single platform the id is the identity; across platforms ids cannot be
// assumed unique, so the join key is the SKU when one exists. Content
// fields follow the newest UpdatedAt; the source platform set only grows.
func MergeProducts(productsByPlatform map[models.Platform][]models.Product) []models.Product {
	platforms := make([]models.Platform, 0, len(productsByPlatform))
	for p := range productsByPlatform {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	byKey := make(map[string]*models.Product)
	var order []string

	for _, platform := range platforms {
		for i := range productsByPlatform[platform] {
			product := productsByPlatform[platform][i]
			product.AddSourcePlatform(platform)

			key := product.PrimarySKU()
			if key == "" {
				key = product.ID
			}

			existing, ok := byKey[key]
			if !ok {
				merged := product
				byKey[key] = &merged
				order = append(order, key)
				continue
			}

			sources := existing.SourcePlatforms
			if product.UpdatedAt.After(existing.UpdatedAt) {
				*existing = product
				existing.SourcePlatforms = sources
			}
			for _, s := range product.SourcePlatforms {
				if p, ok := models.ParsePlatform(s); ok {
					existing.AddSourcePlatform(p)
				}
			}
		}
	}

	merged := make([]models.Product, 0, len(byKey))
	for _, key := range order {
		merged = append(merged, *byKey[key])
	}
	return merged
}
