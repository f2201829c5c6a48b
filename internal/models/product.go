package models

import (
	"time"
)

// PlaceholderImageURL is used when an upstream product carries no image.
const PlaceholderImageURL = "/placeholder.svg"

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is the canonical, platform-agnostic product shape every
// connector maps into.
type Product struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	DescriptionHTML string        `json:"description_html"`
	Vendor          string        `json:"vendor"`
	ProductType     string        `json:"product_type"`
	Tags            []string      `json:"tags"`
	Variants        []Variant     `json:"variants"`
	PrimaryImageURL string        `json:"primary_image_url"`
	Status          ProductStatus `json:"status"`
	UpdatedAt       time.Time     `json:"updated_at"`
	SourcePlatforms []string      `json:"source_platforms"`
}

// Variant keeps Price as the upstream's decimal string. Monetary values
// never pass through a float on their way to storage or display.
type Variant struct {
	ID                string `json:"id"`
	SKU               string `json:"sku,omitempty"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
}

// AddSourcePlatform records p as a contributing source. The set is
// append-only within a reconciliation pass.
func (pr *Product) AddSourcePlatform(p Platform) {
	for _, existing := range pr.SourcePlatforms {
		if existing == string(p) {
			return
		}
	}
	pr.SourcePlatforms = append(pr.SourcePlatforms, string(p))
}

// PrimarySKU returns the first variant's SKU, the cross-platform join key.
func (pr *Product) PrimarySKU() string {
	for _, v := range pr.Variants {
		if v.SKU != "" {
			return v.SKU
		}
	}
	return ""
}
