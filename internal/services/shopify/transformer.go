package shopify

import (
	"fmt"
	"strings"

	"merchsync/internal/models"
)

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformProduct converts a Shopify product to the canonical format.
// Missing optional fields degrade to defaults instead of failing the
// whole fetch; price strings are carried through untouched.
func (t *Transformer) TransformProduct(sp *Product) models.Product {
	variants := make([]models.Variant, len(sp.Variants))
	for i, v := range sp.Variants {
		variants[i] = models.Variant{
			ID:                fmt.Sprintf("%d", v.ID),
			SKU:               v.Sku,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
		}
	}

	imageURL := models.PlaceholderImageURL
	if sp.Image != nil && sp.Image.Src != "" {
		imageURL = sp.Image.Src
	} else if len(sp.Images) > 0 && sp.Images[0].Src != "" {
		imageURL = sp.Images[0].Src
	}

	tags := []string{}
	if sp.Tags != "" {
		for _, tag := range strings.Split(sp.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	status := models.ProductStatus(sp.Status)
	switch status {
	case models.ProductStatusActive, models.ProductStatusDraft, models.ProductStatusArchived:
	default:
		status = models.ProductStatusDraft
	}

	return models.Product{
		ID:              fmt.Sprintf("shopify_%d", sp.ID),
		Title:           sp.Title,
		DescriptionHTML: sp.BodyHTML,
		Vendor:          sp.Vendor,
		ProductType:     sp.ProductType,
		Tags:            tags,
		Variants:        variants,
		PrimaryImageURL: imageURL,
		Status:          status,
		UpdatedAt:       sp.UpdatedAt,
		SourcePlatforms: []string{string(models.PlatformShopify)},
	}
}

// TransformOrder converts a Shopify order to the canonical format.
func (t *Transformer) TransformOrder(so *Order) models.Order {
	lineItems := make([]models.LineItem, len(so.LineItems))
	for i, li := range so.LineItems {
		lineItems[i] = models.LineItem{
			Title:    li.Title,
			SKU:      li.Sku,
			Quantity: li.Quantity,
			Price:    li.Price,
		}
	}

	var customer *models.OrderCustomer
	if so.Customer != nil {
		customer = &models.OrderCustomer{
			Email:     so.Customer.Email,
			FirstName: so.Customer.FirstName,
			LastName:  so.Customer.LastName,
		}
	} else if so.Email != "" {
		// Older API versions put the email on the order itself.
		customer = &models.OrderCustomer{Email: so.Email}
	}

	var shipping *models.Address
	if so.ShippingAddress != nil {
		shipping = &models.Address{
			Address1: so.ShippingAddress.Address1,
			City:     so.ShippingAddress.City,
			Province: so.ShippingAddress.Province,
			Country:  so.ShippingAddress.Country,
			Zip:      so.ShippingAddress.Zip,
		}
	}

	fulfillment := models.FulfillmentStatusUnfulfilled
	if so.FulfillmentStatus != nil && *so.FulfillmentStatus == "fulfilled" {
		fulfillment = models.FulfillmentStatusFulfilled
	}

	financial := models.FinancialStatus(so.FinancialStatus)
	switch financial {
	case models.FinancialStatusPending, models.FinancialStatusPaid,
		models.FinancialStatusRefunded, models.FinancialStatusPartiallyRefunded:
	default:
		financial = models.FinancialStatusPending
	}

	return models.Order{
		ID:                fmt.Sprintf("shopify_%d", so.ID),
		Name:              so.Name,
		CreatedAt:         so.CreatedAt,
		Customer:          customer,
		ShippingAddress:   shipping,
		LineItems:         lineItems,
		TotalPrice:        so.TotalPrice,
		Currency:          so.Currency,
		FinancialStatus:   financial,
		FulfillmentStatus: fulfillment,
	}
}

// TransformToShopify converts a canonical product back to the wire shape
// for pass-through writes.
func (t *Transformer) TransformToShopify(p *models.Product) *Product {
	var id int64
	fmt.Sscanf(p.ID, "shopify_%d", &id)

	variants := make([]Variant, len(p.Variants))
	for i, v := range p.Variants {
		var vid int64
		fmt.Sscanf(v.ID, "%d", &vid)
		variants[i] = Variant{
			ID:                vid,
			Sku:               v.SKU,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
		}
	}

	return &Product{
		ID:          id,
		Title:       p.Title,
		BodyHTML:    p.DescriptionHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Status:      string(p.Status),
		Tags:        strings.Join(p.Tags, ", "),
		Variants:    variants,
	}
}
