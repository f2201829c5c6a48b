package shopify

import (
	"time"
)

// Product represents a Shopify product as returned by the Admin REST API.
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	BodyHTML    string     `json:"body_html"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Handle      string     `json:"handle"`
	Status      string     `json:"status"`
	Tags        string     `json:"tags"`
	Variants    []Variant  `json:"variants"`
	Image       *Image     `json:"image"`
	Images      []Image    `json:"images"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`
}

// Variant carries Price as a string; Shopify serializes money as decimal
// strings and we keep them that way.
type Variant struct {
	ID                int64   `json:"id"`
	ProductID         int64   `json:"product_id"`
	Title             string  `json:"title"`
	Price             string  `json:"price"`
	Sku               string  `json:"sku"`
	Position          int     `json:"position"`
	CompareAtPrice    *string `json:"compare_at_price"`
	Barcode           *string `json:"barcode"`
	InventoryQuantity int     `json:"inventory_quantity"`
}

type Image struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	Src      string `json:"src"`
}

// Order represents a Shopify order.
type Order struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	CreatedAt         time.Time       `json:"created_at"`
	Customer          *OrderCustomer  `json:"customer"`
	ShippingAddress   *Address        `json:"shipping_address"`
	LineItems         []LineItem      `json:"line_items"`
	TotalPrice        string          `json:"total_price"`
	Currency          string          `json:"currency"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus *string         `json:"fulfillment_status"`
}

type OrderCustomer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Address struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Province string `json:"province"`
	Country  string `json:"country"`
	Zip      string `json:"zip"`
}

type LineItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Sku      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// ProductsResponse represents the response from the products API.
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// OrdersResponse represents the response from the orders API.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}
