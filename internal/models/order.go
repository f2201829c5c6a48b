package models

import (
	"time"
)

type FinancialStatus string

const (
	FinancialStatusPending           FinancialStatus = "pending"
	FinancialStatusPaid              FinancialStatus = "paid"
	FinancialStatusRefunded          FinancialStatus = "refunded"
	FinancialStatusPartiallyRefunded FinancialStatus = "partially_refunded"
)

type FulfillmentStatus string

const (
	FulfillmentStatusUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentStatusFulfilled   FulfillmentStatus = "fulfilled"
)

type Order struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	CreatedAt         time.Time         `json:"created_at"`
	Customer          *OrderCustomer    `json:"customer,omitempty"`
	ShippingAddress   *Address          `json:"shipping_address,omitempty"`
	LineItems         []LineItem        `json:"line_items"`
	TotalPrice        string            `json:"total_price"`
	Currency          string            `json:"currency"`
	FinancialStatus   FinancialStatus   `json:"financial_status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status,omitempty"`
}

type OrderCustomer struct {
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
	Title    string `json:"title"`
	SKU      string `json:"sku,omitempty"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}
