package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"merchsync/internal/errs"
	"merchsync/internal/logger"
)

type Client struct {
	// BaseURL is derived from the store name; overridable in tests.
	BaseURL string

	accessToken string
	apiVersion  string
	httpClient  *http.Client
	logger      *logger.Logger
}

func NewClient(storeName, accessToken, apiVersion string, logger *logger.Logger) *Client {
	return &Client{
		BaseURL:     fmt.Sprintf("https://%s.myshopify.com", storeName),
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// GetProducts fetches all products from Shopify.
func (c *Client) GetProducts(ctx context.Context) ([]Product, error) {
	url := fmt.Sprintf("%s/admin/api/%s/products.json", c.BaseURL, c.apiVersion)

	var productsResp ProductsResponse
	if err := c.get(ctx, url, nil, &productsResp); err != nil {
		return nil, err
	}

	return productsResp.Products, nil
}

// GetOrders fetches orders, optionally bounded by an inclusive created_at
// range. Empty bounds fetch the full set.
func (c *Client) GetOrders(ctx context.Context, createdAtMin, createdAtMax string) ([]Order, error) {
	url := fmt.Sprintf("%s/admin/api/%s/orders.json", c.BaseURL, c.apiVersion)

	params := map[string]string{"status": "any"}
	if createdAtMin != "" {
		params["created_at_min"] = createdAtMin
	}
	if createdAtMax != "" {
		params["created_at_max"] = createdAtMax
	}

	var ordersResp OrdersResponse
	if err := c.get(ctx, url, params, &ordersResp); err != nil {
		return nil, err
	}

	return ordersResp.Orders, nil
}

// CreateProduct writes a new product to Shopify and returns the upstream's
// canonical representation of it.
func (c *Client) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	url := fmt.Sprintf("%s/admin/api/%s/products.json", c.BaseURL, c.apiVersion)
	return c.write(ctx, http.MethodPost, url, product)
}

// UpdateProduct updates an existing product in Shopify. The write is a
// plain PUT keyed on the product id, so repeating it is safe.
func (c *Client) UpdateProduct(ctx context.Context, product *Product) (*Product, error) {
	url := fmt.Sprintf("%s/admin/api/%s/products/%d.json", c.BaseURL, c.apiVersion, product.ID)
	return c.write(ctx, http.MethodPut, url, product)
}

func (c *Client) get(ctx context.Context, url string, params map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &errs.UpstreamError{Platform: "shopify", Status: resp.StatusCode, Message: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) write(ctx context.Context, method, url string, product *Product) (*Product, error) {
	payload := struct {
		Product Product `json:"product"`
	}{
		Product: *product,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Shopify-Access-Token", c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &errs.UpstreamError{Platform: "shopify", Status: resp.StatusCode, Message: string(body)}
	}

	var productResp struct {
		Product Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&productResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &productResp.Product, nil
}
