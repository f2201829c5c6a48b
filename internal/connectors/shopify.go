package connectors

import (
	"context"

	"merchsync/internal/config"
	"merchsync/internal/credentials"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/services/shopify"
)

// ShopifyConnector is the one fully implemented storefront connector.
// Credentials are resolved per call so a freshly saved token takes effect
// without a restart.
type ShopifyConnector struct {
	config *config.Config
	creds  *credentials.Store
	logger *logger.Logger

	// newClient is swapped in tests to point at a fake upstream.
	newClient func(storeName, accessToken string) *shopify.Client
}

func NewShopifyConnector(cfg *config.Config, creds *credentials.Store, log *logger.Logger) *ShopifyConnector {
	sc := &ShopifyConnector{
		config: cfg,
		creds:  creds,
		logger: log,
	}
	sc.newClient = func(storeName, accessToken string) *shopify.Client {
		return shopify.NewClient(storeName, accessToken, cfg.ShopifyAPIVersion, log)
	}
	return sc
}

func (sc *ShopifyConnector) Platform() models.Platform {
	return models.PlatformShopify
}

func (sc *ShopifyConnector) Status() bool {
	return sc.creds.Status(models.PlatformShopify)
}

// client resolves credentials and builds a wire client. A missing or
// malformed credential set fails with a ConfigurationError before any
// network call happens.
func (sc *ShopifyConnector) client() (*shopify.Client, error) {
	fields, ok, err := sc.creds.Resolve(models.PlatformShopify)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &errs.ConfigurationError{Platform: "shopify", Reason: "no credentials on file"}
	}
	if fields["store_name"] == "" || fields["access_token"] == "" {
		return nil, &errs.ConfigurationError{Platform: "shopify", Reason: "store_name and access_token are required"}
	}
	return sc.newClient(fields["store_name"], fields["access_token"]), nil
}

func (sc *ShopifyConnector) FetchProducts(ctx context.Context) ([]models.Product, error) {
	client, err := sc.client()
	if err != nil {
		return nil, err
	}

	raw, err := client.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	transformer := shopify.NewTransformer()
	products := make([]models.Product, 0, len(raw))
	for i := range raw {
		products = append(products, transformer.TransformProduct(&raw[i]))
	}

	sc.logger.Debug("fetched %d products from shopify", len(products))
	return products, nil
}

func (sc *ShopifyConnector) FetchOrders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	client, err := sc.client()
	if err != nil {
		return nil, err
	}

	raw, err := client.GetOrders(ctx, q.CreatedAtMin, q.CreatedAtMax)
	if err != nil {
		return nil, err
	}

	transformer := shopify.NewTransformer()
	orders := make([]models.Order, 0, len(raw))
	for i := range raw {
		orders = append(orders, transformer.TransformOrder(&raw[i]))
	}

	sc.logger.Debug("fetched %d orders from shopify", len(orders))
	return orders, nil
}

// CreateProduct is a pass-through write; the upstream's representation of
// the written record comes back mapped to the canonical shape.
func (sc *ShopifyConnector) CreateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	client, err := sc.client()
	if err != nil {
		return nil, err
	}

	transformer := shopify.NewTransformer()
	written, err := client.CreateProduct(ctx, transformer.TransformToShopify(p))
	if err != nil {
		return nil, err
	}

	result := transformer.TransformProduct(written)
	return &result, nil
}

// UpdateProduct is a pass-through write keyed on the product id, safe to
// repeat.
func (sc *ShopifyConnector) UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	client, err := sc.client()
	if err != nil {
		return nil, err
	}

	transformer := shopify.NewTransformer()
	written, err := client.UpdateProduct(ctx, transformer.TransformToShopify(p))
	if err != nil {
		return nil, err
	}

	result := transformer.TransformProduct(written)
	return &result, nil
}
