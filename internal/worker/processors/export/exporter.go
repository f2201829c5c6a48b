package export

import (
	"context"

	"merchsync/internal/config"
	"merchsync/internal/connectors"
	"merchsync/internal/credentials"
	"merchsync/internal/logger"
	"merchsync/internal/models"
)

// Exporter pushes locally optimized listing content back upstream. The
// write is the connector's idempotent pass-through update, so replaying
// an event is safe.
type Exporter struct {
	config *config.Config
	creds  *credentials.Store
	logger *logger.Logger
}

func New(cfg *config.Config, creds *credentials.Store, logger *logger.Logger) *Exporter {
	return &Exporter{
		config: cfg,
		creds:  creds,
		logger: logger,
	}
}

// PushProduct writes the product to its source storefront and returns the
// upstream's representation.
func (e *Exporter) PushProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	conn := connectors.NewShopifyConnector(e.config, e.creds, e.logger)
	return conn.UpdateProduct(ctx, product)
}
