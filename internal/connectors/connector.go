package connectors

import (
	"context"

	"merchsync/internal/config"
	"merchsync/internal/credentials"
	"merchsync/internal/logger"
	"merchsync/internal/models"
)

// OrderQuery bounds an order fetch by an inclusive created_at range.
// Empty bounds fetch the full set. Values are RFC 3339 timestamps.
type OrderQuery struct {
	CreatedAtMin string
	CreatedAtMax string
}

// Connector fetches records from one upstream platform and maps them into
// the canonical shape. Connectors never retry; retry policy belongs to the
// caller.
type Connector interface {
	Platform() models.Platform
	// Status reports whether credentials are on file. It is a
	// precondition to attempt a fetch, not a guarantee of success.
	Status() bool
	FetchProducts(ctx context.Context) ([]models.Product, error)
	FetchOrders(ctx context.Context, q OrderQuery) ([]models.Order, error)
}

// ForPlatform returns the connector for a platform. Dispatch is over the
// closed platform enum; marketplaces without a full integration get the
// stub connector.
func ForPlatform(p models.Platform, cfg *config.Config, creds *credentials.Store, log *logger.Logger) Connector {
	switch p {
	case models.PlatformShopify:
		return NewShopifyConnector(cfg, creds, log)
	case models.PlatformAmazon, models.PlatformWalmart, models.PlatformEbay,
		models.PlatformEtsy, models.PlatformWayfair:
		return NewMarketplaceConnector(p, creds, log)
	default:
		return NewMarketplaceConnector(p, creds, log)
	}
}

// All returns a connector for every known platform.
func All(cfg *config.Config, creds *credentials.Store, log *logger.Logger) []Connector {
	platforms := models.Platforms()
	conns := make([]Connector, 0, len(platforms))
	for _, p := range platforms {
		conns = append(conns, ForPlatform(p, cfg, creds, log))
	}
	return conns
}
