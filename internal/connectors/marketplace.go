package connectors

import (
	"context"

	"merchsync/internal/credentials"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
)

// MarketplaceConnector covers platforms whose wire protocols are not
// integrated yet (Amazon SP-API, Walmart, eBay, Etsy, Wayfair). It tracks
// credential status so the dashboard can show connected/disconnected, and
// fetches fail with an UpstreamError rather than pretending to return data.
type MarketplaceConnector struct {
	platform models.Platform
	creds    *credentials.Store
	logger   *logger.Logger
}

func NewMarketplaceConnector(p models.Platform, creds *credentials.Store, log *logger.Logger) *MarketplaceConnector {
	return &MarketplaceConnector{
		platform: p,
		creds:    creds,
		logger:   log,
	}
}

func (mc *MarketplaceConnector) Platform() models.Platform {
	return mc.platform
}

func (mc *MarketplaceConnector) Status() bool {
	return mc.creds.Status(mc.platform)
}

func (mc *MarketplaceConnector) FetchProducts(ctx context.Context) ([]models.Product, error) {
	if !mc.Status() {
		return nil, &errs.ConfigurationError{Platform: mc.platform.String(), Reason: "no credentials on file"}
	}
	return nil, &errs.UpstreamError{
		Platform: mc.platform.String(),
		Status:   501,
		Message:  "integration not implemented",
	}
}

func (mc *MarketplaceConnector) FetchOrders(ctx context.Context, q OrderQuery) ([]models.Order, error) {
	if !mc.Status() {
		return nil, &errs.ConfigurationError{Platform: mc.platform.String(), Reason: "no credentials on file"}
	}
	return nil, &errs.UpstreamError{
		Platform: mc.platform.String(),
		Status:   501,
		Message:  "integration not implemented",
	}
}
