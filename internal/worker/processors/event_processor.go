package processors

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"merchsync/internal/config"
	"merchsync/internal/credentials"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/syncer"
	"merchsync/internal/website"
	"merchsync/internal/worker/processors/ai"
	"merchsync/internal/worker/processors/export"
	"merchsync/internal/worker/processors/validation"
)

type EventProcessor struct {
	config      *config.Config
	logger      *logger.Logger
	validator   *validation.Validator
	aiOptimizer *ai.Optimizer
	exporter    *export.Exporter
}

func NewEventProcessor(cfg *config.Config, db *gorm.DB, creds *credentials.Store, logger *logger.Logger) *EventProcessor {
	return &EventProcessor{
		config:      cfg,
		logger:      logger,
		validator:   validation.New(db, logger),
		aiOptimizer: ai.New(cfg, logger),
		exporter:    export.New(cfg, creds, logger),
	}
}

func (ep *EventProcessor) Process(ctx context.Context, event syncer.Event) error {
	switch event.Type {
	case syncer.EventSyncCompleted:
		return ep.validateCatalog(ctx, event)
	case syncer.EventOptimizeRequested:
		return ep.optimizeProduct(ctx, event)
	default:
		ep.logger.Debug("ignoring event type: %s", event.Type)
		return nil
	}
}

// validateCatalog re-reads the synced catalog from the datastore and
// records data-quality findings.
func (ep *EventProcessor) validateCatalog(ctx context.Context, event syncer.Event) error {
	ws, err := website.NewClient(ep.config, ep.logger)
	if err != nil {
		return err
	}

	rows, err := ws.FetchAll()
	if err != nil {
		return fmt.Errorf("failed to load catalog for validation: %w", err)
	}

	checked, flagged := 0, 0
	for _, row := range rows {
		var product models.Product
		if err := json.Unmarshal(row.ShopifyData, &product); err != nil {
			ep.logger.Warn("skipping malformed row %s: %v", row.ID, err)
			continue
		}
		checked++

		platform := ""
		if len(product.SourcePlatforms) > 0 {
			platform = product.SourcePlatforms[0]
		}

		issues := ep.validator.Check(&product, platform)
		if len(issues) == 0 {
			continue
		}
		flagged++
		if err := ep.validator.Record(issues); err != nil {
			return err
		}
	}

	ep.logger.Info("validated %d products after run %s, %d flagged", checked, event.RunID, flagged)
	return nil
}

// optimizeProduct rewrites one product's copy for a marketplace and pushes
// the result back upstream.
func (ep *EventProcessor) optimizeProduct(ctx context.Context, event syncer.Event) error {
	if event.ProductID == "" {
		return fmt.Errorf("optimize event without product_id")
	}

	ws, err := website.NewClient(ep.config, ep.logger)
	if err != nil {
		return err
	}
	rows, err := ws.FetchAll()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	var product *models.Product
	for _, row := range rows {
		if row.ID != event.ProductID {
			continue
		}
		var p models.Product
		if err := json.Unmarshal(row.ShopifyData, &p); err != nil {
			return fmt.Errorf("stored product %s is malformed: %w", row.ID, err)
		}
		product = &p
		break
	}
	if product == nil {
		return fmt.Errorf("product %s not found in datastore", event.ProductID)
	}

	title, err := ep.aiOptimizer.OptimizeTitle(product.Title, event.Marketplace)
	if err != nil {
		return err
	}
	body, err := ep.aiOptimizer.OptimizeContent(product.DescriptionHTML, event.Marketplace)
	if err != nil {
		return err
	}

	product.Title = title
	product.DescriptionHTML = body

	if _, err := ep.exporter.PushProduct(ctx, product); err != nil {
		return err
	}

	ep.logger.Info("optimized and pushed product %s for %s", product.ID, event.Marketplace)
	return nil
}
