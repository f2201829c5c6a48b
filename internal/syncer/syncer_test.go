package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchsync/internal/connectors"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/website"
)

type fakeConnector struct {
	platform  models.Platform
	connected bool
	products  []models.Product
	err       error
}

func (f *fakeConnector) Platform() models.Platform { return f.platform }
func (f *fakeConnector) Status() bool              { return f.connected }

func (f *fakeConnector) FetchProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeConnector) FetchOrders(ctx context.Context, q connectors.OrderQuery) ([]models.Order, error) {
	return nil, f.err
}

type fakeUpserter struct {
	rows []website.Row
	err  error
}

func (f *fakeUpserter) UpsertBatch(rows []website.Row) (int, error) {
	f.rows = rows
	if f.err != nil {
		return 0, f.err
	}
	return len(rows), nil
}

func products(platform models.Platform, ids ...string) []models.Product {
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Product{
			ID:              string(platform) + "_" + id,
			Title:           "Product " + id,
			SourcePlatforms: []string{string(platform)},
		})
	}
	return out
}

func TestSyncAllTolerantOfOneFailingPlatform(t *testing.T) {
	conns := []connectors.Connector{
		&fakeConnector{platform: models.PlatformShopify, connected: true, products: products(models.PlatformShopify, "1", "2")},
		&fakeConnector{platform: models.PlatformAmazon, connected: true, err: &errs.UpstreamError{Platform: "amazon", Status: 503, Message: "down"}},
		&fakeConnector{platform: models.PlatformEbay, connected: true, products: products(models.PlatformEbay, "9")},
	}
	store := &fakeUpserter{}

	report := New(conns, store, nil, nil, logger.New("error")).SyncAll(context.Background())

	// One failing upstream never voids the others.
	require.Len(t, report.PerPlatform, 3)
	assert.Equal(t, 2, report.PerPlatform[models.PlatformShopify].Count)
	assert.Equal(t, 1, report.PerPlatform[models.PlatformEbay].Count)
	assert.Contains(t, report.PerPlatform[models.PlatformAmazon].Error, "down")

	assert.Equal(t, 3, report.Synced)
	assert.Len(t, store.rows, 3)
	assert.True(t, report.Success())
}

func TestSyncAllSkipsDisconnectedPlatforms(t *testing.T) {
	conns := []connectors.Connector{
		&fakeConnector{platform: models.PlatformShopify, connected: true, products: products(models.PlatformShopify, "1")},
		&fakeConnector{platform: models.PlatformWalmart, connected: false},
	}
	store := &fakeUpserter{}

	report := New(conns, store, nil, nil, logger.New("error")).SyncAll(context.Background())

	walmart := report.PerPlatform[models.PlatformWalmart]
	assert.False(t, walmart.Connected)
	assert.Equal(t, "not connected", walmart.Note)
	assert.Empty(t, walmart.Error)

	assert.Equal(t, 1, report.Synced)
}

func TestSyncAllWriteFailureKeepsFetchResults(t *testing.T) {
	conns := []connectors.Connector{
		&fakeConnector{platform: models.PlatformShopify, connected: true, products: products(models.PlatformShopify, "1", "2")},
	}
	store := &fakeUpserter{err: &errs.WriteError{Batch: 0, Err: errors.New("deadlock detected")}}

	report := New(conns, store, nil, nil, logger.New("error")).SyncAll(context.Background())

	// The fetch outcome stands; the write failure is reported alongside it.
	assert.Equal(t, 2, report.PerPlatform[models.PlatformShopify].Count)
	assert.Empty(t, report.PerPlatform[models.PlatformShopify].Error)
	assert.Contains(t, report.WriteError, "deadlock")
	assert.False(t, report.Success())
}

func TestSyncAllMergesAcrossPlatformsBySKU(t *testing.T) {
	shared := models.Product{
		ID:              "shopify_1",
		Title:           "Mug",
		SourcePlatforms: []string{"shopify"},
		Variants:        []models.Variant{{SKU: "MUG-1"}},
	}
	dupe := models.Product{
		ID:              "amazon_77",
		Title:           "Mug",
		SourcePlatforms: []string{"amazon"},
		Variants:        []models.Variant{{SKU: "MUG-1"}},
	}

	conns := []connectors.Connector{
		&fakeConnector{platform: models.PlatformShopify, connected: true, products: []models.Product{shared}},
		&fakeConnector{platform: models.PlatformAmazon, connected: true, products: []models.Product{dupe}},
	}
	store := &fakeUpserter{}

	report := New(conns, store, nil, nil, logger.New("error")).SyncAll(context.Background())

	// Two source records, one canonical row.
	assert.Equal(t, 1, report.Synced)
	require.Len(t, store.rows, 1)
}

func TestSyncAllNoConnectedPlatformsIsNotSuccess(t *testing.T) {
	conns := []connectors.Connector{
		&fakeConnector{platform: models.PlatformShopify, connected: false},
	}
	store := &fakeUpserter{}

	report := New(conns, store, nil, nil, logger.New("error")).SyncAll(context.Background())

	assert.Zero(t, report.Synced)
	assert.Empty(t, store.rows)
	assert.False(t, report.Success())
}

func TestSyncAllTrailBracketsTheRun(t *testing.T) {
	conns := []connectors.Connector{
		&fakeConnector{platform: models.PlatformShopify, connected: true, products: products(models.PlatformShopify, "1")},
	}
	store := &fakeUpserter{}

	report := New(conns, store, nil, nil, logger.New("error")).SyncAll(context.Background())

	require.NotEmpty(t, report.Logs)
	assert.Contains(t, report.Logs[0], "started")
	assert.Contains(t, report.Logs[len(report.Logs)-1], "finished")
}

func TestHandleFor(t *testing.T) {
	assert.Equal(t, "blue-ceramic-mug", handleFor("Blue Ceramic Mug"))
	assert.Equal(t, "mug-2-0", handleFor("  Mug 2.0! "))
	assert.Equal(t, "", handleFor("***"))
}
