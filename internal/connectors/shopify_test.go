package connectors

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"merchsync/internal/config"
	"merchsync/internal/credentials"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/services/shopify"
)

func testCredentials(t *testing.T) *credentials.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Credential{}))

	store, err := credentials.NewStore(db, "test-encryption-key")
	require.NoError(t, err)
	return store
}

func TestShopifyConnectorFailsFastWithoutCredentials(t *testing.T) {
	creds := testCredentials(t)
	conn := NewShopifyConnector(&config.Config{ShopifyAPIVersion: "2023-10"}, creds, logger.New("error"))

	clientBuilt := false
	conn.newClient = func(storeName, accessToken string) *shopify.Client {
		clientBuilt = true
		return nil
	}

	_, err := conn.FetchProducts(context.Background())
	require.Error(t, err)

	// Misconfiguration is caught before any client exists, let alone a
	// network call.
	var ce *errs.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "shopify", ce.Platform)
	assert.False(t, clientBuilt)
	assert.False(t, conn.Status())
}

func TestShopifyConnectorUsesFreshlySavedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_token", r.Header.Get("X-Shopify-Access-Token"))
		w.Write([]byte(`{"products":[{"id":1,"title":"Mug"}]}`))
	}))
	defer srv.Close()

	creds := testCredentials(t)
	log := logger.New("error")
	conn := NewShopifyConnector(&config.Config{ShopifyAPIVersion: "2023-10"}, creds, log)
	conn.newClient = func(storeName, accessToken string) *shopify.Client {
		client := shopify.NewClient(storeName, accessToken, "2023-10", log)
		client.BaseURL = srv.URL
		return client
	}

	// Credentials are resolved per call, so a save after construction
	// takes effect without rebuilding the connector.
	require.NoError(t, creds.Save(models.PlatformShopify, map[string]string{
		"store_name":   "demo-store",
		"access_token": "shpat_token",
	}))
	assert.True(t, conn.Status())

	products, err := conn.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "shopify_1", products[0].ID)
}

func TestMarketplaceConnectorNotImplemented(t *testing.T) {
	creds := testCredentials(t)
	conn := NewMarketplaceConnector(models.PlatformWayfair, creds, logger.New("error"))

	assert.Equal(t, models.PlatformWayfair, conn.Platform())

	// Without credentials the failure is a configuration one.
	_, err := conn.FetchProducts(context.Background())
	var ce *errs.ConfigurationError
	require.True(t, errors.As(err, &ce))

	// With credentials on file, the missing integration surfaces as a
	// 501 from the connector itself.
	require.NoError(t, creds.Save(models.PlatformWayfair, map[string]string{"api_key": "wf-key"}))

	_, err = conn.FetchProducts(context.Background())
	var ue *errs.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusNotImplemented, ue.Status)
}

func TestForPlatformDispatch(t *testing.T) {
	creds := testCredentials(t)
	cfg := &config.Config{ShopifyAPIVersion: "2023-10"}
	log := logger.New("error")

	assert.IsType(t, &ShopifyConnector{}, ForPlatform(models.PlatformShopify, cfg, creds, log))
	assert.Equal(t, models.PlatformEtsy, ForPlatform(models.PlatformEtsy, cfg, creds, log).Platform())

	all := All(cfg, creds, log)
	assert.Len(t, all, len(models.Platforms()))
}
