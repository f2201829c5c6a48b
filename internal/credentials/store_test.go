package credentials

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"merchsync/internal/errs"
	"merchsync/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Credential{}))

	store, err := NewStore(db, "test-encryption-key")
	require.NoError(t, err)
	return store
}

func TestNewStoreRequiresKey(t *testing.T) {
	_, err := NewStore(nil, "")
	require.Error(t, err)

	var ce *errs.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}

func TestSaveValidatesRequiredFields(t *testing.T) {
	store := testStore(t)

	err := store.Save(models.PlatformShopify, map[string]string{
		"store_name": "demo-store",
		// access_token missing
	})
	require.Error(t, err)

	var ve *errs.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "access_token", ve.Field)

	// Whitespace-only is as good as absent.
	err = store.Save(models.PlatformAmazon, map[string]string{"api_key": "   "})
	require.Error(t, err)
}

func TestSaveResolveRoundTrip(t *testing.T) {
	store := testStore(t)

	fields := map[string]string{"store_name": "demo-store", "access_token": "shpat_secret"}
	require.NoError(t, store.Save(models.PlatformShopify, fields))

	resolved, ok, err := store.Resolve(models.PlatformShopify)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fields, resolved)
}

func TestSecretsEncryptedAtRest(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.Save(models.PlatformShopify, map[string]string{
		"store_name":   "demo-store",
		"access_token": "shpat_secret",
	}))

	var cred models.Credential
	require.NoError(t, store.db.First(&cred, "platform = ?", "shopify").Error)
	assert.NotContains(t, cred.Ciphertext, "shpat_secret")
	assert.NotContains(t, cred.Ciphertext, "demo-store")
}

func TestSaveOverwritesExisting(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Save(models.PlatformShopify, map[string]string{
		"store_name": "demo-store", "access_token": "old",
	}))
	require.NoError(t, store.Save(models.PlatformShopify, map[string]string{
		"store_name": "demo-store", "access_token": "new",
	}))

	resolved, ok, err := store.Resolve(models.PlatformShopify)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", resolved["access_token"])
}

func TestStatusIndependentAcrossPlatforms(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Save(models.PlatformShopify, map[string]string{
		"store_name": "demo-store", "access_token": "shpat_secret",
	}))

	// Saving X never flips Y's reported status.
	assert.True(t, store.Status(models.PlatformShopify))
	assert.False(t, store.Status(models.PlatformAmazon))
	assert.False(t, store.Status(models.PlatformWayfair))

	statuses := store.StatusAll()
	assert.True(t, statuses["shopify"])
	assert.False(t, statuses["amazon"])
	assert.Len(t, statuses, len(models.Platforms()))
}

func TestResolveAbsentPlatform(t *testing.T) {
	store := testStore(t)

	fields, ok, err := store.Resolve(models.PlatformEtsy)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, fields)
}
