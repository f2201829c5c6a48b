package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"merchsync/internal/cache"
	"merchsync/internal/config"
	"merchsync/internal/connectors"
	"merchsync/internal/credentials"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/syncer"
	"merchsync/internal/website"
)

type ProductHandler struct {
	config *config.Config
	creds  *credentials.Store
	cache  *cache.Cache
	logger *logger.Logger
}

func NewProductHandler(cfg *config.Config, creds *credentials.Store, c *cache.Cache, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		config: cfg,
		creds:  creds,
		cache:  c,
		logger: log,
	}
}

// List serves products for one source. Fresh cache hits skip the upstream
// entirely; stale entries are still served when the refresh fails, with
// the failure in the logs rather than an empty page.
func (h *ProductHandler) List(c *gin.Context) {
	source := c.DefaultQuery("source", "shopify")
	trail := syncer.NewTrail()

	products, cached, stale, err := h.load(c, source, trail)
	if err != nil {
		status := http.StatusBadGateway
		if errs.IsConfiguration(err) {
			status = http.StatusPreconditionFailed
		}
		c.JSON(status, gin.H{"error": err.Error(), "logs": trail.Lines()})
		return
	}

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	end := min(start+limit, len(products))
	if start > len(products) {
		start = len(products)
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products[start:end],
		"logs":     trail.Lines(),
		"cached":   cached,
		"stale":    stale,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": len(products),
		},
	})
}

func (h *ProductHandler) load(c *gin.Context, source string, trail *syncer.Trail) ([]models.Product, bool, bool, error) {
	key := cache.Key{Resource: "products", Source: source}

	if data, stale, ok := h.cache.Get(key); ok && !stale {
		trail.Logf("serving %s products from cache", source)
		return data.([]models.Product), true, false, nil
	}

	products, err := h.fetch(c, source, trail)
	if err != nil {
		if data, _, ok := h.cache.Get(key); ok {
			trail.Logf("refresh failed, serving stale cache for %s: %v", source, err)
			return data.([]models.Product), true, true, nil
		}
		return nil, false, false, err
	}

	h.cache.Set(key, products)
	return products, false, false, nil
}

func (h *ProductHandler) fetch(c *gin.Context, source string, trail *syncer.Trail) ([]models.Product, error) {
	if source == "website" {
		return h.fetchWebsite(trail)
	}

	platform, ok := models.ParsePlatform(source)
	if !ok {
		return nil, &errs.ConfigurationError{Platform: source, Reason: "unknown platform"}
	}

	trail.Logf("starting fetch from %s", platform)
	conn := connectors.ForPlatform(platform, h.config, h.creds, h.logger)
	products, err := conn.FetchProducts(c.Request.Context())
	if err != nil {
		trail.Logf("error: %v", err)
		return nil, err
	}
	trail.Logf("fetched %d records from %s", len(products), platform)
	return products, nil
}

func (h *ProductHandler) fetchWebsite(trail *syncer.Trail) ([]models.Product, error) {
	trail.Logf("starting fetch from website datastore")
	ws, err := website.NewClient(h.config, h.logger)
	if err != nil {
		trail.Logf("error: %v", err)
		return nil, err
	}
	rows, err := ws.FetchAll()
	if err != nil {
		trail.Logf("error: %v", err)
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		var p models.Product
		if err := json.Unmarshal(row.ShopifyData, &p); err != nil {
			trail.Logf("skipping malformed row %s: %v", row.ID, err)
			continue
		}
		products = append(products, p)
	}
	trail.Logf("fetched %d records from website datastore", len(products))
	return products, nil
}

// Update is a pass-through write to the source platform; the upstream's
// canonical representation of the written record comes back.
func (h *ProductHandler) Update(c *gin.Context) {
	source := c.DefaultQuery("source", "shopify")
	if source != string(models.PlatformShopify) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "updates are only supported for shopify"})
		return
	}

	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID = c.Param("id")

	conn := connectors.NewShopifyConnector(h.config, h.creds, h.logger)
	written, err := conn.UpdateProduct(c.Request.Context(), &product)
	if err != nil {
		status := http.StatusBadGateway
		if errs.IsConfiguration(err) {
			status = http.StatusPreconditionFailed
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": written})
}
