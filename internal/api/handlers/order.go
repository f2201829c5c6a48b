package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"merchsync/internal/cache"
	"merchsync/internal/config"
	"merchsync/internal/connectors"
	"merchsync/internal/credentials"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/syncer"
)

type OrderHandler struct {
	config *config.Config
	creds  *credentials.Store
	cache  *cache.Cache
	logger *logger.Logger
}

func NewOrderHandler(cfg *config.Config, creds *credentials.Store, c *cache.Cache, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		config: cfg,
		creds:  creds,
		cache:  c,
		logger: log,
	}
}

// List serves orders for one source, optionally bounded by an inclusive
// created_at range. Only unfiltered fetches are cached; a range query
// always goes upstream.
func (h *OrderHandler) List(c *gin.Context) {
	source := c.DefaultQuery("source", "shopify")
	query := connectors.OrderQuery{
		CreatedAtMin: c.Query("created_at_min"),
		CreatedAtMax: c.Query("created_at_max"),
	}
	filtered := query.CreatedAtMin != "" || query.CreatedAtMax != ""

	platform, ok := models.ParsePlatform(source)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform: " + source})
		return
	}

	trail := syncer.NewTrail()
	key := cache.Key{Resource: "orders", Source: source}

	if !filtered {
		if data, stale, ok := h.cache.Get(key); ok && !stale {
			trail.Logf("serving %s orders from cache", source)
			c.JSON(http.StatusOK, gin.H{"orders": data, "logs": trail.Lines(), "cached": true})
			return
		}
	}

	trail.Logf("starting fetch from %s", platform)
	conn := connectors.ForPlatform(platform, h.config, h.creds, h.logger)
	orders, err := conn.FetchOrders(c.Request.Context(), query)
	if err != nil {
		trail.Logf("error: %v", err)
		status := http.StatusBadGateway
		if errs.IsConfiguration(err) {
			status = http.StatusPreconditionFailed
		}
		c.JSON(status, gin.H{"error": err.Error(), "logs": trail.Lines()})
		return
	}
	trail.Logf("fetched %d orders from %s", len(orders), platform)

	if !filtered {
		h.cache.Set(key, orders)
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "logs": trail.Lines(), "cached": false})
}
