package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"merchsync/internal/config"
	"merchsync/internal/connectors"
	"merchsync/internal/credentials"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/reconcile"
	"merchsync/internal/syncer"
)

type CustomerHandler struct {
	config *config.Config
	creds  *credentials.Store
	logger *logger.Logger
}

func NewCustomerHandler(cfg *config.Config, creds *credentials.Store, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		config: cfg,
		creds:  creds,
		logger: log,
	}
}

// List merges customers across every connected platform. Platforms fetch
// concurrently and settle independently; a failing platform contributes a
// log line, never an aborted response.
func (h *CustomerHandler) List(c *gin.Context) {
	trail := syncer.NewTrail()
	ordersByPlatform := h.collectOrders(c, trail)

	customers := reconcile.MergeCustomers(ordersByPlatform)
	trail.Logf("merged %d customers across %d platforms", len(customers), len(ordersByPlatform))

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"logs":      trail.Lines(),
	})
}

// Revenue totals order prices per currency with exact decimal arithmetic.
func (h *CustomerHandler) Revenue(c *gin.Context) {
	trail := syncer.NewTrail()
	ordersByPlatform := h.collectOrders(c, trail)

	var all []models.Order
	for _, orders := range ordersByPlatform {
		all = append(all, orders...)
	}

	c.JSON(http.StatusOK, gin.H{
		"revenue": reconcile.RevenueByCurrency(all),
		"orders":  len(all),
		"logs":    trail.Lines(),
	})
}

func (h *CustomerHandler) collectOrders(c *gin.Context, trail *syncer.Trail) map[models.Platform][]models.Order {
	ordersByPlatform := make(map[models.Platform][]models.Order)

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, platform := range models.Platforms() {
		conn := connectors.ForPlatform(platform, h.config, h.creds, h.logger)
		if !conn.Status() {
			trail.Logf("skipping %s: not connected", platform)
			continue
		}

		wg.Add(1)
		go func(conn connectors.Connector) {
			defer wg.Done()
			trail.Logf("starting fetch from %s", conn.Platform())
			orders, err := conn.FetchOrders(c.Request.Context(), connectors.OrderQuery{})
			if err != nil {
				trail.Logf("error fetching from %s: %v", conn.Platform(), err)
				return
			}
			trail.Logf("fetched %d orders from %s", len(orders), conn.Platform())
			mu.Lock()
			ordersByPlatform[conn.Platform()] = orders
			mu.Unlock()
		}(conn)
	}
	wg.Wait()

	return ordersByPlatform
}
