package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"merchsync/internal/config"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/syncer"
	"merchsync/internal/worker/processors/ai"
)

type OptimizerHandler struct {
	optimizer *ai.Optimizer
	events    *syncer.EventPublisher
	logger    *logger.Logger
}

func NewOptimizerHandler(cfg *config.Config, events *syncer.EventPublisher, log *logger.Logger) *OptimizerHandler {
	return &OptimizerHandler{
		optimizer: ai.New(cfg, log),
		events:    events,
		logger:    log,
	}
}

// OptimizeContent rewrites listing copy for a target marketplace.
// POST /api/v1/optimizer/content
func (h *OptimizerHandler) OptimizeContent(c *gin.Context) {
	var req struct {
		Content     string `json:"content" binding:"required"`
		Marketplace string `json:"marketplace" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	optimized, err := h.optimizer.OptimizeContent(req.Content, req.Marketplace)
	if err != nil {
		status := http.StatusBadGateway
		if errs.IsConfiguration(err) {
			status = http.StatusPreconditionFailed
		}
		h.logger.Error("content optimization failed: %v", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":     optimized,
		"marketplace": req.Marketplace,
	})
}

// Apply queues a full optimize-and-push of one synced product. The worker
// picks the event up, rewrites the copy and writes it back upstream.
// POST /api/v1/optimizer/products/:id/apply
func (h *OptimizerHandler) Apply(c *gin.Context) {
	var req struct {
		Marketplace string `json:"marketplace" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.events == nil {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "event publishing is not configured"})
		return
	}

	event := syncer.Event{
		Type:        syncer.EventOptimizeRequested,
		ProductID:   c.Param("id"),
		Marketplace: req.Marketplace,
		Timestamp:   time.Now().UTC(),
	}
	if err := h.events.Publish(c.Request.Context(), event); err != nil {
		h.logger.Error("failed to queue optimize request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue optimize request"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":    "Optimization queued",
		"product_id": event.ProductID,
	})
}
