package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"merchsync/internal/config"
	"merchsync/internal/connectors"
	"merchsync/internal/credentials"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
	"merchsync/internal/syncer"
	"merchsync/internal/website"
)

type SyncHandler struct {
	config *config.Config
	db     *gorm.DB
	creds  *credentials.Store
	events *syncer.EventPublisher
	logger *logger.Logger
}

func NewSyncHandler(cfg *config.Config, db *gorm.DB, creds *credentials.Store, events *syncer.EventPublisher, log *logger.Logger) *SyncHandler {
	return &SyncHandler{
		config: cfg,
		db:     db,
		creds:  creds,
		events: events,
		logger: log,
	}
}

// Sync runs the full pipeline and returns the report. Partial success is
// success with caveats; every error string in the report is rendered
// verbatim for the debug panel.
func (h *SyncHandler) Sync(c *gin.Context) {
	store, err := website.NewClient(h.config, h.logger)
	if err != nil {
		// Datastore config is checked at the point of use.
		status := http.StatusInternalServerError
		if errs.IsConfiguration(err) {
			status = http.StatusPreconditionFailed
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	conns := connectors.All(h.config, h.creds, h.logger)
	s := syncer.New(conns, store, h.db, h.events, h.logger)
	report := s.SyncAll(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"success": report.Success(),
		"count":   report.Synced,
		"error":   report.WriteError,
		"report":  report,
	})
}

// History lists recent sync runs, newest first.
func (h *SyncHandler) History(c *gin.Context) {
	var runs []models.SyncRun
	if err := h.db.Order("created_at DESC").Limit(20).Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sync runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
