package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"merchsync/internal/credentials"
	"merchsync/internal/errs"
	"merchsync/internal/logger"
	"merchsync/internal/models"
)

type CredentialHandler struct {
	store  *credentials.Store
	logger *logger.Logger
}

func NewCredentialHandler(store *credentials.Store, log *logger.Logger) *CredentialHandler {
	return &CredentialHandler{
		store:  store,
		logger: log,
	}
}

// Status reports connected/disconnected per platform. Raw secret values
// never leave the store through this surface.
func (h *CredentialHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.StatusAll())
}

// Save validates and stores one platform's credentials. Validation is
// structural only; a saved credential means "on file", not "verified".
func (h *CredentialHandler) Save(c *gin.Context) {
	var req struct {
		Platform string            `json:"platform" binding:"required"`
		Fields   map[string]string `json:"fields" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platform, ok := models.ParsePlatform(req.Platform)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown platform: " + req.Platform})
		return
	}

	if err := h.store.Save(platform, req.Fields); err != nil {
		var ve *errs.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error()})
			return
		}
		h.logger.Error("failed to save credentials: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Credentials saved",
		"platform": platform.String(),
	})
}
