package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nearcart/nearcart-go/internal/application/services"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// HistoryHandlers contains the conversation history HTTP handlers.
type HistoryHandlers struct {
	history *services.HistoryService
	logger  *logging.ChanneledLogger
}

func NewHistoryHandlers(history *services.HistoryService, logger *logging.ChanneledLogger) *HistoryHandlers {
	return &HistoryHandlers{history: history, logger: logger}
}

// GetHistory handles GET /api/v1/customer/sessions/:sessionId/history.
func (h *HistoryHandlers) GetHistory(c *gin.Context) {
	conversations, err := h.history.List(c.Param("sessionId"))
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetHistoryExport handles GET /api/v1/customer/sessions/:sessionId/history/export.
func (h *HistoryHandlers) GetHistoryExport(c *gin.Context) {
	histories, err := h.history.Export(c.Param("sessionId"))
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": histories})
}

// DeleteHistory handles DELETE /api/v1/customer/sessions/:sessionId/history.
func (h *HistoryHandlers) DeleteHistory(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if err := h.history.Delete(sessionID); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Dialogue().Error("History deletion failed", "sessionId", sessionID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
