// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nearcart/nearcart-go/internal/application/services"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// SessionHandlers contains the customer session HTTP handlers.
type SessionHandlers struct {
	sessions *services.SessionService
	logger   *logging.ChanneledLogger
}

func NewSessionHandlers(sessions *services.SessionService, logger *logging.ChanneledLogger) *SessionHandlers {
	return &SessionHandlers{sessions: sessions, logger: logger}
}

type createSessionRequest struct {
	SessionID string  `json:"sessionId"`
	DeviceID  *string `json:"deviceId"`
}

// PostSession handles POST /api/v1/customer/sessions. An existing live
// session id is refreshed; anything else yields a fresh session.
func (h *SessionHandlers) PostSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var userAgent *string
	if ua := c.Request.UserAgent(); ua != "" {
		userAgent = &ua
	}

	session, created, err := h.sessions.Resolve(req.SessionID, req.DeviceID, userAgent)
	if err != nil {
		h.logger.Dialogue().Error("Session resolution failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, session)
}

// GetSession handles GET /api/v1/customer/sessions/:sessionId.
func (h *SessionHandlers) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}
