package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nearcart/nearcart-go/internal/application/services"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// ConversationHandlers contains the dialogue HTTP handlers: conversation
// lifecycle, message turns, and the direct search entry point.
type ConversationHandlers struct {
	conversations *services.ConversationService
	search        *services.SearchService
	logger        *logging.ChanneledLogger
}

func NewConversationHandlers(conversations *services.ConversationService, search *services.SearchService, logger *logging.ChanneledLogger) *ConversationHandlers {
	return &ConversationHandlers{conversations: conversations, search: search, logger: logger}
}

type createConversationRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// PostConversation handles POST /api/v1/customer/conversations.
func (h *ConversationHandlers) PostConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}

	conv, err := h.conversations.Create(req.SessionID)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Dialogue().Error("Conversation creation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conv)
}

// GetConversation handles GET /api/v1/customer/conversations/:conversationId.
func (h *ConversationHandlers) GetConversation(c *gin.Context) {
	conv, err := h.conversations.Get(c.Param("conversationId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}
	if conv == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

type postMessageRequest struct {
	Text          string             `json:"text"`
	AttachmentIDs []string           `json:"attachments"`
	Geo           *dialogue.GeoPoint `json:"geo"`
	RadiusMeters  *float64           `json:"radiusMeters"`
}

// PostMessage handles POST /api/v1/customer/conversations/:conversationId/messages.
// The response carries either clarification questions or result items.
func (h *ConversationHandlers) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	out, err := h.conversations.HandleMessage(c.Request.Context(), services.TurnInput{
		ConversationID: c.Param("conversationId"),
		Text:           req.Text,
		AttachmentIDs:  req.AttachmentIDs,
		Geo:            req.Geo,
		RadiusMeters:   req.RadiusMeters,
	})
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Dialogue().Error("Message handling failed",
			"conversationId", c.Param("conversationId"), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process message"})
		return
	}

	c.JSON(http.StatusOK, out)
}

type directSearchRequest struct {
	ConversationID string            `json:"conversationId" binding:"required"`
	Text           string            `json:"text" binding:"required"`
	Geo            dialogue.GeoPoint `json:"geo" binding:"required"`
	RadiusMeters   *float64          `json:"radiusMeters"`
}

// PostDirectSearch handles POST /api/v1/customer/search. It skips the
// clarification loop and searches the full candidate set at once.
func (h *ConversationHandlers) PostDirectSearch(c *gin.Context) {
	var req directSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId, text, and geo are required"})
		return
	}

	out, err := h.conversations.DirectSearch(c.Request.Context(), req.ConversationID, req.Text, req.Geo, req.RadiusMeters)
	if err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logger.Search().Error("Direct search failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, out)
}

// GetResult handles GET /api/v1/customer/results/:requestId, fetching the
// stored result for a search request.
func (h *ConversationHandlers) GetResult(c *gin.Context) {
	requestID := c.Param("requestId")

	request, err := h.search.GetRequest(requestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load search request"})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "search request not found"})
		return
	}

	result, err := h.search.GetResultByRequestID(requestID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load search result"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "search result not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
