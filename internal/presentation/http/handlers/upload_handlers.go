package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nearcart/nearcart-go/internal/application/services"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// UploadHandlers contains the attachment and voice upload HTTP handlers.
type UploadHandlers struct {
	attachments *services.AttachmentService
	logger      *logging.ChanneledLogger
}

func NewUploadHandlers(attachments *services.AttachmentService, logger *logging.ChanneledLogger) *UploadHandlers {
	return &UploadHandlers{attachments: attachments, logger: logger}
}

// PostAttachment handles POST /api/v1/customer/attachments (multipart:
// file, sessionId, conversationId).
func (h *UploadHandlers) PostAttachment(c *gin.Context) {
	sessionID, conversationID, contentType, payload, ok := h.readUpload(c)
	if !ok {
		return
	}

	attachment, err := h.attachments.Upload(c.Request.Context(), sessionID, conversationID, contentType, payload)
	if err != nil {
		h.logger.Media().Warn("Attachment upload rejected", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// PostVoice handles POST /api/v1/customer/voice. The transcript is part of
// the response; transcription failure is a user-visible error.
func (h *UploadHandlers) PostVoice(c *gin.Context) {
	sessionID, conversationID, contentType, payload, ok := h.readUpload(c)
	if !ok {
		return
	}

	attachment, voice, err := h.attachments.UploadVoice(c.Request.Context(), sessionID, conversationID, contentType, payload)
	if err != nil {
		h.logger.Media().Warn("Voice upload failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"attachment": attachment,
		"voiceInput": voice,
	})
}

func (h *UploadHandlers) readUpload(c *gin.Context) (sessionID, conversationID, contentType string, payload []byte, ok bool) {
	sessionID = c.PostForm("sessionId")
	conversationID = c.PostForm("conversationId")
	if sessionID == "" || conversationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId and conversationId are required"})
		return "", "", "", nil, false
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return "", "", "", nil, false
	}
	if fileHeader.Size > config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload size limit"})
		return "", "", "", nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return "", "", "", nil, false
	}
	defer file.Close()

	payload, err = io.ReadAll(io.LimitReader(file, config.MaxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return "", "", "", nil, false
	}
	if int64(len(payload)) > config.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload size limit"})
		return "", "", "", nil, false
	}

	return sessionID, conversationID, fileHeader.Header.Get("Content-Type"), payload, true
}
