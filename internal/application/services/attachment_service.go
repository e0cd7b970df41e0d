package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/domain/repositories"
	"github.com/nearcart/nearcart-go/internal/infrastructure/ai"
	"github.com/nearcart/nearcart-go/internal/infrastructure/media"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/infrastructure/security"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// ObjectStore persists a binary payload and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}

// Transcriber converts an audio stream to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (*ai.Transcription, error)
}

// allowedMIMETypes is the fixed upload allow-list, keyed by content type with
// the derived attachment kind.
var allowedMIMETypes = map[string]dialogue.AttachmentKind{
	"image/jpeg": dialogue.AttachmentImage,
	"image/png":  dialogue.AttachmentImage,
	"image/gif":  dialogue.AttachmentImage,
	"image/webp": dialogue.AttachmentImage,
	"audio/mpeg": dialogue.AttachmentAudio,
	"audio/mp4":  dialogue.AttachmentAudio,
	"audio/ogg":  dialogue.AttachmentAudio,
	"audio/wav":  dialogue.AttachmentAudio,
	"audio/webm": dialogue.AttachmentAudio,
}

// AttachmentService handles customer uploads: images are stored with their
// dimensions recorded, voice recordings are stored and transcribed.
type AttachmentService struct {
	attachments repositories.AttachmentRepository
	voices      repositories.VoiceInputRepository
	store       ObjectStore
	transcriber Transcriber
	logger      *logging.ChanneledLogger
}

func NewAttachmentService(
	attachments repositories.AttachmentRepository,
	voices repositories.VoiceInputRepository,
	store ObjectStore,
	transcriber Transcriber,
	logger *logging.ChanneledLogger,
) *AttachmentService {
	return &AttachmentService{
		attachments: attachments,
		voices:      voices,
		store:       store,
		transcriber: transcriber,
		logger:      logger,
	}
}

// Upload validates and stores an attachment payload. Images get their
// dimensions inspected; undecodable image payloads are rejected.
func (s *AttachmentService) Upload(ctx context.Context, sessionID, conversationID, contentType string, payload []byte) (*dialogue.Attachment, error) {
	kind, err := validateUpload(contentType, payload)
	if err != nil {
		return nil, err
	}

	var width, height *int
	if kind == dialogue.AttachmentImage {
		meta, err := media.InspectImage(payload, contentType)
		if err != nil {
			return nil, fmt.Errorf("invalid image payload: %w", err)
		}
		width, height = &meta.Width, &meta.Height
	}

	id := security.GenerateULID()
	key := fmt.Sprintf("attachments/%s/%s", sessionID, id)

	url, err := s.store.Put(ctx, key, payload, contentType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	attachment := &dialogue.Attachment{
		ID:             id,
		SessionID:      sessionID,
		ConversationID: conversationID,
		Kind:           kind,
		URL:            url,
		StorageKey:     key,
		SizeBytes:      int64(len(payload)),
		ContentType:    contentType,
		Width:          width,
		Height:         height,
		CreatedAt:      now,
		ExpiresAt:      now.Add(config.AttachmentTTL),
	}
	if err := s.attachments.Store(attachment); err != nil {
		return nil, err
	}

	s.logger.Media().Info("Attachment stored", "id", id, "kind", string(kind), "bytes", len(payload))
	return attachment, nil
}

// UploadVoice stores an audio attachment and transcribes it. Transcription
// failure is an error to the caller; there is no fallback transcript source.
func (s *AttachmentService) UploadVoice(ctx context.Context, sessionID, conversationID, contentType string, payload []byte) (*dialogue.Attachment, *dialogue.VoiceInput, error) {
	kind, err := validateUpload(contentType, payload)
	if err != nil {
		return nil, nil, err
	}
	if kind != dialogue.AttachmentAudio {
		return nil, nil, fmt.Errorf("voice upload requires an audio content type, got %s", contentType)
	}

	attachment, err := s.Upload(ctx, sessionID, conversationID, contentType, payload)
	if err != nil {
		return nil, nil, err
	}

	transcription, err := s.transcriber.Transcribe(ctx, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("voice transcription failed: %w", err)
	}

	voice := &dialogue.VoiceInput{
		ID:           security.GenerateULID(),
		AttachmentID: attachment.ID,
		Transcript:   transcription.Text,
		Confidence:   transcription.Confidence,
		Language:     transcription.Language,
	}
	if err := s.voices.Store(voice); err != nil {
		return nil, nil, err
	}

	s.logger.Media().Info("Voice input transcribed", "attachmentId", attachment.ID, "chars", len(voice.Transcript))
	return attachment, voice, nil
}

// Get returns an attachment or nil when missing/expired.
func (s *AttachmentService) Get(id string) (*dialogue.Attachment, error) {
	if id == "" {
		return nil, nil
	}
	return s.attachments.FindByID(id)
}

// GetVoice returns the transcript record for an audio attachment.
func (s *AttachmentService) GetVoice(attachmentID string) (*dialogue.VoiceInput, error) {
	if attachmentID == "" {
		return nil, nil
	}
	return s.voices.FindByAttachmentID(attachmentID)
}

func validateUpload(contentType string, payload []byte) (dialogue.AttachmentKind, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty upload payload")
	}
	if int64(len(payload)) > config.MaxUploadBytes {
		return "", fmt.Errorf("upload exceeds the %d byte limit", config.MaxUploadBytes)
	}

	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(normalized, ";"); i >= 0 {
		normalized = strings.TrimSpace(normalized[:i])
	}

	kind, ok := allowedMIMETypes[normalized]
	if !ok {
		return "", fmt.Errorf("content type %s is not allowed", contentType)
	}
	return kind, nil
}
