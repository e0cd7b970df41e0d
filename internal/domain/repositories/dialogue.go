package repositories

import (
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
)

type SessionRepository interface {
	FindByID(id string) (*dialogue.Session, error)
	Store(session *dialogue.Session) error
	Touch(id string, lastSeenAt time.Time) error
}

type ConversationRepository interface {
	FindByID(id string) (*dialogue.Conversation, error)
	FindBySessionID(sessionID string) ([]*dialogue.Conversation, error)
	Store(conversation *dialogue.Conversation) error
	Update(conversation *dialogue.Conversation) error
	DeleteBySessionID(sessionID string) error
}

type MessageRepository interface {
	FindByConversationID(conversationID string) ([]*dialogue.Message, error)
	Store(message *dialogue.Message) error
}

type IntentRepository interface {
	FindByID(id string) (*dialogue.Intent, error)
	Store(intent *dialogue.Intent) error
	Update(intent *dialogue.Intent) error
}

type SearchRequestRepository interface {
	FindByID(id string) (*dialogue.SearchRequest, error)
	Store(request *dialogue.SearchRequest) error
}

type SearchResultRepository interface {
	FindByID(id string) (*dialogue.SearchResult, error)
	FindByRequestID(requestID string) (*dialogue.SearchResult, error)
	Store(result *dialogue.SearchResult) error
}

type AttachmentRepository interface {
	FindByID(id string) (*dialogue.Attachment, error)
	FindByIDs(ids []string) ([]*dialogue.Attachment, error)
	Store(attachment *dialogue.Attachment) error
}

type VoiceInputRepository interface {
	FindByAttachmentID(attachmentID string) (*dialogue.VoiceInput, error)
	Store(voice *dialogue.VoiceInput) error
}
