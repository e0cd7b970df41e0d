package services

import (
	"fmt"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/domain/repositories"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
)

// ConversationHistory is one conversation with its full transcript, used by
// the history listing and export endpoints.
type ConversationHistory struct {
	Conversation *dialogue.Conversation `json:"conversation"`
	Messages     []*dialogue.Message    `json:"messages"`
}

// HistoryService exposes a session's past conversations.
type HistoryService struct {
	sessions      repositories.SessionRepository
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	logger        *logging.ChanneledLogger
}

func NewHistoryService(
	sessions repositories.SessionRepository,
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	logger *logging.ChanneledLogger,
) *HistoryService {
	return &HistoryService{
		sessions:      sessions,
		conversations: conversations,
		messages:      messages,
		logger:        logger,
	}
}

// List returns the session's live conversations, newest first, without
// transcripts.
func (s *HistoryService) List(sessionID string) ([]*dialogue.Conversation, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return s.conversations.FindBySessionID(sessionID)
}

// Export returns the session's conversations with their full transcripts.
func (s *HistoryService) Export(sessionID string) ([]ConversationHistory, error) {
	conversations, err := s.List(sessionID)
	if err != nil {
		return nil, err
	}

	histories := make([]ConversationHistory, 0, len(conversations))
	for _, conv := range conversations {
		messages, err := s.messages.FindByConversationID(conv.ID)
		if err != nil {
			return nil, err
		}
		histories = append(histories, ConversationHistory{
			Conversation: conv,
			Messages:     messages,
		})
	}

	s.logger.Dialogue().Debug("History exported", "sessionId", sessionID, "conversations", len(histories))
	return histories, nil
}

// Delete removes all of the session's conversations and transcripts.
func (s *HistoryService) Delete(sessionID string) error {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionID)
	}

	if err := s.conversations.DeleteBySessionID(sessionID); err != nil {
		return err
	}

	s.logger.Dialogue().Info("History deleted", "sessionId", sessionID)
	return nil
}
