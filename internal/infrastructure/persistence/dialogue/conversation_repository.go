package dialogue

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type ConversationRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewConversationRepository(db *sql.DB, logger *logging.ChanneledLogger) *ConversationRepository {
	return &ConversationRepository{db: db, logger: logger}
}

const conversationColumns = `id, session_id, state, intent_id, request_id, result_id, created_at, updated_at, expires_at`

func (r *ConversationRepository) FindByID(id string) (*dialogue.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM search_conversations WHERE id = ?`

	start := time.Now()
	conv, err := scanConversation(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan conversation", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}

	r.trackQuery(query, start)

	if conv.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return conv, nil
}

// FindBySessionID returns the session's live conversations, newest first.
func (r *ConversationRepository) FindBySessionID(sessionID string) ([]*dialogue.Conversation, error) {
	query := `SELECT ` + conversationColumns + ` FROM search_conversations
		WHERE session_id = ? AND expires_at > ? ORDER BY created_at DESC`

	start := time.Now()
	rows, err := r.db.Query(query, sessionID, time.Now().UTC())
	if err != nil {
		r.logger.Database().Error("Failed to query conversations", "error", err.Error(), "sessionId", sessionID)
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := []*dialogue.Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	r.trackQuery(query, start)
	return conversations, rows.Err()
}

func (r *ConversationRepository) Store(conversation *dialogue.Conversation) error {
	query := `INSERT INTO search_conversations (` + conversationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, conversation.ID, conversation.SessionID, string(conversation.State),
		conversation.IntentID, conversation.RequestID, conversation.ResultID,
		conversation.CreatedAt, conversation.UpdatedAt, conversation.ExpiresAt)
	if err != nil {
		r.logger.Database().Error("Conversation insert failed", "error", err.Error(), "id", conversation.ID)
		return fmt.Errorf("failed to insert conversation: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *ConversationRepository) Update(conversation *dialogue.Conversation) error {
	query := `UPDATE search_conversations SET state = ?, intent_id = ?, request_id = ?,
		result_id = ?, updated_at = ?, expires_at = ? WHERE id = ?`

	start := time.Now()
	_, err := r.db.Exec(query, string(conversation.State), conversation.IntentID,
		conversation.RequestID, conversation.ResultID, conversation.UpdatedAt,
		conversation.ExpiresAt, conversation.ID)
	if err != nil {
		r.logger.Database().Error("Conversation update failed", "error", err.Error(), "id", conversation.ID)
		return fmt.Errorf("failed to update conversation: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

// DeleteBySessionID removes a session's conversations along with their
// messages and intents. Requests and results are left to passive expiry.
func (r *ConversationRepository) DeleteBySessionID(sessionID string) error {
	queries := []string{
		`DELETE FROM search_messages WHERE conversation_id IN
			(SELECT id FROM search_conversations WHERE session_id = ?)`,
		`DELETE FROM search_intents WHERE conversation_id IN
			(SELECT id FROM search_conversations WHERE session_id = ?)`,
		`DELETE FROM search_conversations WHERE session_id = ?`,
	}

	start := time.Now()
	for _, query := range queries {
		if _, err := r.db.Exec(query, sessionID); err != nil {
			r.logger.Database().Error("History delete failed", "error", err.Error(), "sessionId", sessionID)
			return fmt.Errorf("failed to delete conversations: %w", err)
		}
	}

	r.trackQuery("delete conversations by session", start)
	return nil
}

func (r *ConversationRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (*dialogue.Conversation, error) {
	var c dialogue.Conversation
	var state string
	err := row.Scan(&c.ID, &c.SessionID, &state, &c.IntentID, &c.RequestID, &c.ResultID,
		&c.CreatedAt, &c.UpdatedAt, &c.ExpiresAt)
	if err != nil {
		return nil, err
	}
	c.State = dialogue.State(state)
	return &c, nil
}
