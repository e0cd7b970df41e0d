package dialogue

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type MessageRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewMessageRepository(db *sql.DB, logger *logging.ChanneledLogger) *MessageRepository {
	return &MessageRepository{db: db, logger: logger}
}

// FindByConversationID returns the full transcript in creation order.
func (r *MessageRepository) FindByConversationID(conversationID string) ([]*dialogue.Message, error) {
	query := `SELECT id, conversation_id, sender, text, attachment_ids, created_at
		FROM search_messages WHERE conversation_id = ? ORDER BY created_at ASC, id ASC`

	start := time.Now()
	rows, err := r.db.Query(query, conversationID)
	if err != nil {
		r.logger.Database().Error("Failed to query messages", "error", err.Error(), "conversationId", conversationID)
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []*dialogue.Message{}
	for rows.Next() {
		var m dialogue.Message
		var sender, attachmentsJSON string
		if err := rows.Scan(&m.ID, &m.ConversationID, &sender, &m.Text, &attachmentsJSON, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Sender = dialogue.Sender(sender)
		if err := json.Unmarshal([]byte(attachmentsJSON), &m.AttachmentIDs); err != nil {
			return nil, fmt.Errorf("failed to parse message attachments: %w", err)
		}
		messages = append(messages, &m)
	}

	r.trackQuery(query, start)
	return messages, rows.Err()
}

func (r *MessageRepository) Store(message *dialogue.Message) error {
	attachmentIDs := message.AttachmentIDs
	if attachmentIDs == nil {
		attachmentIDs = []string{}
	}
	attachmentsJSON, _ := json.Marshal(attachmentIDs)

	query := `INSERT INTO search_messages (id, conversation_id, sender, text, attachment_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, message.ID, message.ConversationID, string(message.Sender),
		message.Text, string(attachmentsJSON), message.CreatedAt)
	if err != nil {
		r.logger.Database().Error("Message insert failed", "error", err.Error(), "id", message.ID)
		return fmt.Errorf("failed to insert message: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *MessageRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}
