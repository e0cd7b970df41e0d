package dialogue

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type AttachmentRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewAttachmentRepository(db *sql.DB, logger *logging.ChanneledLogger) *AttachmentRepository {
	return &AttachmentRepository{db: db, logger: logger}
}

const attachmentColumns = `id, session_id, conversation_id, kind, url, storage_key,
	size_bytes, content_type, width, height, created_at, expires_at`

func (r *AttachmentRepository) FindByID(id string) (*dialogue.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM attachments WHERE id = ?`

	start := time.Now()
	att, err := scanAttachment(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan attachment", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan attachment: %w", err)
	}

	r.trackQuery(query, start)

	if !time.Now().UTC().Before(att.ExpiresAt) {
		return nil, nil
	}
	return att, nil
}

func (r *AttachmentRepository) FindByIDs(ids []string) ([]*dialogue.Attachment, error) {
	if len(ids) == 0 {
		return []*dialogue.Attachment{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT ` + attachmentColumns + ` FROM attachments
		WHERE id IN (` + placeholders + `) AND expires_at > ?`

	args := make([]any, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, time.Now().UTC())

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query attachments", "error", err.Error())
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	attachments := []*dialogue.Attachment{}
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, att)
	}

	r.trackQuery(query, start)
	return attachments, rows.Err()
}

func (r *AttachmentRepository) Store(attachment *dialogue.Attachment) error {
	query := `INSERT INTO attachments (` + attachmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, attachment.ID, attachment.SessionID, attachment.ConversationID,
		string(attachment.Kind), attachment.URL, attachment.StorageKey, attachment.SizeBytes,
		attachment.ContentType, attachment.Width, attachment.Height,
		attachment.CreatedAt, attachment.ExpiresAt)
	if err != nil {
		r.logger.Database().Error("Attachment insert failed", "error", err.Error(), "id", attachment.ID)
		return fmt.Errorf("failed to insert attachment: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *AttachmentRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}

func scanAttachment(row rowScanner) (*dialogue.Attachment, error) {
	var a dialogue.Attachment
	var kind string
	err := row.Scan(&a.ID, &a.SessionID, &a.ConversationID, &kind, &a.URL, &a.StorageKey,
		&a.SizeBytes, &a.ContentType, &a.Width, &a.Height, &a.CreatedAt, &a.ExpiresAt)
	if err != nil {
		return nil, err
	}
	a.Kind = dialogue.AttachmentKind(kind)
	return &a, nil
}

type VoiceInputRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewVoiceInputRepository(db *sql.DB, logger *logging.ChanneledLogger) *VoiceInputRepository {
	return &VoiceInputRepository{db: db, logger: logger}
}

func (r *VoiceInputRepository) FindByAttachmentID(attachmentID string) (*dialogue.VoiceInput, error) {
	query := `SELECT id, attachment_id, transcript, confidence, language
		FROM voice_inputs WHERE attachment_id = ?`

	start := time.Now()
	var v dialogue.VoiceInput
	err := r.db.QueryRow(query, attachmentID).Scan(&v.ID, &v.AttachmentID, &v.Transcript,
		&v.Confidence, &v.Language)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan voice input", "error", err.Error(), "attachmentId", attachmentID)
		return nil, fmt.Errorf("failed to scan voice input: %w", err)
	}

	r.trackQuery(query, start)
	return &v, nil
}

func (r *VoiceInputRepository) Store(voice *dialogue.VoiceInput) error {
	query := `INSERT INTO voice_inputs (id, attachment_id, transcript, confidence, language)
		VALUES (?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, voice.ID, voice.AttachmentID, voice.Transcript,
		voice.Confidence, voice.Language)
	if err != nil {
		r.logger.Database().Error("Voice input insert failed", "error", err.Error(), "id", voice.ID)
		return fmt.Errorf("failed to insert voice input: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *VoiceInputRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}
