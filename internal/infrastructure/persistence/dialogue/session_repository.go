// Package dialogue provides the SQLite repositories for the conversational
// search entities. Expiry is logical: expired rows are filtered out at read
// time rather than evicted.
package dialogue

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

type SessionRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewSessionRepository(db *sql.DB, logger *logging.ChanneledLogger) *SessionRepository {
	return &SessionRepository{db: db, logger: logger}
}

// FindByID returns nil for both missing and expired sessions; an expired
// session behaves exactly like one that never existed.
func (r *SessionRepository) FindByID(id string) (*dialogue.Session, error) {
	query := `SELECT id, device_id, user_agent, last_seen_at, created_at, expires_at
		FROM customer_sessions WHERE id = ?`

	start := time.Now()
	var s dialogue.Session
	err := r.db.QueryRow(query, id).Scan(&s.ID, &s.DeviceID, &s.UserAgent,
		&s.LastSeenAt, &s.CreatedAt, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Failed to scan session", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	r.trackQuery(query, start)

	if s.Expired(time.Now().UTC()) {
		return nil, nil
	}
	return &s, nil
}

func (r *SessionRepository) Store(session *dialogue.Session) error {
	query := `INSERT INTO customer_sessions (id, device_id, user_agent, last_seen_at, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := r.db.Exec(query, session.ID, session.DeviceID, session.UserAgent,
		session.LastSeenAt, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		r.logger.Database().Error("Session insert failed", "error", err.Error(), "id", session.ID)
		return fmt.Errorf("failed to insert session: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

// Touch records activity on a session. The expiry set at creation is left
// untouched.
func (r *SessionRepository) Touch(id string, lastSeenAt time.Time) error {
	query := `UPDATE customer_sessions SET last_seen_at = ? WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, lastSeenAt, id); err != nil {
		r.logger.Database().Error("Session touch failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to touch session: %w", err)
	}

	r.trackQuery(query, start)
	return nil
}

func (r *SessionRepository) trackQuery(query string, start time.Time) {
	if duration := time.Since(start); duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}
