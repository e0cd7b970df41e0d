// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"fmt"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/domain/repositories"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/infrastructure/security"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// SessionService manages anonymous customer sessions.
type SessionService struct {
	sessions repositories.SessionRepository
	logger   *logging.ChanneledLogger
}

func NewSessionService(sessions repositories.SessionRepository, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{sessions: sessions, logger: logger}
}

// Resolve returns the live session for the given id, creating a fresh one
// when the id is blank, unknown, or expired. The second return reports
// whether a new session was created.
func (s *SessionService) Resolve(sessionID string, deviceID, userAgent *string) (*dialogue.Session, bool, error) {
	if sessionID != "" {
		existing, err := s.sessions.FindByID(sessionID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to resolve session: %w", err)
		}
		if existing != nil {
			// Expiry stays fixed from creation; only activity is recorded.
			now := time.Now().UTC()
			if err := s.sessions.Touch(existing.ID, now); err != nil {
				return nil, false, err
			}
			existing.LastSeenAt = now
			return existing, false, nil
		}
	}

	session, err := s.create(deviceID, userAgent)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// Get returns the session or nil when missing/expired.
func (s *SessionService) Get(sessionID string) (*dialogue.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return s.sessions.FindByID(sessionID)
}

func (s *SessionService) create(deviceID, userAgent *string) (*dialogue.Session, error) {
	now := time.Now().UTC()
	session := &dialogue.Session{
		ID:         security.GenerateULID(),
		DeviceID:   deviceID,
		UserAgent:  userAgent,
		LastSeenAt: now,
		CreatedAt:  now,
		ExpiresAt:  now.Add(config.SessionTTL),
	}

	if err := s.sessions.Store(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Dialogue().Info("Session created", "sessionId", session.ID)
	return session, nil
}
