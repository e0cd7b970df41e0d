// Package dialogue contains the entities of the conversational search flow:
// anonymous customer sessions, conversations, messages, accumulated intents,
// materialized search requests/results, and uploaded attachments.
package dialogue

import "time"

// Session is an anonymous device/browser handle. It carries a fixed 30-day
// TTL from creation; expiry is enforced at read time, not by eviction.
type Session struct {
	ID         string    `json:"sessionId"`
	DeviceID   *string   `json:"deviceId,omitempty"`
	UserAgent  *string   `json:"userAgent,omitempty"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Expired reports whether the session is logically dead at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
