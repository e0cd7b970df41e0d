package dialogue

import "time"

// State is the lifecycle state of a search conversation.
type State string

const (
	// StateNew is the only initial state, set at conversation creation.
	StateNew State = "NEW"
	// StateNeedsClarification is re-entered any number of times while
	// ambiguity persists; it is a loop with an exit condition, not a
	// forward-only step.
	StateNeedsClarification State = "NEEDS_CLARIFICATION"
	// StateSearching is transient: entered and exited within the same
	// request-handling turn. A caller never observes a conversation parked
	// here.
	StateSearching State = "SEARCHING"
	// StateDone is terminal for one search round. A further message reopens
	// the merge/clarify cycle on the existing intent.
	StateDone State = "DONE"
)

// Conversation is one search dialogue belonging to a Session. It holds at
// most one active Intent at a time; the intent is merged in place across
// turns, never duplicated.
type Conversation struct {
	ID        string    `json:"conversationId"`
	SessionID string    `json:"sessionId"`
	State     State     `json:"state"`
	IntentID  *string   `json:"intentId,omitempty"`
	RequestID *string   `json:"requestId,omitempty"`
	ResultID  *string   `json:"resultId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the conversation is logically dead at the given instant.
func (c *Conversation) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Sender identifies which side of the dialogue produced a message.
type Sender string

const (
	SenderCustomer Sender = "CUSTOMER"
	SenderSystem   Sender = "SYSTEM"
)

// Message is one immutable turn in a conversation, ordered by creation time.
type Message struct {
	ID             string    `json:"messageId"`
	ConversationID string    `json:"conversationId"`
	Sender         Sender    `json:"sender"`
	Text           string    `json:"text"`
	AttachmentIDs  []string  `json:"attachmentIds,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
