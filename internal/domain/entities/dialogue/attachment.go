package dialogue

import "time"

// AttachmentKind distinguishes uploaded media by derived type.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentAudio AttachmentKind = "audio"
)

// Attachment is an uploaded image or audio blob tied to a session and
// conversation, stored in object storage under a logical folder.
type Attachment struct {
	ID             string         `json:"attachmentId"`
	SessionID      string         `json:"sessionId"`
	ConversationID string         `json:"conversationId"`
	Kind           AttachmentKind `json:"type"`
	URL            string         `json:"url"`
	StorageKey     string         `json:"storageKey"`
	SizeBytes      int64          `json:"sizeBytes"`
	ContentType    string         `json:"contentType"`
	Width          *int           `json:"width,omitempty"`
	Height         *int           `json:"height,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	ExpiresAt      time.Time      `json:"expiresAt"`
}

// VoiceInput is the transcript derived from an audio attachment, 1:1 with
// the attachment that produced it.
type VoiceInput struct {
	ID           string   `json:"voiceInputId"`
	AttachmentID string   `json:"attachmentId"`
	Transcript   string   `json:"transcript"`
	Confidence   *float64 `json:"confidence,omitempty"`
	Language     *string  `json:"language,omitempty"`
}
