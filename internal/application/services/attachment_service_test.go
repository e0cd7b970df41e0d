package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/pkg/config"
)

func TestValidateUploadAllowedTypes(t *testing.T) {
	payload := []byte{0x01}

	cases := []struct {
		contentType string
		kind        dialogue.AttachmentKind
	}{
		{"image/jpeg", dialogue.AttachmentImage},
		{"image/png", dialogue.AttachmentImage},
		{"image/gif", dialogue.AttachmentImage},
		{"image/webp", dialogue.AttachmentImage},
		{"audio/mpeg", dialogue.AttachmentAudio},
		{"audio/ogg", dialogue.AttachmentAudio},
	}
	for _, c := range cases {
		kind, err := validateUpload(c.contentType, payload)
		require.NoError(t, err, c.contentType)
		assert.Equal(t, c.kind, kind, c.contentType)
	}
}

func TestValidateUploadStripsParameters(t *testing.T) {
	kind, err := validateUpload("Image/GIF; charset=binary", []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, dialogue.AttachmentImage, kind)
}

func TestValidateUploadRejectsDisallowedType(t *testing.T) {
	_, err := validateUpload("application/pdf", []byte{0x01})
	assert.Error(t, err)
}

func TestValidateUploadRejectsOversizedPayload(t *testing.T) {
	payload := make([]byte, config.MaxUploadBytes+1)
	_, err := validateUpload("image/png", payload)
	assert.Error(t, err)
}

func TestValidateUploadRejectsEmptyPayload(t *testing.T) {
	_, err := validateUpload("image/png", nil)
	assert.Error(t, err)
}
