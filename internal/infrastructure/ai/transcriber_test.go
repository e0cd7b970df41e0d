package ai

import (
	"testing"

	"github.com/AssemblyAI/assemblyai-go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string   { return &v }
func f64Ptr(v float64) *float64 { return &v }

func TestTranscriptionFromTranscript(t *testing.T) {
	transcript := assemblyai.Transcript{
		Text:         strPtr("two bottles of cola please"),
		Confidence:   f64Ptr(0.97),
		LanguageCode: assemblyai.TranscriptLanguageCode("en_us"),
	}

	result, err := transcriptionFromTranscript(transcript)
	require.NoError(t, err)
	assert.Equal(t, "two bottles of cola please", result.Text)
	require.NotNil(t, result.Confidence)
	assert.InDelta(t, 0.97, *result.Confidence, 0.001)
	require.NotNil(t, result.Language)
	assert.Equal(t, "en_us", *result.Language)
}

func TestTranscriptionWithoutDetectedLanguage(t *testing.T) {
	result, err := transcriptionFromTranscript(assemblyai.Transcript{Text: strPtr("hello")})
	require.NoError(t, err)
	assert.Nil(t, result.Language)
	assert.Nil(t, result.Confidence)
}

func TestTranscriptionWithoutText(t *testing.T) {
	_, err := transcriptionFromTranscript(assemblyai.Transcript{})
	assert.Error(t, err)

	_, err = transcriptionFromTranscript(assemblyai.Transcript{Text: strPtr("")})
	assert.Error(t, err)
}
