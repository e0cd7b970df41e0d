package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// Transcription is the recognized text for one voice input.
type Transcription struct {
	Text       string
	Confidence *float64
	Language   *string
}

// AssemblyAITranscriber converts uploaded voice recordings to text.
type AssemblyAITranscriber struct {
	client *assemblyai.Client
	logger *logging.ChanneledLogger
}

// NewAssemblyAITranscriber creates a transcriber. Returns an error when the
// API key is missing.
func NewAssemblyAITranscriber(logger *logging.ChanneledLogger) (*AssemblyAITranscriber, error) {
	if config.AAIAPIKey == "" {
		return nil, fmt.Errorf("AAI_API_KEY is not configured")
	}
	return &AssemblyAITranscriber{
		client: assemblyai.NewClient(config.AAIAPIKey),
		logger: logger,
	}, nil
}

// Transcribe uploads the audio stream and waits for the transcript. Language
// is detected automatically.
func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audio io.Reader) (*Transcription, error) {
	ctx, cancel := context.WithTimeout(ctx, config.TranscribeTimeout)
	defer cancel()

	params := &assemblyai.TranscriptOptionalParams{
		LanguageDetection: assemblyai.Bool(true),
	}

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	result, err := transcriptionFromTranscript(transcript)
	if err != nil {
		return nil, err
	}

	t.logger.AI().Debug("Transcription complete", "chars", len(result.Text))
	return result, nil
}

// transcriptionFromTranscript maps the provider transcript onto the domain
// result. LanguageCode is a plain string type in the SDK, empty when language
// detection reported nothing.
func transcriptionFromTranscript(transcript assemblyai.Transcript) (*Transcription, error) {
	if transcript.Text == nil || *transcript.Text == "" {
		return nil, fmt.Errorf("transcription produced no text")
	}

	result := &Transcription{
		Text:       *transcript.Text,
		Confidence: transcript.Confidence,
	}
	if transcript.LanguageCode != "" {
		lang := string(transcript.LanguageCode)
		result.Language = &lang
	}
	return result, nil
}
