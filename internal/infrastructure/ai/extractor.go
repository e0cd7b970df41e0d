// Package ai wraps the external model providers used by the dialogue flow:
// intent extraction over Gemini and speech transcription over AssemblyAI.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// Action is the extractor's verdict on how the dialogue should proceed.
type Action string

const (
	ActionAskClarification Action = "ASK_CLARIFICATION"
	ActionReadyToSearch    Action = "READY_TO_SEARCH"
)

// Extraction is one sparse extractor result. The patch never unsets a slot
// the customer resolved in an earlier turn. On ASK_CLARIFICATION the model
// supplies its own questions and quick replies for the customer.
type Extraction struct {
	Action       Action
	Patch        dialogue.IntentPatch
	Questions    []string
	QuickReplies []string
}

// GeminiExtractor turns a customer message plus dialogue context into a
// structured intent patch via the Gemini API.
type GeminiExtractor struct {
	client *genai.Client
	model  string
	logger *logging.ChanneledLogger
}

// NewGeminiExtractor creates an extractor. Returns an error when the API key
// is missing or the client cannot be constructed.
func NewGeminiExtractor(ctx context.Context, logger *logging.ChanneledLogger) (*GeminiExtractor, error) {
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiExtractor{
		client: client,
		model:  config.GeminiModel,
		logger: logger,
	}, nil
}

// wireSlot is a slot as the model reports it. A present slot with a null
// value means the customer explicitly declined to constrain it.
type wireSlot struct {
	Value *string `json:"value"`
}

type wireExtraction struct {
	Action       string    `json:"action"`
	Brand        *wireSlot `json:"brand"`
	Type         *wireSlot `json:"type"`
	Package      *wireSlot `json:"package"`
	Confidence   *float64  `json:"confidence"`
	Questions    []string  `json:"questions"`
	QuickReplies []string  `json:"quickReplies"`
}

// Extract asks the model to interpret the latest customer message against
// the accumulated intent and the current candidate products. Any malformed
// or action-less response is an error; the caller decides the fallback.
func (e *GeminiExtractor) Extract(ctx context.Context, text string, intent *dialogue.Intent, candidates []*catalog.Product) (*Extraction, error) {
	ctx, cancel := context.WithTimeout(ctx, config.ExtractorTimeout)
	defer cancel()

	prompt := buildExtractionPrompt(text, intent, candidates)

	resp, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("intent extraction request failed: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	e.logger.AI().Debug("Extractor response", "model", e.model, "bytes", len(raw))

	return parseExtraction(raw)
}

// parseExtraction decodes the model output. Tolerates a markdown code fence
// around the JSON body.
func parseExtraction(raw string) (*Extraction, error) {
	raw = stripCodeFence(raw)

	var wire wireExtraction
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("extractor returned invalid JSON: %w", err)
	}

	action := Action(wire.Action)
	if action != ActionAskClarification && action != ActionReadyToSearch {
		return nil, fmt.Errorf("extractor returned unknown action %q", wire.Action)
	}

	return &Extraction{
		Action: action,
		Patch: dialogue.IntentPatch{
			Brand:      patchFromWire(wire.Brand),
			Type:       patchFromWire(wire.Type),
			Package:    patchFromWire(wire.Package),
			Confidence: wire.Confidence,
		},
		Questions:    wire.Questions,
		QuickReplies: wire.QuickReplies,
	}, nil
}

func patchFromWire(slot *wireSlot) dialogue.SlotPatch {
	if slot == nil {
		return dialogue.SlotPatch{}
	}
	return dialogue.SlotPatch{Value: slot.Value, Set: true}
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func buildExtractionPrompt(text string, intent *dialogue.Intent, candidates []*catalog.Product) string {
	var b strings.Builder

	b.WriteString("You interpret customer messages in a product search dialogue.\n")
	b.WriteString("Decide whether enough is known to run the search and report slot updates.\n\n")
	b.WriteString("Respond with JSON only, shaped as one of:\n")
	b.WriteString(`{"action":"ASK_CLARIFICATION","questions":[string],"quickReplies":[string]}` + "\n")
	b.WriteString(`{"action":"READY_TO_SEARCH","brand":{"value":string|null},"type":{"value":string|null},"package":{"value":string|null},"confidence":number}` + "\n")
	b.WriteString("On ASK_CLARIFICATION phrase the questions for the customer and offer short quick replies.\n")
	b.WriteString("Omit a slot entirely when the message says nothing about it.\n")
	b.WriteString("Include a slot with a null value only when the customer explicitly declines to constrain it.\n\n")

	b.WriteString("Accumulated intent so far:\n")
	writeSlotLine(&b, "brand", intent.Brand)
	writeSlotLine(&b, "type", intent.Type)
	writeSlotLine(&b, "package", intent.Package)
	if intent.RawText != "" {
		fmt.Fprintf(&b, "  original query: %q\n", intent.RawText)
	}

	if len(candidates) > 0 {
		b.WriteString("\nCandidate products still matching:\n")
		for _, p := range candidates {
			fmt.Fprintf(&b, "  - [%s] %s (brand: %s, package: %s, sku: %s)\n",
				p.ID, p.Name, p.BrandName, p.PackageInfo, p.SKU)
		}
	}

	fmt.Fprintf(&b, "\nLatest customer message: %q\n", text)
	return b.String()
}

func writeSlotLine(b *strings.Builder, name string, slot dialogue.Slot) {
	switch {
	case !slot.Known:
		fmt.Fprintf(b, "  %s: unknown\n", name)
	case slot.Value == nil:
		fmt.Fprintf(b, "  %s: explicitly unconstrained\n", name)
	default:
		fmt.Fprintf(b, "  %s: %q\n", name, *slot.Value)
	}
}
