package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/domain/repositories"
	domainservices "github.com/nearcart/nearcart-go/internal/domain/services"
	"github.com/nearcart/nearcart-go/internal/infrastructure/ai"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/infrastructure/security"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// IntentExtractor interprets a customer message against the accumulated
// intent and candidate products.
type IntentExtractor interface {
	Extract(ctx context.Context, text string, intent *dialogue.Intent, candidates []*catalog.Product) (*ai.Extraction, error)
}

// TurnInput is one inbound customer message with its optional location.
type TurnInput struct {
	ConversationID string
	Text           string
	AttachmentIDs  []string
	Geo            *dialogue.GeoPoint
	RadiusMeters   *float64
}

// TurnOutput is what the customer sees after a turn: either clarification
// questions or the search result items.
type TurnOutput struct {
	State        dialogue.State        `json:"state"`
	Questions    []string              `json:"questions,omitempty"`
	QuickReplies []string              `json:"quickReplies,omitempty"`
	Items        []dialogue.ResultItem `json:"items,omitempty"`
	RequestID    *string               `json:"requestId,omitempty"`
	ResultID     *string               `json:"resultId,omitempty"`
}

// ConversationService drives the dialogue state machine. A conversation
// loops through NEEDS_CLARIFICATION until the intent converges on exactly
// one product, then searches and lands in DONE. A further message reopens
// the cycle on the existing intent.
type ConversationService struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	intents       repositories.IntentRepository
	sessions      repositories.SessionRepository
	catalog       *CatalogService
	search        *SearchService
	extractor     IntentExtractor
	logger        *logging.ChanneledLogger
}

func NewConversationService(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	intents repositories.IntentRepository,
	sessions repositories.SessionRepository,
	catalogSvc *CatalogService,
	searchSvc *SearchService,
	extractor IntentExtractor,
	logger *logging.ChanneledLogger,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		intents:       intents,
		sessions:      sessions,
		catalog:       catalogSvc,
		search:        searchSvc,
		extractor:     extractor,
		logger:        logger,
	}
}

// Create starts a new conversation for a live session.
func (s *ConversationService) Create(sessionID string) (*dialogue.Conversation, error) {
	session, err := s.sessions.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}

	now := time.Now().UTC()
	conv := &dialogue.Conversation{
		ID:        security.GenerateULID(),
		SessionID: sessionID,
		State:     dialogue.StateNew,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(config.ConversationTTL),
	}
	if err := s.conversations.Store(conv); err != nil {
		return nil, err
	}

	s.logger.Dialogue().Info("Conversation created", "conversationId", conv.ID, "sessionId", sessionID)
	return conv, nil
}

// Get returns a conversation or nil when missing/expired.
func (s *ConversationService) Get(conversationID string) (*dialogue.Conversation, error) {
	if conversationID == "" {
		return nil, nil
	}
	return s.conversations.FindByID(conversationID)
}

// HandleMessage runs one turn of the state machine for an inbound message.
func (s *ConversationService) HandleMessage(ctx context.Context, input TurnInput) (*TurnOutput, error) {
	conv, err := s.conversations.FindByID(input.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %s not found", input.ConversationID)
	}

	if err := s.recordMessage(conv.ID, dialogue.SenderCustomer, input.Text, input.AttachmentIDs); err != nil {
		return nil, err
	}

	intent, err := s.loadOrCreateIntent(conv, input.Text)
	if err != nil {
		return nil, err
	}

	// Without a location there is nothing to search against; the extractor
	// is never consulted.
	if input.Geo == nil {
		return s.clarify(conv, domainservices.Clarification{
			Questions: []string{domainservices.QuestionLocation},
		})
	}

	candidates, err := s.resolveCandidates(intent, input.Text)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return s.clarify(conv, domainservices.Clarification{
			Questions: []string{domainservices.QuestionNotFound},
		})
	}

	// Extractor failure of any kind collapses to "no structured extraction"
	// and the deterministic policy takes over.
	extraction, err := s.extractor.Extract(ctx, input.Text, intent, candidates)
	if err != nil {
		s.logger.AI().Warn("Intent extraction failed, falling back to clarification policy",
			"conversationId", conv.ID, "error", err.Error())
		extraction = nil
	}

	var narrowed []*catalog.Product
	switch {
	case extraction == nil:
		// Fallback halts the turn only while the policy still sees ambiguity;
		// an already unambiguous candidate set proceeds straight to search.
		narrowed = domainservices.FilterByIntent(candidates, intent)
		if len(narrowed) == 0 {
			narrowed = candidates
		}
		if clar := domainservices.NeedsClarification(narrowed, intent, config.MaxQuickReplies); !clar.Empty() {
			return s.clarify(conv, clar)
		}

	case extraction.Action == ai.ActionAskClarification:
		// The extractor's own questions take precedence; the policy fills in
		// when it returned none. Slot patches apply only on READY_TO_SEARCH.
		clar := domainservices.Clarification{
			Questions:    extraction.Questions,
			QuickReplies: extraction.QuickReplies,
		}
		if clar.Empty() {
			filtered := domainservices.FilterByIntent(candidates, intent)
			if len(filtered) == 0 {
				filtered = candidates
			}
			clar = domainservices.NeedsClarification(filtered, intent, config.MaxQuickReplies)
			if clar.Empty() {
				clar.Questions = []string{domainservices.QuestionNarrow}
			}
		}
		return s.clarify(conv, clar)

	default:
		intent = s.mergeAndPersist(intent, extraction.Patch, input.Text)
		narrowed = domainservices.FilterByIntent(candidates, intent)
	}

	if err := s.cacheCandidates(intent, narrowed); err != nil {
		return nil, err
	}

	if len(narrowed) == 0 {
		return s.clarify(conv, domainservices.Clarification{
			Questions: []string{domainservices.QuestionNotFound},
		})
	}
	if len(narrowed) > 1 {
		clar := domainservices.NeedsClarification(narrowed, intent, config.MaxQuickReplies)
		if clar.Empty() {
			clar.Questions = []string{domainservices.QuestionNarrow}
		}
		return s.clarify(conv, clar)
	}

	return s.executeSearch(ctx, conv, intent, narrowed[0], *input.Geo, input.RadiusMeters)
}

// DirectSearch bypasses the dialogue loop: free text in, offers out, using
// the wider direct-search radius unless the caller supplies one.
func (s *ConversationService) DirectSearch(ctx context.Context, conversationID, text string, point dialogue.GeoPoint, radiusMeters *float64) (*TurnOutput, error) {
	conv, err := s.conversations.FindByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %s not found", conversationID)
	}

	intent, err := s.loadOrCreateIntent(conv, text)
	if err != nil {
		return nil, err
	}

	candidates, err := s.catalog.ResolveCandidates(text)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return s.clarify(conv, domainservices.Clarification{
			Questions: []string{domainservices.QuestionNotFound},
		})
	}

	radius := config.DirectSearchRadiusMeters
	if radiusMeters != nil && *radiusMeters > 0 {
		radius = *radiusMeters
	}

	candidateIDs := productIDs(candidates)
	request, result, err := s.search.Execute(ctx, conv.ID, intent.ID, candidateIDs, point, radius)
	if err != nil {
		return nil, err
	}

	conv.RequestID = &request.ID
	conv.ResultID = &result.ID
	if err := s.transition(conv, dialogue.StateDone); err != nil {
		return nil, err
	}

	return &TurnOutput{
		State:     dialogue.StateDone,
		Items:     result.Items,
		RequestID: &request.ID,
		ResultID:  &result.ID,
	}, nil
}

// executeSearch is the terminal step of a converged turn. SEARCHING is
// transient: it is persisted, the result computed, then DONE is persisted
// within the same turn.
func (s *ConversationService) executeSearch(ctx context.Context, conv *dialogue.Conversation, intent *dialogue.Intent, product *catalog.Product, point dialogue.GeoPoint, radiusMeters *float64) (*TurnOutput, error) {
	if err := s.transition(conv, dialogue.StateSearching); err != nil {
		return nil, err
	}

	radius := config.ConversationalRadiusMeters
	if radiusMeters != nil && *radiusMeters > 0 {
		radius = *radiusMeters
	}

	request, result, err := s.search.Execute(ctx, conv.ID, intent.ID, []string{product.ID}, point, radius)
	if err != nil {
		return nil, err
	}

	conv.RequestID = &request.ID
	conv.ResultID = &result.ID
	if err := s.transition(conv, dialogue.StateDone); err != nil {
		return nil, err
	}

	s.logger.Dialogue().Info("Conversation reached DONE", "conversationId", conv.ID,
		"productId", product.ID, "items", len(result.Items))

	return &TurnOutput{
		State:     dialogue.StateDone,
		Items:     result.Items,
		RequestID: &request.ID,
		ResultID:  &result.ID,
	}, nil
}

func (s *ConversationService) clarify(conv *dialogue.Conversation, clar domainservices.Clarification) (*TurnOutput, error) {
	if err := s.transition(conv, dialogue.StateNeedsClarification); err != nil {
		return nil, err
	}
	if len(clar.Questions) > 0 {
		if err := s.recordMessage(conv.ID, dialogue.SenderSystem, strings.Join(clar.Questions, "\n"), nil); err != nil {
			return nil, err
		}
	}
	return &TurnOutput{
		State:        dialogue.StateNeedsClarification,
		Questions:    clar.Questions,
		QuickReplies: clar.QuickReplies,
	}, nil
}

func (s *ConversationService) transition(conv *dialogue.Conversation, state dialogue.State) error {
	conv.State = state
	conv.UpdatedAt = time.Now().UTC()
	return s.conversations.Update(conv)
}

func (s *ConversationService) recordMessage(conversationID string, sender dialogue.Sender, text string, attachmentIDs []string) error {
	return s.messages.Store(&dialogue.Message{
		ID:             security.GenerateULID(),
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		AttachmentIDs:  attachmentIDs,
		CreatedAt:      time.Now().UTC(),
	})
}

func (s *ConversationService) loadOrCreateIntent(conv *dialogue.Conversation, text string) (*dialogue.Intent, error) {
	if conv.IntentID != nil {
		intent, err := s.intents.FindByID(*conv.IntentID)
		if err != nil {
			return nil, err
		}
		if intent != nil {
			if text != "" && text != intent.RawText {
				intent.RawText = text
				if err := s.intents.Update(intent); err != nil {
					return nil, err
				}
			}
			return intent, nil
		}
	}

	intent := &dialogue.Intent{
		ID:             security.GenerateULID(),
		ConversationID: conv.ID,
		RawText:        text,
	}
	if err := s.intents.Store(intent); err != nil {
		return nil, err
	}

	conv.IntentID = &intent.ID
	if err := s.conversations.Update(conv); err != nil {
		return nil, err
	}
	return intent, nil
}

// resolveCandidates reuses the intent's cached candidate set when present,
// otherwise runs the resolver on the turn text.
func (s *ConversationService) resolveCandidates(intent *dialogue.Intent, text string) ([]*catalog.Product, error) {
	if intent.CandidatesResolved {
		return s.catalog.GetProductsByIDs(intent.CandidateIDs)
	}

	query := text
	if strings.TrimSpace(query) == "" {
		query = intent.RawText
	}
	return s.catalog.ResolveCandidates(query)
}

func (s *ConversationService) mergeAndPersist(intent *dialogue.Intent, patch dialogue.IntentPatch, rawText string) *dialogue.Intent {
	merged := domainservices.MergeIntent(*intent, patch, rawText)
	if err := s.intents.Update(&merged); err != nil {
		s.logger.Dialogue().Error("Failed to persist merged intent", "intentId", intent.ID, "error", err.Error())
		return intent
	}
	return &merged
}

func (s *ConversationService) cacheCandidates(intent *dialogue.Intent, candidates []*catalog.Product) error {
	intent.CandidateIDs = productIDs(candidates)
	intent.CandidatesResolved = true
	return s.intents.Update(intent)
}

func productIDs(products []*catalog.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
