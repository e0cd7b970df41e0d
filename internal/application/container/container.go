// Package container provides dependency injection for all singleton services
package container

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/nearcart/nearcart-go/internal/application/services"
	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/ai"
	"github.com/nearcart/nearcart-go/internal/infrastructure/caching"
	"github.com/nearcart/nearcart-go/internal/infrastructure/geo"
	"github.com/nearcart/nearcart-go/internal/infrastructure/media"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	persistcatalog "github.com/nearcart/nearcart-go/internal/infrastructure/persistence/catalog"
	persistdialogue "github.com/nearcart/nearcart-go/internal/infrastructure/persistence/dialogue"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	DB     *sql.DB
	Logger *logging.ChanneledLogger

	SessionService      *services.SessionService
	ConversationService *services.ConversationService
	SearchService       *services.SearchService
	CatalogService      *services.CatalogService
	AttachmentService   *services.AttachmentService
	HistoryService      *services.HistoryService
}

// NewContainer creates and wires all singleton services. External providers
// degrade gracefully: without a Gemini key every extraction falls back to
// the clarification policy, without AWS credentials uploads land on disk.
func NewContainer(ctx context.Context, db *sql.DB, logger *logging.ChanneledLogger) *Container {
	coords := caching.NewStoreCoordsCache(config.StoreCoordsTTL)

	products := persistcatalog.NewProductRepository(db, logger)
	categories := persistcatalog.NewCategoryRepository(db, logger)
	stores := persistcatalog.NewStoreRepository(db, coords, logger)
	offers := persistcatalog.NewOfferRepository(db, logger)

	sessions := persistdialogue.NewSessionRepository(db, logger)
	conversations := persistdialogue.NewConversationRepository(db, logger)
	messages := persistdialogue.NewMessageRepository(db, logger)
	intents := persistdialogue.NewIntentRepository(db, logger)
	requests := persistdialogue.NewSearchRequestRepository(db, logger)
	results := persistdialogue.NewSearchResultRepository(db, logger)
	attachments := persistdialogue.NewAttachmentRepository(db, logger)
	voices := persistdialogue.NewVoiceInputRepository(db, logger)

	geocoder := geo.NewLinkGeocoder(config.GeocodeTimeout, logger)

	var extractor services.IntentExtractor
	if gemini, err := ai.NewGeminiExtractor(ctx, logger); err != nil {
		logger.Startup().Warn("Intent extractor unavailable, clarification policy only", "error", err.Error())
		extractor = unavailableExtractor{}
	} else {
		extractor = gemini
	}

	var transcriber services.Transcriber
	if aai, err := ai.NewAssemblyAITranscriber(logger); err != nil {
		logger.Startup().Warn("Transcriber unavailable, voice uploads will fail", "error", err.Error())
		transcriber = unavailableTranscriber{}
	} else {
		transcriber = aai
	}

	var objectStore services.ObjectStore
	if s3Store, err := media.NewS3ObjectStore(ctx, logger); err != nil {
		logger.Startup().Warn("S3 unavailable, storing uploads on disk", "error", err.Error())
		objectStore = media.NewDiskObjectStore("media", logger)
	} else {
		objectStore = s3Store
	}

	catalogService := services.NewCatalogService(products, categories, stores, offers, logger)
	searchService := services.NewSearchService(products, stores, offers, requests, results, coords, geocoder, logger)
	sessionService := services.NewSessionService(sessions, logger)
	conversationService := services.NewConversationService(conversations, messages, intents, sessions,
		catalogService, searchService, extractor, logger)
	attachmentService := services.NewAttachmentService(attachments, voices, objectStore, transcriber, logger)
	historyService := services.NewHistoryService(sessions, conversations, messages, logger)

	return &Container{
		DB:     db,
		Logger: logger,

		SessionService:      sessionService,
		ConversationService: conversationService,
		SearchService:       searchService,
		CatalogService:      catalogService,
		AttachmentService:   attachmentService,
		HistoryService:      historyService,
	}
}

type unavailableExtractor struct{}

func (unavailableExtractor) Extract(context.Context, string, *dialogue.Intent, []*catalog.Product) (*ai.Extraction, error) {
	return nil, fmt.Errorf("intent extractor is not configured")
}

type unavailableTranscriber struct{}

func (unavailableTranscriber) Transcribe(context.Context, io.Reader) (*ai.Transcription, error) {
	return nil, fmt.Errorf("transcriber is not configured")
}
