package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	domainservices "github.com/nearcart/nearcart-go/internal/domain/services"
	"github.com/nearcart/nearcart-go/internal/infrastructure/ai"
	"github.com/nearcart/nearcart-go/internal/infrastructure/caching"
	"github.com/nearcart/nearcart-go/internal/infrastructure/database"
	"github.com/nearcart/nearcart-go/internal/infrastructure/geo"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	persistcatalog "github.com/nearcart/nearcart-go/internal/infrastructure/persistence/catalog"
	persistdialogue "github.com/nearcart/nearcart-go/internal/infrastructure/persistence/dialogue"
)

type stubExtractor struct {
	extract func(text string, intent *dialogue.Intent, candidates []*catalog.Product) (*ai.Extraction, error)
}

func (s *stubExtractor) Extract(_ context.Context, text string, intent *dialogue.Intent, candidates []*catalog.Product) (*ai.Extraction, error) {
	return s.extract(text, intent, candidates)
}

type stubGeocoder struct {
	coords map[string]*geo.Coordinates
}

func (s *stubGeocoder) Resolve(_ context.Context, link string) *geo.Coordinates {
	return s.coords[link]
}

type fixture struct {
	db            *sql.DB
	conversations *ConversationService
	search        *SearchService
	catalog       *CatalogService
	sessions      *SessionService
	requests      *persistdialogue.SearchRequestRepository
	sessionID     string
}

func readyToSearch(brand string) func(string, *dialogue.Intent, []*catalog.Product) (*ai.Extraction, error) {
	return func(string, *dialogue.Intent, []*catalog.Product) (*ai.Extraction, error) {
		patch := dialogue.IntentPatch{}
		if brand != "" {
			patch.Brand = dialogue.SlotPatch{Value: &brand, Set: true}
		}
		return &ai.Extraction{Action: ai.ActionReadyToSearch, Patch: patch}, nil
	}
}

func newFixture(t *testing.T, extract func(string, *dialogue.Intent, []*catalog.Product) (*ai.Extraction, error), geocoder Geocoder) *fixture {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewTableCreator().CreateSchema(db))

	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	coords := caching.NewStoreCoordsCache(time.Hour)
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

	if geocoder == nil {
		geocoder = &stubGeocoder{}
	}

	catalogSvc := NewCatalogService(products, categories, stores, offers, logger)
	searchSvc := NewSearchService(products, stores, offers, requests, results, coords, geocoder, logger)
	sessionSvc := NewSessionService(sessions, logger)
	convSvc := NewConversationService(conversations, messages, intents, sessions,
		catalogSvc, searchSvc, &stubExtractor{extract: extract}, logger)

	session, created, err := sessionSvc.Resolve("", nil, nil)
	require.NoError(t, err)
	require.True(t, created)

	return &fixture{
		db:            db,
		conversations: convSvc,
		search:        searchSvc,
		catalog:       catalogSvc,
		sessions:      sessionSvc,
		requests:      requests,
		sessionID:     session.ID,
	}
}

func (f *fixture) seedCatalog(t *testing.T) {
	t.Helper()

	// Caller at (55.7500, 37.6200). The near store sits ~200m north, the far
	// store ~1500m north.
	stores := []*catalog.Store{
		{ID: "near", Name: "Near Shop", Address: "1 Close St", Lat: ptr(55.7518), Lng: ptr(37.6200)},
		{ID: "far", Name: "Far Shop", Address: "9 Distant Ave", Lat: ptr(55.7635), Lng: ptr(37.6200)},
	}
	for _, s := range stores {
		_, err := f.catalog.CreateStore(s)
		require.NoError(t, err)
	}

	products := []*catalog.Product{
		{ID: "cola-a", Name: "Cola Classic", BrandName: "BrandA", PackageInfo: "500ml"},
		{ID: "cola-b", Name: "Cola Classic", BrandName: "BrandB", PackageInfo: "500ml"},
	}
	for _, p := range products {
		_, err := f.catalog.CreateProduct(p)
		require.NoError(t, err)
	}

	offers := []*catalog.Offer{
		{ID: "o-near-a", ProductID: "cola-a", StoreID: "near", PriceCents: 9900, Quantity: 4, IsAvailable: true},
		{ID: "o-far-a", ProductID: "cola-a", StoreID: "far", PriceCents: 8900, Quantity: 2, IsAvailable: true},
		{ID: "o-near-b", ProductID: "cola-b", StoreID: "near", PriceCents: 9500, Quantity: 1, IsAvailable: true},
	}
	for _, o := range offers {
		_, err := f.catalog.CreateOffer(o)
		require.NoError(t, err)
	}
}

func ptr(v float64) *float64 { return &v }

func callerGeo() *dialogue.GeoPoint {
	return &dialogue.GeoPoint{Lat: 55.7500, Lng: 37.6200}
}

func TestRoundTripToDone(t *testing.T) {
	f := newFixture(t, readyToSearch("BrandA"), nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateNew, conv.State)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)

	assert.Equal(t, dialogue.StateDone, out.State)
	require.NotNil(t, out.RequestID)
	require.NotNil(t, out.ResultID)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "cola-a", out.Items[0].Product.ID)

	// Radius 1000m by default: only the near store's offer survives.
	require.Len(t, out.Items[0].Offers, 1)
	assert.Equal(t, "o-near-a", out.Items[0].Offers[0].OfferID)
	assert.LessOrEqual(t, out.Items[0].Offers[0].Store.DistanceMeters, 1000.0)

	request, err := f.requests.FindByID(*out.RequestID)
	require.NoError(t, err)
	require.NotNil(t, request)
	assert.Equal(t, conv.ID, request.ConversationID)

	reloaded, err := f.conversations.Get(conv.ID)
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateDone, reloaded.State)
}

func TestMissingGeoAsksForLocationAndCreatesNoRequest(t *testing.T) {
	f := newFixture(t, readyToSearch("BrandA"), nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
	})
	require.NoError(t, err)

	assert.Equal(t, dialogue.StateNeedsClarification, out.State)
	assert.Contains(t, out.Questions, domainservices.QuestionLocation)
	assert.Nil(t, out.RequestID)

	var count int
	require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM search_requests`).Scan(&count))
	assert.Zero(t, count)
}

func TestUnknownTextReportsNotFound(t *testing.T) {
	f := newFixture(t, readyToSearch(""), nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "quantum flux capacitor",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)

	assert.Equal(t, dialogue.StateNeedsClarification, out.State)
	assert.Contains(t, out.Questions, domainservices.QuestionNotFound)
}

func TestExtractorFailureFallsBackToPolicy(t *testing.T) {
	failing := func(string, *dialogue.Intent, []*catalog.Product) (*ai.Extraction, error) {
		return nil, fmt.Errorf("upstream timeout")
	}
	f := newFixture(t, failing, nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)

	// Two brands remain ambiguous: the deterministic policy asks.
	assert.Equal(t, dialogue.StateNeedsClarification, out.State)
	assert.Contains(t, out.Questions, domainservices.QuestionBrand)
	assert.Contains(t, out.QuickReplies, "BrandA")
	assert.Contains(t, out.QuickReplies, "BrandB")
}

func TestExtractorFailureWithSingleCandidateSearches(t *testing.T) {
	failing := func(string, *dialogue.Intent, []*catalog.Product) (*ai.Extraction, error) {
		return nil, fmt.Errorf("upstream timeout")
	}
	f := newFixture(t, failing, nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	// One unambiguous candidate: the policy has nothing to ask, so the turn
	// converges without the extractor.
	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "BrandA",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)

	assert.Equal(t, dialogue.StateDone, out.State)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "cola-a", out.Items[0].Product.ID)
	require.NotNil(t, out.RequestID)
}

func TestExtractorQuestionsAreRelayed(t *testing.T) {
	brand := "BrandA"
	asking := func(string, *dialogue.Intent, []*catalog.Product) (*ai.Extraction, error) {
		return &ai.Extraction{
			Action:       ai.ActionAskClarification,
			Patch:        dialogue.IntentPatch{Brand: dialogue.SlotPatch{Value: &brand, Set: true}},
			Questions:    []string{"Which flavor are you after?"},
			QuickReplies: []string{"Classic", "Zero"},
		}, nil
	}
	f := newFixture(t, asking, nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)

	assert.Equal(t, dialogue.StateNeedsClarification, out.State)
	assert.Equal(t, []string{"Which flavor are you after?"}, out.Questions)
	assert.Equal(t, []string{"Classic", "Zero"}, out.QuickReplies)

	// A clarification turn never applies slot patches; the customer has not
	// answered yet.
	var brandSet bool
	require.NoError(t, f.db.QueryRow(`SELECT brand_set FROM search_intents`).Scan(&brandSet))
	assert.Zero(t, brandSet)
}

func TestAmbiguousThenClarifiedConverges(t *testing.T) {
	// First turn: extractor asks. Second turn: the brand answer narrows to
	// one candidate.
	calls := 0
	extract := func(text string, intent *dialogue.Intent, candidates []*catalog.Product) (*ai.Extraction, error) {
		calls++
		if calls == 1 {
			return &ai.Extraction{Action: ai.ActionAskClarification}, nil
		}
		brand := "BrandB"
		return &ai.Extraction{
			Action: ai.ActionReadyToSearch,
			Patch:  dialogue.IntentPatch{Brand: dialogue.SlotPatch{Value: &brand, Set: true}},
		}, nil
	}
	f := newFixture(t, extract, nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateNeedsClarification, out.State)

	out, err = f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "BrandB",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateDone, out.State)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "cola-b", out.Items[0].Product.ID)
}

func TestWiderRadiusIncludesFarStore(t *testing.T) {
	f := newFixture(t, readyToSearch("BrandA"), nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	radius := 10000.0
	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
		Geo:            callerGeo(),
		RadiusMeters:   &radius,
	})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	require.Len(t, out.Items[0].Offers, 2)
	// Ascending by distance.
	assert.Equal(t, "o-near-a", out.Items[0].Offers[0].OfferID)
	assert.Equal(t, "o-far-a", out.Items[0].Offers[1].OfferID)
	assert.Less(t, out.Items[0].Offers[0].Store.DistanceMeters, out.Items[0].Offers[1].Store.DistanceMeters)
}

func TestUnresolvableStoreIsExcluded(t *testing.T) {
	f := newFixture(t, readyToSearch("BrandA"), &stubGeocoder{coords: map[string]*geo.Coordinates{}})
	f.seedCatalog(t)

	// A store with no cached coordinates and an unresolvable link.
	_, err := f.catalog.CreateStore(&catalog.Store{ID: "broken", Name: "No Map", LocationLink: "https://example.com/nowhere"})
	require.NoError(t, err)
	_, err = f.catalog.CreateOffer(&catalog.Offer{
		ID: "o-broken", ProductID: "cola-a", StoreID: "broken",
		PriceCents: 100, Quantity: 9, IsAvailable: true,
	})
	require.NoError(t, err)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	for _, offer := range out.Items[0].Offers {
		assert.NotEqual(t, "o-broken", offer.OfferID)
	}
}

func TestDirectSearchReturnsAllMatchesInWideRadius(t *testing.T) {
	f := newFixture(t, readyToSearch(""), nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.DirectSearch(context.Background(), conv.ID, "cola", *callerGeo(), nil)
	require.NoError(t, err)

	assert.Equal(t, dialogue.StateDone, out.State)
	// Both brands match the text; default direct radius covers both stores.
	assert.Len(t, out.Items, 2)
}

func TestReopenedConversationReusesIntent(t *testing.T) {
	f := newFixture(t, readyToSearch("BrandA"), nil)
	f.seedCatalog(t)

	conv, err := f.conversations.Create(f.sessionID)
	require.NoError(t, err)

	out, err := f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "cola classic",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)
	require.Equal(t, dialogue.StateDone, out.State)

	// A further message reopens the cycle instead of erroring out.
	out, err = f.conversations.HandleMessage(context.Background(), TurnInput{
		ConversationID: conv.ID,
		Text:           "same again",
		Geo:            callerGeo(),
	})
	require.NoError(t, err)
	assert.Equal(t, dialogue.StateDone, out.State)
}
