package dialogue

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/database"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/infrastructure/security"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewTableCreator().CreateSchema(db))
	return db
}

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func seedConversation(t *testing.T, db *sql.DB, logger *logging.ChanneledLogger) *dialogue.Conversation {
	t.Helper()
	now := time.Now().UTC()

	sessions := NewSessionRepository(db, logger)
	session := &dialogue.Session{
		ID:         security.GenerateULID(),
		LastSeenAt: now,
		CreatedAt:  now,
		ExpiresAt:  now.Add(24 * time.Hour),
	}
	require.NoError(t, sessions.Store(session))

	conversations := NewConversationRepository(db, logger)
	conv := &dialogue.Conversation{
		ID:        security.GenerateULID(),
		SessionID: session.ID,
		State:     dialogue.StateNew,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
	require.NoError(t, conversations.Store(conv))
	return conv
}

func TestIntentTriStateRoundTrip(t *testing.T) {
	db := testDB(t)
	logger := testLogger(t)
	conv := seedConversation(t, db, logger)
	repo := NewIntentRepository(db, logger)

	intent := &dialogue.Intent{
		ID:             security.GenerateULID(),
		ConversationID: conv.ID,
		RawText:        "cola",
		Brand:          dialogue.ResolvedSlot("Coca-Cola"),
		Type:           dialogue.NoneSlot(),
		Package:        dialogue.UnknownSlot(),
	}
	require.NoError(t, repo.Store(intent))

	loaded, err := repo.FindByID(intent.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.True(t, loaded.Brand.Known)
	require.NotNil(t, loaded.Brand.Value)
	assert.Equal(t, "Coca-Cola", *loaded.Brand.Value)

	// Explicitly unconstrained survives as known-with-no-value.
	assert.True(t, loaded.Type.Known)
	assert.Nil(t, loaded.Type.Value)

	// Never-answered stays unknown.
	assert.False(t, loaded.Package.Known)
	assert.Nil(t, loaded.Package.Value)
}

func TestIntentCandidateCacheDistinguishesEmptyFromUnset(t *testing.T) {
	db := testDB(t)
	logger := testLogger(t)
	conv := seedConversation(t, db, logger)
	repo := NewIntentRepository(db, logger)

	unset := &dialogue.Intent{ID: security.GenerateULID(), ConversationID: conv.ID}
	require.NoError(t, repo.Store(unset))

	empty := &dialogue.Intent{
		ID:                 security.GenerateULID(),
		ConversationID:     conv.ID,
		CandidatesResolved: true,
		CandidateIDs:       []string{},
	}
	require.NoError(t, repo.Store(empty))

	loadedUnset, err := repo.FindByID(unset.ID)
	require.NoError(t, err)
	assert.False(t, loadedUnset.CandidatesResolved)

	loadedEmpty, err := repo.FindByID(empty.ID)
	require.NoError(t, err)
	assert.True(t, loadedEmpty.CandidatesResolved)
	assert.Empty(t, loadedEmpty.CandidateIDs)
}

func TestIntentUpdatePersistsMergedSlots(t *testing.T) {
	db := testDB(t)
	logger := testLogger(t)
	conv := seedConversation(t, db, logger)
	repo := NewIntentRepository(db, logger)

	intent := &dialogue.Intent{ID: security.GenerateULID(), ConversationID: conv.ID, RawText: "cola"}
	require.NoError(t, repo.Store(intent))

	intent.Brand = dialogue.ResolvedSlot("Pepsi")
	intent.CandidatesResolved = true
	intent.CandidateIDs = []string{"p1", "p2"}
	require.NoError(t, repo.Update(intent))

	loaded, err := repo.FindByID(intent.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Brand.Value)
	assert.Equal(t, "Pepsi", *loaded.Brand.Value)
	assert.Equal(t, []string{"p1", "p2"}, loaded.CandidateIDs)
}

func TestFindByIDMissingIntent(t *testing.T) {
	db := testDB(t)
	repo := NewIntentRepository(db, testLogger(t))

	loaded, err := repo.FindByID("no-such-id")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
