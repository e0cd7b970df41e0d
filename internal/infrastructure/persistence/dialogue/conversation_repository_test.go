package dialogue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
	"github.com/nearcart/nearcart-go/internal/infrastructure/security"
)

func TestExpiredConversationReadsAsMissing(t *testing.T) {
	db := testDB(t)
	logger := testLogger(t)
	conv := seedConversation(t, db, logger)
	repo := NewConversationRepository(db, logger)

	conv.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.Update(conv))

	loaded, err := repo.FindByID(conv.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestExpiredSessionReadsAsMissing(t *testing.T) {
	db := testDB(t)
	logger := testLogger(t)
	repo := NewSessionRepository(db, logger)

	now := time.Now().UTC()
	session := &dialogue.Session{
		ID:         security.GenerateULID(),
		LastSeenAt: now,
		CreatedAt:  now.Add(-48 * time.Hour),
		ExpiresAt:  now.Add(-time.Minute),
	}
	require.NoError(t, repo.Store(session))

	loaded, err := repo.FindByID(session.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionTouchKeepsExpiryFixed(t *testing.T) {
	db := testDB(t)
	repo := NewSessionRepository(db, testLogger(t))

	created := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	expires := created.Add(30 * 24 * time.Hour)
	session := &dialogue.Session{
		ID:         security.GenerateULID(),
		LastSeenAt: created,
		CreatedAt:  created,
		ExpiresAt:  expires,
	}
	require.NoError(t, repo.Store(session))

	seen := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Touch(session.ID, seen))

	loaded, err := repo.FindByID(session.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.LastSeenAt.Equal(seen))
	assert.True(t, loaded.ExpiresAt.Equal(expires))
}

func TestConversationStateTransitionsPersist(t *testing.T) {
	db := testDB(t)
	logger := testLogger(t)
	conv := seedConversation(t, db, logger)
	repo := NewConversationRepository(db, logger)

	intentID := security.GenerateULID()
	conv.State = dialogue.StateNeedsClarification
	conv.IntentID = &intentID
	conv.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(conv))

	loaded, err := repo.FindByID(conv.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, dialogue.StateNeedsClarification, loaded.State)
	require.NotNil(t, loaded.IntentID)
	assert.Equal(t, intentID, *loaded.IntentID)
}

func TestMessagesReturnInCreationOrder(t *testing.T) {
	db := testDB(t)
	logger := testLogger(t)
	conv := seedConversation(t, db, logger)
	repo := NewMessageRepository(db, logger)

	base := time.Now().UTC()
	for i, text := range []string{"first", "second", "third"} {
		msg := &dialogue.Message{
			ID:             security.GenerateULID(),
			ConversationID: conv.ID,
			Sender:         dialogue.SenderCustomer,
			Text:           text,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Store(msg))
	}

	messages, err := repo.FindByConversationID(conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "third", messages[2].Text)
}
