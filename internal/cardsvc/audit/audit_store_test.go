package audit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/avvvet/card-services/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// Runs against a real server when CARDS_TEST_MONGODB_URI is set.
func TestMongoAuditStore(t *testing.T) {
	uri := os.Getenv("CARDS_TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("CARDS_TEST_MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mdb, client, err := db.ConnectToDB(uri)
	require.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	s := NewMongoAuditStore(mdb)
	require.NoError(t, s.EnsureIndexes(ctx))

	const mobile = "999990000777"
	_, err = mdb.Collection(Collection).DeleteMany(ctx, bson.M{"mobile_number": mobile})
	require.NoError(t, err)

	rec := models.NewCreditCard(mobile, "199990000777")
	rec.CardID = 77

	created := models.NewCardEvent(models.CardCreated, rec, "CARDS_MS")
	require.NoError(t, s.Notify(ctx, created))

	deleted := models.NewCardEvent(models.CardDeleted, rec, "CARDS_MS")
	deleted.OccurredAt = created.OccurredAt.Add(time.Second)
	require.NoError(t, s.Notify(ctx, deleted))

	// same event id twice is refused
	assert.Error(t, s.Notify(ctx, created))

	entries, err := s.History(ctx, mobile, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.CardDeleted, entries[0].EventType)
	assert.Equal(t, models.CardCreated, entries[1].EventType)
	assert.Equal(t, created.ID, entries[1].ID)
	assert.Equal(t, int64(77), entries[1].CardID)
	assert.Equal(t, "CARDS_MS", entries[1].Actor)
	assert.False(t, entries[1].RecordedAt.IsZero())

	entries, err = s.History(ctx, mobile, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
