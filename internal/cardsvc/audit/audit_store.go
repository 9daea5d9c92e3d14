package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/avvvet/card-services/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const Collection = "card_audit"

// Entry is one card change as stored in Mongo. The event id is the document id,
// so a redelivered event is rejected instead of recorded twice.
type Entry struct {
	ID           string    `bson:"_id" json:"id"`
	EventType    string    `bson:"event_type" json:"event_type"`
	CardID       int64     `bson:"card_id" json:"card_id"`
	MobileNumber string    `bson:"mobile_number" json:"mobile_number"`
	CardNumber   string    `bson:"card_number" json:"card_number"`
	Actor        string    `bson:"actor" json:"actor"`
	OccurredAt   time.Time `bson:"occurred_at" json:"occurred_at"`
	RecordedAt   time.Time `bson:"recorded_at" json:"recorded_at"`
}

type MongoAuditStore struct {
	database   *mongo.Database
	collection *mongo.Collection
}

func NewMongoAuditStore(database *mongo.Database) *MongoAuditStore {
	return &MongoAuditStore{
		database:   database,
		collection: database.Collection(Collection),
	}
}

func (s *MongoAuditStore) EnsureIndexes(ctx context.Context) error {
	return db.CreateIndexForCollection(ctx, s.database, Collection, "mobile_number")
}

func (s *MongoAuditStore) Notify(ctx context.Context, ev models.CardEvent) error {
	return s.Save(ctx, Entry{
		ID:           ev.ID,
		EventType:    ev.Type,
		CardID:       ev.CardID,
		MobileNumber: ev.MobileNumber,
		CardNumber:   ev.CardNumber,
		Actor:        ev.Actor,
		OccurredAt:   ev.OccurredAt,
	})
}

func (s *MongoAuditStore) Save(ctx context.Context, entry Entry) error {
	entry.RecordedAt = time.Now().UTC()

	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// History returns the newest entries for mobileNumber first.
func (s *MongoAuditStore) History(ctx context.Context, mobileNumber string, limit int64) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := s.collection.Find(ctx, bson.M{"mobile_number": mobileNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer cur.Close(ctx)

	entries := []Entry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
