package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduardojeem/Mipos-sub011/internal/domain"
)

// MongoStore keeps the draft slot in a shared back-office database,
// one document per register, upserted in place. The snapshot itself is
// stored as a JSON payload so the wire shape matches the file store and
// decimal fields round-trip exactly.
type MongoStore struct {
	collection *mongo.Collection
	registerID string
	timeout    time.Duration
}

type draftDocument struct {
	RegisterID string    `bson:"register_id"`
	Payload    []byte    `bson:"payload"`
	SavedAt    time.Time `bson:"saved_at"`
}

func NewMongoStore(collection *mongo.Collection, registerID string) *MongoStore {
	return &MongoStore{
		collection: collection,
		registerID: registerID,
		timeout:    5 * time.Second,
	}
}

func (m *MongoStore) Save(snapshot domain.CartSnapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}

	filter := bson.M{"register_id": m.registerID}
	update := bson.M{"$set": draftDocument{
		RegisterID: m.registerID,
		Payload:    payload,
		SavedAt:    time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("upsert draft: %w", err)
	}
	return nil
}

func (m *MongoStore) Load() (domain.CartSnapshot, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	var doc draftDocument
	err := m.collection.FindOne(ctx, bson.M{"register_id": m.registerID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.CartSnapshot{}, false, nil
	}
	if err != nil {
		return domain.CartSnapshot{}, false, fmt.Errorf("load draft: %w", err)
	}

	var snapshot domain.CartSnapshot
	if err := json.Unmarshal(doc.Payload, &snapshot); err != nil {
		log.Printf("draft document unreadable, treating as absent: %v", err)
		return domain.CartSnapshot{}, false, nil
	}
	return snapshot, true, nil
}

func (m *MongoStore) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if _, err := m.collection.DeleteOne(ctx, bson.M{"register_id": m.registerID}); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
