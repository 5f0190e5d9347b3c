package migration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// legacyPrefix distinguishes the unpartitioned collections the app wrote
// before per-user ownership existed.
const legacyPrefix = "legacy_"

// MongoStore implements DataStore over a Mongo database. Owned documents
// live in the dataset's collection with a user_id field; legacy documents
// live in a legacy_-prefixed collection without one.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("migration: database is required")
	}
	return &MongoStore{db: db}
}

func (s *MongoStore) CountOwned(ctx context.Context, userID uuid.UUID, ds Dataset) (int64, error) {
	if err := validDataset(ds); err != nil {
		return 0, err
	}
	count, err := s.db.Collection(string(ds)).CountDocuments(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", ds, err)
	}
	return count, nil
}

func (s *MongoStore) ListLegacy(ctx context.Context, ds Dataset) ([]Document, error) {
	if err := validDataset(ds); err != nil {
		return nil, err
	}

	cursor, err := s.db.Collection(legacyPrefix + string(ds)).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find legacy %s: %w", ds, err)
	}
	defer cursor.Close(ctx)

	var docs []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode legacy %s document: %w", ds, err)
		}
		id := raw["_id"]
		delete(raw, "_id")
		docs = append(docs, Document{ID: id, Fields: raw})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy %s: %w", ds, err)
	}
	return docs, nil
}

// CopyOwned upserts by original id, so replaying a batch after a partial
// failure overwrites rather than duplicates.
func (s *MongoStore) CopyOwned(ctx context.Context, userID uuid.UUID, ds Dataset, docs []Document) error {
	if err := validDataset(ds); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		replacement := bson.M{"user_id": userID.String()}
		for k, v := range doc.Fields {
			replacement[k] = v
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(replacement).
			SetUpsert(true))
	}

	if _, err := s.db.Collection(string(ds)).BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("bulk write %s: %w", ds, err)
	}
	return nil
}

func validDataset(ds Dataset) error {
	switch ds {
	case DatasetSales, DatasetStocks, DatasetExpenses:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDataset, ds)
	}
}
