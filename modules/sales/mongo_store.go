package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const salesCollection = "sales"

// MongoStore implements Store over the sales collection.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("sales: database is required")
	}
	return &MongoStore{col: db.Collection(salesCollection)}
}

func (s *MongoStore) Create(ctx context.Context, sale *Sale) error {
	if _, err := s.col.InsertOne(ctx, sale); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, userID uuid.UUID, id string) (*Sale, error) {
	var sale Sale
	err := s.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID.String()}).Decode(&sale)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find sale: %w", err)
	}
	return &sale, nil
}

func (s *MongoStore) List(ctx context.Context, userID uuid.UUID) ([]Sale, error) {
	return s.find(ctx, bson.M{"user_id": userID.String()})
}

func (s *MongoStore) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Sale, error) {
	filter := bson.M{"user_id": userID.String()}
	dateRange := bson.M{}
	if !from.IsZero() {
		dateRange["$gte"] = from
	}
	if !to.IsZero() {
		dateRange["$lt"] = to
	}
	if len(dateRange) > 0 {
		filter["sale_date"] = dateRange
	}
	return s.find(ctx, filter)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]Sale, error) {
	cursor, err := s.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "sale_date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer cursor.Close(ctx)

	var sales []Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("decode sales: %w", err)
	}
	return sales, nil
}

func (s *MongoStore) Update(ctx context.Context, sale *Sale) error {
	result, err := s.col.ReplaceOne(ctx, bson.M{"_id": sale.ID, "user_id": sale.UserID}, sale)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID.String()})
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrSaleNotFound
	}
	return nil
}
