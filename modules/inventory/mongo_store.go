package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const stocksCollection = "stocks"

// MongoStore implements Store over the stocks collection. Every query
// filters on user_id so one user can never see or touch another's lines.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("inventory: database is required")
	}
	return &MongoStore{col: db.Collection(stocksCollection)}
}

func (s *MongoStore) Create(ctx context.Context, stock *Stock) error {
	if _, err := s.col.InsertOne(ctx, stock); err != nil {
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, userID uuid.UUID, id string) (*Stock, error) {
	var stock Stock
	err := s.col.FindOne(ctx, ownedFilter(userID, id)).Decode(&stock)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find stock: %w", err)
	}
	return &stock, nil
}

func (s *MongoStore) GetByProduct(ctx context.Context, userID uuid.UUID, product string) (*Stock, error) {
	filter := bson.M{
		"user_id": userID.String(),
		"product": bson.M{"$regex": "^" + escapeRegex(product) + "$", "$options": "i"},
	}
	var stock Stock
	err := s.col.FindOne(ctx, filter).Decode(&stock)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrStockNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find stock by product: %w", err)
	}
	return &stock, nil
}

func (s *MongoStore) List(ctx context.Context, userID uuid.UUID) ([]Stock, error) {
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID.String()},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer cursor.Close(ctx)

	var stocks []Stock
	if err := cursor.All(ctx, &stocks); err != nil {
		return nil, fmt.Errorf("decode stocks: %w", err)
	}
	return stocks, nil
}

func (s *MongoStore) Update(ctx context.Context, stock *Stock) error {
	result, err := s.col.ReplaceOne(ctx, bson.M{"_id": stock.ID, "user_id": stock.UserID}, stock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrStockNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	result, err := s.col.DeleteOne(ctx, ownedFilter(userID, id))
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrStockNotFound
	}
	return nil
}

// AdjustQuantity folds the oversell guard into the filter, so the check and
// the decrement are one atomic operation.
func (s *MongoStore) AdjustQuantity(ctx context.Context, userID uuid.UUID, id string, delta float64) error {
	filter := ownedFilter(userID, id)
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}

	result, err := s.col.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"quantity": delta}})
	if err != nil {
		return fmt.Errorf("adjust stock quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, getErr := s.Get(ctx, userID, id); getErr != nil {
			return getErr
		}
		return ErrInsufficientStock
	}
	return nil
}

func ownedFilter(userID uuid.UUID, id string) bson.M {
	return bson.M{"_id": id, "user_id": userID.String()}
}

func escapeRegex(s string) string {
	special := `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, sp := range special {
			if r == sp {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}
