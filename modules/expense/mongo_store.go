package expense

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

const expensesCollection = "expenses"

// MongoStore implements Store over the expenses collection.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		panic("expense: database is required")
	}
	return &MongoStore{col: db.Collection(expensesCollection)}
}

func (s *MongoStore) Create(ctx context.Context, expense *Expense) error {
	if _, err := s.col.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, userID uuid.UUID, id string) (*Expense, error) {
	var expense Expense
	err := s.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID.String()}).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find expense: %w", err)
	}
	return &expense, nil
}

func (s *MongoStore) List(ctx context.Context, userID uuid.UUID) ([]Expense, error) {
	return s.find(ctx, bson.M{"user_id": userID.String()})
}

func (s *MongoStore) ListBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Expense, error) {
	filter := bson.M{"user_id": userID.String()}
	timeRange := bson.M{}
	if !from.IsZero() {
		timeRange["$gte"] = from
	}
	if !to.IsZero() {
		timeRange["$lt"] = to
	}
	if len(timeRange) > 0 {
		filter["timestamp"] = timeRange
	}
	return s.find(ctx, filter)
}

func (s *MongoStore) find(ctx context.Context, filter bson.M) ([]Expense, error) {
	cursor, err := s.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var expenses []Expense
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}
	return expenses, nil
}

func (s *MongoStore) Update(ctx context.Context, expense *Expense) error {
	result, err := s.col.ReplaceOne(ctx, bson.M{"_id": expense.ID, "user_id": expense.UserID}, expense)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID.String()})
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
