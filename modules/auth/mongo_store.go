package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const accountsCollection = "accounts"

// MongoAccountStore implements AccountStore over the accounts collection.
// Emails are stored lowercased; a unique index on the email field backs the
// ErrEmailTaken guarantee.
type MongoAccountStore struct {
	col *mongo.Collection
}

// NewMongoAccountStore creates a store over the given database.
func NewMongoAccountStore(db *mongo.Database) *MongoAccountStore {
	if db == nil {
		panic("auth: database is required")
	}
	return &MongoAccountStore{col: db.Collection(accountsCollection)}
}

// EnsureIndexes creates the unique email index that Create's duplicate-key
// detection depends on. Idempotent; called on startup.
func (s *MongoAccountStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.col.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("create unique email index: %w", err)
	}
	return nil
}

func (s *MongoAccountStore) Create(ctx context.Context, account *Account) error {
	doc := *account
	doc.Email = normalizeEmail(doc.Email)

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", ErrEmailTaken, doc.Email)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *MongoAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &account, nil
}

func (s *MongoAccountStore) GetByEmail(ctx context.Context, email string) (*Account, error) {
	var account Account
	err := s.col.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&account)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func equalFoldEmail(a, b string) bool {
	return normalizeEmail(a) == normalizeEmail(b)
}
