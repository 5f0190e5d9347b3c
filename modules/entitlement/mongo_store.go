package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection    = "users"
	paymentsCollection = "payments"
)

// MongoStore implements Store on top of MongoDB. Entitlement records live in
// the users collection keyed by user ID; payments are a flat append-only
// collection keyed by payment ID with a user_id index field.
type MongoStore struct {
	users    *mongo.Collection
	payments *mongo.Collection
}

// NewMongoStore creates a MongoDB-backed entitlement store.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:    db.Collection(usersCollection),
		payments: db.Collection(paymentsCollection),
	}
}

func (s *MongoStore) Get(ctx context.Context, userID uuid.UUID) (*Record, error) {
	var record Record
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create inserts the record unless one already exists. $setOnInsert keeps the
// write atomic and makes concurrent first-login provisioning a no-op for the
// loser.
func (s *MongoStore) Create(ctx context.Context, record *Record) error {
	_, err := s.users.UpdateOne(ctx,
		bson.M{"_id": record.UserID},
		bson.M{"$setOnInsert": record},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Update(ctx context.Context, record *Record) error {
	set := bson.M{
		"subscription_status":  record.Status,
		"cancel_at_period_end": record.CancelAtPeriodEnd,
	}
	if record.ProviderSubscriptionID != "" {
		set["provider_subscription_id"] = record.ProviderSubscriptionID
	}
	if record.CurrentPeriodStart != nil {
		set["current_period_start"] = record.CurrentPeriodStart
	}
	if record.CurrentPeriodEnd != nil {
		set["current_period_end"] = record.CurrentPeriodEnd
	}

	res, err := s.users.UpdateOne(ctx, bson.M{"_id": record.UserID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoStore) SetMigrated(ctx context.Context, userID uuid.UUID) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"migrated": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoStore) SetProviderCustomerID(ctx context.Context, userID uuid.UUID, customerID string) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"provider_customer_id": customerID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *MongoStore) AppendPayment(ctx context.Context, payment *Payment) error {
	_, err := s.payments.InsertOne(ctx, payment)
	return err
}

func (s *MongoStore) ListPayments(ctx context.Context, userID uuid.UUID) ([]Payment, error) {
	cur, err := s.payments.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var payments []Payment
	if err := cur.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *MongoStore) ListLapsed(ctx context.Context, now time.Time) ([]Record, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{
			"subscription_status": StatusTrial,
			"trial_ends_at":       bson.M{"$lt": now},
		},
		bson.M{
			"subscription_status": StatusActive,
			"current_period_end":  bson.M{"$lt": now},
		},
	}}

	cur, err := s.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
