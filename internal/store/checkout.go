package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"geo-attendance/internal/model"
)

type CheckoutStore struct {
	coll *mongo.Collection
}

func NewCheckoutStore(ctx context.Context, db *MongoDB) (*CheckoutStore, error) {
	coll := db.Collection("checkouts")

	// The unique index on checkin_id is what makes at-most-one checkout
	// per check-in hold under concurrent requests.
	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "checkin_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
	}); err != nil {
		return nil, fmt.Errorf("create checkout indexes: %w", err)
	}

	return &CheckoutStore{coll: coll}, nil
}

// Create inserts a checkout. It returns ErrDuplicate if the check-in
// already has one.
func (s *CheckoutStore) Create(ctx context.Context, c *model.Checkout) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, c)
	if err != nil {
		return translateWrite(err)
	}
	c.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// GetByCheckin returns the checkout for a check-in, or nil.
func (s *CheckoutStore) GetByCheckin(ctx context.Context, checkinID bson.ObjectID) (*model.Checkout, error) {
	var c model.Checkout
	err := s.coll.FindOne(ctx, bson.M{"checkin_id": checkinID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find checkout: %w", err)
	}
	return &c, nil
}

// List returns checkouts newest first, optionally within [from, to).
func (s *CheckoutStore) List(ctx context.Context, from, to *time.Time) ([]*model.Checkout, error) {
	filter := bson.M{}
	if r := dateRange(from, to); len(r) > 0 {
		filter["timestamp"] = r
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find checkouts: %w", err)
	}
	var results []*model.Checkout
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode checkouts: %w", err)
	}
	return results, nil
}
