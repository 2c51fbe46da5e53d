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

type CheckinStore struct {
	coll *mongo.Collection
}

func NewCheckinStore(ctx context.Context, db *MongoDB) (*CheckinStore, error) {
	coll := db.Collection("checkins")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}); err != nil {
		return nil, fmt.Errorf("create checkin indexes: %w", err)
	}

	return &CheckinStore{coll: coll}, nil
}

// Create inserts a new check-in and sets the ID on the struct.
func (s *CheckinStore) Create(ctx context.Context, c *model.Checkin) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	c.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

// GetByID returns the check-in, or nil if it does not exist.
func (s *CheckinStore) GetByID(ctx context.Context, id bson.ObjectID) (*model.Checkin, error) {
	var c model.Checkin
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find checkin: %w", err)
	}
	return &c, nil
}

func (s *CheckinStore) Update(ctx context.Context, c *model.Checkin) error {
	c.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	return err
}

// newestFirst orders check-ins by creation time, then by id for records
// created within the same millisecond.
var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// Latest returns the employee's most recently created check-in, or nil.
func (s *CheckinStore) Latest(ctx context.Context, employeeID bson.ObjectID) (*model.Checkin, error) {
	var c model.Checkin
	opts := options.FindOne().SetSort(newestFirst)
	err := s.coll.FindOne(ctx, bson.M{"employee_id": employeeID}, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest checkin: %w", err)
	}
	return &c, nil
}

// ListByStatus returns check-ins in any of the given statuses, newest
// first, optionally limited to a creation time window.
func (s *CheckinStore) ListByStatus(ctx context.Context, statuses []model.CheckinStatus, from, to *time.Time) ([]*model.Checkin, error) {
	filter := bson.M{"status": bson.M{"$in": statuses}}
	if r := dateRange(from, to); len(r) > 0 {
		filter["created_at"] = r
	}
	opts := options.Find().SetSort(newestFirst)
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find checkins: %w", err)
	}
	var results []*model.Checkin
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode checkins: %w", err)
	}
	return results, nil
}

// GetByIDs returns the check-ins with the given ids keyed by id.
func (s *CheckinStore) GetByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.Checkin, error) {
	out := make(map[bson.ObjectID]*model.Checkin, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find checkins: %w", err)
	}
	var results []*model.Checkin
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode checkins: %w", err)
	}
	for _, c := range results {
		out[c.ID] = c
	}
	return out, nil
}
