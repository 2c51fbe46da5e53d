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

type EmployeeStore struct {
	coll *mongo.Collection
}

func NewEmployeeStore(ctx context.Context, db *MongoDB) (*EmployeeStore, error) {
	coll := db.Collection("workers")

	if _, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create worker indexes: %w", err)
	}

	return &EmployeeStore{coll: coll}, nil
}

// Create inserts a worker and sets the ID on the struct. Unique index
// violations are reported as ErrDuplicate.
func (s *EmployeeStore) Create(ctx context.Context, e *model.Employee) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	res, err := s.coll.InsertOne(ctx, e)
	if err != nil {
		return translateWrite(err)
	}
	e.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *EmployeeStore) GetByID(ctx context.Context, id bson.ObjectID) (*model.Employee, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmployeeID looks a worker up by employee code.
func (s *EmployeeStore) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error) {
	return s.findOne(ctx, bson.M{"employee_id": employeeID})
}

// FindByEmployeeIDOrEmail returns any worker holding either value.
func (s *EmployeeStore) FindByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (*model.Employee, error) {
	return s.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"employee_id": employeeID},
		bson.M{"email": email},
	}})
}

func (s *EmployeeStore) findOne(ctx context.Context, filter bson.M) (*model.Employee, error) {
	var e model.Employee
	err := s.coll.FindOne(ctx, filter).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find worker: %w", err)
	}
	return &e, nil
}

func (s *EmployeeStore) Update(ctx context.Context, e *model.Employee) error {
	e.UpdatedAt = time.Now()
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	return translateWrite(err)
}

// Delete removes a worker and reports whether it existed.
func (s *EmployeeStore) Delete(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete worker: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// List returns all workers ordered by last then first name.
func (s *EmployeeStore) List(ctx context.Context) ([]*model.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find workers: %w", err)
	}
	var results []*model.Employee
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode workers: %w", err)
	}
	return results, nil
}

// GetByIDs returns the workers with the given ids keyed by id.
func (s *EmployeeStore) GetByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.Employee, error) {
	out := make(map[bson.ObjectID]*model.Employee, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find workers: %w", err)
	}
	var results []*model.Employee
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode workers: %w", err)
	}
	for _, e := range results {
		out[e.ID] = e
	}
	return out, nil
}

// BackfillRole sets role on every worker that has none and returns the
// number of updated documents.
func (s *EmployeeStore) BackfillRole(ctx context.Context, role model.Role) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"$or": bson.A{
			bson.M{"role": bson.M{"$exists": false}},
			bson.M{"role": ""},
		}},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("backfill role: %w", err)
	}
	return res.ModifiedCount, nil
}

// CountMissingRole counts workers without a role.
func (s *EmployeeStore) CountMissingRole(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"role": bson.M{"$exists": false}},
		bson.M{"role": ""},
	}})
	if err != nil {
		return 0, fmt.Errorf("count workers: %w", err)
	}
	return n, nil
}

// ListMissingPasswordHash returns workers that cannot log in yet.
func (s *EmployeeStore) ListMissingPasswordHash(ctx context.Context) ([]*model.Employee, error) {
	cursor, err := s.coll.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"password_hash": bson.M{"$exists": false}},
		bson.M{"password_hash": ""},
	}})
	if err != nil {
		return nil, fmt.Errorf("find workers: %w", err)
	}
	var results []*model.Employee
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode workers: %w", err)
	}
	return results, nil
}

func (s *EmployeeStore) SetPasswordHash(ctx context.Context, id bson.ObjectID, hash string) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	return nil
}
