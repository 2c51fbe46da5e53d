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

// OrganizationStore holds departments, teams and zones.
type OrganizationStore struct {
	departments *mongo.Collection
	teams       *mongo.Collection
	zones       *mongo.Collection
}

func NewOrganizationStore(ctx context.Context, db *MongoDB) (*OrganizationStore, error) {
	departments := db.Collection("departments")
	teams := db.Collection("teams")
	zones := db.Collection("zones")

	unique := options.Index().SetUnique(true)
	for name, coll := range map[string]*mongo.Collection{"departments": departments, "teams": teams, "zones": zones} {
		if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: unique,
		}); err != nil {
			return nil, fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	if _, err := teams.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "department_id", Value: 1}},
	}); err != nil {
		return nil, fmt.Errorf("create teams indexes: %w", err)
	}

	return &OrganizationStore{departments: departments, teams: teams, zones: zones}, nil
}

var byName = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

// CreateDepartment inserts a department and sets the ID on the struct.
func (s *OrganizationStore) CreateDepartment(ctx context.Context, d *model.Department) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	res, err := s.departments.InsertOne(ctx, d)
	if err != nil {
		return translateWrite(err)
	}
	d.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *OrganizationStore) GetDepartment(ctx context.Context, id bson.ObjectID) (*model.Department, error) {
	return findOneAs[model.Department](ctx, s.departments, bson.M{"_id": id}, "department")
}

func (s *OrganizationStore) GetDepartmentByName(ctx context.Context, name string) (*model.Department, error) {
	return findOneAs[model.Department](ctx, s.departments, bson.M{"name": name}, "department")
}

func (s *OrganizationStore) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	return findAllAs[model.Department](ctx, s.departments, bson.M{}, "departments")
}

func (s *OrganizationStore) DeleteDepartment(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.departments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete department: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// CreateTeam inserts a team and sets the ID on the struct.
func (s *OrganizationStore) CreateTeam(ctx context.Context, t *model.Team) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := s.teams.InsertOne(ctx, t)
	if err != nil {
		return translateWrite(err)
	}
	t.ID = res.InsertedID.(bson.ObjectID)
	return nil
}

func (s *OrganizationStore) GetTeam(ctx context.Context, id bson.ObjectID) (*model.Team, error) {
	return findOneAs[model.Team](ctx, s.teams, bson.M{"_id": id}, "team")
}

func (s *OrganizationStore) GetTeamByName(ctx context.Context, name string) (*model.Team, error) {
	return findOneAs[model.Team](ctx, s.teams, bson.M{"name": name}, "team")
}

func (s *OrganizationStore) ListTeams(ctx context.Context) ([]*model.Team, error) {
	return findAllAs[model.Team](ctx, s.teams, bson.M{}, "teams")
}

func (s *OrganizationStore) UpdateTeam(ctx context.Context, t *model.Team) error {
	t.UpdatedAt = time.Now()
	_, err := s.teams.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	return translateWrite(err)
}

func (s *OrganizationStore) DeleteTeam(ctx context.Context, id bson.ObjectID) (bool, error) {
	res, err := s.teams.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete team: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// UpsertZone creates the zone named z.Name or replaces its team, tasks
// and assignment time. The stored document is written back into z.
func (s *OrganizationStore) UpsertZone(ctx context.Context, z *model.Zone) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"team_id":     z.TeamID,
			"tasks":       z.Tasks,
			"assigned_at": z.AssignedAt,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	if err := s.zones.FindOneAndUpdate(ctx, bson.M{"name": z.Name}, update, opts).Decode(z); err != nil {
		return fmt.Errorf("upsert zone: %w", err)
	}
	return nil
}

func (s *OrganizationStore) ListZones(ctx context.Context) ([]*model.Zone, error) {
	return findAllAs[model.Zone](ctx, s.zones, bson.M{}, "zones")
}

func findOneAs[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, what string) (*T, error) {
	var v T
	err := coll.FindOne(ctx, filter).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	return &v, nil
}

func findAllAs[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, what string) ([]*T, error) {
	cursor, err := coll.Find(ctx, filter, byName)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", what, err)
	}
	var results []*T
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	return results, nil
}
