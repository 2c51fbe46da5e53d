package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"geo-attendance/internal/geofence"
	"geo-attendance/internal/model"
)

// The store interfaces are satisfied by the MongoDB stores in
// internal/store and by the in-memory ones in internal/store/memstore.

type CheckinStore interface {
	Create(ctx context.Context, c *model.Checkin) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Checkin, error)
	Update(ctx context.Context, c *model.Checkin) error
	Latest(ctx context.Context, employeeID bson.ObjectID) (*model.Checkin, error)
	ListByStatus(ctx context.Context, statuses []model.CheckinStatus, from, to *time.Time) ([]*model.Checkin, error)
	GetByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.Checkin, error)
}

type CheckoutStore interface {
	Create(ctx context.Context, c *model.Checkout) error
	GetByCheckin(ctx context.Context, checkinID bson.ObjectID) (*model.Checkout, error)
	List(ctx context.Context, from, to *time.Time) ([]*model.Checkout, error)
}

type EmployeeStore interface {
	Create(ctx context.Context, e *model.Employee) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error)
	FindByEmployeeIDOrEmail(ctx context.Context, employeeID, email string) (*model.Employee, error)
	Update(ctx context.Context, e *model.Employee) error
	Delete(ctx context.Context, id bson.ObjectID) (bool, error)
	List(ctx context.Context) ([]*model.Employee, error)
	GetByIDs(ctx context.Context, ids []bson.ObjectID) (map[bson.ObjectID]*model.Employee, error)
}

type OrganizationStore interface {
	CreateDepartment(ctx context.Context, d *model.Department) error
	GetDepartment(ctx context.Context, id bson.ObjectID) (*model.Department, error)
	GetDepartmentByName(ctx context.Context, name string) (*model.Department, error)
	ListDepartments(ctx context.Context) ([]*model.Department, error)
	DeleteDepartment(ctx context.Context, id bson.ObjectID) (bool, error)

	CreateTeam(ctx context.Context, t *model.Team) error
	GetTeam(ctx context.Context, id bson.ObjectID) (*model.Team, error)
	GetTeamByName(ctx context.Context, name string) (*model.Team, error)
	ListTeams(ctx context.Context) ([]*model.Team, error)
	UpdateTeam(ctx context.Context, t *model.Team) error
	DeleteTeam(ctx context.Context, id bson.ObjectID) (bool, error)

	UpsertZone(ctx context.Context, z *model.Zone) error
	ListZones(ctx context.Context) ([]*model.Zone, error)
}

// Locator decides whether a coordinate is inside an office geofence.
type Locator interface {
	Locate(ctx context.Context, lat, lng float64) (geofence.Result, error)
}

// PhotoUploader stores a watermarked check-in photo and returns its URL.
type PhotoUploader interface {
	UploadPhoto(ctx context.Context, photo []byte, filename, watermark string) (string, error)
}
