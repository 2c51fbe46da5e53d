package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type CheckinStatus string

const (
	CheckinStatusPending  CheckinStatus = "pending"
	CheckinStatusApproved CheckinStatus = "approved"
	CheckinStatusRejected CheckinStatus = "rejected"
)

// IsDecision reports whether s is a status a reviewer may set.
func (s CheckinStatus) IsDecision() bool {
	return s == CheckinStatusApproved || s == CheckinStatusRejected
}

// Checkin is a single check-in attempt awaiting or past review.
type Checkin struct {
	ID             bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	EmployeeID     bson.ObjectID  `bson:"employee_id" json:"employee"`
	Lat            float64        `bson:"lat" json:"lat"`
	Lng            float64        `bson:"lng" json:"lng"`
	PhotoURL       string         `bson:"photo_url" json:"photoUrl"`
	OfficeName     string         `bson:"office_name" json:"officeName"`
	Status         CheckinStatus  `bson:"status" json:"status"`
	Timestamp      time.Time      `bson:"timestamp" json:"timestamp"`
	ReviewComments string         `bson:"review_comments" json:"reviewComments"`
	ReviewedBy     *bson.ObjectID `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	ReviewedAt     *time.Time     `bson:"reviewed_at,omitempty" json:"reviewedAt,omitempty"`
	CreatedAt      time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updated_at" json:"updatedAt"`
}

// Checkout closes an approved check-in. At most one exists per check-in.
type Checkout struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID bson.ObjectID `bson:"employee_id" json:"employee"`
	CheckinID  bson.ObjectID `bson:"checkin_id" json:"checkin"`
	Timestamp  time.Time     `bson:"timestamp" json:"timestamp"`
	CreatedAt  time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Office is a location from the external office directory.
type Office struct {
	Name string  `json:"officeName" yaml:"name"`
	Lat  float64 `json:"lat" yaml:"lat"`
	Lng  float64 `json:"lng" yaml:"lng"`
}
