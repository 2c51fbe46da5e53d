package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Department struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Tasks     []string      `bson:"tasks" json:"tasks"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updated_at" json:"updatedAt"`
}

// Team belongs to a department and inherits its task list on every save.
type Team struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	DepartmentID bson.ObjectID `bson:"department_id" json:"department"`
	Workers      []string      `bson:"workers" json:"workers"`
	Supervisor   string        `bson:"supervisor" json:"supervisor"`
	Tasks        []string      `bson:"tasks" json:"tasks"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}

type Zone struct {
	ID         bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name       string         `bson:"name" json:"name"`
	TeamID     *bson.ObjectID `bson:"team_id,omitempty" json:"team"`
	Tasks      []string       `bson:"tasks" json:"tasks"`
	AssignedAt time.Time      `bson:"assigned_at" json:"assignedAt"`
	CreatedAt  time.Time      `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `bson:"updated_at" json:"updatedAt"`
}
