// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work attached to exactly one Internship.
type Task struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"task_id"`
	InternshipID primitive.ObjectID `bson:"internship_id" json:"internship_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	DueDate      *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedBy    primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
