// internal/domain/models/internship.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Internship visibility states.
const (
	InternshipAvailable    = "available"
	InternshipNotAvailable = "not available"
)

// IsValidInternshipStatus reports whether s is a known internship status.
func IsValidInternshipStatus(s string) bool {
	return s == InternshipAvailable || s == InternshipNotAvailable
}

// Internship is a posting published by an admin. Deleting it removes its
// tasks, their assignments, and all applications to it.
type Internship struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"internship_id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
