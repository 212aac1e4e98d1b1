// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application review states.
const (
	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"
)

// IsValidDecision reports whether s is a status an admin may set on review.
func IsValidDecision(s string) bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

// ApplicationDetails is the optional metadata submitted with a detailed
// application. ResumePath is the blob reference of the uploaded resume.
type ApplicationDetails struct {
	Name           string `bson:"name,omitempty" json:"name"`
	UniversityName string `bson:"university_name,omitempty" json:"universityname"`
	Degree         string `bson:"degree,omitempty" json:"degree"`
	Semester       string `bson:"semester,omitempty" json:"semester"`
	ResumePath     string `bson:"resume_path,omitempty" json:"resumepath"`
}

// Application is an internee's request to join an Internship. There is at
// most one Application per (InternshipID, InterneeID); re-applying
// overwrites it.
type Application struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"application_id"`
	InternshipID primitive.ObjectID `bson:"internship_id" json:"internship_id"`
	InterneeID   primitive.ObjectID `bson:"internee_id" json:"internee_id"`
	Status       string             `bson:"status" json:"status"`

	ApplicationDetails `bson:",inline"`

	AppliedAt time.Time `bson:"applied_at" json:"applied_at"`
}
