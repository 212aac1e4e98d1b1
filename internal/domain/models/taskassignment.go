// internal/domain/models/taskassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment progress states.
//
//	pending -> in_progress -> completed
//	pending -> completed (submission)
const (
	AssignmentPending    = "pending"
	AssignmentInProgress = "in_progress"
	AssignmentCompleted  = "completed"
)

// IsValidAssignmentStatus reports whether s is a known assignment status.
func IsValidAssignmentStatus(s string) bool {
	switch s {
	case AssignmentPending, AssignmentInProgress, AssignmentCompleted:
		return true
	}
	return false
}

// TaskAssignment binds a Task to an internee. SubmissionPath and SubmittedAt
// are set only while Status is completed.
type TaskAssignment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"assignment_id"`
	TaskID         primitive.ObjectID `bson:"task_id" json:"task_id"`
	InterneeID     primitive.ObjectID `bson:"internee_id" json:"internee_id"`
	Status         string             `bson:"status" json:"status"`
	SubmissionPath string             `bson:"submission_path,omitempty" json:"submission_path,omitempty"`
	SubmittedAt    *time.Time         `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
