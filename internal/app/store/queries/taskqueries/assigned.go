// Package taskqueries joins tasks with their per-internee assignments.
package taskqueries

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssignedTask is a task as seen by the internee it is assigned to.
type AssignedTask struct {
	AssignmentID   primitive.ObjectID `bson:"_id" json:"assignment_id"`
	TaskID         primitive.ObjectID `bson:"task_id" json:"task_id"`
	InternshipID   primitive.ObjectID `bson:"internship_id" json:"internship_id"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description" json:"description"`
	DueDate        *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Status         string             `bson:"status" json:"status"`
	SubmissionPath string             `bson:"submission_path,omitempty" json:"submission_path,omitempty"`
	SubmittedAt    *time.Time         `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
}

// AssignedTo returns every task assigned to interneeID with the
// assignment's state, latest due date first. Tasks without a due date
// sort last.
func AssignedTo(ctx context.Context, db *mongo.Database, interneeID primitive.ObjectID) ([]AssignedTask, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"internee_id": interneeID}},
		{"$lookup": bson.M{
			"from":         "tasks",
			"localField":   "task_id",
			"foreignField": "_id",
			"as":           "task",
		}},
		{"$unwind": "$task"},
		{"$project": bson.M{
			"task_id":         1,
			"status":          1,
			"submission_path": 1,
			"submitted_at":    1,
			"internship_id":   "$task.internship_id",
			"title":           "$task.title",
			"description":     "$task.description",
			"due_date":        "$task.due_date",
		}},
		{"$sort": bson.D{{Key: "due_date", Value: -1}, {Key: "_id", Value: 1}}},
	}

	cur, err := db.Collection("task_assignments").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []AssignedTask{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
