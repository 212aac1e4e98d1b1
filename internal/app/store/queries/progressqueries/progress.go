// Package progressqueries computes per-internee assignment progress.
package progressqueries

import (
	"context"

	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Row is one internee's assignment counts. Rows are derived on every call
// and never stored.
type Row struct {
	InterneeID primitive.ObjectID `bson:"_id" json:"internee_id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Completed  int64              `bson:"completed" json:"completed_tasks"`
	InProgress int64              `bson:"in_progress" json:"in_progress_tasks"`
	Pending    int64              `bson:"pending" json:"pending_tasks"`
	Total      int64              `bson:"total" json:"total_tasks"`
}

// InterneeProgress returns a row for every internee, including those with
// no assignments, ordered by case-folded username.
func InterneeProgress(ctx context.Context, db *mongo.Database) ([]Row, error) {
	countStatus := func(status string) bson.M {
		return bson.M{"$size": bson.M{"$filter": bson.M{
			"input": "$assignments",
			"as":    "a",
			"cond":  bson.M{"$eq": bson.A{"$$a.status", status}},
		}}}
	}

	pipeline := []bson.M{
		{"$match": bson.M{"role": models.RoleInternee}},
		{"$lookup": bson.M{
			"from":         "task_assignments",
			"localField":   "_id",
			"foreignField": "internee_id",
			"as":           "assignments",
		}},
		{"$project": bson.M{
			"username":    1,
			"username_ci": 1,
			"email":       bson.M{"$ifNull": bson.A{"$email", ""}},
			"completed":   countStatus(models.AssignmentCompleted),
			"in_progress": countStatus(models.AssignmentInProgress),
			"pending":     countStatus(models.AssignmentPending),
			"total":       bson.M{"$size": "$assignments"},
		}},
		{"$sort": bson.D{{Key: "username_ci", Value: 1}, {Key: "_id", Value: 1}}},
	}

	cur, err := db.Collection("users").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Row{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
