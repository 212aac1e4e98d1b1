// Package applicationqueries builds the admin review list of applications.
package applicationqueries

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewRow is an application joined with its internship title and the
// applicant's handle and email.
type ReviewRow struct {
	ID              primitive.ObjectID `bson:"_id" json:"application_id"`
	InternshipID    primitive.ObjectID `bson:"internship_id" json:"internship_id"`
	InternshipTitle string             `bson:"internship_title" json:"internship_title"`
	InterneeID      primitive.ObjectID `bson:"internee_id" json:"internee_id"`
	Username        string             `bson:"username" json:"username"`
	Email           string             `bson:"email" json:"email"`
	Status          string             `bson:"status" json:"status"`
	Name            string             `bson:"name,omitempty" json:"name,omitempty"`
	UniversityName  string             `bson:"university_name,omitempty" json:"universityname,omitempty"`
	Degree          string             `bson:"degree,omitempty" json:"degree,omitempty"`
	Semester        string             `bson:"semester,omitempty" json:"semester,omitempty"`
	ResumePath      string             `bson:"resume_path,omitempty" json:"resumepath,omitempty"`
	AppliedAt       time.Time          `bson:"applied_at" json:"applied_at"`
}

// ListForReview returns every application, newest first.
func ListForReview(ctx context.Context, db *mongo.Database) ([]ReviewRow, error) {
	pipeline := []bson.M{
		{"$sort": bson.D{{Key: "applied_at", Value: -1}, {Key: "_id", Value: -1}}},
		{"$lookup": bson.M{
			"from":         "internships",
			"localField":   "internship_id",
			"foreignField": "_id",
			"as":           "internship",
		}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "internee_id",
			"foreignField": "_id",
			"as":           "user",
		}},
		{"$unwind": bson.M{"path": "$internship", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}},
		{"$addFields": bson.M{
			"internship_title": bson.M{"$ifNull": bson.A{"$internship.title", ""}},
			"username":         bson.M{"$ifNull": bson.A{"$user.username", ""}},
			"email":            bson.M{"$ifNull": bson.A{"$user.email", ""}},
		}},
		{"$project": bson.M{"internship": 0, "user": 0}},
	}

	cur, err := db.Collection("applications").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []ReviewRow{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
