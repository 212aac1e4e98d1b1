// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"time"

	"github.com/dalemusser/internportal/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

// Upsert records internee's application to an internship. An existing
// application for the same pair is overwritten: status returns to pending,
// details are replaced and applied_at is refreshed. The unique
// (internship_id, internee_id) index serializes concurrent first applies;
// the loser of that race is retried once and lands on the update path.
func (s *Store) Upsert(ctx context.Context, internshipID, interneeID primitive.ObjectID, d models.ApplicationDetails) (models.Application, error) {
	app, err := s.upsertOnce(ctx, internshipID, interneeID, d)
	if err != nil && wafflemongo.IsDup(err) {
		app, err = s.upsertOnce(ctx, internshipID, interneeID, d)
	}
	return app, err
}

func (s *Store) upsertOnce(ctx context.Context, internshipID, interneeID primitive.ObjectID, d models.ApplicationDetails) (models.Application, error) {
	filter := bson.M{"internship_id": internshipID, "internee_id": interneeID}

	set := bson.M{
		"status":     models.ApplicationPending,
		"applied_at": time.Now().UTC(),
	}
	unset := bson.M{}
	for field, v := range map[string]string{
		"name":            d.Name,
		"university_name": d.UniversityName,
		"degree":          d.Degree,
		"semester":        d.Semester,
		"resume_path":     d.ResumePath,
	} {
		if v == "" {
			unset[field] = ""
		} else {
			set[field] = v
		}
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var out models.Application
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out)
	return out, err
}

// GetByID returns a single application. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var a models.Application
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	return a, err
}

// SetStatus records a review decision and returns the updated application.
// Returns mongo.ErrNoDocuments if absent.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Application, error) {
	var out models.Application
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&out)
	return out, err
}

// DeleteByInternship removes every application to an internship.
// Returns the number of documents deleted.
func (s *Store) DeleteByInternship(ctx context.Context, internshipID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"internship_id": internshipID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
