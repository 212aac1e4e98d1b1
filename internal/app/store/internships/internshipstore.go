// internal/app/store/internships/internshipstore.go
package internshipstore

import (
	"context"
	"time"

	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("internships")}
}

// Create inserts a new internship. If ID is zero a new ObjectID is assigned;
// CreatedAt is always set to now (UTC).
func (s *Store) Create(ctx context.Context, in models.Internship) (models.Internship, error) {
	if in.ID.IsZero() {
		in.ID = primitive.NewObjectID()
	}
	in.CreatedAt = time.Now().UTC()
	in.UpdatedAt = nil

	if _, err := s.c.InsertOne(ctx, in); err != nil {
		return models.Internship{}, err
	}
	return in, nil
}

// GetByID returns a single internship. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Internship, error) {
	var in models.Internship
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&in)
	return in, err
}

// Exists reports whether an internship with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update holds the mutable fields of an internship.
type Update struct {
	Title       string
	Description string
	Status      string
}

// Update applies upd and returns the updated document.
// Returns mongo.ErrNoDocuments if the internship does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Internship, error) {
	now := time.Now().UTC()
	set := bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"status":      upd.Status,
		"updated_at":  now,
	}

	var out models.Internship
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out)
	return out, err
}

// Delete removes the internship with the given _id.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListAvailable returns internships with status "available", newest first.
func (s *Store) ListAvailable(ctx context.Context) ([]models.Internship, error) {
	return s.list(ctx, bson.M{"status": models.InternshipAvailable})
}

// ListAll returns every internship, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Internship, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Internship, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Internship{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
