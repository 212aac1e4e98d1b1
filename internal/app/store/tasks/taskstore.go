// internal/app/store/tasks/taskstore.go
package taskstore

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
	return &Store{c: db.Collection("tasks")}
}

// Create inserts a new task. The caller is responsible for confirming the
// internship exists.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = nil

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID returns a single task. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	return t, err
}

// Update holds the mutable fields of a task. The owning internship cannot move.
type Update struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// Update applies upd and returns the updated task. A nil DueDate clears it.
// Returns mongo.ErrNoDocuments if the task does not exist.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Task, error) {
	set := bson.M{
		"title":       upd.Title,
		"description": upd.Description,
		"updated_at":  time.Now().UTC(),
	}
	change := bson.M{"$set": set}
	if upd.DueDate != nil {
		set["due_date"] = upd.DueDate.UTC()
	} else {
		change["$unset"] = bson.M{"due_date": ""}
	}

	var out models.Task
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, change, opts).Decode(&out)
	return out, err
}

// Delete removes a task. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// IDsByInternship returns the ids of every task under an internship.
func (s *Store) IDsByInternship(ctx context.Context, internshipID primitive.ObjectID) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, bson.M{"internship_id": internshipID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// DeleteByInternship removes all tasks of an internship.
// Returns the number of documents deleted.
func (s *Store) DeleteByInternship(ctx context.Context, internshipID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"internship_id": internshipID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByCreator returns tasks created by adminID, newest first.
func (s *Store) ListByCreator(ctx context.Context, adminID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"created_by": adminID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
