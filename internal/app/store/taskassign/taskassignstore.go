// internal/app/store/taskassign/taskassignstore.go
package taskassignstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/internportal/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateAssignment is returned when the task is already assigned to the internee.
var ErrDuplicateAssignment = errors.New("task already assigned to this internee")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("task_assignments")}
}

// Create inserts a pending assignment of taskID to interneeID.
func (s *Store) Create(ctx context.Context, taskID, interneeID primitive.ObjectID) (models.TaskAssignment, error) {
	a := models.TaskAssignment{
		ID:         primitive.NewObjectID(),
		TaskID:     taskID,
		InterneeID: interneeID,
		Status:     models.AssignmentPending,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TaskAssignment{}, ErrDuplicateAssignment
		}
		return models.TaskAssignment{}, err
	}
	return a, nil
}

// GetByID returns a single assignment. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TaskAssignment, error) {
	var a models.TaskAssignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	return a, err
}

// Get returns the assignment of taskID to interneeID.
// Returns mongo.ErrNoDocuments if the task is not assigned to them.
func (s *Store) Get(ctx context.Context, taskID, interneeID primitive.ObjectID) (models.TaskAssignment, error) {
	var a models.TaskAssignment
	err := s.c.FindOne(ctx, bson.M{"task_id": taskID, "internee_id": interneeID}).Decode(&a)
	return a, err
}

// Complete marks the assignment completed with the given submission
// reference and timestamp. Returns mongo.ErrNoDocuments when nothing matched.
func (s *Store) Complete(ctx context.Context, taskID, interneeID primitive.ObjectID, path string, at time.Time) (models.TaskAssignment, error) {
	set := bson.M{
		"status":          models.AssignmentCompleted,
		"submission_path": path,
		"submitted_at":    at.UTC(),
	}
	var out models.TaskAssignment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"task_id": taskID, "internee_id": interneeID},
		bson.M{"$set": set}, opts).Decode(&out)
	return out, err
}

// SetStatus sets a non-completed status on an assignment. Leaving
// completed clears the submission reference and timestamp.
// Returns mongo.ErrNoDocuments when nothing matched.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.TaskAssignment, error) {
	update := bson.M{
		"$set":   bson.M{"status": status},
		"$unset": bson.M{"submission_path": "", "submitted_at": ""},
	}
	var out models.TaskAssignment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&out)
	return out, err
}

// Start moves the internee's pending assignment of taskID to in_progress.
// An assignment already in progress is returned unchanged. Returns
// mongo.ErrNoDocuments if no pending or in-progress assignment exists.
func (s *Store) Start(ctx context.Context, taskID, interneeID primitive.ObjectID) (models.TaskAssignment, error) {
	filter := bson.M{
		"task_id":     taskID,
		"internee_id": interneeID,
		"status":      bson.M{"$in": []string{models.AssignmentPending, models.AssignmentInProgress}},
	}
	var out models.TaskAssignment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"status": models.AssignmentInProgress}}, opts).Decode(&out)
	return out, err
}

// DeleteByTasks removes every assignment of the given tasks.
// Returns the number of documents deleted.
func (s *Store) DeleteByTasks(ctx context.Context, taskIDs []primitive.ObjectID) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"task_id": bson.M{"$in": taskIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
