package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given handle and role. The firebase
// uid is "fb-" + username and the email is username@example.com.
func (f *Fixtures) CreateUser(ctx context.Context, username, role string) models.User {
	f.t.Helper()

	u := models.User{
		ID:          primitive.NewObjectID(),
		FirebaseUID: "fb-" + username,
		FullName:    "Test " + username,
		Username:    username,
		UsernameCI:  text.Fold(username),
		Email:       username + "@example.com",
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateAdmin is CreateUser with the admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleAdmin)
}

// CreateInternee is CreateUser with the internee role.
func (f *Fixtures) CreateInternee(ctx context.Context, username string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, models.RoleInternee)
}

// CreateInternship inserts an internship owned by adminID.
func (f *Fixtures) CreateInternship(ctx context.Context, adminID primitive.ObjectID, title, status string) models.Internship {
	f.t.Helper()

	in := models.Internship{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: title + " description",
		Status:      status,
		CreatedBy:   adminID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("internships").InsertOne(ctx, in); err != nil {
		f.t.Fatalf("failed to create test internship: %v", err)
	}
	return in
}

// CreateTask inserts a task under internshipID.
func (f *Fixtures) CreateTask(ctx context.Context, internshipID, adminID primitive.ObjectID, title string, due *time.Time) models.Task {
	f.t.Helper()

	task := models.Task{
		ID:           primitive.NewObjectID(),
		InternshipID: internshipID,
		Title:        title,
		Description:  title + " description",
		DueDate:      due,
		CreatedBy:    adminID,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateApplication inserts a pending application.
func (f *Fixtures) CreateApplication(ctx context.Context, internshipID, interneeID primitive.ObjectID) models.Application {
	f.t.Helper()

	app := models.Application{
		ID:           primitive.NewObjectID(),
		InternshipID: internshipID,
		InterneeID:   interneeID,
		Status:       models.ApplicationPending,
		AppliedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("applications").InsertOne(ctx, app); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return app
}

// CreateAssignment inserts an assignment of taskID to interneeID.
func (f *Fixtures) CreateAssignment(ctx context.Context, taskID, interneeID primitive.ObjectID, status string) models.TaskAssignment {
	f.t.Helper()

	a := models.TaskAssignment{
		ID:         primitive.NewObjectID(),
		TaskID:     taskID,
		InterneeID: interneeID,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if status == models.AssignmentCompleted {
		now := time.Now().UTC()
		a.SubmissionPath = interneeID.Hex() + "/" + taskID.Hex() + "_fixture.txt"
		a.SubmittedAt = &now
	}
	if _, err := f.db.Collection("task_assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return a
}

// Count returns the number of documents in coll matching filter.
func (f *Fixtures) Count(ctx context.Context, coll string, filter any) int64 {
	f.t.Helper()
	n, err := f.db.Collection(coll).CountDocuments(ctx, filter)
	if err != nil {
		f.t.Fatalf("count %s: %v", coll, err)
	}
	return n
}
