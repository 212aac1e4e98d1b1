package taskstore_test

import (
	"testing"
	"time"

	taskstore "github.com/dalemusser/internportal/internal/app/store/tasks"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/dalemusser/internportal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_CreateUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	due := time.Date(2026, 11, 1, 17, 0, 0, 0, time.UTC)
	created, err := store.Create(ctx, models.Task{
		InternshipID: primitive.NewObjectID(),
		Title:        "Write tests",
		DueDate:      &due,
		CreatedBy:    primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Update(ctx, created.ID, taskstore.Update{Title: "Write more tests", Description: "all of them"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "Write more tests" {
		t.Errorf("Title = %q", updated.Title)
	}
	if updated.DueDate != nil {
		t.Errorf("expected due date cleared, got %v", updated.DueDate)
	}
	if updated.InternshipID != created.InternshipID {
		t.Error("internship reference must not move")
	}

	if _, err := store.Update(ctx, primitive.NewObjectID(), taskstore.Update{Title: "x"}); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_ByInternship(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "boss")
	a := fixtures.CreateInternship(ctx, admin.ID, "A", models.InternshipAvailable)
	b := fixtures.CreateInternship(ctx, admin.ID, "B", models.InternshipAvailable)
	fixtures.CreateTask(ctx, a.ID, admin.ID, "a1", nil)
	fixtures.CreateTask(ctx, a.ID, admin.ID, "a2", nil)
	fixtures.CreateTask(ctx, b.ID, admin.ID, "b1", nil)

	ids, err := store.IDsByInternship(ctx, a.ID)
	if err != nil {
		t.Fatalf("IDsByInternship failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("expected 2 ids, got %d", len(ids))
	}

	n, err := store.DeleteByInternship(ctx, a.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByInternship = %d, %v", n, err)
	}
	if left := fixtures.Count(ctx, "tasks", bson.M{}); left != 1 {
		t.Errorf("expected 1 task left, got %d", left)
	}
}

func TestStore_ListByCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := taskstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mine := fixtures.CreateAdmin(ctx, "mine")
	other := fixtures.CreateAdmin(ctx, "other")
	in := fixtures.CreateInternship(ctx, mine.ID, "A", models.InternshipAvailable)
	fixtures.CreateTask(ctx, in.ID, mine.ID, "mine-1", nil)
	fixtures.CreateTask(ctx, in.ID, other.ID, "theirs", nil)

	tasks, err := store.ListByCreator(ctx, mine.ID)
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "mine-1" {
		t.Errorf("ListByCreator = %+v", tasks)
	}

	none, err := store.ListByCreator(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatal(err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}
