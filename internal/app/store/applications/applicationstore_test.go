package applicationstore_test

import (
	"sync"
	"testing"

	applicationstore "github.com/dalemusser/internportal/internal/app/store/applications"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/dalemusser/internportal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Upsert_SecondApplyWins(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	internshipID := primitive.NewObjectID()
	interneeID := primitive.NewObjectID()

	first, err := store.Upsert(ctx, internshipID, interneeID, models.ApplicationDetails{
		Name:           "Jane",
		UniversityName: "State U",
		Degree:         "BSc",
		Semester:       "5",
		ResumePath:     "x/y_cv.pdf",
	})
	if err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}

	// Move the application out of pending so the overwrite is observable.
	if _, err := store.SetStatus(ctx, first.ID, models.ApplicationRejected); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	second, err := store.Upsert(ctx, internshipID, interneeID, models.ApplicationDetails{Name: "Jane D"})
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected same row, got %s vs %s", second.ID.Hex(), first.ID.Hex())
	}
	if second.Status != models.ApplicationPending {
		t.Errorf("Status = %q, want pending", second.Status)
	}
	if second.Name != "Jane D" || second.UniversityName != "" || second.ResumePath != "" {
		t.Errorf("details not replaced: %+v", second.ApplicationDetails)
	}
	if second.AppliedAt.Before(first.AppliedAt) {
		t.Error("applied_at moved backwards")
	}
	if n := fixtures.Count(ctx, "applications", bson.M{}); n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestStore_Upsert_Concurrent(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	internshipID := primitive.NewObjectID()
	interneeID := primitive.NewObjectID()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Upsert(ctx, internshipID, interneeID, models.ApplicationDetails{}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Upsert failed: %v", err)
	}
	if n := fixtures.Count(ctx, "applications", bson.M{}); n != 1 {
		t.Errorf("expected exactly 1 application, got %d", n)
	}
}

func TestStore_SetStatus_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.SetStatus(ctx, primitive.NewObjectID(), models.ApplicationApproved); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_DeleteByInternship(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := applicationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	fixtures.CreateApplication(ctx, a, primitive.NewObjectID())
	fixtures.CreateApplication(ctx, a, primitive.NewObjectID())
	fixtures.CreateApplication(ctx, b, primitive.NewObjectID())

	n, err := store.DeleteByInternship(ctx, a)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByInternship = %d, %v", n, err)
	}
	if left := fixtures.Count(ctx, "applications", bson.M{"internship_id": b}); left != 1 {
		t.Errorf("other internship's application removed")
	}
}
