package indexes_test

import (
	"testing"

	"github.com/dalemusser/internportal/internal/app/system/indexes"
	"github.com/dalemusser/internportal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesUniqueIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":            {"uniq_users_firebase_uid", "uniq_users_usernameci", "uniq_users_email"},
		"applications":     {"uniq_applications_internship_internee"},
		"task_assignments": {"uniq_taskassign_task_internee"},
		"tasks":            {"idx_tasks_internship"},
	}
	for coll, want := range expected {
		names := indexNames(t, db, coll)
		for _, n := range want {
			if !names[n] {
				t.Errorf("%s: expected index %q", coll, n)
			}
		}
	}
}

func TestEnsureAll_EnforcesApplicationPair(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	doc := bson.M{"internship_id": primitive.NewObjectID(), "internee_id": primitive.NewObjectID()}
	if _, err := db.Collection("applications").InsertOne(ctx, doc); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := db.Collection("applications").InsertOne(ctx, bson.M{
		"internship_id": doc["internship_id"], "internee_id": doc["internee_id"],
	})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("second insert: got %v, want duplicate key error", err)
	}
}

func TestEnsureAll_EmailUniqueOnlyWhenPresent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	users := db.Collection("users")
	for i, h := range []string{"a", "b"} {
		if _, err := users.InsertOne(ctx, bson.M{"firebase_uid": h, "username_ci": h}); err != nil {
			t.Fatalf("insert %d without email: %v", i, err)
		}
	}
}
