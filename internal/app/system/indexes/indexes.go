// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes here are what the stores rely on for correctness:
one user per firebase uid / handle / email, one application per
(internship, internee), and one assignment per (task, internee).
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	sets := []struct {
		coll   string
		models []mongo.IndexModel
	}{
		{"users", userIndexes()},
		{"internships", internshipIndexes()},
		{"tasks", taskIndexes()},
		{"applications", applicationIndexes()},
		{"task_assignments", assignmentIndexes()},
		{"audit_events", auditIndexes()},
	}

	var problems []string
	for _, s := range sets {
		if err := ensureIndexSet(ctx, db.Collection(s.coll), s.models, log); err != nil {
			problems = append(problems, s.coll+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listIndexes(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			return nil, err
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

// ensureIndexSet creates each desired index. An existing index with the same
// key pattern is reused when its uniqueness and name match, and dropped and
// recreated otherwise.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, log *zap.Logger) error {
	existing, err := listIndexes(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := *m.Options.Name
		unique := isUnique(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == unique && ex.Name == name {
				log.Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
			log.Info("dropped mismatched index",
				zap.String("collection", coll.Name()),
				zap.String("name", ex.Name),
				zap.String("keys", sig))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if unique && mongo.IsDuplicateKeyError(err) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index on (%s), duplicates present", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		log.Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Identity bridge lookup; one user per external subject.
		{
			Keys:    bson.D{{Key: "firebase_uid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_firebase_uid"),
		},
		// Handles are unique ignoring case.
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_usernameci"),
		},
		// Email is optional on the identity token; only present values must be unique.
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email").
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
		// Internee listing and progress report.
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "username_ci", Value: 1}},
			Options: options.Index().SetName("idx_users_role_usernameci"),
		},
	}
}

func internshipIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_internships_status_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_internships_created"),
		},
	}
}

func taskIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Cascade from internship delete.
		{
			Keys:    bson.D{{Key: "internship_id", Value: 1}},
			Options: options.Index().SetName("idx_tasks_internship"),
		},
		// Admin "my tasks".
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_tasks_creator_created"),
		},
	}
}

func applicationIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Apply is an upsert on this pair.
		{
			Keys:    bson.D{{Key: "internship_id", Value: 1}, {Key: "internee_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_applications_internship_internee"),
		},
		{
			Keys:    bson.D{{Key: "applied_at", Value: -1}},
			Options: options.Index().SetName("idx_applications_applied"),
		},
	}
}

func assignmentIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}, {Key: "internee_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_taskassign_task_internee"),
		},
		// Assigned-task listing and progress counts.
		{
			Keys:    bson.D{{Key: "internee_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_taskassign_internee_status"),
		},
	}
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_audit_user_timestamp"),
		},
	}
}
