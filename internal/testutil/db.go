// Package testutil holds shared helpers for package tests: a disposable
// MongoDB database per test, fixtures, request helpers and a local
// identity-token issuer.
package testutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// MongoURIEnv names the variable that points tests at a MongoDB deployment.
const MongoURIEnv = "INTERNPORTAL_TEST_MONGO_URI"

const defaultTestURI = "mongodb://localhost:27017"

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

func sharedClient() (*mongo.Client, error) {
	clientOnce.Do(func() {
		uri := os.Getenv(MongoURIEnv)
		if uri == "" {
			uri = defaultTestURI
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		opts := options.Client().ApplyURI(uri).SetServerSelectionTimeout(2 * time.Second)
		client, clientErr = mongo.Connect(ctx, opts)
		if clientErr != nil {
			return
		}
		clientErr = client.Ping(ctx, readpref.Primary())
	})
	return client, clientErr
}

// TestContext returns a context bounded for a single test's DB work.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB returns a fresh, uniquely named database that is dropped when
// the test finishes. The test is skipped when MongoDB is unreachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	c, err := sharedClient()
	if err != nil {
		t.Skipf("MongoDB not available (%s): %v", MongoURIEnv, err)
	}

	suffix := make([]byte, 6)
	_, _ = rand.Read(suffix)
	db := c.Database("internportal_test_" + hex.EncodeToString(suffix))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
	})
	return db
}

// RequireTransactions skips the test unless db's deployment supports
// multi-document transactions (a replica set or sharded cluster).
func RequireTransactions(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		t.Skipf("cannot determine topology: %v", err)
	}
	if hello.SetName == "" && hello.Msg != "isdbgrid" {
		t.Skip("MongoDB deployment does not support transactions (standalone)")
	}
}

// SetupTxnDB is SetupTestDB plus RequireTransactions and EnsureSchema.
func SetupTxnDB(t *testing.T) *mongo.Database {
	t.Helper()
	db := SetupTestDB(t)
	RequireTransactions(t, db)
	EnsureSchema(t, db)
	return db
}

// EnsureSchema creates the production indexes (and with them the
// collections) in db. Tests that depend on unique constraints call it.
func EnsureSchema(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
}

// SetupSchemaDB is SetupTestDB plus EnsureSchema.
func SetupSchemaDB(t *testing.T) *mongo.Database {
	t.Helper()
	db := SetupTestDB(t)
	EnsureSchema(t, db)
	return db
}
