// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/internportal/internal/app/system/blobstore"
	"github.com/dalemusser/internportal/internal/app/system/firebaseauth"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"github.com/dalemusser/internportal/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Blobs stores uploaded artifacts (resumes and task submissions).
	Blobs blobstore.Store

	// Auth is filled in by Startup. DBDeps is passed by value between
	// hooks, so the runtime pieces live behind a pointer.
	Auth *AuthDeps
}

// AuthDeps carries the identity machinery built at startup.
type AuthDeps struct {
	Tokens     *sessiontoken.Issuer
	Certs      *firebaseauth.CertSource
	Verifier   *firebaseauth.Verifier
	KeyRefresh *workers.KeyRefresh
}
