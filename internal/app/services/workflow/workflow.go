// Package workflow holds the transactional operations on internships,
// tasks, applications and task assignments. Every mutation runs inside
// txn.Run so a failed step leaves no partial state behind.
package workflow

import (
	"context"
	"strings"

	applicationstore "github.com/dalemusser/internportal/internal/app/store/applications"
	internshipstore "github.com/dalemusser/internportal/internal/app/store/internships"
	taskassignstore "github.com/dalemusser/internportal/internal/app/store/taskassign"
	taskstore "github.com/dalemusser/internportal/internal/app/store/tasks"
	userstore "github.com/dalemusser/internportal/internal/app/store/users"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/txn"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const maxTitleLen = 100

// Service implements the workflow operations.
type Service struct {
	db          *mongo.Database
	internships *internshipstore.Store
	tasks       *taskstore.Store
	apps        *applicationstore.Store
	assigns     *taskassignstore.Store
	users       *userstore.Store
	log         *zap.Logger

	// afterStep runs after each cascade step; a non-nil error aborts it.
	afterStep func(step string) error
}

// New constructs a Service over db.
func New(db *mongo.Database, log *zap.Logger) *Service {
	return &Service{
		db:          db,
		internships: internshipstore.New(db),
		tasks:       taskstore.New(db),
		apps:        applicationstore.New(db),
		assigns:     taskassignstore.New(db),
		users:       userstore.New(db),
		log:         log,
	}
}

func (s *Service) inTxn(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := txn.Run(ctx, s.db, s.log, fn); err != nil {
		return apperr.From(err)
	}
	return nil
}

func (s *Service) step(name string) error {
	if s.afterStep == nil {
		return nil
	}
	return s.afterStep(name)
}

// notFoundOr maps mongo.ErrNoDocuments to a NotFound with msg and any
// other error to an internal failure.
func notFoundOr(err error, msg, op string) error {
	if err == mongo.ErrNoDocuments {
		return apperr.New(apperr.NotFound, msg)
	}
	return apperr.Internalf(err, "%s", op)
}

func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > maxTitleLen {
		return "", apperr.New(apperr.InvalidInput, "Title is required (max 100 characters).")
	}
	return title, nil
}

// ParseID parses a hex ObjectID from a path or body value.
func ParseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.InvalidInput, "Invalid "+what+" id.")
	}
	return id, nil
}
