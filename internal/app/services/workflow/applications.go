package workflow

import (
	"context"

	"github.com/dalemusser/internportal/internal/app/store/queries/applicationqueries"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Apply records the internee actor's application to an internship. A
// repeat application overwrites the previous one and resets it to pending.
func (s *Service) Apply(ctx context.Context, actor authz.Actor, internshipID primitive.ObjectID, details models.ApplicationDetails) (models.Application, error) {
	if err := authz.Require(actor, models.RoleInternee); err != nil {
		return models.Application{}, err
	}

	var out models.Application
	err := s.inTxn(ctx, func(ctx context.Context) error {
		ok, err := s.internships.Exists(ctx, internshipID)
		if err != nil {
			return apperr.Internalf(err, "check internship")
		}
		if !ok {
			return apperr.New(apperr.NotFound, "Internship not found.")
		}
		app, err := s.apps.Upsert(ctx, internshipID, actor.ID, details)
		if err != nil {
			return apperr.Internalf(err, "upsert application")
		}
		out = app
		return nil
	})
	return out, err
}

// ListApplications returns every application with its internship title
// and applicant, newest first.
func (s *Service) ListApplications(ctx context.Context, actor authz.Actor) ([]applicationqueries.ReviewRow, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := applicationqueries.ListForReview(ctx, s.db)
	if err != nil {
		return nil, apperr.Internalf(err, "list applications")
	}
	return rows, nil
}

// DecideApplication approves or rejects an application. Decisions may be
// changed any number of times.
func (s *Service) DecideApplication(ctx context.Context, actor authz.Actor, id primitive.ObjectID, status string) (models.Application, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.Application{}, err
	}
	if !models.IsValidDecision(status) {
		return models.Application{}, apperr.New(apperr.InvalidInput, `Status must be "approved" or "rejected".`)
	}

	var out models.Application
	err := s.inTxn(ctx, func(ctx context.Context) error {
		app, err := s.apps.SetStatus(ctx, id, status)
		if err != nil {
			return notFoundOr(err, "Application not found.", "decide application")
		}
		out = app
		return nil
	})
	return out, err
}
