package workflow

import (
	"context"
	"errors"

	taskassignstore "github.com/dalemusser/internportal/internal/app/store/taskassign"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AssignTask gives a task to an internee as a new pending assignment.
func (s *Service) AssignTask(ctx context.Context, actor authz.Actor, taskID, interneeID primitive.ObjectID) (models.TaskAssignment, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.TaskAssignment{}, err
	}

	var out models.TaskAssignment
	err := s.inTxn(ctx, func(ctx context.Context) error {
		if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
			return notFoundOr(err, "Task not found.", "load task")
		}
		u, err := s.users.GetByID(ctx, interneeID)
		if err != nil {
			return notFoundOr(err, "Internee not found.", "load internee")
		}
		if u.Role != models.RoleInternee {
			return apperr.New(apperr.InvalidInput, "Tasks can only be assigned to internees.")
		}

		a, err := s.assigns.Create(ctx, taskID, interneeID)
		if errors.Is(err, taskassignstore.ErrDuplicateAssignment) {
			return apperr.Wrap(apperr.AlreadyAssigned, err, "")
		}
		if err != nil {
			return apperr.Internalf(err, "create assignment")
		}
		out = a
		return nil
	})
	return out, err
}

// SetAssignmentStatus lets an admin move an assignment back to pending or
// in_progress. Completed is reachable only through a submission, and
// leaving it drops the submission reference.
func (s *Service) SetAssignmentStatus(ctx context.Context, actor authz.Actor, id primitive.ObjectID, status string) (models.TaskAssignment, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.TaskAssignment{}, err
	}
	if status != models.AssignmentPending && status != models.AssignmentInProgress {
		return models.TaskAssignment{}, apperr.New(apperr.InvalidInput, `Status must be "pending" or "in_progress".`)
	}

	var out models.TaskAssignment
	err := s.inTxn(ctx, func(ctx context.Context) error {
		a, err := s.assigns.SetStatus(ctx, id, status)
		if err == mongo.ErrNoDocuments {
			return apperr.New(apperr.AssignmentNotFound, "")
		}
		if err != nil {
			return apperr.Internalf(err, "set assignment status")
		}
		out = a
		return nil
	})
	return out, err
}

// StartTask marks the internee actor's assignment of taskID in progress.
func (s *Service) StartTask(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID) (models.TaskAssignment, error) {
	if err := authz.Require(actor, models.RoleInternee); err != nil {
		return models.TaskAssignment{}, err
	}

	var out models.TaskAssignment
	err := s.inTxn(ctx, func(ctx context.Context) error {
		a, err := s.assigns.Start(ctx, taskID, actor.ID)
		if err == mongo.ErrNoDocuments {
			return apperr.New(apperr.AssignmentNotFound, "No open assignment for this task.")
		}
		if err != nil {
			return apperr.Internalf(err, "start task")
		}
		out = a
		return nil
	})
	return out, err
}

// ListInternees returns every internee account, newest first.
func (s *Service) ListInternees(ctx context.Context, actor authz.Actor) ([]models.User, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.users.ListByRole(ctx, models.RoleInternee)
	if err != nil {
		return nil, apperr.Internalf(err, "list internees")
	}
	return users, nil
}
