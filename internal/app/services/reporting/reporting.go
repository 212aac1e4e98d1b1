// Package reporting serves read-only views derived from the workflow data.
package reporting

import (
	"context"

	"github.com/dalemusser/internportal/internal/app/store/queries/progressqueries"
	"github.com/dalemusser/internportal/internal/app/store/queries/taskqueries"
	taskstore "github.com/dalemusser/internportal/internal/app/store/tasks"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

type Service struct {
	db    *mongo.Database
	tasks *taskstore.Store
}

func New(db *mongo.Database) *Service {
	return &Service{db: db, tasks: taskstore.New(db)}
}

// InterneeProgress returns assignment counts for every internee.
func (s *Service) InterneeProgress(ctx context.Context, actor authz.Actor) ([]progressqueries.Row, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := progressqueries.InterneeProgress(ctx, s.db)
	if err != nil {
		return nil, apperr.Internalf(err, "internee progress")
	}
	return rows, nil
}

// AdminTasks returns the tasks the admin actor created, newest first.
func (s *Service) AdminTasks(ctx context.Context, actor authz.Actor) ([]models.Task, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	out, err := s.tasks.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internalf(err, "list admin tasks")
	}
	return out, nil
}

// AssignedTasks returns the internee actor's tasks with their assignment
// state, latest due date first.
func (s *Service) AssignedTasks(ctx context.Context, actor authz.Actor) ([]taskqueries.AssignedTask, error) {
	if err := authz.Require(actor, models.RoleInternee); err != nil {
		return nil, err
	}
	out, err := taskqueries.AssignedTo(ctx, s.db, actor.ID)
	if err != nil {
		return nil, apperr.Internalf(err, "list assigned tasks")
	}
	return out, nil
}
