package workflow

import (
	"context"
	"time"

	taskstore "github.com/dalemusser/internportal/internal/app/store/tasks"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/htmlsanitize"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskInput is the writable content of a task. InternshipID is only read
// on creation.
type TaskInput struct {
	InternshipID primitive.ObjectID
	Title        string
	Description  string
	DueDate      *time.Time
}

// CreateTask adds a task to an existing internship.
func (s *Service) CreateTask(ctx context.Context, actor authz.Actor, in TaskInput) (models.Task, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.Task{}, err
	}
	title, err := requireTitle(in.Title)
	if err != nil {
		return models.Task{}, err
	}

	var out models.Task
	err = s.inTxn(ctx, func(ctx context.Context) error {
		ok, err := s.internships.Exists(ctx, in.InternshipID)
		if err != nil {
			return apperr.Internalf(err, "check internship")
		}
		if !ok {
			return apperr.New(apperr.NotFound, "Internship not found.")
		}
		created, err := s.tasks.Create(ctx, models.Task{
			InternshipID: in.InternshipID,
			Title:        title,
			Description:  htmlsanitize.Sanitize(in.Description),
			DueDate:      utc(in.DueDate),
			CreatedBy:    actor.ID,
		})
		if err != nil {
			return apperr.Internalf(err, "create task")
		}
		out = created
		return nil
	})
	return out, err
}

// UpdateTask replaces a task's title, description and due date.
func (s *Service) UpdateTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in TaskInput) (models.Task, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.Task{}, err
	}
	title, err := requireTitle(in.Title)
	if err != nil {
		return models.Task{}, err
	}

	var out models.Task
	err = s.inTxn(ctx, func(ctx context.Context) error {
		updated, err := s.tasks.Update(ctx, id, taskstore.Update{
			Title:       title,
			Description: htmlsanitize.Sanitize(in.Description),
			DueDate:     utc(in.DueDate),
		})
		if err != nil {
			return notFoundOr(err, "Task not found.", "update task")
		}
		out = updated
		return nil
	})
	return out, err
}

// DeleteTask removes a task and its assignments. It returns the number of
// assignments removed.
func (s *Service) DeleteTask(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (int64, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return 0, err
	}

	var removed int64
	err := s.inTxn(ctx, func(ctx context.Context) error {
		n, err := s.assigns.DeleteByTasks(ctx, []primitive.ObjectID{id})
		if err != nil {
			return apperr.Internalf(err, "delete assignments")
		}
		deleted, err := s.tasks.Delete(ctx, id)
		if err != nil {
			return apperr.Internalf(err, "delete task")
		}
		if deleted == 0 {
			return apperr.New(apperr.NotFound, "Task not found.")
		}
		removed = n
		return nil
	})
	return removed, err
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
