package workflow

import (
	"context"

	internshipstore "github.com/dalemusser/internportal/internal/app/store/internships"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/htmlsanitize"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// InternshipInput is the writable content of an internship.
type InternshipInput struct {
	Title       string
	Description string
	Status      string
}

func (in InternshipInput) normalize() (InternshipInput, error) {
	title, err := requireTitle(in.Title)
	if err != nil {
		return in, err
	}
	if !models.IsValidInternshipStatus(in.Status) {
		return in, apperr.New(apperr.InvalidInput, `Status must be "available" or "not available".`)
	}
	in.Title = title
	in.Description = htmlsanitize.Sanitize(in.Description)
	return in, nil
}

// CascadeCounts reports how many rows a cascading delete removed.
type CascadeCounts struct {
	Assignments  int64 `json:"assignments"`
	Tasks        int64 `json:"tasks"`
	Applications int64 `json:"applications"`
}

// DeletedInternship is the result of DeleteInternship.
type DeletedInternship struct {
	Internship models.Internship `json:"internship"`
	Removed    CascadeCounts     `json:"removed"`
}

// CreateInternship publishes a new internship owned by the admin actor.
func (s *Service) CreateInternship(ctx context.Context, actor authz.Actor, in InternshipInput) (models.Internship, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.Internship{}, err
	}
	in, err := in.normalize()
	if err != nil {
		return models.Internship{}, err
	}

	var out models.Internship
	err = s.inTxn(ctx, func(ctx context.Context) error {
		created, err := s.internships.Create(ctx, models.Internship{
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
			CreatedBy:   actor.ID,
		})
		if err != nil {
			return apperr.Internalf(err, "create internship")
		}
		out = created
		return nil
	})
	return out, err
}

// UpdateInternship replaces the title, description and status.
func (s *Service) UpdateInternship(ctx context.Context, actor authz.Actor, id primitive.ObjectID, in InternshipInput) (models.Internship, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.Internship{}, err
	}
	in, err := in.normalize()
	if err != nil {
		return models.Internship{}, err
	}

	var out models.Internship
	err = s.inTxn(ctx, func(ctx context.Context) error {
		updated, err := s.internships.Update(ctx, id, internshipstore.Update{
			Title:       in.Title,
			Description: in.Description,
			Status:      in.Status,
		})
		if err != nil {
			return notFoundOr(err, "Internship not found.", "update internship")
		}
		out = updated
		return nil
	})
	return out, err
}

// DeleteInternship removes an internship and everything under it, in
// order: assignments of its tasks, its tasks, its applications, then the
// internship itself. Either every step commits or none does.
func (s *Service) DeleteInternship(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (DeletedInternship, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return DeletedInternship{}, err
	}

	var out DeletedInternship
	err := s.inTxn(ctx, func(ctx context.Context) error {
		out = DeletedInternship{}

		in, err := s.internships.GetByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "Internship not found.", "load internship")
		}
		out.Internship = in

		taskIDs, err := s.tasks.IDsByInternship(ctx, id)
		if err != nil {
			return apperr.Internalf(err, "list internship tasks")
		}

		if out.Removed.Assignments, err = s.assigns.DeleteByTasks(ctx, taskIDs); err != nil {
			return apperr.Internalf(err, "delete assignments")
		}
		if err := s.step("assignments"); err != nil {
			return err
		}

		if out.Removed.Tasks, err = s.tasks.DeleteByInternship(ctx, id); err != nil {
			return apperr.Internalf(err, "delete tasks")
		}
		if err := s.step("tasks"); err != nil {
			return err
		}

		if out.Removed.Applications, err = s.apps.DeleteByInternship(ctx, id); err != nil {
			return apperr.Internalf(err, "delete applications")
		}
		if err := s.step("applications"); err != nil {
			return err
		}

		n, err := s.internships.Delete(ctx, id)
		if err != nil {
			return apperr.Internalf(err, "delete internship")
		}
		if n == 0 {
			return apperr.New(apperr.NotFound, "Internship not found.")
		}
		return s.step("internship")
	})
	if err != nil {
		return DeletedInternship{}, err
	}

	s.log.Info("internship deleted",
		zap.String("internship_id", id.Hex()),
		zap.Int64("assignments", out.Removed.Assignments),
		zap.Int64("tasks", out.Removed.Tasks),
		zap.Int64("applications", out.Removed.Applications))
	return out, nil
}

// GetInternship returns one internship to an admin.
func (s *Service) GetInternship(ctx context.Context, actor authz.Actor, id primitive.ObjectID) (models.Internship, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return models.Internship{}, err
	}
	in, err := s.internships.GetByID(ctx, id)
	if err != nil {
		return models.Internship{}, notFoundOr(err, "Internship not found.", "load internship")
	}
	return in, nil
}

// ListAvailable returns the internships open to applicants, newest first.
// It requires no role.
func (s *Service) ListAvailable(ctx context.Context) ([]models.Internship, error) {
	out, err := s.internships.ListAvailable(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "list available internships")
	}
	return out, nil
}

// ListAll returns every internship to an admin, newest first.
func (s *Service) ListAll(ctx context.Context, actor authz.Actor) ([]models.Internship, error) {
	if err := authz.Require(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	out, err := s.internships.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internalf(err, "list internships")
	}
	return out, nil
}
