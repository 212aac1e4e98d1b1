// internal/app/features/internships/handler.go
package internships

import (
	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/intake"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Internships and the
// applications internees file against them.
type Handler struct {
	Workflow       *workflow.Service
	Intake         *intake.Service
	Audit          *auditlog.Logger
	ErrLog         *apierrors.ErrorLogger
	Log            *zap.Logger
	MaxUploadBytes int64
}

// NewHandler constructs an Internships handler.
func NewHandler(wf *workflow.Service, in *intake.Service, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		Workflow:       wf,
		Intake:         in,
		Audit:          audit,
		ErrLog:         errLog,
		Log:            logger,
		MaxUploadBytes: maxUploadBytes,
	}
}

type internshipRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (req internshipRequest) input() workflow.InternshipInput {
	return workflow.InternshipInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
}
