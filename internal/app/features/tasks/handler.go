// internal/app/features/tasks/handler.go
package tasks

import (
	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/intake"
	"github.com/dalemusser/internportal/internal/app/services/reporting"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler is the feature-level entry point for Tasks, their assignment
// and submission.
type Handler struct {
	Workflow       *workflow.Service
	Intake         *intake.Service
	Reporting      *reporting.Service
	Audit          *auditlog.Logger
	ErrLog         *apierrors.ErrorLogger
	Log            *zap.Logger
	MaxUploadBytes int64
}

// NewHandler constructs a Tasks handler.
func NewHandler(wf *workflow.Service, in *intake.Service, rep *reporting.Service, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		Workflow:       wf,
		Intake:         in,
		Reporting:      rep,
		Audit:          audit,
		ErrLog:         errLog,
		Log:            logger,
		MaxUploadBytes: maxUploadBytes,
	}
}
