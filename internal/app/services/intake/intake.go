// Package intake accepts uploaded artifacts: task submissions and resumes
// sent with detailed applications.
//
// Blobs are written before the database commit. A failed commit removes
// the new blob on a best-effort basis, so the worst case is an
// unreferenced file, never a reference to a missing one.
package intake

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/dalemusser/internportal/internal/app/services/workflow"
	internshipstore "github.com/dalemusser/internportal/internal/app/store/internships"
	taskassignstore "github.com/dalemusser/internportal/internal/app/store/taskassign"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/artifact"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/blobstore"
	"github.com/dalemusser/internportal/internal/app/system/txn"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// PresignTTL is how long a presigned download URL stays valid.
const PresignTTL = 15 * time.Minute

// Service implements submission and resume intake.
type Service struct {
	db          *mongo.Database
	blobs       blobstore.Store
	assigns     *taskassignstore.Store
	internships *internshipstore.Store
	workflow    *workflow.Service
	log         *zap.Logger
	now         func() time.Time
}

// New constructs a Service. wf performs the application upsert for
// detailed applications.
func New(db *mongo.Database, blobs blobstore.Store, wf *workflow.Service, log *zap.Logger) *Service {
	return &Service{
		db:          db,
		blobs:       blobs,
		assigns:     taskassignstore.New(db),
		internships: internshipstore.New(db),
		workflow:    wf,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Upload is an uploaded file.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Submit stores the internee actor's work for taskID and marks their
// assignment completed. Resubmission replaces the stored reference.
func (s *Service) Submit(ctx context.Context, actor authz.Actor, taskID primitive.ObjectID, up Upload) (models.TaskAssignment, error) {
	if err := authz.Require(actor, models.RoleInternee); err != nil {
		return models.TaskAssignment{}, err
	}

	prev, err := s.assigns.Get(ctx, taskID, actor.ID)
	if err == mongo.ErrNoDocuments {
		return models.TaskAssignment{}, apperr.New(apperr.AssignmentNotFound, "")
	}
	if err != nil {
		return models.TaskAssignment{}, apperr.Internalf(err, "load assignment")
	}

	key := artifact.Key(actor.ID.Hex(), taskID.Hex(), up.Name)
	if err := s.blobs.Put(ctx, key, up.Body, &blobstore.PutOptions{ContentType: up.ContentType}); err != nil {
		return models.TaskAssignment{}, apperr.Internalf(err, "store submission")
	}

	var out models.TaskAssignment
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		a, err := s.assigns.Complete(ctx, taskID, actor.ID, key, s.now())
		if err == mongo.ErrNoDocuments {
			return apperr.New(apperr.AssignmentNotFound, "")
		}
		if err != nil {
			return apperr.Internalf(err, "complete assignment")
		}
		out = a
		return nil
	})
	if err != nil {
		if key != prev.SubmissionPath {
			s.discard(key)
		}
		return models.TaskAssignment{}, apperr.From(err)
	}

	if prev.SubmissionPath != "" && prev.SubmissionPath != key {
		s.discard(prev.SubmissionPath)
	}
	s.log.Info("task submitted",
		zap.String("task_id", taskID.Hex()),
		zap.String("internee_id", actor.ID.Hex()),
		zap.String("path", key))
	return out, nil
}

// ApplicationForm is the metadata of a detailed application.
type ApplicationForm struct {
	Name           string
	UniversityName string
	Degree         string
	Semester       string
}

func (f ApplicationForm) details() (models.ApplicationDetails, error) {
	d := models.ApplicationDetails{
		Name:           strings.TrimSpace(f.Name),
		UniversityName: strings.TrimSpace(f.UniversityName),
		Degree:         strings.TrimSpace(f.Degree),
		Semester:       strings.TrimSpace(f.Semester),
	}
	if d.Name == "" || d.UniversityName == "" || d.Degree == "" || d.Semester == "" {
		return d, apperr.New(apperr.InvalidInput, "Name, university name, degree and semester are required.")
	}
	return d, nil
}

// Resume is an uploaded resume. Body must be seekable so the content can
// be checked before it is stored.
type Resume struct {
	Name        string
	ContentType string
	Body        io.ReadSeeker
}

// ApplyWithDetails stores a PDF resume and records the application with
// full metadata, using the same upsert as a plain application.
func (s *Service) ApplyWithDetails(ctx context.Context, actor authz.Actor, internshipID primitive.ObjectID, form ApplicationForm, resume Resume) (models.Application, error) {
	if err := authz.Require(actor, models.RoleInternee); err != nil {
		return models.Application{}, err
	}
	details, err := form.details()
	if err != nil {
		return models.Application{}, err
	}
	if resume.Body == nil {
		return models.Application{}, apperr.New(apperr.InvalidInput, "A resume file is required.")
	}
	if err := artifact.RequirePDF(resume.ContentType, resume.Body); err != nil {
		return models.Application{}, err
	}

	ok, err := s.internships.Exists(ctx, internshipID)
	if err != nil {
		return models.Application{}, apperr.Internalf(err, "check internship")
	}
	if !ok {
		return models.Application{}, apperr.New(apperr.NotFound, "Internship not found.")
	}

	key := artifact.Key(actor.ID.Hex(), internshipID.Hex(), resume.Name)
	if err := s.blobs.Put(ctx, key, resume.Body, &blobstore.PutOptions{ContentType: artifact.PDFMediaType}); err != nil {
		return models.Application{}, apperr.Internalf(err, "store resume")
	}
	details.ResumePath = key

	app, err := s.workflow.Apply(ctx, actor, internshipID, details)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			s.discard(key)
		}
		return models.Application{}, err
	}
	return app, nil
}

// Artifact is a stored file ready to serve. Exactly one of Body and
// RedirectURL is set.
type Artifact struct {
	Key         string
	Body        io.ReadCloser
	RedirectURL string
}

// Fetch returns the artifact ownerID/name. Admins may read any artifact;
// internees only their own.
func (s *Service) Fetch(ctx context.Context, actor authz.Actor, ownerID, name string) (Artifact, error) {
	if actor.ID.IsZero() {
		return Artifact{}, apperr.New(apperr.Forbidden, "")
	}
	if !actor.IsAdmin() && actor.ID.Hex() != ownerID {
		return Artifact{}, apperr.New(apperr.Forbidden, "")
	}
	if strings.Contains(name, "/") {
		return Artifact{}, apperr.New(apperr.NotFound, "File not found.")
	}
	key, err := blobstore.CleanKey(ownerID + "/" + name)
	if err != nil || artifact.OwnerOf(key) != ownerID {
		return Artifact{}, apperr.New(apperr.NotFound, "File not found.")
	}

	if p, ok := s.blobs.(blobstore.Presigner); ok {
		exists, err := s.blobs.Exists(ctx, key)
		if err != nil {
			return Artifact{}, apperr.Internalf(err, "stat artifact")
		}
		if !exists {
			return Artifact{}, apperr.New(apperr.NotFound, "File not found.")
		}
		url, err := p.PresignGet(ctx, key, PresignTTL)
		if err != nil {
			return Artifact{}, apperr.Internalf(err, "presign artifact")
		}
		return Artifact{Key: key, RedirectURL: url}, nil
	}

	rc, err := s.blobs.Open(ctx, key)
	if errors.Is(err, blobstore.ErrNotFound) {
		return Artifact{}, apperr.New(apperr.NotFound, "File not found.")
	}
	if err != nil {
		return Artifact{}, apperr.Internalf(err, "open artifact")
	}
	return Artifact{Key: key, Body: rc}, nil
}

// discard removes a blob that is no longer referenced. Failures are
// logged and otherwise ignored.
func (s *Service) discard(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		s.log.Warn("failed to remove unreferenced blob", zap.String("key", key), zap.Error(err))
	}
}
