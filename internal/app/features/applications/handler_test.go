package applications_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/dalemusser/internportal/internal/app/features/applications"
	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/store/audit"
	"github.com/dalemusser/internportal/internal/app/store/queries/applicationqueries"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/dalemusser/internportal/internal/app/system/txn"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/dalemusser/internportal/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	txn.AllowSequentialFallback(true)
	os.Exit(m.Run())
}

func TestListAndDecide(t *testing.T) {
	db := testutil.SetupSchemaDB(t)
	logger := zap.NewNop()
	tokens := testutil.NewSessionIssuer(t)
	sm := auth.NewSessionManager(tokens, logger)
	h := applications.NewHandler(
		workflow.New(db, logger),
		auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "off", Admin: "db"}),
		apierrors.NewErrorLogger(logger),
	)
	router := chi.NewRouter()
	router.Use(sm.LoadSessionUser)
	router.Mount("/applications", applications.Routes(h, sm))

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	admin := fx.CreateAdmin(ctx, "boss")
	intern := fx.CreateInternee(ctx, "applicant")
	in := fx.CreateInternship(ctx, admin.ID, "Backend", models.InternshipAvailable)
	app := fx.CreateApplication(ctx, in.ID, intern.ID)

	do := func(t *testing.T, req *http.Request, u models.User) *httptest.ResponseRecorder {
		t.Helper()
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, testutil.WithBearer(t, req, tokens, u))
		return rec
	}

	rec := do(t, httptest.NewRequest("GET", "/applications", nil), admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rows []applicationqueries.ReviewRow
	testutil.DecodeJSON(t, rec, &rows)
	if len(rows) != 1 || rows[0].InternshipTitle != "Backend" || rows[0].Username != "applicant" {
		t.Fatalf("rows = %+v", rows)
	}

	if rec := do(t, httptest.NewRequest("GET", "/applications", nil), intern); rec.Code != http.StatusForbidden {
		t.Errorf("internee list status = %d, want 403", rec.Code)
	}

	tests := []struct {
		name   string
		id     string
		status string
		code   int
	}{
		{"approve", app.ID.Hex(), models.ApplicationApproved, http.StatusOK},
		{"re-decide", app.ID.Hex(), models.ApplicationRejected, http.StatusOK},
		{"invalid status", app.ID.Hex(), "maybe", http.StatusBadRequest},
		{"unknown application", "507f1f77bcf86cd799439011", models.ApplicationApproved, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, testutil.JSONRequest(t, "PUT", "/applications/"+tt.id+"/status", map[string]string{"status": tt.status}), admin)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.code, rec.Body.String())
			}
		})
	}

	var stored models.Application
	if err := db.Collection("applications").FindOne(ctx, bson.M{"_id": app.ID}).Decode(&stored); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Status != models.ApplicationRejected {
		t.Errorf("stored status = %q, want rejected", stored.Status)
	}
	if n := fx.Count(ctx, "audit_events", bson.M{"event_type": audit.EventApplicationDecided}); n != 2 {
		t.Errorf("application_decided audit events = %d, want 2", n)
	}
}
