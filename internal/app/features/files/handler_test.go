package files_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/features/files"
	"github.com/dalemusser/internportal/internal/app/services/intake"
	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/dalemusser/internportal/internal/app/system/blobstore"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/dalemusser/internportal/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// presigningStore behaves like an object store that hands out signed URLs.
type presigningStore struct {
	*blobstore.Local
}

func (p presigningStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return "https://blobs.example.com/" + key + "?ttl=" + ttl.String(), nil
}

type env struct {
	router http.Handler
	tokens *sessiontoken.Issuer
	admin  models.User
	owner  models.User
	other  models.User
	key    string
}

func newEnv(t *testing.T, wrap func(*blobstore.Local) blobstore.Store) env {
	t.Helper()
	db := testutil.SetupSchemaDB(t)
	logger := zap.NewNop()
	tokens := testutil.NewSessionIssuer(t)
	sm := auth.NewSessionManager(tokens, logger)
	local := blobstore.NewLocalFs(afero.NewMemMapFs())

	h := files.NewHandler(
		intake.New(db, wrap(local), workflow.New(db, logger), logger),
		apierrors.NewErrorLogger(logger),
		logger,
	)
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser)
	r.Mount("/files", files.Routes(h, sm))

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	owner := fx.CreateInternee(ctx, "owner")
	key := owner.ID.Hex() + "/abc_notes.pdf"
	if err := local.Put(ctx, key, strings.NewReader("%PDF-1.4 notes"), nil); err != nil {
		t.Fatalf("seed blob: %v", err)
	}
	return env{
		router: r,
		tokens: tokens,
		admin:  fx.CreateAdmin(ctx, "boss"),
		owner:  owner,
		other:  fx.CreateInternee(ctx, "other"),
		key:    key,
	}
}

func (e env) get(t *testing.T, path string, u models.User) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, testutil.WithBearer(t, httptest.NewRequest("GET", path, nil), e.tokens, u))
	return rec
}

func TestServeFile_Local(t *testing.T) {
	e := newEnv(t, func(l *blobstore.Local) blobstore.Store { return l })
	path := "/files/" + e.key

	tests := []struct {
		name string
		path string
		user models.User
		code int
	}{
		{"owner", path, e.owner, http.StatusOK},
		{"admin", path, e.admin, http.StatusOK},
		{"other internee", path, e.other, http.StatusForbidden},
		{"missing file", "/files/" + e.owner.ID.Hex() + "/nope.pdf", e.owner, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.get(t, tt.path, tt.user)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.code, rec.Body.String())
			}
			if tt.code == http.StatusOK {
				if rec.Body.String() != "%PDF-1.4 notes" {
					t.Errorf("body = %q", rec.Body.String())
				}
				if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
					t.Errorf("Content-Type = %q", ct)
				}
			}
		})
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
}

func TestServeFile_PresignedRedirect(t *testing.T) {
	e := newEnv(t, func(l *blobstore.Local) blobstore.Store { return presigningStore{l} })

	rec := e.get(t, "/files/"+e.key, e.owner)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://blobs.example.com/"+e.key) || !strings.Contains(loc, "ttl=15m0s") {
		t.Errorf("Location = %q", loc)
	}
}
