package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	iss, err := sessiontoken.NewIssuer([]byte("test-session-key-must-be-32-chars-long"), 0)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}
	return auth.NewSessionManager(iss, zap.NewNop())
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpjson.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestLoadSessionUser_ValidBearer(t *testing.T) {
	sm := newTestSessionManager(t)
	uid := primitive.NewObjectID().Hex()
	tok, err := sm.Tokens().Issue(sessiontoken.Subject{
		UserID: uid, FirebaseUID: "fb-1", Email: "a@example.com", Role: "admin",
	})
	if err != nil {
		t.Fatal(err)
	}

	var got *auth.SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))

	req := httptest.NewRequest("GET", "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Value)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user in context")
	}
	if got.ID != uid || got.Role != "admin" || got.FirebaseUID != "fb-1" {
		t.Errorf("unexpected user %+v", got)
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.LoadSessionUser(sm.RequireSignedIn(okHandler()))

	req := httptest.NewRequest("GET", "/users/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("expected WWW-Authenticate: Bearer")
	}
	if code := errorCode(t, rec); code != "invalid_credential" {
		t.Errorf("code = %q", code)
	}
}

func TestRequireSignedIn_BadToken_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.LoadSessionUser(sm.RequireSignedIn(okHandler()))

	for _, header := range []string{"Bearer not-a-token", "Basic dXNlcjpwYXNz", "Bearer"} {
		req := httptest.NewRequest("GET", "/users/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestRequireRole_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireRole("admin")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/internships/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireRole_WrongRole_Returns403(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireRole("admin")(okHandler())

	req := auth.WithTestUser(httptest.NewRequest("POST", "/internships/", nil), &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(), Role: "internee",
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "forbidden" {
		t.Errorf("code = %q", code)
	}
}

func TestRequireRole_CorrectRole_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireRole("internee")(okHandler())

	req := auth.WithTestUser(httptest.NewRequest("GET", "/tasks/assigned", nil), &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(), Role: "internee",
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_CaseInsensitive(t *testing.T) {
	sm := newTestSessionManager(t)
	h := sm.RequireRole(" ADMIN ")(okHandler())

	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID: primitive.NewObjectID().Hex(), Role: "Admin",
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	if _, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected no user")
	}
}
