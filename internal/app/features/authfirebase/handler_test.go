package authfirebase_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/internportal/internal/app/features/authfirebase"
	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/identity"
	"github.com/dalemusser/internportal/internal/app/store/audit"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"github.com/dalemusser/internportal/internal/app/system/limits"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"github.com/dalemusser/internportal/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type env struct {
	router http.Handler
	idp    *testutil.IdentityProvider
	tokens *sessiontoken.Issuer
	fx     *testutil.Fixtures
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupSchemaDB(t)
	logger := zap.NewNop()
	idp := testutil.NewIdentityProvider(t)
	tokens := testutil.NewSessionIssuer(t)

	h := authfirebase.NewHandler(
		identity.New(db, idp.Verifier, tokens, logger),
		auditlog.New(audit.New(db), logger, auditlog.Config{Auth: "db", Admin: "db"}),
		apierrors.NewErrorLogger(logger),
		logger,
	)
	r := chi.NewRouter()
	r.Mount("/", authfirebase.Routes(h))
	return env{router: r, idp: idp, tokens: tokens, fx: testutil.NewFixtures(t, db)}
}

func (e env) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterThenLogin(t *testing.T) {
	e := newEnv(t)

	rec := e.do(testutil.JSONRequest(t, "POST", "/firebase-register", map[string]string{
		"token":    e.idp.Mint(t, "uid-grace", "grace@example.com", "Grace"),
		"username": "grace",
		"role":     "admin",
		"name":     "Grace Hopper",
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var reg struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	testutil.DecodeJSON(t, rec, &reg)
	if reg.Username != "grace" || reg.Email != "grace@example.com" || reg.Role != "admin" || reg.UserID == "" {
		t.Errorf("register response = %+v", reg)
	}

	rec = e.do(testutil.JSONRequest(t, "POST", "/firebase-login", map[string]string{
		"token": e.idp.Mint(t, "uid-grace", "grace@example.com", "Grace"),
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	testutil.DecodeJSON(t, rec, &login)
	if login.TokenType != "bearer" {
		t.Errorf("token_type = %q", login.TokenType)
	}
	claims, err := e.tokens.Validate(login.AccessToken)
	if err != nil {
		t.Fatalf("issued credential does not validate: %v", err)
	}
	if claims.UserID != reg.UserID || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if n := e.fx.Count(ctx, "audit_events", bson.M{"event_type": audit.EventLoginSuccess}); n != 1 {
		t.Errorf("login_success audit events = %d, want 1", n)
	}
}

func TestRegister_Errors(t *testing.T) {
	e := newEnv(t)

	first := map[string]string{
		"token":    e.idp.Mint(t, "uid-a", "a@example.com", "A"),
		"username": "alpha",
		"role":     "internee",
		"name":     "Alpha",
	}
	if rec := e.do(testutil.JSONRequest(t, "POST", "/firebase-register", first)); rec.Code != http.StatusOK {
		t.Fatalf("first register status = %d", rec.Code)
	}

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{
			name:   "same subject again",
			body:   map[string]string{"token": e.idp.Mint(t, "uid-a", "a@example.com", "A"), "username": "other", "role": "internee", "name": "A"},
			status: http.StatusBadRequest,
			code:   "already_registered",
		},
		{
			name:   "handle taken",
			body:   map[string]string{"token": e.idp.Mint(t, "uid-b", "b@example.com", "B"), "username": "alpha", "role": "internee", "name": "B"},
			status: http.StatusBadRequest,
			code:   "handle_taken",
		},
		{
			name:   "bad assertion",
			body:   map[string]string{"token": "not-a-jwt", "username": "gamma", "role": "internee", "name": "C"},
			status: http.StatusUnauthorized,
			code:   "invalid_assertion",
		},
		{
			name:   "unknown role",
			body:   map[string]string{"token": e.idp.Mint(t, "uid-d", "d@example.com", "D"), "username": "delta", "role": "root", "name": "D"},
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "unknown field",
			body:   map[string]string{"token": "x", "password": "hunter2"},
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(testutil.JSONRequest(t, "POST", "/firebase-register", tt.body))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if got := testutil.ErrorCode(t, rec); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestLogin_Unregistered(t *testing.T) {
	e := newEnv(t)

	rec := e.do(testutil.JSONRequest(t, "POST", "/firebase-login", map[string]string{
		"token": e.idp.Mint(t, "uid-nobody", "nobody@example.com", "Nobody"),
	}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := testutil.ErrorCode(t, rec); got != "unregistered_identity" {
		t.Errorf("code = %q", got)
	}
}

func TestPasswordToken_AlwaysRefused(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest("POST", "/token", nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := e.do(req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if got := testutil.ErrorCode(t, rec); got != "method_not_supported" {
		t.Errorf("code = %q", got)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if n := e.fx.Count(ctx, "audit_events", bson.M{"event_type": audit.EventPasswordLoginRefused}); n != 1 {
		t.Errorf("password_login_refused audit events = %d, want 1", n)
	}
}

func TestLogin_OversizedBody(t *testing.T) {
	e := newEnv(t)

	body := `{"token":"` + strings.Repeat("a", limits.MaxJSONBody) + `"}`
	req := httptest.NewRequest("POST", "/firebase-login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := e.do(req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := testutil.ErrorCode(t, rec); got != "invalid_input" {
		t.Errorf("code = %q, want invalid_input", got)
	}
}
