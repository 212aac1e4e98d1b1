// Package auth resolves bearer credentials into a request-scoped user and
// gates routes on sign-in and role.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"go.uber.org/zap"
)

// SessionUser is the caller identity carried by a valid credential. Role is
// taken from the credential itself; it is not re-read from storage.
type SessionUser struct {
	ID          string // internal user id (hex)
	FirebaseUID string
	Email       string
	Role        string
}

type ctxKey string

const (
	currentUserKey ctxKey = "currentUser"
	credErrKey     ctxKey = "credentialError"
)

// CurrentUser returns the user & “found?” flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	return FromContext(r.Context())
}

// FromContext returns the user stored on ctx, if any.
func FromContext(ctx context.Context) (*SessionUser, bool) {
	u, ok := ctx.Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// SessionManager validates bearer credentials.
type SessionManager struct {
	tokens *sessiontoken.Issuer
	log    *zap.Logger
}

// NewSessionManager returns a SessionManager backed by tokens.
func NewSessionManager(tokens *sessiontoken.Issuer, logger *zap.Logger) *SessionManager {
	return &SessionManager{tokens: tokens, log: logger}
}

// Tokens returns the issuer used to validate credentials.
func (sm *SessionManager) Tokens() *sessiontoken.Issuer { return sm.tokens }

// LoadSessionUser injects the user into context when the request carries a
// valid "Authorization: Bearer" credential. Requests without one pass
// through untouched; an invalid one is remembered so the gates below can
// report it.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, present := bearerToken(r)
		if !present {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := sm.tokens.Validate(raw)
		if err != nil {
			sm.log.Debug("rejected bearer credential",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			ctx := context.WithValue(r.Context(), credErrKey, err)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		next.ServeHTTP(w, withUser(r, &SessionUser{
			ID:          claims.UserID,
			FirebaseUID: claims.Subject,
			Email:       claims.Email,
			Role:        claims.Role,
		}))
	})
}

// RequireSignedIn rejects requests without a valid credential with 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures there is a user with one of the allowed roles in
// context. No user → 401; wrong role → 403.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeUnauthorized(w, r)
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				sm.log.Info("role gate denied request",
					zap.String("path", r.URL.Path),
					zap.String("user_id", u.ID),
					zap.String("role", u.Role))
				httpjson.WriteError(w, apperr.New(apperr.Forbidden, ""))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	if err, ok := r.Context().Value(credErrKey).(error); ok {
		httpjson.WriteError(w, err)
		return
	}
	httpjson.WriteError(w, apperr.New(apperr.ExpiredOrInvalidCredential, "Not authenticated."))
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(WithUserContext(r.Context(), u))
}

// WithUserContext returns ctx carrying u.
func WithUserContext(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// WithTestUser injects u into the request context, bypassing credential
// validation. For tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}
