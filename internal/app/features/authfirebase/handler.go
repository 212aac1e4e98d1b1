// internal/app/features/authfirebase/handler.go
package authfirebase

import (
	"context"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/internportal/internal/app/features/errors"
	"github.com/dalemusser/internportal/internal/app/services/identity"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"github.com/dalemusser/internportal/internal/app/system/httpjson"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves Firebase-backed registration and login.
type Handler struct {
	Identity *identity.Service
	Audit    *auditlog.Logger
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs the Firebase auth handler.
func NewHandler(svc *identity.Service, audit *auditlog.Logger, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Identity: svc,
		Audit:    audit,
		ErrLog:   errLog,
		Log:      logger,
	}
}

type registerRequest struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type registerResponse struct {
	UserID    primitive.ObjectID `json:"user_id"`
	Username  string             `json:"username"`
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	CreatedAt time.Time          `json:"created_at"`
}

// HandleRegister creates a user bound to the assertion's subject.
//
// Route: POST /firebase-register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Identity.Register(ctx, identity.Registration{
		Assertion: req.Token,
		Username:  req.Username,
		Role:      req.Role,
		Name:      req.Name,
	})
	if err != nil {
		h.Audit.RegistrationFailed(ctx, r, req.Username, apperr.KindOf(err).Code())
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Audit.Registered(ctx, r, u.ID, u.Role, u.Username)
	httpjson.Write(w, http.StatusOK, registerResponse{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	})
}

type loginRequest struct {
	Token string `json:"token"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// HandleLogin exchanges a Firebase ID token for a session credential.
//
// Route: POST /firebase-login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, tok, err := h.Identity.Login(ctx, req.Token)
	if err != nil {
		h.Audit.LoginFailed(ctx, r, apperr.KindOf(err).Code())
		h.ErrLog.Write(w, r, err)
		return
	}

	h.Audit.LoginSuccess(ctx, r, u.ID, "firebase")
	httpjson.Write(w, http.StatusOK, loginResponse{
		AccessToken: tok.Value,
		TokenType:   "bearer",
		ExpiresAt:   tok.ExpiresAt,
	})
}

// HandlePasswordToken answers the legacy password grant. Password login is
// not offered, so it always fails with 405.
//
// Route: POST /token
func (h *Handler) HandlePasswordToken(w http.ResponseWriter, r *http.Request) {
	h.Audit.PasswordLoginRefused(r.Context(), r)
	h.ErrLog.Write(w, r, h.Identity.PasswordLogin())
}
