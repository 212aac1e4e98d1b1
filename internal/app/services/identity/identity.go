// Package identity maps external identity assertions to portal users and
// issues the short-lived session credentials the rest of the API accepts.
package identity

import (
	"context"
	"errors"
	"regexp"
	"strings"

	userstore "github.com/dalemusser/internportal/internal/app/store/users"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"github.com/dalemusser/internportal/internal/app/system/firebaseauth"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AssertionVerifier checks an identity-provider token.
type AssertionVerifier interface {
	Verify(ctx context.Context, raw string) (firebaseauth.Identity, error)
}

// Service implements registration, login and session validation.
type Service struct {
	users    *userstore.Store
	verifier AssertionVerifier
	tokens   *sessiontoken.Issuer
	log      *zap.Logger
}

// New constructs a Service.
func New(db *mongo.Database, verifier AssertionVerifier, tokens *sessiontoken.Issuer, log *zap.Logger) *Service {
	return &Service{
		users:    userstore.New(db),
		verifier: verifier,
		tokens:   tokens,
		log:      log,
	}
}

// Registration is a self-registration request.
type Registration struct {
	Assertion string
	Username  string
	Role      string
	Name      string
}

var handleRe = regexp.MustCompile(`^[A-Za-z0-9._-]{3,50}$`)

const maxNameLen = 100

func (r Registration) validate() error {
	if !handleRe.MatchString(strings.TrimSpace(r.Username)) {
		return apperr.New(apperr.InvalidInput, "Username must be 3-50 letters, digits, '.', '_' or '-'.")
	}
	if !models.IsValidRole(r.Role) {
		return apperr.New(apperr.InvalidInput, `Role must be "admin" or "internee".`)
	}
	name := strings.TrimSpace(r.Name)
	if name == "" || len(name) > maxNameLen {
		return apperr.New(apperr.InvalidInput, "Name is required (max 100 characters).")
	}
	return nil
}

// Register verifies the assertion and creates a user bound to its subject.
// The email comes from the assertion; no password is stored.
func (s *Service) Register(ctx context.Context, reg Registration) (models.User, error) {
	id, err := s.verifier.Verify(ctx, reg.Assertion)
	if err != nil {
		return models.User{}, err
	}
	if err := reg.validate(); err != nil {
		return models.User{}, err
	}

	if _, err := s.users.GetByFirebaseUID(ctx, id.UID); err == nil {
		return models.User{}, apperr.New(apperr.AlreadyRegistered, "")
	} else if err != mongo.ErrNoDocuments {
		return models.User{}, apperr.Internalf(err, "lookup firebase uid")
	}

	u, err := s.users.Create(ctx, models.User{
		FirebaseUID: id.UID,
		FullName:    reg.Name,
		Username:    reg.Username,
		Email:       id.Email,
		Role:        reg.Role,
	})
	switch {
	case err == nil:
		s.log.Info("user registered",
			zap.String("user_id", u.ID.Hex()),
			zap.String("role", u.Role))
		return u, nil
	case errors.Is(err, userstore.ErrDuplicateFirebaseUID):
		return models.User{}, apperr.Wrap(apperr.AlreadyRegistered, err, "")
	case errors.Is(err, userstore.ErrDuplicateHandle):
		return models.User{}, apperr.Wrap(apperr.HandleTaken, err, "")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		return models.User{}, apperr.Wrap(apperr.EmailTaken, err, "")
	default:
		return models.User{}, apperr.Internalf(err, "create user")
	}
}

// Resolve verifies the assertion and returns the user mapped to its
// subject. An unknown subject is UnregisteredIdentity; users are never
// created implicitly.
func (s *Service) Resolve(ctx context.Context, assertion string) (models.User, error) {
	id, err := s.verifier.Verify(ctx, assertion)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.users.GetByFirebaseUID(ctx, id.UID)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperr.New(apperr.UnregisteredIdentity, "")
	}
	if err != nil {
		return models.User{}, apperr.Internalf(err, "lookup firebase uid")
	}
	return *u, nil
}

// Login resolves the assertion and issues a session credential.
func (s *Service) Login(ctx context.Context, assertion string) (models.User, sessiontoken.Token, error) {
	u, err := s.Resolve(ctx, assertion)
	if err != nil {
		return models.User{}, sessiontoken.Token{}, err
	}
	tok, err := s.IssueSession(u)
	if err != nil {
		return models.User{}, sessiontoken.Token{}, err
	}
	return u, tok, nil
}

// IssueSession signs a credential for u. The role is embedded so requests
// can be authorized without a storage read.
func (s *Service) IssueSession(u models.User) (sessiontoken.Token, error) {
	tok, err := s.tokens.Issue(sessiontoken.Subject{
		UserID:      u.ID.Hex(),
		FirebaseUID: u.FirebaseUID,
		Email:       u.Email,
		Role:        u.Role,
	})
	if err != nil {
		return sessiontoken.Token{}, apperr.Internalf(err, "issue session")
	}
	return tok, nil
}

// ValidateSession checks a credential and returns its claims.
func (s *Service) ValidateSession(raw string) (*sessiontoken.Claims, error) {
	return s.tokens.Validate(raw)
}

// PasswordLogin always fails: only identity-provider login is supported.
func (s *Service) PasswordLogin() error {
	return apperr.New(apperr.MethodNotSupported, "")
}

// Me returns the caller's own user record.
func (s *Service) Me(ctx context.Context, actor authz.Actor) (models.User, error) {
	u, err := s.users.GetByID(ctx, actor.ID)
	if err == mongo.ErrNoDocuments {
		return models.User{}, apperr.New(apperr.NotFound, "User not found.")
	}
	if err != nil {
		return models.User{}, apperr.Internalf(err, "load user")
	}
	return *u, nil
}
