// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/dalemusser/internportal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the resolved caller of an operation.
type Actor struct {
	ID    primitive.ObjectID
	Role  string
	Email string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// IsInternee reports whether the actor holds the internee role.
func (a Actor) IsInternee() bool { return a.Role == models.RoleInternee }

// Require returns nil when actor holds role and apperr.Forbidden otherwise.
// It is stateless: the decision uses only the role already resolved from
// the caller's credential.
func Require(actor Actor, role string) error {
	if actor.ID.IsZero() || actor.Role != role {
		return apperr.New(apperr.Forbidden, "")
	}
	return nil
}

// UserCtx returns the user's role (lowercased), Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", NilObjectID, false, so ok=true always means a usable ObjectID.
func UserCtx(r *http.Request) (role string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), userID, true
}

// ActorFrom builds the Actor for the request, or ExpiredOrInvalidCredential
// when there is no usable signed-in user.
func ActorFrom(r *http.Request) (Actor, error) {
	role, id, ok := UserCtx(r)
	if !ok {
		return Actor{}, apperr.New(apperr.ExpiredOrInvalidCredential, "Not authenticated.")
	}
	u, _ := auth.CurrentUser(r)
	return Actor{ID: id, Role: role, Email: u.Email}, nil
}
