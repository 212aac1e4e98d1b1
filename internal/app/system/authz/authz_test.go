package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/auth"
	"github.com/dalemusser/internportal/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testUserID() string {
	return primitive.NewObjectID().Hex()
}

func TestRequire(t *testing.T) {
	id := primitive.NewObjectID()
	tests := []struct {
		name    string
		actor   authz.Actor
		role    string
		allowed bool
	}{
		{"admin as admin", authz.Actor{ID: id, Role: "admin"}, "admin", true},
		{"internee as internee", authz.Actor{ID: id, Role: "internee"}, "internee", true},
		{"internee as admin", authz.Actor{ID: id, Role: "internee"}, "admin", false},
		{"admin as internee", authz.Actor{ID: id, Role: "admin"}, "internee", false},
		{"empty role", authz.Actor{ID: id}, "admin", false},
		{"no id", authz.Actor{Role: "admin"}, "admin", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authz.Require(tt.actor, tt.role)
			if tt.allowed && err != nil {
				t.Errorf("expected allowed, got %v", err)
			}
			if !tt.allowed && !apperr.Is(err, apperr.Forbidden) {
				t.Errorf("expected Forbidden, got %v", err)
			}
		})
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.SessionUser{
		ID: "not-an-object-id", Role: "admin",
	})
	role, id, ok := authz.UserCtx(req)
	if ok || role != "visitor" || !id.IsZero() {
		t.Errorf("malformed id should fail closed, got role=%q id=%v ok=%v", role, id, ok)
	}
}

func TestActorFrom(t *testing.T) {
	if _, err := authz.ActorFrom(httptest.NewRequest("GET", "/", nil)); !apperr.Is(err, apperr.ExpiredOrInvalidCredential) {
		t.Errorf("no user: got %v", err)
	}

	hex := testUserID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), &auth.SessionUser{
		ID: hex, Role: "Internee", Email: "i@example.com",
	})
	actor, err := authz.ActorFrom(req)
	if err != nil {
		t.Fatalf("ActorFrom: %v", err)
	}
	if actor.ID.Hex() != hex || actor.Role != "internee" || actor.Email != "i@example.com" {
		t.Errorf("unexpected actor %+v", actor)
	}
}
