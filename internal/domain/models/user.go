// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a User can hold. The role is chosen at registration and never changes.
const (
	RoleAdmin    = "admin"
	RoleInternee = "internee"
)

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleInternee
}

// User is a registered portal account. It is always backed by an external
// identity (FirebaseUID); password login is not supported, so Password is
// persisted as null.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"user_id"`
	FirebaseUID string             `bson:"firebase_uid" json:"-"`
	FullName    string             `bson:"full_name" json:"name"`
	Username    string             `bson:"username" json:"username"`
	UsernameCI  string             `bson:"username_ci" json:"-"` // case-folded handle, unique
	Email       string             `bson:"email,omitempty" json:"email"`
	Role        string             `bson:"role" json:"role"` // admin | internee
	Password    *string            `bson:"password" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
