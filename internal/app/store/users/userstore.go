package userstore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/internportal/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateFirebaseUID is returned when the external identity is already registered.
	ErrDuplicateFirebaseUID = errors.New("identity already registered")
	// ErrDuplicateHandle is returned when the case-folded username is taken.
	ErrDuplicateHandle = errors.New("username already taken")
	// ErrDuplicateEmail is returned when another user already has the email.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin"|"internee"`)
	errNoIdentity     = errors.New("firebase uid is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByFirebaseUID loads the user mapped to an external identity.
// Returns mongo.ErrNoDocuments if the identity is not registered.
func (s *Store) GetByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"firebase_uid": uid}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetInterneeByID loads a user by ObjectID, returning mongo.ErrNoDocuments
// if the user does not exist or is not an internee.
func (s *Store) GetInterneeByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": models.RoleInternee}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// HandleExists reports whether a case-insensitive match for username exists.
func (s *Store) HandleExists(ctx context.Context, username string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"username_ci": text.Fold(username)}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// Create inserts a new user after normalizing fields. The password field
// is always persisted as null. Unique-index violations are reported as
// ErrDuplicateFirebaseUID, ErrDuplicateHandle or ErrDuplicateEmail.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = strings.TrimSpace(u.FullName)
	u.Username = strings.TrimSpace(u.Username)
	u.UsernameCI = text.Fold(u.Username)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Password = nil

	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if u.FirebaseUID == "" {
		return models.User{}, errNoIdentity
	}
	u.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, dupKind(err)
		}
		return models.User{}, err
	}
	return u, nil
}

// Unique index names on the users collection.
const (
	indexFirebaseUID = "uniq_users_firebase_uid"
	indexUsername    = "uniq_users_usernameci"
	indexEmail       = "uniq_users_email"
)

// dupIndexRe captures the index token of an E11000 message. The key value
// follows the token, so the leftmost match is the index.
var dupIndexRe = regexp.MustCompile(`index: (\S+) dup key`)

// dupKind maps a duplicate-key error to the sentinel for the violated index.
// An unrecognized index returns err unchanged.
func dupKind(err error) error {
	switch dupIndex(err) {
	case indexFirebaseUID:
		return ErrDuplicateFirebaseUID
	case indexUsername:
		return ErrDuplicateHandle
	case indexEmail:
		return ErrDuplicateEmail
	default:
		return err
	}
}

// dupIndex returns the name of the unique index named by a duplicate-key
// error, or "" when none can be read.
func dupIndex(err error) string {
	var msgs []string
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			msgs = append(msgs, e.Message)
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		msgs = append(msgs, ce.Message)
	}
	if len(msgs) == 0 {
		msgs = append(msgs, err.Error())
	}
	for _, m := range msgs {
		if sm := dupIndexRe.FindStringSubmatch(m); sm != nil {
			return sm[1]
		}
	}
	return ""
}

// ListByRole returns users holding role, newest first.
func (s *Store) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []models.User{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
