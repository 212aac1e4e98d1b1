package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/firebaseauth"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"github.com/dalemusser/internportal/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
)

// TestProjectID is the Firebase project the test identity provider signs for.
const TestProjectID = "internportal-test"

const testKID = "test-key-1"

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
	keyErr  error
)

// IdentityProvider signs Firebase-shaped ID tokens with a local RSA key and
// exposes a real Verifier that trusts it.
type IdentityProvider struct {
	Verifier *firebaseauth.Verifier
	key      *rsa.PrivateKey
}

// NewIdentityProvider returns a provider shared across the test binary.
func NewIdentityProvider(t *testing.T) *IdentityProvider {
	t.Helper()
	keyOnce.Do(func() {
		testKey, keyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	if keyErr != nil {
		t.Fatalf("generate rsa key: %v", keyErr)
	}
	return &IdentityProvider{
		Verifier: firebaseauth.NewVerifier(TestProjectID, firebaseauth.StaticKeys{testKID: &testKey.PublicKey}),
		key:      testKey,
	}
}

// Claims returns the standard claim set for uid; tests may alter it before
// calling Sign.
func (p *IdentityProvider) Claims(uid, email, name string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":            firebaseauth.Issuer(TestProjectID),
		"aud":            TestProjectID,
		"sub":            uid,
		"user_id":        uid,
		"email":          email,
		"email_verified": true,
		"name":           name,
		"auth_time":      now.Add(-time.Minute).Unix(),
		"iat":            now.Add(-time.Minute).Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

// Sign signs claims with the provider key under kid.
func (p *IdentityProvider) Sign(t *testing.T, claims jwt.MapClaims, kid string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(p.key)
	if err != nil {
		t.Fatalf("sign id token: %v", err)
	}
	return s
}

// Mint returns a valid ID token for uid.
func (p *IdentityProvider) Mint(t *testing.T, uid, email, name string) string {
	t.Helper()
	return p.Sign(t, p.Claims(uid, email, name), testKID)
}

// KeyID returns the kid the provider's key is published under.
func (p *IdentityProvider) KeyID() string { return testKID }

// Keys returns the published key set, for building custom verifiers.
func (p *IdentityProvider) Keys() firebaseauth.StaticKeys {
	return firebaseauth.StaticKeys{testKID: &p.key.PublicKey}
}

// SessionSecret is the signing secret used by NewSessionIssuer.
const SessionSecret = "internportal-test-session-secret-32b"

// NewSessionIssuer returns a session credential issuer with the default TTL.
func NewSessionIssuer(t *testing.T) *sessiontoken.Issuer {
	t.Helper()
	iss, err := sessiontoken.NewIssuer([]byte(SessionSecret), 0)
	if err != nil {
		t.Fatalf("session issuer: %v", err)
	}
	return iss
}

// WithBearer sets an Authorization header carrying a credential for u.
func WithBearer(t *testing.T, r *http.Request, iss *sessiontoken.Issuer, u models.User) *http.Request {
	t.Helper()
	tok, err := iss.Issue(sessiontoken.Subject{
		UserID:      u.ID.Hex(),
		FirebaseUID: u.FirebaseUID,
		Email:       u.Email,
		Role:        u.Role,
	})
	if err != nil {
		t.Fatalf("issue credential: %v", err)
	}
	r.Header.Set("Authorization", "Bearer "+tok.Value)
	return r
}
