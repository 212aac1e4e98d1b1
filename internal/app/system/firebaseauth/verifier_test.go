package firebaseauth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/dalemusser/internportal/internal/app/system/firebaseauth"
	"github.com/dalemusser/internportal/internal/testutil"
	"github.com/golang-jwt/jwt/v5"
)

func TestVerify_Valid(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	raw := idp.Mint(t, "uid-123", "ada@example.com", "Ada Lovelace")

	id, err := idp.Verifier.Verify(context.Background(), raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UID != "uid-123" || id.Email != "ada@example.com" || id.Name != "Ada Lovelace" || !id.EmailVerified {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestVerify_Rejects(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	now := time.Now()

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	foreign := jwt.NewWithClaims(jwt.SigningMethodRS256, idp.Claims("uid-1", "", ""))
	foreign.Header["kid"] = idp.KeyID()
	foreignRaw, _ := foreign.SignedString(otherKey)

	hs := jwt.NewWithClaims(jwt.SigningMethodHS256, idp.Claims("uid-1", "", ""))
	hs.Header["kid"] = idp.KeyID()
	hsRaw, _ := hs.SignedString([]byte("0123456789abcdef0123456789abcdef"))

	mutate := func(f func(c jwt.MapClaims)) string {
		c := idp.Claims("uid-1", "a@example.com", "A")
		f(c)
		return idp.Sign(t, c, idp.KeyID())
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "abc.def.ghi"},
		{"wrong audience", mutate(func(c jwt.MapClaims) { c["aud"] = "other-project" })},
		{"wrong issuer", mutate(func(c jwt.MapClaims) { c["iss"] = "https://securetoken.google.com/other" })},
		{"expired", mutate(func(c jwt.MapClaims) { c["exp"] = now.Add(-time.Hour).Unix() })},
		{"missing exp", mutate(func(c jwt.MapClaims) { delete(c, "exp") })},
		{"issued in future", mutate(func(c jwt.MapClaims) { c["iat"] = now.Add(time.Hour).Unix() })},
		{"auth_time in future", mutate(func(c jwt.MapClaims) { c["auth_time"] = now.Add(time.Hour).Unix() })},
		{"empty subject", mutate(func(c jwt.MapClaims) { c["sub"] = "" })},
		{"long subject", mutate(func(c jwt.MapClaims) { c["sub"] = strings.Repeat("x", 129) })},
		{"unknown kid", idp.Sign(t, idp.Claims("uid-1", "", ""), "rotated-away")},
		{"foreign key", foreignRaw},
		{"hmac algorithm", hsRaw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := idp.Verifier.Verify(context.Background(), tt.raw)
			if !apperr.Is(err, apperr.InvalidAssertion) {
				t.Errorf("got %v, want InvalidAssertion", err)
			}
		})
	}
}

type failingKeys struct{}

func (failingKeys) Keys(context.Context) (map[string]*rsa.PublicKey, error) {
	return nil, context.DeadlineExceeded
}

func TestVerify_KeySourceFailureIsInternal(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	raw := idp.Mint(t, "uid-1", "", "")

	v := firebaseauth.NewVerifier(testutil.TestProjectID, failingKeys{})
	_, err := v.Verify(context.Background(), raw)
	if apperr.KindOf(err) != apperr.Internal {
		t.Errorf("got %v, want internal failure", err)
	}
}

func TestVerify_Clock(t *testing.T) {
	idp := testutil.NewIdentityProvider(t)
	raw := idp.Mint(t, "uid-1", "", "")

	late := firebaseauth.NewVerifier(testutil.TestProjectID, idp.Keys(),
		firebaseauth.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) }),
		firebaseauth.WithLeeway(0))
	if _, err := late.Verify(context.Background(), raw); !apperr.Is(err, apperr.InvalidAssertion) {
		t.Errorf("token verified two hours later: %v", err)
	}
}
