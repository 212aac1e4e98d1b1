// Package firebaseauth verifies Firebase ID tokens.
//
// A token is accepted only if it is RS256-signed by a currently published
// key, was issued for the configured project, and is within its validity
// window. Verification is offline apart from fetching the public keys.
package firebaseauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/golang-jwt/jwt/v5"
)

const issuerPrefix = "https://securetoken.google.com/"

// Identity is the verified content of an ID token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

type tokenClaims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	AuthTime      int64  `json:"auth_time,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks ID tokens for one Firebase project.
type Verifier struct {
	projectID string
	keys      KeySource
	leeway    time.Duration
	now       func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// WithLeeway sets the clock-skew allowance applied to exp and iat.
func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) { v.leeway = d }
}

// NewVerifier returns a Verifier for projectID using keys.
func NewVerifier(projectID string, keys KeySource, opts ...Option) *Verifier {
	v := &Verifier{
		projectID: projectID,
		keys:      keys,
		leeway:    30 * time.Second,
		now:       time.Now,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Issuer returns the iss value tokens for projectID must carry.
func Issuer(projectID string) string {
	return issuerPrefix + projectID
}

// Verify validates raw and returns the identity it asserts. Every rejection
// is reported as apperr.InvalidAssertion; the cause is kept for logging.
func (v *Verifier) Verify(ctx context.Context, raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, apperr.New(apperr.InvalidAssertion, "")
	}

	keys, err := v.keys.Keys(ctx)
	if err != nil {
		return Identity{}, apperr.Internalf(err, "load firebase signing keys")
	}

	var claims tokenClaims
	_, err = jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) {
			kid, _ := t.Header["kid"].(string)
			key, ok := keys[kid]
			if !ok {
				return nil, fmt.Errorf("unknown key id %q", kid)
			}
			return key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(Issuer(v.projectID)),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.InvalidAssertion, err, "")
	}

	if err := v.checkSubject(claims); err != nil {
		return Identity{}, apperr.Wrap(apperr.InvalidAssertion, err, "")
	}

	return Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
	}, nil
}

func (v *Verifier) checkSubject(c tokenClaims) error {
	if c.Subject == "" {
		return errors.New("token has no subject")
	}
	if len(c.Subject) > 128 {
		return errors.New("token subject exceeds 128 characters")
	}
	if c.AuthTime > 0 && time.Unix(c.AuthTime, 0).After(v.now().Add(v.leeway)) {
		return errors.New("token auth_time is in the future")
	}
	return nil
}
