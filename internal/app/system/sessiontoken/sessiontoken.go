// Package sessiontoken issues and validates the bearer credentials handed
// out after a successful identity login.
//
// Credentials are HS256 JWTs. The signing key is derived from the configured
// secret with HKDF-SHA256, so the raw secret is never used as a MAC key
// directly. The subject's role is embedded at issuance and trusted for the
// credential's lifetime.
package sessiontoken

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// DefaultTTL is the credential lifetime when none is configured.
const DefaultTTL = 30 * time.Minute

const (
	tokenIssuer = "internportal"
	hkdfInfo    = "internportal session token v1"
)

// MinSecretLen is the shortest secret NewIssuer accepts.
const MinSecretLen = 16

// Subject is what a credential is issued for.
type Subject struct {
	UserID      string
	FirebaseUID string
	Email       string
	Role        string
}

// Claims is the decoded content of a valid credential.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Token is an issued credential.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Issuer signs and validates credentials.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewIssuer derives a signing key from secret. ttl <= 0 selects DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d bytes", MinSecretLen)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(hkdfInfo)), key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}, nil
}

// TTL returns the credential lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// SetClock overrides the time source. Tests only.
func (i *Issuer) SetClock(now func() time.Time) { i.now = now }

// Issue signs a credential for s that expires after the issuer's TTL.
func (i *Issuer) Issue(s Subject) (Token, error) {
	if s.FirebaseUID == "" || s.UserID == "" || s.Role == "" {
		return Token{}, apperr.Internalf(errors.New("incomplete subject"), "issue session token")
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		UserID: s.UserID,
		Role:   s.Role,
		Email:  s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   s.FirebaseUID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return Token{}, apperr.Internalf(err, "sign session token")
	}
	return Token{Value: signed, ExpiresAt: exp.UTC()}, nil
}

// Validate checks raw and returns its claims. A bad signature, unexpected
// algorithm, malformed token, or lapsed expiry all yield
// apperr.ExpiredOrInvalidCredential.
func (i *Issuer) Validate(raw string) (*Claims, error) {
	if raw == "" {
		return nil, apperr.New(apperr.ExpiredOrInvalidCredential, "")
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (interface{}, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.ExpiredOrInvalidCredential, err, "")
	}
	if claims.Subject == "" || claims.UserID == "" || claims.Role == "" {
		return nil, apperr.New(apperr.ExpiredOrInvalidCredential, "")
	}
	return &claims, nil
}
