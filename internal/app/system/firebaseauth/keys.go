package firebaseauth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultCertsURL publishes the x509 certificates that sign Firebase ID tokens.
const DefaultCertsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// KeySource resolves the RSA public keys used to sign ID tokens, keyed by kid.
type KeySource interface {
	Keys(ctx context.Context) (map[string]*rsa.PublicKey, error)
}

// StaticKeys is a fixed KeySource, used by tests and offline deployments.
type StaticKeys map[string]*rsa.PublicKey

// Keys returns the fixed key set.
func (s StaticKeys) Keys(context.Context) (map[string]*rsa.PublicKey, error) {
	return s, nil
}

var _ KeySource = StaticKeys(nil)

// CertSource fetches signing certificates over HTTP and caches them for the
// max-age advertised by the endpoint.
type CertSource struct {
	url    string
	client *http.Client
	log    *zap.Logger

	mu      sync.RWMutex
	keys    map[string]*rsa.PublicKey
	expires time.Time
}

// NewCertSource returns a CertSource reading from url. A nil client uses a
// client with a 10 second timeout.
func NewCertSource(url string, client *http.Client, logger *zap.Logger) *CertSource {
	if url == "" {
		url = DefaultCertsURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &CertSource{url: url, client: client, log: logger}
}

// Keys returns the cached key set, fetching it when empty or expired.
func (c *CertSource) Keys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	c.mu.RLock()
	keys, fresh := c.keys, time.Now().Before(c.expires)
	c.mu.RUnlock()
	if fresh && len(keys) > 0 {
		return keys, nil
	}
	if err := c.Refresh(ctx); err != nil {
		// Serve stale keys while the endpoint is unreachable.
		if len(keys) > 0 {
			c.log.Warn("using stale firebase signing keys", zap.Error(err))
			return keys, nil
		}
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.keys, nil
}

// Expires reports when the cached key set goes stale.
func (c *CertSource) Expires() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expires
}

var maxAgeRe = regexp.MustCompile(`max-age=(\d+)`)

// Refresh fetches the certificate set unconditionally and replaces the cache.
func (c *CertSource) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch signing certs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch signing certs: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read signing certs: %w", err)
	}
	keys, err := ParseCerts(body)
	if err != nil {
		return err
	}

	ttl := time.Hour
	if m := maxAgeRe.FindStringSubmatch(resp.Header.Get("Cache-Control")); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil {
			ttl = time.Duration(secs) * time.Second
		}
	}

	c.mu.Lock()
	c.keys = keys
	c.expires = time.Now().Add(ttl)
	c.mu.Unlock()

	c.log.Debug("firebase signing keys refreshed",
		zap.Int("count", len(keys)),
		zap.Duration("ttl", ttl))
	return nil
}

// ParseCerts decodes a {"kid": "<PEM certificate>"} document into public keys.
func ParseCerts(body []byte) (map[string]*rsa.PublicKey, error) {
	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode signing certs: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(raw))
	for kid, pemText := range raw {
		pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemText))
		if err != nil {
			return nil, fmt.Errorf("parse signing cert %q: %w", kid, err)
		}
		keys[kid] = pub
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("signing cert document is empty")
	}
	return keys, nil
}
