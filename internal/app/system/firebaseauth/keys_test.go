package firebaseauth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/firebaseauth"
	"go.uber.org/zap"
)

func selfSignedPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken.system.gserviceaccount.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create cert: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func TestCertSource_FetchAndCache(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	doc, _ := json.Marshal(map[string]string{"kid-a": selfSignedPEM(t, key)})

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		_, _ = w.Write(doc)
	}))
	defer srv.Close()

	src := firebaseauth.NewCertSource(srv.URL, srv.Client(), zap.NewNop())

	keys, err := src.Keys(context.Background())
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	pub, ok := keys["kid-a"]
	if !ok {
		t.Fatalf("kid-a missing from %v", keys)
	}
	if pub.N.Cmp(key.PublicKey.N) != 0 {
		t.Error("parsed key does not match certificate key")
	}
	if d := time.Until(src.Expires()); d < 59*time.Minute {
		t.Errorf("cache ttl %v, want ~1h from max-age", d)
	}

	if _, err := src.Keys(context.Background()); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("endpoint hit %d times, want 1 (cached)", hits.Load())
	}
}

func TestCertSource_ServesStaleOnFailure(t *testing.T) {
	key, _ := rsa.GenerateKey(rand.Reader, 2048)
	doc, _ := json.Marshal(map[string]string{"kid-a": selfSignedPEM(t, key)})

	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Cache-Control", "max-age=0")
		_, _ = w.Write(doc)
	}))
	defer srv.Close()

	src := firebaseauth.NewCertSource(srv.URL, srv.Client(), zap.NewNop())
	if err := src.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	fail.Store(true)
	keys, err := src.Keys(context.Background())
	if err != nil {
		t.Fatalf("expected stale keys, got %v", err)
	}
	if _, ok := keys["kid-a"]; !ok {
		t.Error("stale key set missing kid-a")
	}
}

func TestCertSource_ErrorWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := firebaseauth.NewCertSource(srv.URL, srv.Client(), zap.NewNop())
	if _, err := src.Keys(context.Background()); err == nil {
		t.Error("expected error when no keys were ever fetched")
	}
}

func TestParseCerts_Invalid(t *testing.T) {
	for _, body := range []string{`not json`, `{}`, `{"k":"not a pem"}`} {
		if _, err := firebaseauth.ParseCerts([]byte(body)); err == nil {
			t.Errorf("ParseCerts(%q) should fail", body)
		}
	}
}
