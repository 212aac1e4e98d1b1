package bootstrap

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "internportal",
		MongoMaxPoolSize:    100,
		MongoMinPoolSize:    10,
		SessionTTL:          30 * time.Minute,
		FirebaseProjectID:   "intern-portal",
		FirebaseCertsURL:    "https://example.test/certs",
		FirebaseCertRefresh: 30 * time.Minute,
		StorageType:         "local",
		StorageLocalPath:    "./uploads",
		MaxUploadMB:         20,
		CORSAllowedOrigins:  []string{"*"},
		AuditLogAuth:        "all",
		AuditLogAdmin:       "all",
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}
	strongKey := strings.Repeat("k", 32)

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "dev defaults", core: dev},
		{name: "pool inverted", core: dev, mutate: func(c *AppConfig) { c.MongoMinPoolSize = 200 }, wantErr: "mongo_min_pool_size"},
		{name: "missing project", core: dev, mutate: func(c *AppConfig) { c.FirebaseProjectID = "" }, wantErr: "firebase_project_id"},
		{name: "zero refresh", core: dev, mutate: func(c *AppConfig) { c.FirebaseCertRefresh = 0 }, wantErr: "firebase_cert_refresh"},
		{name: "unknown storage", core: dev, mutate: func(c *AppConfig) { c.StorageType = "ftp" }, wantErr: "storage_type"},
		{name: "s3 without bucket", core: dev, mutate: func(c *AppConfig) { c.StorageType = "s3"; c.StorageS3Region = "us-east-1" }, wantErr: "storage_s3_bucket"},
		{name: "s3 complete", core: dev, mutate: func(c *AppConfig) {
			c.StorageType = "s3"
			c.StorageS3Region = "us-east-1"
			c.StorageS3Bucket = "artifacts"
		}},
		{name: "zero upload limit", core: dev, mutate: func(c *AppConfig) { c.MaxUploadMB = 0 }, wantErr: "max_upload_mb"},
		{name: "short key in dev", core: dev, mutate: func(c *AppConfig) { c.SessionKey = "short" }, wantErr: "session_key"},
		{name: "prod without key", core: prod, wantErr: "production"},
		{name: "prod with key", core: prod, mutate: func(c *AppConfig) { c.SessionKey = strongKey }},
		{name: "prod non-transactional", core: prod, mutate: func(c *AppConfig) {
			c.SessionKey = strongKey
			c.AllowNonTransactional = true
		}, wantErr: "allow_non_transactional"},
		{name: "bad audit setting", core: dev, mutate: func(c *AppConfig) { c.AuditLogAdmin = "sometimes" }, wantErr: "audit_log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			err := ValidateConfig(tt.core, cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateConfig: unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ValidateConfig error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"*", []string{"*"}},
		{"https://a.example, https://b.example ,", []string{"https://a.example", "https://b.example"}},
		{"  ", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
