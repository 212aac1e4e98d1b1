// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/internportal/internal/app/system/auditlog"
	"github.com/dalemusser/internportal/internal/app/system/firebaseauth"
	"github.com/dalemusser/internportal/internal/app/system/sessiontoken"
	"github.com/dalemusser/internportal/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the portal.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_key, etc.
//   - Environment variables: INTERNPORTAL_MONGO_URI, INTERNPORTAL_SESSION_KEY, etc.
//   - Command-line flags: --mongo_uri, --session_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "internportal", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "allow_non_transactional", Default: false, Desc: "Dev only: run multi-step writes sequentially when transactions are unavailable"},

	// Session credentials
	{Name: "session_key", Default: "", Desc: "Session credential signing secret (>= 32 bytes; random per process in dev when blank)"},
	{Name: "session_ttl", Default: "30m", Desc: "Session credential lifetime (e.g., 30m, 1h)"},

	// Firebase identity
	{Name: "firebase_project_id", Default: "", Desc: "Firebase project whose ID tokens are accepted"},
	{Name: "firebase_certs_url", Default: firebaseauth.DefaultCertsURL, Desc: "URL of the Firebase token signing certificates"},
	{Name: "firebase_cert_refresh", Default: "30m", Desc: "How often signing certificates are refreshed in the background"},

	// Artifact storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "artifacts/", Desc: "S3 key prefix"},
	{Name: "max_upload_mb", Default: 20, Desc: "Maximum multipart upload size in MiB"},

	// HTTP
	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated list of allowed CORS origins ('*' for any)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Operation deadlines
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and single writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for multi-collection transactions"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, INTERNPORTAL_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "INTERNPORTAL", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:              appValues.String("mongo_uri"),
		MongoDatabase:         appValues.String("mongo_database"),
		MongoMaxPoolSize:      uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:      uint64(appValues.Int("mongo_min_pool_size")),
		AllowNonTransactional: appValues.Bool("allow_non_transactional"),

		SessionKey: appValues.String("session_key"),
		SessionTTL: appValues.Duration("session_ttl", sessiontoken.DefaultTTL),

		FirebaseProjectID:   strings.TrimSpace(appValues.String("firebase_project_id")),
		FirebaseCertsURL:    appValues.String("firebase_certs_url"),
		FirebaseCertRefresh: appValues.Duration("firebase_cert_refresh", 30*time.Minute),

		StorageType:      strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageS3Bucket:  appValues.String("storage_s3_bucket"),
		StorageS3Prefix:  appValues.String("storage_s3_prefix"),
		MaxUploadMB:      appValues.Int("max_upload_mb"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is validated before any connection attempt, and
// production refuses to start without a strong session secret.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)", appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}

	if appCfg.FirebaseProjectID == "" {
		return fmt.Errorf("firebase_project_id is required")
	}
	if appCfg.FirebaseCertRefresh <= 0 {
		return fmt.Errorf("firebase_cert_refresh must be positive")
	}

	switch appCfg.StorageType {
	case "local":
		if strings.TrimSpace(appCfg.StorageLocalPath) == "" {
			return fmt.Errorf("storage_local_path is required when storage_type is 'local'")
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
			return fmt.Errorf("storage_s3_bucket and storage_s3_region are required when storage_type is 's3'")
		}
	default:
		return fmt.Errorf("unknown storage_type %q (want 'local' or 's3')", appCfg.StorageType)
	}

	if appCfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive")
	}

	prod := coreCfg != nil && coreCfg.Env == "prod"
	if prod && len(appCfg.SessionKey) < sessiontoken.MinSecretLen {
		return fmt.Errorf("session_key must be at least %d bytes in production", sessiontoken.MinSecretLen)
	}
	if appCfg.SessionKey != "" && len(appCfg.SessionKey) < sessiontoken.MinSecretLen {
		return fmt.Errorf("session_key must be at least %d bytes", sessiontoken.MinSecretLen)
	}
	if prod && appCfg.AllowNonTransactional {
		return fmt.Errorf("allow_non_transactional is not permitted in production")
	}

	if !auditlog.IsValidSetting(appCfg.AuditLogAuth) || !auditlog.IsValidSetting(appCfg.AuditLogAdmin) {
		return fmt.Errorf("audit_log_auth and audit_log_admin must be one of: all, db, log, off")
	}

	return nil
}

// splitList parses a comma-separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
