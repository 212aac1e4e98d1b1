// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Database connection timeouts
//
// AppConfig carries everything specific to the internship portal: the
// MongoDB connection, session credential signing, the Firebase project
// whose ID tokens are accepted, where uploaded artifacts live, and the
// request deadlines applied to store operations.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI              string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase         string // Database name within MongoDB
	MongoMaxPoolSize      uint64 // Upper bound on pooled connections
	MongoMinPoolSize      uint64 // Connections kept warm
	AllowNonTransactional bool   // Dev only: run multi-step writes without a transaction on standalone servers

	// Session credentials
	SessionKey string        // Secret the signing key is derived from (>= 32 bytes in prod)
	SessionTTL time.Duration // Credential lifetime (default 30m)

	// Firebase identity
	FirebaseProjectID   string        // Expected aud / iss project of ID tokens
	FirebaseCertsURL    string        // Where signing certificates are published
	FirebaseCertRefresh time.Duration // Background refresh interval for the certificates

	// Artifact storage
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage root (e.g., "./uploads")
	StorageS3Region  string // AWS region
	StorageS3Bucket  string // S3 bucket name
	StorageS3Prefix  string // Key prefix (e.g., "artifacts/")
	MaxUploadMB      int    // Multipart upload limit in MiB

	// HTTP
	CORSAllowedOrigins []string // Origins allowed by CORS ("*" allows any)

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth  string
	AuditLogAdmin string

	// Operation deadlines
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
