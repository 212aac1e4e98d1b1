// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxJSONBody caps JSON request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// DefaultUploadBytes is the multipart limit when max_upload_mb is unset.
	DefaultUploadBytes = 20 << 20 // 20 MB

	// MultipartMemory is how much of a multipart body is kept in memory
	// before parts spill to temporary files.
	MultipartMemory = 8 << 20 // 8 MB
)

// UploadBytes converts a megabyte setting to bytes, falling back to
// DefaultUploadBytes for non-positive values.
func UploadBytes(mb int) int64 {
	if mb <= 0 {
		return DefaultUploadBytes
	}
	return int64(mb) << 20
}
