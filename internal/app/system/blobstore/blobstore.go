// Package blobstore persists uploaded artifacts (submissions and resumes)
// under slash-separated keys such as "{interneeID}/{taskID}_{name}".
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("blobstore: object not found")

// PutOptions carries optional metadata for Put.
type PutOptions struct {
	ContentType string
}

// Store is a flat key/value file store. Put replaces any existing object at
// the same key.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, opts *PutOptions) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Presigner is implemented by stores that can hand out time-limited direct
// download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// CleanKey validates key and returns its canonical form. Keys must be
// relative, non-empty, and must not escape the store root.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("blobstore: invalid key %q", key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("blobstore: invalid key %q", key)
	}
	return clean, nil
}
