package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Local stores objects as files on an afero filesystem.
type Local struct {
	fs afero.Fs
}

// NewLocal returns a store rooted at dir on the OS filesystem.
func NewLocal(dir string) (*Local, error) {
	osfs := afero.NewOsFs()
	if err := osfs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", dir, err)
	}
	return &Local{fs: afero.NewBasePathFs(osfs, dir)}, nil
}

// NewLocalFs returns a store over fs. Tests pass afero.NewMemMapFs().
func NewLocalFs(fs afero.Fs) *Local {
	return &Local{fs: fs}
}

// Put writes to a temporary sibling and renames it into place so readers
// never observe a partial file.
func (l *Local) Put(ctx context.Context, key string, r io.Reader, _ *PutOptions) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := l.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return fmt.Errorf("create dir for %q: %w", key, err)
	}

	tmp := path.Join(path.Dir(key), ".tmp-"+uuid.NewString())
	f, err := l.fs.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %q: %w", key, err)
	}
	_, copyErr := io.Copy(f, contextReader{ctx: ctx, r: r})
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := l.fs.Rename(tmp, key); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("commit %q: %w", key, err)
	}
	return nil
}

// Open returns a reader for key.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	key, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := l.fs.Open(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

// Delete removes key. Deleting a missing key is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := l.fs.Remove(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether key is stored.
func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	key, err := CleanKey(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(l.fs, key)
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
