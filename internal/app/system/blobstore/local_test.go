package blobstore_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dalemusser/internportal/internal/app/system/blobstore"
	"github.com/spf13/afero"
)

func TestLocal_PutOpenDelete(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewLocalFs(afero.NewMemMapFs())
	key := "65f0c0ffee0000000000abcd/65f0c0ffee0000000000ef01_report.pdf"

	if err := store.Put(ctx, key, strings.NewReader("first"), nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, key, strings.NewReader("second"), &blobstore.PutOptions{ContentType: "application/pdf"}); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "second" {
		t.Errorf("content = %q, want overwrite to win", data)
	}

	ok, err := store.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, blobstore.ErrNotFound) {
		t.Errorf("Open after delete: got %v, want ErrNotFound", err)
	}
}

func TestLocal_PutLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	store := blobstore.NewLocalFs(fs)

	if err := store.Put(ctx, "owner/a_b.txt", strings.NewReader("x"), nil); err != nil {
		t.Fatal(err)
	}
	entries, err := afero.ReadDir(fs, "owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a_b.txt" {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only a_b.txt", names)
	}
}

func TestLocal_PutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := blobstore.NewLocalFs(afero.NewMemMapFs())

	if err := store.Put(ctx, "owner/x.txt", strings.NewReader("data"), nil); err == nil {
		t.Fatal("expected error on canceled context")
	}
	if ok, _ := store.Exists(context.Background(), "owner/x.txt"); ok {
		t.Error("canceled Put must not leave an object behind")
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"a/b_c.pdf", "a/b_c.pdf", true},
		{"a//b.pdf", "a/b.pdf", true},
		{"", "", false},
		{"/etc/passwd", "", false},
		{"../x", "", false},
		{"a/../../x", "", false},
		{`a\b`, "", false},
		{".", "", false},
	}
	for _, tt := range tests {
		got, err := blobstore.CleanKey(tt.key)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("CleanKey(%q) = %q, %v; want %q", tt.key, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("CleanKey(%q) should fail, got %q", tt.key, got)
		}
	}
}
