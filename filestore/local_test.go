package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
)

type logEntry struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (r *recordingLogger) add(level string, msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, msg: fmt.Sprint(msg)})
}

func (r *recordingLogger) Debug(msg any, _ ...any) { r.add("debug", msg) }
func (r *recordingLogger) Info(msg any, _ ...any)  { r.add("info", msg) }
func (r *recordingLogger) Error(msg any, _ ...any) { r.add("error", msg) }

func (r *recordingLogger) count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

func newTestStore(t *testing.T) (*Local, *recordingLogger, string) {
	t.Helper()
	root := t.TempDir()
	logger := &recordingLogger{}
	store, err := NewLocal(LocalConfig{WebRoot: root}, logger)
	if err != nil {
		t.Fatalf("NewLocal failed: %v", err)
	}
	return store, logger, root
}

var uploadedPathRe = regexp.MustCompile(`^avatars/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.png$`)

func TestLocal_UploadRoundTrip(t *testing.T) {
	store, logger, _ := newTestStore(t)
	ctx := context.Background()
	payload := []byte("0123456789")

	p, err := store.Upload(ctx, FromBytes("photo.png", payload), "avatars")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !uploadedPathRe.MatchString(p) {
		t.Fatalf("unexpected upload path %q", p)
	}
	if !store.Exists(ctx, p) {
		t.Fatalf("Exists(%q) = false after upload", p)
	}

	got, err := store.Download(ctx, p)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Download = %q; want %q", got, payload)
	}

	rec, err := GetInfo[any](ctx, store, p, nil)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if rec.Size != 10 {
		t.Errorf("Size = %d; want 10", rec.Size)
	}
	if !strings.HasSuffix(rec.Name, ".png") {
		t.Errorf("Name = %q; want .png suffix", rec.Name)
	}
	if rec.Path != p {
		t.Errorf("Path = %q; want %q", rec.Path, p)
	}
	if rec.CreatedAt.IsZero() {
		t.Errorf("CreatedAt is zero")
	}
	if logger.count("info") < 3 {
		t.Errorf("expected info logs for upload, download and info, got %d", logger.count("info"))
	}
}

func TestLocal_UploadEmptyContent(t *testing.T) {
	store, _, root := newTestStore(t)
	ctx := context.Background()

	_, err := store.Upload(ctx, FromBytes("empty.txt", nil), "docs")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Upload(empty) error = %v; want ErrInvalidArgument", err)
	}
	_, err = store.Upload(ctx, nil, "docs")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Upload(nil) error = %v; want ErrInvalidArgument", err)
	}
	if _, err := os.Stat(filepath.Join(root, "docs")); !os.IsNotExist(err) {
		t.Fatalf("directory was created for a rejected upload: %v", err)
	}
}

func TestLocal_UploadNamesNeverCollide(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	payload := []byte("same content")

	first, err := store.Upload(ctx, FromBytes("a.txt", payload), "dup")
	if err != nil {
		t.Fatalf("first Upload failed: %v", err)
	}
	second, err := store.Upload(ctx, FromBytes("a.txt", payload), "dup")
	if err != nil {
		t.Fatalf("second Upload failed: %v", err)
	}
	if first == second {
		t.Fatalf("two uploads returned the same path %q", first)
	}
}

func TestLocal_UploadExtension(t *testing.T) {
	tests := []struct {
		name      string
		declared  string
		detectExt bool
		content   []byte
		wantExt   string
	}{
		{name: "keeps case", declared: "IMG_01.JPG", content: []byte("x"), wantExt: ".JPG"},
		{name: "no extension", declared: "README", content: []byte("x"), wantExt: ""},
		{name: "trailing dot", declared: "odd.", content: []byte("x"), wantExt: ""},
		{name: "windows client path", declared: `C:\Users\me\doc.v2\report.pdf`, content: []byte("x"), wantExt: ".pdf"},
		{name: "detected", declared: "blob", detectExt: true, content: []byte("%PDF-1.4\n%âãÏÓ\n"), wantExt: ".pdf"},
		{name: "declared wins over detection", declared: "notes.md", detectExt: true, content: []byte("%PDF-1.4\n"), wantExt: ".md"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewLocal(LocalConfig{ContentRoot: t.TempDir(), DetectExt: tc.detectExt}, nil)
			if err != nil {
				t.Fatalf("NewLocal failed: %v", err)
			}
			store.newName = func() string { return "fixed" }

			p, err := store.Upload(context.Background(), FromBytes(tc.declared, tc.content), "")
			if err != nil {
				t.Fatalf("Upload failed: %v", err)
			}
			if want := "fixed" + tc.wantExt; p != want {
				t.Fatalf("Upload path = %q; want %q", p, want)
			}
			got, err := store.Download(context.Background(), p)
			if err != nil {
				t.Fatalf("Download failed: %v", err)
			}
			if !bytes.Equal(got, tc.content) {
				t.Fatalf("content changed by extension detection: %q", got)
			}
		})
	}
}

func TestLocal_UploadedPathFindsFile(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{dir: "", want: "id.txt"},
		{dir: "uploads/images", want: "uploads/images/id.txt"},
		{dir: "./uploads/../docs/", want: "docs/id.txt"},
		{dir: `uploads\images`, want: filepath.ToSlash(filepath.Join(`uploads\images`, "id.txt"))},
	}

	for _, tc := range tests {
		t.Run(tc.dir, func(t *testing.T) {
			store, _, _ := newTestStore(t)
			store.newName = func() string { return "id" }
			ctx := context.Background()

			p, err := store.Upload(ctx, FromBytes("a.txt", []byte("abc")), tc.dir)
			if err != nil {
				t.Fatalf("Upload failed: %v", err)
			}
			if p != tc.want {
				t.Errorf("Upload path = %q; want %q", p, tc.want)
			}
			if !store.Exists(ctx, p) {
				t.Fatalf("Exists(%q) = false after upload", p)
			}
			got, err := store.Download(ctx, p)
			if err != nil {
				t.Fatalf("Download(%q) failed: %v", p, err)
			}
			if string(got) != "abc" {
				t.Errorf("Download(%q) = %q; want abc", p, got)
			}
			info, err := store.Info(ctx, p)
			if err != nil {
				t.Fatalf("Info(%q) failed: %v", p, err)
			}
			if info.Path != p {
				t.Errorf("Info path = %q; want upload path %q", info.Path, p)
			}
		})
	}
}

func TestLocal_MissingFiles(t *testing.T) {
	store, logger, root := newTestStore(t)
	ctx := context.Background()

	if store.Exists(ctx, "nope/file.txt") {
		t.Fatalf("Exists on missing file returned true")
	}
	if store.Delete(ctx, "nope/file.txt") {
		t.Fatalf("Delete on missing file returned true")
	}

	_, err := store.Download(ctx, "nope/file.txt")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Download error = %v; want *NotFoundError", err)
	}
	if want := filepath.Join(root, "nope", "file.txt"); nf.Path != want {
		t.Errorf("NotFoundError.Path = %q; want %q", nf.Path, want)
	}

	_, err = GetInfo(ctx, store, "nope/file.txt", 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetInfo error = %v; want ErrNotFound", err)
	}
	if logger.count("error") != 2 {
		t.Errorf("expected 2 error logs, got %d", logger.count("error"))
	}
}

func TestLocal_DirectoryIsNotAFile(t *testing.T) {
	store, _, root := newTestStore(t)
	ctx := context.Background()
	if err := os.MkdirAll(filepath.Join(root, "dir"), 0o755); err != nil {
		t.Fatal(err)
	}

	if store.Exists(ctx, "dir") {
		t.Errorf("Exists(dir) = true")
	}
	if store.Delete(ctx, "dir") {
		t.Errorf("Delete(dir) = true")
	}
	if _, err := store.Download(ctx, "dir"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Download(dir) error = %v; want ErrNotFound", err)
	}
	if store.Move(ctx, "dir", "other") {
		t.Errorf("Move(dir) = true")
	}
}

func TestLocal_Delete(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	p, err := store.Upload(ctx, FromBytes("a.txt", []byte("abc")), "tmp")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !store.Delete(ctx, p) {
		t.Fatalf("Delete returned false for existing file")
	}
	if store.Exists(ctx, p) {
		t.Fatalf("file still exists after Delete")
	}
	if store.Delete(ctx, p) {
		t.Fatalf("second Delete returned true")
	}
}

func TestLocal_Move(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	src, err := store.Upload(ctx, FromBytes("a.txt", []byte("moving")), "in")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	dst := "archive/2024/01/a.txt"
	if !store.Move(ctx, src, dst) {
		t.Fatalf("Move returned false")
	}
	if store.Exists(ctx, src) {
		t.Errorf("source still exists after Move")
	}
	if !store.Exists(ctx, dst) {
		t.Errorf("destination missing after Move")
	}
}

func TestLocal_MoveOverwrites(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	src, err := store.Upload(ctx, FromBytes("new.txt", []byte("new")), "")
	if err != nil {
		t.Fatal(err)
	}
	dst, err := store.Upload(ctx, FromBytes("old.txt", []byte("old content")), "")
	if err != nil {
		t.Fatal(err)
	}
	if !store.Move(ctx, src, dst) {
		t.Fatalf("Move onto existing file returned false")
	}
	got, err := store.Download(ctx, dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("destination content = %q; want %q", got, "new")
	}
}

func TestLocal_MoveMissingSource(t *testing.T) {
	store, logger, _ := newTestStore(t)
	if store.Move(context.Background(), "missing.txt", "b/c.txt") {
		t.Fatalf("Move of missing source returned true")
	}
	if logger.count("error") != 1 {
		t.Fatalf("expected the failed move to be logged")
	}
}

func TestGetInfo_ExtraPassthrough(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	p, err := store.Upload(ctx, FromBytes("a.txt", []byte("abc")), "x")
	if err != nil {
		t.Fatal(err)
	}

	type meta struct {
		Owner string
		Tags  []string
	}
	extra := &meta{Owner: "alice", Tags: []string{"a"}}
	rec, err := GetInfo(ctx, store, p, extra)
	if err != nil {
		t.Fatalf("GetInfo failed: %v", err)
	}
	if rec.Extra != extra {
		t.Fatalf("Extra was not passed through unchanged")
	}
	if extra.Owner != "alice" || len(extra.Tags) != 1 {
		t.Fatalf("Extra was modified: %+v", extra)
	}
}

func TestLocal_RootResolution(t *testing.T) {
	web := t.TempDir()
	content := t.TempDir()

	store, err := NewLocal(LocalConfig{WebRoot: web, ContentRoot: content}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if store.Root() != web {
		t.Errorf("Root() = %q; want web root %q", store.Root(), web)
	}

	store, err = NewLocal(LocalConfig{ContentRoot: content}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if store.Root() != content {
		t.Errorf("Root() = %q; want content root %q", store.Root(), content)
	}

	if _, err := NewLocal(LocalConfig{}, nil); !errors.Is(err, ErrNoRoot) {
		t.Errorf("NewLocal without roots error = %v; want ErrNoRoot", err)
	}
}

func TestLocal_CanceledContext(t *testing.T) {
	store, _, root := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Upload(ctx, FromBytes("a.txt", []byte("a")), "c"); !errors.Is(err, context.Canceled) {
		t.Fatalf("Upload error = %v; want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(root, "c")); !os.IsNotExist(err) {
		t.Fatalf("canceled upload touched the filesystem")
	}
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "local.bin")
	if err := os.WriteFile(fp, []byte("from disk"), 0o644); err != nil {
		t.Fatal(err)
	}
	file, err := FromPath(fp)
	if err != nil {
		t.Fatalf("FromPath failed: %v", err)
	}
	if file.Name() != "local.bin" || file.Size() != 9 {
		t.Fatalf("FromPath = (%q, %d)", file.Name(), file.Size())
	}

	store, _, _ := newTestStore(t)
	p, err := store.Upload(context.Background(), file, "disk")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !strings.HasSuffix(p, ".bin") {
		t.Fatalf("Upload path = %q; want .bin suffix", p)
	}
}
