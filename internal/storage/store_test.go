package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *UploadStore {
	t.Helper()
	s, err := NewUploadStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewUploadStore: %v", err)
	}
	return s
}

func TestValidExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".MP3"} {
		if !ValidExt(ext) {
			t.Errorf("ValidExt(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{".exe", ".txt", ".mp4", "", "mp3"} {
		if ValidExt(ext) {
			t.Errorf("ValidExt(%q) = true, want false", ext)
		}
	}
}

func TestUploadStore_SaveAndResolve(t *testing.T) {
	s := newTestStore(t)

	id, path, err := s.Save([]byte("audio bytes"), ".mp3")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty id")
	}
	if got := s.Resolve(id); got != path {
		t.Errorf("Resolve(%q) = %q, want %q", id, got, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "audio bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestUploadStore_SaveFrom(t *testing.T) {
	s := newTestStore(t)

	id, path, n, err := s.SaveFrom(strings.NewReader("streamed audio"), ".wav")
	if err != nil {
		t.Fatalf("SaveFrom: %v", err)
	}
	if n != int64(len("streamed audio")) {
		t.Errorf("SaveFrom wrote %d bytes, want %d", n, len("streamed audio"))
	}
	if got := s.Resolve(id); got != path {
		t.Errorf("Resolve(%q) = %q, want %q", id, got, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "streamed audio" {
		t.Errorf("stored content = %q", data)
	}

	// No temp files may survive the rename.
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Errorf("leftover temp file %q", e.Name())
		}
	}
}

func TestUploadStore_SaveRejectsBadExtension(t *testing.T) {
	s := newTestStore(t)
	if _, _, err := s.Save([]byte("x"), ".exe"); err == nil {
		t.Error("Save should reject unsupported extensions")
	}
}

func TestUploadStore_ResolveUnknownID(t *testing.T) {
	s := newTestStore(t)
	if got := s.Resolve("no-such-id"); got != "" {
		t.Errorf("Resolve = %q, want empty", got)
	}
}

func TestUploadStore_ResolveRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"../etc/passwd", "a/b", `a\b`, ""} {
		if got := s.Resolve(id); got != "" {
			t.Errorf("Resolve(%q) = %q, want empty", id, got)
		}
	}
}

func TestUploadStore_Remove(t *testing.T) {
	s := newTestStore(t)

	id, path, err := s.Save([]byte("x"), ".wav")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(id); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove")
	}
	if err := s.Remove(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove = %v, want ErrNotFound", err)
	}
}

func TestUploadStore_Adopt(t *testing.T) {
	s := newTestStore(t)

	src := filepath.Join(t.TempDir(), "dropped.ogg")
	if err := os.WriteFile(src, []byte("dropped audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	id, path, err := s.Adopt(src)
	if err != nil {
		t.Fatalf("Adopt: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source file should be moved away")
	}
	if got := s.Resolve(id); got != path {
		t.Errorf("Resolve = %q, want %q", got, path)
	}
}

func TestUploadStore_Reserve(t *testing.T) {
	s := newTestStore(t)
	id, path := s.Reserve(".mp3")
	if id == "" {
		t.Fatal("Reserve returned empty id")
	}
	if filepath.Dir(path) != s.Dir() {
		t.Errorf("reserved path %q not under store dir", path)
	}
	// Nothing written yet, so the id must not resolve.
	if got := s.Resolve(id); got != "" {
		t.Errorf("Resolve before write = %q, want empty", got)
	}
}

func TestUploadPruner_PrunesOldFiles(t *testing.T) {
	s := newTestStore(t)

	oldID, oldPath, err := s.Save([]byte("old"), ".mp3")
	if err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(oldPath, past, past); err != nil {
		t.Fatal(err)
	}

	freshID, _, err := s.Save([]byte("fresh"), ".mp3")
	if err != nil {
		t.Fatal(err)
	}

	p := NewUploadPruner(s, 24*time.Hour, zerolog.Nop())
	p.prune()

	if s.Resolve(oldID) != "" {
		t.Error("expired file should be pruned")
	}
	if s.Resolve(freshID) == "" {
		t.Error("fresh file should survive pruning")
	}
}

func TestUploadPruner_ZeroRetentionDisabled(t *testing.T) {
	s := newTestStore(t)

	id, path, err := s.Save([]byte("x"), ".mp3")
	if err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-1000 * time.Hour)
	os.Chtimes(path, past, past)

	p := NewUploadPruner(s, 0, zerolog.Nop())
	p.prune()

	if s.Resolve(id) == "" {
		t.Error("zero retention must not prune anything")
	}
}
