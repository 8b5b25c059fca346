package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// allowedExtensions lists the audio formats accepted for storage.
var allowedExtensions = []string{".mp3", ".wav", ".m4a", ".ogg", ".flac"}

// ErrNotFound is returned when no stored file matches an id.
var ErrNotFound = errors.New("file not found")

// UploadStore keeps audio files on local disk, addressable by an opaque id.
// Files are stored flat as <id><ext>; the id alone is enough to find a file
// because the extension is probed from the allowed set.
type UploadStore struct {
	dir string
	log zerolog.Logger
}

// NewUploadStore creates the store, creating dir if needed.
func NewUploadStore(dir string, log zerolog.Logger) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &UploadStore{
		dir: dir,
		log: log.With().Str("component", "upload-store").Logger(),
	}, nil
}

// Dir returns the storage directory path.
func (s *UploadStore) Dir() string { return s.dir }

// ValidExt reports whether ext (with leading dot, any case) is an accepted
// audio format.
func ValidExt(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range allowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Extensions returns the accepted audio extensions.
func Extensions() []string { return allowedExtensions }

// Save writes data under a fresh id with an atomic temp-file + rename.
// Returns the id and the stored path.
func (s *UploadStore) Save(data []byte, ext string) (string, string, error) {
	id, path, _, err := s.SaveFrom(bytes.NewReader(data), ext)
	return id, path, err
}

// SaveFrom streams r to disk under a fresh id with an atomic temp-file +
// rename, so large uploads never sit in memory. Returns the id, the stored
// path, and the byte count written.
func (s *UploadStore) SaveFrom(r io.Reader, ext string) (string, string, int64, error) {
	ext = strings.ToLower(ext)
	if !ValidExt(ext) {
		return "", "", 0, fmt.Errorf("unsupported audio format %q", ext)
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+ext)

	tmp, err := os.CreateTemp(s.dir, ".upload-*.tmp")
	if err != nil {
		return "", "", 0, fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	n, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", "", 0, fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", "", 0, fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", "", 0, fmt.Errorf("rename: %w", err)
	}
	return id, path, n, nil
}

// Adopt moves an existing file into the store under a fresh id. Used for
// files produced outside the store (drop directory, yt-dlp output).
func (s *UploadStore) Adopt(srcPath string) (string, string, error) {
	ext := strings.ToLower(filepath.Ext(srcPath))
	if !ValidExt(ext) {
		return "", "", fmt.Errorf("unsupported audio format %q", ext)
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+ext)
	if err := os.Rename(srcPath, path); err != nil {
		// Rename fails across filesystems; fall back to copy + remove.
		data, readErr := os.ReadFile(srcPath)
		if readErr != nil {
			return "", "", fmt.Errorf("adopt %s: %w", srcPath, err)
		}
		if writeErr := os.WriteFile(path, data, 0o644); writeErr != nil {
			return "", "", fmt.Errorf("adopt %s: %w", srcPath, writeErr)
		}
		os.Remove(srcPath)
	}
	return id, path, nil
}

// Reserve allocates a fresh id and the path a producer should write to.
// The file is not created; the caller is expected to produce it.
func (s *UploadStore) Reserve(ext string) (string, string) {
	id := uuid.NewString()
	return id, filepath.Join(s.dir, id+strings.ToLower(ext))
}

// Resolve returns the on-disk path for an id by probing the allowed
// extensions, or "" when no stored file matches.
func (s *UploadStore) Resolve(id string) string {
	if !safeID(id) {
		return ""
	}
	for _, ext := range allowedExtensions {
		path := filepath.Join(s.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Remove deletes the stored file for an id. Returns ErrNotFound when no file
// matches.
func (s *UploadStore) Remove(id string) error {
	if !safeID(id) {
		return ErrNotFound
	}
	for _, ext := range allowedExtensions {
		path := filepath.Join(s.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove %s: %w", path, err)
			}
			s.log.Info().Str("file_id", id).Str("path", path).Msg("file removed")
			return nil
		}
	}
	return ErrNotFound
}

// safeID rejects ids that could escape the storage directory.
func safeID(id string) bool {
	return id != "" &&
		!strings.ContainsAny(id, `/\`) &&
		!strings.Contains(id, "..")
}
