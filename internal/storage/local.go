// Package storage is the blob store behind permit attachments. Files live
// on local disk under a base dir and are served statically under a public
// URL prefix.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

type Store struct {
	baseDir string // absolute or cwd-relative dir holding all blobs
	urlBase string // URL prefix the dir is served under
}

func NewStore(baseDir, urlBase string) *Store {
	return &Store{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/")}
}

// Save writes an uploaded file under relDir with the given filename and
// returns the stored relative path. The partial file is removed on a failed
// copy so no half-written blob survives.
func (s *Store) Save(fh *multipart.FileHeader, relDir, filename string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("write blob: %w", err)
	}

	return filepath.ToSlash(filepath.Join(relDir, filename)), nil
}

// Delete removes a stored blob. A missing file is not an error.
func (s *Store) Delete(relPath string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(relPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a blob is present on disk.
func (s *Store) Exists(relPath string) bool {
	_, err := os.Stat(filepath.Join(s.baseDir, filepath.FromSlash(relPath)))
	return err == nil
}

// URL returns the public URL of a stored blob.
func (s *Store) URL(relPath string) string {
	return s.urlBase + "/" + strings.TrimLeft(filepath.ToSlash(relPath), "/")
}

// BaseDir is the directory to mount for static serving.
func (s *Store) BaseDir() string { return s.baseDir }
