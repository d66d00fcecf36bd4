// Package filterstore persists the highlight keyword list as a plain text
// file, one keyword per line.
package filterstore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore reads and writes the keyword file. Every non-blank line is a
// keyword, so hashtags such as "#بودجه" survive a save and load.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore for path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

// Load returns the keywords in file order. A missing file is an empty list.
func (s *FileStore) Load(_ context.Context) ([]string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read filter file: %w", err)
	}

	out := []string{}
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan filter file: %w", err)
	}
	return out, nil
}

// Save writes keywords, trimmed and with duplicates removed, replacing the
// file atomically.
func (s *FileStore) Save(_ context.Context, keywords []string) error {
	var buf bytes.Buffer
	for _, kw := range Dedupe(keywords) {
		buf.WriteString(kw)
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create filter dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".filters-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write filter file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close filter file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace filter file: %w", err)
	}
	return nil
}

// Dedupe trims keywords and drops empty ones and repeats, keeping the
// first occurrence.
func Dedupe(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
