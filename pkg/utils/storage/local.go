package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Media kind directories under <root>/properties
const (
	DirImages     = "images"
	DirThumbnails = "images/thumbnails"
	DirVideos     = "videos"
	DirFiles      = "files"

	ThumbnailPrefix = "thumb-"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename replaces every character other than letters, digits, '.', '_' and '-' with '_'.
func SanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(filepath.Base(name), "_")
}

// NameGenerator üretilen dosya adları için artan milisaniye zaman damgası verir.
// Aynı milisaniyede iki dosya gelirse damga bir artırılır, böylece çakışma olmaz.
type NameGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{now: time.Now}
}

// Next returns "{unixMillis}-{sanitizedOriginalName}".
func (g *NameGenerator) Next(original string) string {
	g.mu.Lock()
	ts := g.now().UnixMilli()
	if ts <= g.last {
		ts = g.last + 1
	}
	g.last = ts
	g.mu.Unlock()

	return fmt.Sprintf("%d-%s", ts, SanitizeFilename(original))
}

// Layout maps media kinds to directories under the upload root and files to public URLs.
type Layout struct {
	Root      string
	URLPrefix string
}

// Dir returns the absolute-or-relative directory for kind, e.g. uploads/properties/images.
func (l Layout) Dir(kind string) string {
	return filepath.Join(l.Root, "properties", filepath.FromSlash(kind))
}

// Key returns the slash separated object key of path relative to the upload root.
func (l Layout) Key(path string) (string, error) {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		return "", fmt.Errorf("key for %q: %w", path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is outside upload root", path)
	}
	return filepath.ToSlash(rel), nil
}

// URL builds the public URL for an object key.
func (l Layout) URL(key string) string {
	return strings.TrimRight(l.URLPrefix, "/") + "/" + strings.TrimLeft(key, "/")
}

// Resolve maps a public URL produced by URL back to a path under the root.
func (l Layout) Resolve(url string) (string, bool) {
	prefix := strings.TrimRight(l.URLPrefix, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	path := filepath.Join(l.Root, filepath.FromSlash(key))
	if _, err := l.Key(path); err != nil {
		return "", false
	}
	return path, true
}

// CopyFile copies src to dst byte for byte, creating parent directories.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	return WriteFile(dst, in)
}

// WriteFile streams r into dst, creating parent directories. A partial file is removed on error.
func WriteFile(dst string, r io.Reader) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("could not create directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("could not create file: %w", err)
	}

	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return 0, fmt.Errorf("could not write %s: %w", filepath.Base(dst), err)
	}
	return n, nil
}
