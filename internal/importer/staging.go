package importer

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"estate_portal/pkg/utils/storage"
)

// StagingPrefix names the per-upload directories created under the staging dir.
const StagingPrefix = "import-"

var (
	ErrUnsafePath   = errors.New("unsafe relative path")
	ErrEmptyUpload  = errors.New("no files uploaded")
	ErrUploadTooBig = errors.New("upload exceeds size limit")
	ErrBadArchive   = errors.New("invalid zip archive")
)

// UploadedFile is one browser-uploaded file with its path relative to the selected folder.
type UploadedFile struct {
	RelativePath string
	Open         func() (io.ReadCloser, error)
}

// Stager materializes uploads on disk so they can be imported like a server path.
type Stager struct {
	dir      string
	maxBytes int64
}

func NewStager(dir string, maxBytes int64) *Stager {
	return &Stager{dir: dir, maxBytes: maxBytes}
}

// SafeRelative cleans a client supplied relative path, rejecting absolute paths and
// any path escaping its root.
func SafeRelative(rel string) (string, error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if rel == "" || strings.HasPrefix(rel, "/") || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return filepath.FromSlash(clean), nil
}

func (s *Stager) newRoot() (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(s.dir, StagingPrefix+uuid.NewString()[:8]+"-")
}

// StageFiles writes files under a fresh staging directory and returns the import root and
// the staging directory to remove afterwards.
func (s *Stager) StageFiles(files []UploadedFile) (root, staging string, err error) {
	if len(files) == 0 {
		return "", "", ErrEmptyUpload
	}
	staging, err = s.newRoot()
	if err != nil {
		return "", "", fmt.Errorf("could not create staging directory: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(staging)
		}
	}()

	var total int64
	for _, f := range files {
		rel, err := SafeRelative(f.RelativePath)
		if err != nil {
			return "", "", err
		}
		n, err := s.writeOne(filepath.Join(staging, rel), f.Open, s.remaining(total))
		if err != nil {
			return "", "", err
		}
		total += n
	}
	return importRoot(staging), staging, nil
}

// StageArchive extracts a zip archive into a fresh staging directory. An archive holding
// only files is one property and is extracted into a folder named after the archive.
func (s *Stager) StageArchive(r io.ReaderAt, size int64, name string) (root, staging string, err error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	staging, err = s.newRoot()
	if err != nil {
		return "", "", fmt.Errorf("could not create staging directory: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(staging)
		}
	}()

	type entry struct {
		file *zip.File
		rel  string
	}
	var entries []entry
	flat := true
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !zf.Mode().IsRegular() {
			continue
		}
		rel, err := SafeRelative(zf.Name)
		if err != nil {
			return "", "", err
		}
		first, _, nested := strings.Cut(filepath.ToSlash(rel), "/")
		if nested && !IsIgnored(first) {
			flat = false
		}
		entries = append(entries, entry{zf, rel})
	}

	prefix := ""
	if flat {
		prefix = archiveFolder(name)
	}

	var total, count int64
	for _, e := range entries {
		zf := e.file
		n, err := s.writeOne(filepath.Join(staging, prefix, e.rel), func() (io.ReadCloser, error) { return zf.Open() }, s.remaining(total))
		if err != nil {
			return "", "", err
		}
		total += n
		count++
	}
	if count == 0 {
		return "", "", ErrEmptyUpload
	}
	return importRoot(staging), staging, nil
}

// archiveFolder turns "Downtown - Tower A.zip" into "Downtown - Tower A".
func archiveFolder(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSpace(strings.TrimSuffix(base, path.Ext(base)))
	if base == "" || base == "." || base == ".." || base == "/" || IsIgnored(base) {
		return "archive"
	}
	return base
}

func (s *Stager) remaining(used int64) int64 {
	if s.maxBytes <= 0 {
		return -1
	}
	return s.maxBytes - used
}

// writeOne copies at most limit bytes (unlimited when negative).
func (s *Stager) writeOne(dst string, open func() (io.ReadCloser, error), limit int64) (int64, error) {
	src, err := open()
	if err != nil {
		return 0, fmt.Errorf("could not open upload: %w", err)
	}
	defer src.Close()

	var r io.Reader = src
	if limit >= 0 {
		r = io.LimitReader(src, limit+1)
	}
	n, err := storage.WriteFile(dst, r)
	if err != nil {
		return 0, err
	}
	if limit >= 0 && n > limit {
		os.Remove(dst)
		return 0, ErrUploadTooBig
	}
	return n, nil
}

// importRoot descends through a single wrapping folder, the one a browser adds when a
// whole directory is selected.
func importRoot(staging string) string {
	entries, err := os.ReadDir(staging)
	if err != nil {
		return staging
	}
	var (
		only  string
		count int
	)
	for _, e := range entries {
		if IsIgnored(e.Name()) {
			continue
		}
		count++
		if e.IsDir() {
			only = e.Name()
		}
	}
	if count != 1 || only == "" {
		return staging
	}

	// Alt klasörü olan tek klasör seçilen kök klasördür; yanındaki dosyalar path modunda
	// olduğu gibi yok sayılır. Sadece dosya içeriyorsa tek mülk klasörüdür.
	wrapped := filepath.Join(staging, only)
	inner, err := os.ReadDir(wrapped)
	if err != nil {
		return staging
	}
	for _, e := range inner {
		if e.IsDir() && !IsIgnored(e.Name()) {
			return wrapped
		}
	}
	return staging
}

// Cleanup removes a staging directory returned by StageFiles or StageArchive.
func (s *Stager) Cleanup(staging string) error {
	if staging == "" {
		return nil
	}
	return os.RemoveAll(staging)
}

// PurgeStale removes staging directories older than maxAge and returns how many were removed.
func (s *Stager) PurgeStale(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), StagingPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.dir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
