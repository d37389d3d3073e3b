package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

var (
	ErrRootMissing = errors.New("folder path does not exist")
	ErrRootNotDir  = errors.New("folder path is not a directory")
	ErrNoFolders   = errors.New("no property folders found")
)

// FileEntry is a regular file found inside a property folder.
type FileEntry struct {
	Path string
	Name string
	Size int64
}

// DiscoverFolders returns the candidate property folders under root: every visible
// subdirectory, or root itself when it only holds files.
func DiscoverFolders(root string) ([]string, error) {
	if root == "" {
		return nil, ErrRootMissing
	}
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrRootMissing, root)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", root, err)
	}

	var (
		dirs     []string
		hasFiles bool
	)
	for _, e := range entries {
		if IsIgnored(e.Name()) {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		} else if e.Type().IsRegular() {
			hasFiles = true
		}
	}

	switch {
	case len(dirs) > 0:
		return dirs, nil
	case hasFiles:
		return []string{root}, nil
	}
	return nil, fmt.Errorf("%w in %s", ErrNoFolders, root)
}

var errStopWalk = errors.New("stop walk")

// Entries walks dir depth-first in lexical order and yields every visible regular file.
// Hidden entries and OS metadata sentinels are skipped, including whole hidden directories.
// The sequence can be ranged over again to restart from dir.
func Entries(dir string) iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == dir {
				return nil
			}
			if IsIgnored(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if !yield(FileEntry{Path: path, Name: d.Name(), Size: info.Size()}, nil) {
				return errStopWalk
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			yield(FileEntry{}, err)
		}
	}
}

// Buckets groups the files of a property folder by media kind.
type Buckets struct {
	Images    []FileEntry
	Videos    []FileEntry
	Documents []FileEntry
	Ignored   []FileEntry
}

func (b Buckets) Empty() bool {
	return len(b.Images) == 0 && len(b.Videos) == 0 && len(b.Documents) == 0
}

// Collect classifies every entry of dir.
func Collect(dir string) (Buckets, error) {
	var b Buckets
	for e, err := range Entries(dir) {
		if err != nil {
			return Buckets{}, err
		}
		switch Classify(e.Name) {
		case KindImage:
			b.Images = append(b.Images, e)
		case KindVideo:
			b.Videos = append(b.Videos, e)
		case KindDocument:
			b.Documents = append(b.Documents, e)
		default:
			b.Ignored = append(b.Ignored, e)
		}
	}
	return b, nil
}
