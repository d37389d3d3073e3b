package importer

import (
	"path/filepath"
	"strings"
)

// MediaKind is the bucket a file falls into, decided by extension only.
type MediaKind int

const (
	KindUnknown MediaKind = iota
	KindImage
	KindVideo
	KindDocument
)

func (k MediaKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindDocument:
		return "document"
	}
	return "unknown"
}

var extensionKinds = map[string]MediaKind{
	".jpg":  KindImage,
	".jpeg": KindImage,
	".png":  KindImage,
	".webp": KindImage,
	".gif":  KindImage,
	".bmp":  KindImage,

	".mp4":  KindVideo,
	".mov":  KindVideo,
	".avi":  KindVideo,
	".webm": KindVideo,
	".mkv":  KindVideo,

	".pdf":  KindDocument,
	".doc":  KindDocument,
	".docx": KindDocument,
	".xls":  KindDocument,
	".xlsx": KindDocument,
	".txt":  KindDocument,
}

// OS metadata files and folders that are never imported.
var sentinelNames = map[string]bool{
	"thumbs.db":   true,
	"desktop.ini": true,
	"__macosx":    true,
	"icon\r":      true,
}

// Classify returns the media bucket for a file name (case-insensitive extension).
func Classify(name string) MediaKind {
	return extensionKinds[strings.ToLower(filepath.Ext(name))]
}

// IsIgnored reports whether a file or directory name is hidden or an OS metadata sentinel.
func IsIgnored(name string) bool {
	return strings.HasPrefix(name, ".") || sentinelNames[strings.ToLower(name)]
}
