package validation

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileSize     = errors.New("file size exceeds limit")
	ErrFileType     = errors.New("invalid file type")
	ErrFileContent  = errors.New("file content does not match its extension")
	ErrFileRequired = errors.New("no file provided")
)

const (
	MaxImageSize    = 20 * 1024 * 1024 // 20MB
	MaxDocumentSize = 50 * 1024 * 1024 // 50MB
)

var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
}

var AllowedDocumentTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".txt":  true,
}

func ValidateImage(file *multipart.FileHeader) error {
	if err := validateHeader(file, MaxImageSize, AllowedImageTypes); err != nil {
		return err
	}

	// İçerik kontrolü: uzantı değil gerçek byte imzası
	mt, err := detect(file)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(mt.String(), "image/") {
		return fmt.Errorf("%w: detected %s", ErrFileContent, mt.String())
	}
	return nil
}

// ValidateDocument checks size and extension and returns the detected MIME type.
func ValidateDocument(file *multipart.FileHeader) (string, error) {
	if err := validateHeader(file, MaxDocumentSize, AllowedDocumentTypes); err != nil {
		return "", err
	}
	mt, err := detect(file)
	if err != nil {
		return "", err
	}
	return mt.String(), nil
}

func validateHeader(file *multipart.FileHeader, maxSize int64, allowed map[string]bool) error {
	if file == nil {
		return ErrFileRequired
	}
	if file.Size > maxSize {
		return fmt.Errorf("%w of %dMB", ErrFileSize, maxSize/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return fmt.Errorf("%w: %s", ErrFileType, ext)
	}
	return nil
}

func detect(file *multipart.FileHeader) (*mimetype.MIME, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return mimetype.DetectReader(f)
}
