package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"

	"estate_portal/pkg/utils/storage"
)

type Mode string

const (
	ModeWebP        Mode = "webp"
	ModePassthrough Mode = "passthrough"
)

const (
	DefaultQuality      = 85
	DefaultThumbQuality = 70
	DefaultThumbSize    = 200
)

// Output describes the files written for one source image.
type Output struct {
	Path          string
	ThumbnailPath string // passthrough modunda boş
	ContentType   string
}

// Processor converts a source image into its stored form.
// name is the generated base name without extension ("{ts}-{sanitized}").
type Processor interface {
	Mode() Mode
	Process(srcPath, imagesDir, thumbsDir, name string) (Output, error)
}

type Options struct {
	Transcode    bool
	Quality      float32
	ThumbQuality float32
	ThumbSize    int
}

// NewProcessor picks the WebP processor when transcoding is enabled and the encoder
// passes a self test, the passthrough processor otherwise. The returned error explains
// why the degraded mode was chosen and is nil for the WebP processor.
func NewProcessor(opts Options) (Processor, error) {
	if !opts.Transcode {
		return PassthroughProcessor{}, fmt.Errorf("image transcoding disabled by configuration")
	}
	if err := SelfTest(); err != nil {
		return PassthroughProcessor{}, fmt.Errorf("webp encoder unavailable: %w", err)
	}
	return NewWebPProcessor(opts), nil
}

// SelfTest encodes a 1x1 image to verify the WebP encoder works in this build.
func SelfTest() error {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return webp.Encode(io.Discard, img, &webp.Options{Quality: DefaultQuality})
}

type WebPProcessor struct {
	quality      float32
	thumbQuality float32
	thumbSize    int
}

func NewWebPProcessor(opts Options) *WebPProcessor {
	p := &WebPProcessor{
		quality:      opts.Quality,
		thumbQuality: opts.ThumbQuality,
		thumbSize:    opts.ThumbSize,
	}
	if p.quality <= 0 {
		p.quality = DefaultQuality
	}
	if p.thumbQuality <= 0 {
		p.thumbQuality = DefaultThumbQuality
	}
	if p.thumbSize <= 0 {
		p.thumbSize = DefaultThumbSize
	}
	return p
}

func (p *WebPProcessor) Mode() Mode { return ModeWebP }

func (p *WebPProcessor) Process(srcPath, imagesDir, thumbsDir, name string) (Output, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return Output{}, fmt.Errorf("could not read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Output{}, fmt.Errorf("could not decode image %s: %w", filepath.Base(srcPath), err)
	}

	out := Output{
		Path:          filepath.Join(imagesDir, name+".webp"),
		ThumbnailPath: filepath.Join(thumbsDir, storage.ThumbnailPrefix+name+".webp"),
		ContentType:   "image/webp",
	}

	// WebP ise yeniden encode etmeden kopyala
	if format == "webp" {
		_, err = storage.WriteFile(out.Path, bytes.NewReader(data))
	} else {
		err = writeWebP(out.Path, img, p.quality)
	}
	if err != nil {
		return Output{}, err
	}

	if err := writeWebP(out.ThumbnailPath, Thumbnail(img, p.thumbSize), p.thumbQuality); err != nil {
		os.Remove(out.Path)
		return Output{}, err
	}
	return out, nil
}

// Thumbnail fits img within size x size keeping the aspect ratio. Smaller images are not upscaled.
func Thumbnail(img image.Image, size int) image.Image {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// EncodeWebP encodes img as lossy WebP.
func EncodeWebP(w io.Writer, img image.Image, quality float32) error {
	if err := webp.Encode(w, img, &webp.Options{Lossless: false, Quality: quality}); err != nil {
		return fmt.Errorf("could not encode image: %w", err)
	}
	return nil
}

func writeWebP(path string, img image.Image, quality float32) error {
	buf := new(bytes.Buffer)
	if err := EncodeWebP(buf, img, quality); err != nil {
		return err
	}
	_, err := storage.WriteFile(path, buf)
	return err
}

// PassthroughProcessor copies the original file unmodified and produces no thumbnail.
type PassthroughProcessor struct{}

func (PassthroughProcessor) Mode() Mode { return ModePassthrough }

func (PassthroughProcessor) Process(srcPath, imagesDir, _ string, name string) (Output, error) {
	ext := strings.ToLower(filepath.Ext(srcPath))
	out := Output{
		Path:        filepath.Join(imagesDir, name+ext),
		ContentType: ContentTypeForExt(ext),
	}
	if _, err := storage.CopyFile(srcPath, out.Path); err != nil {
		return Output{}, err
	}
	return out, nil
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

func ContentTypeForExt(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return "application/octet-stream"
}
