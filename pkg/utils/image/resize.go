package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const MaxResizeDimension = 2400

var ErrInvalidSize = errors.New("invalid resize dimensions")

// Resizer serves resized WebP variants of stored images from a bounded TTL cache.
type Resizer struct {
	cache   *expirable.LRU[string, []byte]
	quality float32
	onHit   func(hit bool)
}

func NewResizer(size int, ttl time.Duration, quality float32) *Resizer {
	if size <= 0 {
		size = 128
	}
	if quality <= 0 {
		quality = DefaultQuality
	}
	return &Resizer{
		cache:   expirable.NewLRU[string, []byte](size, nil, ttl),
		quality: quality,
	}
}

// OnLookup registers a callback invoked with the cache result of every Resize call.
func (r *Resizer) OnLookup(fn func(hit bool)) {
	r.onHit = fn
}

// Resize returns path fitted within w x h as WebP. A zero dimension keeps the aspect ratio.
func (r *Resizer) Resize(path string, w, h int) ([]byte, error) {
	if w < 0 || h < 0 || (w == 0 && h == 0) || w > MaxResizeDimension || h > MaxResizeDimension {
		return nil, ErrInvalidSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	// mtime anahtarın parçası; dosya değişirse eski kayıt kullanılmaz
	key := fmt.Sprintf("%s|%d|%d|%d|%v", path, info.ModTime().UnixNano(), w, h, r.quality)

	if data, ok := r.cache.Get(key); ok {
		r.lookup(true)
		return data, nil
	}
	r.lookup(false)

	src, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open image: %w", err)
	}

	var dst image.Image
	if w == 0 || h == 0 {
		dst = imaging.Resize(src, w, h, imaging.Lanczos)
	} else {
		dst = imaging.Fit(src, w, h, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := EncodeWebP(buf, dst, r.quality); err != nil {
		return nil, err
	}
	data := buf.Bytes()
	r.cache.Add(key, data)
	return data, nil
}

func (r *Resizer) Len() int {
	return r.cache.Len()
}

func (r *Resizer) lookup(hit bool) {
	if r.onHit != nil {
		r.onHit(hit)
	}
}
