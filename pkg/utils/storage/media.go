package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Media yerel diske yazılmış dosyaları yayınlar (public URL) ve gerektiğinde siler.
type Media struct {
	Layout Layout
	Mirror Mirror
}

func NewMedia(layout Layout, mirror Mirror) *Media {
	if mirror == nil {
		mirror = NopMirror{}
	}
	return &Media{Layout: layout, Mirror: mirror}
}

// Publish returns the public URL of a file already written under the upload root,
// uploading it to the mirror first when one is configured.
func (m *Media) Publish(ctx context.Context, path, contentType string) (string, error) {
	key, err := m.Layout.Key(path)
	if err != nil {
		return "", err
	}
	if m.Mirror.Enabled() {
		return m.Mirror.Put(ctx, key, path, contentType)
	}
	return m.Layout.URL(key), nil
}

// Remove deletes the file behind a URL returned by Publish. Missing files are not an error.
func (m *Media) Remove(ctx context.Context, url string) error {
	key, ok := m.Mirror.KeyFromURL(url)
	if ok {
		if err := m.Mirror.Delete(ctx, key); err != nil {
			return err
		}
	} else {
		path, found := m.Layout.Resolve(url)
		if !found {
			return fmt.Errorf("url %q is not managed by this storage", url)
		}
		key, _ = m.Layout.Key(path)
	}

	err := os.Remove(filepath.Join(m.Layout.Root, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
