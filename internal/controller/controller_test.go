package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	"estate_portal/pkg/utils/storage"
)

// fakeProperties is an in-memory PropertyStore.
type fakeProperties struct {
	mu      sync.Mutex
	items   map[uint]*model.Property
	images  map[uint]*model.PropertyImage
	files   []model.PropertyFile
	nextID  uint
	updated *model.Property
	deleted []uint
}

func newFakeProperties(items ...model.Property) *fakeProperties {
	f := &fakeProperties{
		items:  map[uint]*model.Property{},
		images: map[uint]*model.PropertyImage{},
		nextID: 100,
	}
	for i := range items {
		p := items[i]
		f.items[p.ID] = &p
	}
	return f
}

func (f *fakeProperties) List(_ context.Context, flt repository.ListFilter) ([]model.Property, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Property{}
	for _, p := range f.items {
		if flt.Published != nil && p.IsPublished != *flt.Published {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeProperties) FindByID(_ context.Context, id uint) (*model.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProperties) FindPublishedBySlug(_ context.Context, slug string) (*model.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.Slug == slug && p.IsPublished {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProperties) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProperties) Update(_ context.Context, p *model.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.items[p.ID] = &cp
	f.updated = &cp
	return nil
}

func (f *fakeProperties) Delete(_ context.Context, ids ...uint) ([]model.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Property
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out = append(out, *p)
			delete(f.items, id)
			f.deleted = append(f.deleted, id)
		}
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

func (f *fakeProperties) AddImage(_ context.Context, img *model.PropertyImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	img.ID = f.nextID
	img.IsMain = len(f.images) == 0
	img.Order = len(f.images)
	cp := *img
	f.images[img.ID] = &cp
	return nil
}

func (f *fakeProperties) CountImages(_ context.Context, propertyID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, img := range f.images {
		if img.PropertyID == propertyID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProperties) AddFile(_ context.Context, file *model.PropertyFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	file.ID = f.nextID
	file.Order = len(f.files)
	f.files = append(f.files, *file)
	return nil
}

func (f *fakeProperties) DeleteImage(_ context.Context, id uint) (*model.PropertyImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.images[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.images, id)
	return img, nil
}

type fakeViews struct {
	mu    sync.Mutex
	views []uint
}

func (v *fakeViews) RecordView(_ context.Context, propertyID uint, _, _ string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.views = append(v.views, propertyID)
	return nil
}

func testMedia(t *testing.T) *storage.Media {
	t.Helper()
	return storage.NewMedia(storage.Layout{Root: t.TempDir(), URLPrefix: "/uploads"}, nil)
}

func sendJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

type formFile struct {
	field, name string
	content     []byte
}

// multipartRequest builds a multipart POST with the given files and repeated text values.
func multipartRequest(t *testing.T, path string, files []formFile, values map[string][]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}
