package controller

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	imgutil "estate_portal/pkg/utils/image"
	"estate_portal/pkg/utils/location"
	"estate_portal/pkg/utils/storage"
)

type fakeCatalog struct {
	developers []model.Developer
}

func (f *fakeCatalog) Areas(context.Context) ([]repository.AreaWithCount, error) {
	a := repository.AreaWithCount{Area: model.Area{Name: "Downtown", City: "Dubai", Slug: "downtown"}, PropertyCount: 3}
	return []repository.AreaWithCount{a}, nil
}

func (f *fakeCatalog) Developers(context.Context) ([]model.Developer, error) {
	return f.developers, nil
}

func (f *fakeCatalog) CreateDeveloper(_ context.Context, d *model.Developer) error {
	for _, existing := range f.developers {
		if existing.Slug == d.Slug {
			return repository.ErrDuplicate
		}
	}
	f.developers = append(f.developers, *d)
	return nil
}

func (f *fakeCatalog) DeveloperExists(_ context.Context, id uint) (bool, error) {
	for _, d := range f.developers {
		if d.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func TestLookups(t *testing.T) {
	store := &fakeCatalog{}
	InitLocationController(store, location.NewCatalog([]string{"Downtown", "The Oasis"}, "Dubai"))

	app := fiber.New()
	app.Get("/locations/districts", GetDistricts)
	app.Get("/areas", ListAreas)
	app.Post("/developers", CreateDeveloper)

	resp, body := sendJSON(t, app, fiber.MethodGet, "/locations/districts", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["districts"], 2)

	resp, _ = sendJSON(t, app, fiber.MethodGet, "/areas", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = sendJSON(t, app, fiber.MethodPost, "/developers", map[string]string{"name": "Emaar Properties", "website": "https://emaar.com"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "emaar-properties", body["slug"])

	resp, _ = sendJSON(t, app, fiber.MethodPost, "/developers", map[string]string{"name": "Emaar  Properties"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = sendJSON(t, app, fiber.MethodPost, "/developers", map[string]string{"name": "Nakheel", "website": "not a url"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, store.developers, 1)
}

type fakeStats struct {
	days int
	err  error
}

func (f *fakeStats) Dashboard(_ context.Context, days int) (*repository.DashboardStats, error) {
	f.days = days
	if f.err != nil {
		return nil, f.err
	}
	return &repository.DashboardStats{TotalListings: 4, PublishedListings: 2}, nil
}

func TestGetDashboardStats(t *testing.T) {
	stats := &fakeStats{}
	InitStatsController(stats)
	app := fiber.New()
	app.Get("/dashboard/stats", GetDashboardStats)

	resp, body := sendJSON(t, app, fiber.MethodGet, "/dashboard/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, stats.days)
	assert.EqualValues(t, 4, body["total_listings"])

	resp, _ = sendJSON(t, app, fiber.MethodGet, "/dashboard/stats?days=30", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 30, stats.days)

	resp, _ = sendJSON(t, app, fiber.MethodGet, "/dashboard/stats?days=365", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	stats.err = errors.New("db down")
	resp, _ = sendJSON(t, app, fiber.MethodGet, "/dashboard/stats", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestResizeImage(t *testing.T) {
	m := testMedia(t)
	InitPropertyController(newFakeProperties(), m, nil)
	InitImageController(imgutil.NewResizer(8, time.Minute, 80))

	dir := m.Layout.Dir(storage.DirImages)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	f, err := os.Create(filepath.Join(dir, "photo.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 32))))
	require.NoError(t, f.Close())

	app := fiber.New()
	app.Get("/images/resize", ResizeImage)

	resp, _ := sendJSON(t, app, fiber.MethodGet, "/images/resize?src=/uploads/properties/images/photo.png&w=16", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/webp", resp.Header.Get(fiber.HeaderContentType))

	resp, _ = sendJSON(t, app, fiber.MethodGet, "/images/resize?src=/uploads/properties/images/photo.png", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = sendJSON(t, app, fiber.MethodGet, "/images/resize?src=/uploads/properties/images/none.png&w=16", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = sendJSON(t, app, fiber.MethodGet, "/images/resize?src=/etc/passwd&w=16", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
