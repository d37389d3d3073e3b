package importer

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_portal/internal/model"
	imgutil "estate_portal/pkg/utils/image"
	"estate_portal/pkg/utils/location"
	"estate_portal/pkg/utils/storage"
	"estate_portal/pkg/utils/video"
)

type memStore struct {
	mu         sync.Mutex
	properties []*model.Property
	areas      []*model.Area
	nextID     uint

	failTitle  string
	raceOnSlug int
}

func (m *memStore) SlugExists(_ context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.properties {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ResolveArea(_ context.Context, d location.District) (*model.Area, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.areas {
		if strings.EqualFold(a.Name, d.Name) {
			return a, nil
		}
	}
	m.nextID++
	a := &model.Area{Name: d.Name, NameEn: d.NameEn, City: d.City, Slug: Slugify(d.Name)}
	a.ID = m.nextID
	m.areas = append(m.areas, a)
	return a, nil
}

func (m *memStore) CreateProperty(_ context.Context, p *model.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Title == m.failTitle {
		return errors.New("insert failed")
	}
	if m.raceOnSlug > 0 {
		m.raceOnSlug--
		return ErrSlugTaken
	}
	m.nextID++
	p.ID = m.nextID
	m.properties = append(m.properties, p)
	return nil
}

func (m *memStore) bySlug(slug string) *model.Property {
	for _, p := range m.properties {
		if p.Slug == slug {
			return p
		}
	}
	return nil
}

// stubProber reports dimensions by file name.
type stubProber map[string]video.Dimensions

func (s stubProber) Available() bool { return true }

func (s stubProber) Probe(_ context.Context, path string) (video.Dimensions, error) {
	d, ok := s[filepath.Base(path)]
	if !ok {
		return video.Dimensions{}, video.ErrNoVideoStream
	}
	return d, nil
}

func newTestImporter(t *testing.T, store Store, prober video.Prober) (*Importer, string) {
	t.Helper()
	uploads := t.TempDir()
	imp := New(Config{
		Store:   store,
		Media:   storage.NewMedia(storage.Layout{Root: uploads, URLPrefix: "/uploads"}, nil),
		Images:  imgutil.PassthroughProcessor{},
		Prober:  prober,
		Catalog: testCatalog,
		City:    "Dubai",
	})
	return imp, uploads
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return err
	})
	require.NoError(t, err)
	return n
}

func TestImportSingleFolder(t *testing.T) {
	store := &memStore{}
	imp, uploads := newTestImporter(t, store, nil)

	root := filepath.Join(t.TempDir(), "Downtown - Beach Maison")
	touch(t, root, "photo1.jpg", "jpeg bytes")
	touch(t, root, "photo2.png", "png bytes")
	touch(t, root, "brochure.pdf", "%PDF-1.4\n%test\n")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.Successful)
	assert.Zero(t, report.Failed)
	assert.Equal(t, []string{"Downtown - Beach Maison"}, report.Results.Success)
	assert.Empty(t, report.Results.Errors)
	assert.Contains(t, report.Message, "1 successful")

	p := store.bySlug("downtown-beach-maison")
	require.NotNil(t, p)
	assert.Equal(t, "Beach Maison", p.Title)
	assert.Equal(t, "Downtown", p.District)
	assert.Equal(t, "Dubai", p.City)
	assert.Equal(t, model.PropertyTypeApartment, p.Type)
	assert.Equal(t, model.PropertyStatusAvailable, p.Status)
	assert.Equal(t, model.CurrencyAED, p.Currency)
	assert.EqualValues(t, DefaultPlaceholderPrice, p.Price)
	assert.False(t, p.IsPublished)
	assert.NotZero(t, p.AreaID)

	require.Len(t, p.Images, 2)
	assert.True(t, p.Images[0].IsMain)
	assert.False(t, p.Images[1].IsMain)
	assert.Equal(t, 0, p.Images[0].Order)
	assert.Equal(t, 1, p.Images[1].Order)
	for _, img := range p.Images {
		assert.Equal(t, model.MediaTypeImage, img.MediaType)
		assert.True(t, strings.HasPrefix(img.URL, "/uploads/properties/images/"), img.URL)
		path, ok := imp.media.Layout.Resolve(img.URL)
		require.True(t, ok)
		assert.FileExists(t, path)
	}

	require.Len(t, p.Files, 1)
	assert.Equal(t, "brochure", p.Files[0].Label)
	assert.Equal(t, "brochure.pdf", p.Files[0].FileName)
	assert.Equal(t, "application/pdf", p.Files[0].MimeType)
	assert.True(t, strings.HasPrefix(p.Files[0].URL, "/uploads/properties/files/"))

	require.Len(t, report.Properties, 1)
	assert.Equal(t, Created{Folder: "Downtown - Beach Maison", ID: p.ID, Slug: p.Slug, Images: 2, Files: 1}, report.Properties[0])

	assert.Equal(t, 3, countFiles(t, uploads))
}

func TestImportSkipsFolderWithoutMedia(t *testing.T) {
	store := &memStore{}
	imp, _ := newTestImporter(t, store, nil)

	root := t.TempDir()
	touch(t, root, "Downtown - Tower A/a.jpg", "x")
	touch(t, root, "Empty/.DS_Store", "x")
	touch(t, root, "Marina Shores - Models/model.xyz", "x")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Successful)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 2, report.Skipped)
	assert.ElementsMatch(t, []string{"Empty", "Marina Shores - Models"}, report.Results.Skipped)
	assert.Len(t, store.properties, 1)
}

func TestImportRerunGetsSuffixedSlug(t *testing.T) {
	store := &memStore{}
	imp, _ := newTestImporter(t, store, nil)

	root := t.TempDir()
	touch(t, root, "Downtown - Tower A/a.jpg", "x")

	for range 3 {
		_, err := imp.ImportPath(context.Background(), root)
		require.NoError(t, err)
	}
	require.Len(t, store.properties, 3)
	assert.Equal(t, "downtown-tower-a", store.properties[0].Slug)
	assert.Equal(t, "downtown-tower-a-1", store.properties[1].Slug)
	assert.Equal(t, "downtown-tower-a-2", store.properties[2].Slug)

	// one area per district
	assert.Len(t, store.areas, 1)
}

func TestImportFallbackDistrict(t *testing.T) {
	store := &memStore{}
	imp, _ := newTestImporter(t, store, nil)

	root := t.TempDir()
	touch(t, root, "Sunset Residences/a.jpg", "x")
	touch(t, root, "Jumeirah - Palm Villa/a.jpg", "x")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Successful)

	p := store.bySlug("downtown-sunset-residences")
	require.NotNil(t, p)
	assert.Equal(t, "Sunset Residences", p.Title)
	assert.Equal(t, "Downtown", p.District)

	v := store.bySlug("downtown-jumeirah-palm-villa")
	require.NotNil(t, v)
	assert.Equal(t, "Jumeirah - Palm Villa", v.Title)
	assert.Equal(t, model.PropertyTypeVilla, v.Type)
}

func TestImportFiltersVideosByAspectRatio(t *testing.T) {
	store := &memStore{}
	prober := stubProber{
		"wide.mp4": {Width: 1920, Height: 1080},
		"tv.mov":   {Width: 1440, Height: 1080},
	}
	imp, _ := newTestImporter(t, store, prober)

	root := filepath.Join(t.TempDir(), "Dubai Hills - Golf Place")
	touch(t, root, "a.jpg", "x")
	touch(t, root, "tv.mov", "x")
	touch(t, root, "wide.mp4", "x")
	touch(t, root, "broken.mkv", "x")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Properties[0].Videos)

	p := store.bySlug("dubai-hills-golf-place")
	require.NotNil(t, p)
	require.Len(t, p.Images, 2)
	assert.Equal(t, model.MediaTypeImage, p.Images[0].MediaType)
	assert.True(t, p.Images[0].IsMain)
	assert.Equal(t, model.MediaTypeVideo, p.Images[1].MediaType)
	assert.Equal(t, 1, p.Images[1].Order)
	assert.False(t, p.Images[1].IsMain)
	assert.True(t, strings.HasPrefix(p.Images[1].URL, "/uploads/properties/videos/"))
	assert.True(t, strings.HasSuffix(p.Images[1].URL, "-wide.mp4"))
}

func TestImportOnlyRejectedVideosSkipsFolder(t *testing.T) {
	store := &memStore{}
	imp, _ := newTestImporter(t, store, stubProber{"tv.mov": {Width: 4, Height: 3}})

	root := filepath.Join(t.TempDir(), "Downtown - Tower B")
	touch(t, root, "tv.mov", "x")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, store.properties)
}

func TestImportFolderFailureIsIsolated(t *testing.T) {
	store := &memStore{failTitle: "Broken"}
	imp, uploads := newTestImporter(t, store, nil)

	root := t.TempDir()
	touch(t, root, "Downtown - Broken/a.jpg", "x")
	touch(t, root, "Downtown - Broken/b.pdf", "x")
	touch(t, root, "Downtown - Works/a.jpg", "x")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Results.Errors, 1)
	assert.True(t, strings.HasPrefix(report.Results.Errors[0], "Downtown - Broken: "), report.Results.Errors[0])

	// files written for the failed folder are removed again
	assert.Equal(t, 1, countFiles(t, uploads))
}

type downMirror struct{}

func (downMirror) Put(context.Context, string, string, string) (string, error) {
	return "", errors.New("mirror unavailable")
}
func (downMirror) Delete(context.Context, string) error { return nil }
func (downMirror) KeyFromURL(string) (string, bool)     { return "", false }
func (downMirror) Enabled() bool                        { return true }

func TestImportRemovesFilesWhenPublishFails(t *testing.T) {
	uploads := t.TempDir()
	imp := New(Config{
		Store:   &memStore{},
		Media:   storage.NewMedia(storage.Layout{Root: uploads, URLPrefix: "/uploads"}, downMirror{}),
		Images:  imgutil.PassthroughProcessor{},
		Catalog: testCatalog,
	})

	root := t.TempDir()
	touch(t, root, "Downtown - Tower A/a.jpg", "x")
	touch(t, root, "Downtown - Tower B/plan.pdf", "%PDF-1.4")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Failed)
	assert.Zero(t, countFiles(t, uploads))
}

func TestImportRetriesLostSlugRace(t *testing.T) {
	store := &memStore{raceOnSlug: 2}
	imp, _ := newTestImporter(t, store, nil)

	root := filepath.Join(t.TempDir(), "Beachfront - Seapoint")
	touch(t, root, "a.jpg", "x")

	report, err := imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Successful)

	store.raceOnSlug = createAttempts
	report, err = imp.ImportPath(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, report.Results.Errors[0], ErrSlugTaken.Error())
}

func TestImportTopLevelErrors(t *testing.T) {
	imp, _ := newTestImporter(t, &memStore{}, nil)

	_, err := imp.ImportPath(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrRootMissing)

	file := touch(t, t.TempDir(), "a.jpg", "x")
	_, err = imp.ImportPath(context.Background(), file)
	assert.ErrorIs(t, err, ErrRootNotDir)

	_, err = imp.ImportPath(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoFolders)
}

func TestImportCancelled(t *testing.T) {
	store := &memStore{}
	imp, _ := newTestImporter(t, store, nil)

	root := t.TempDir()
	touch(t, root, "Downtown - Tower A/a.jpg", "x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := imp.ImportPath(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Total)
	assert.Zero(t, report.Successful)
	assert.Empty(t, store.properties)
}

func TestPlan(t *testing.T) {
	imp, uploads := newTestImporter(t, &memStore{}, nil)

	root := t.TempDir()
	touch(t, root, "Downtown - Tower A/a.jpg", "x")
	touch(t, root, "Downtown - Tower A/b.pdf", "x")
	touch(t, root, "Loose Name/c.xyz", "x")

	plans, err := imp.Plan(root)
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, FolderPlan{
		Folder: "Downtown - Tower A", District: "Downtown", Name: "Tower A", Matched: true,
		Slug: "downtown-tower-a", Images: 1, Documents: 1,
	}, plans[0])
	assert.Equal(t, "Downtown", plans[1].District)
	assert.False(t, plans[1].Matched)
	assert.True(t, plans[1].Skip)
	assert.Equal(t, 1, plans[1].Ignored)

	assert.Zero(t, countFiles(t, uploads))
}
