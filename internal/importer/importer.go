package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"estate_portal/internal/model"
	"estate_portal/pkg/metrics"
	imgutil "estate_portal/pkg/utils/image"
	"estate_portal/pkg/utils/location"
	"estate_portal/pkg/utils/storage"
	"estate_portal/pkg/utils/video"
)

// Placeholder values for imported listings; editors correct them in the admin panel.
const (
	DefaultPlaceholderPrice = 1000000
	placeholderAreaSqm      = 100
	placeholderBedrooms     = 2
	placeholderBathrooms    = 2
	placeholderParking      = 1

	createAttempts = 3
)

type Config struct {
	Store    Store
	Media    *storage.Media
	Images   imgutil.Processor
	Prober   video.Prober
	Catalog  *location.Catalog
	Logger   *zap.Logger
	City     string
	Fallback string // district used when a folder name does not match the convention
	Price    float64
	Currency model.Currency
	Publish  bool
}

// Importer turns property folders into Property rows with their media.
// It is safe for concurrent use.
type Importer struct {
	store    Store
	media    *storage.Media
	images   imgutil.Processor
	prober   video.Prober
	catalog  *location.Catalog
	names    *storage.NameGenerator
	log      *zap.Logger
	city     string
	fallback string
	price    float64
	currency model.Currency
	publish  bool
}

func New(cfg Config) *Importer {
	imp := &Importer{
		store:    cfg.Store,
		media:    cfg.Media,
		images:   cfg.Images,
		prober:   cfg.Prober,
		catalog:  cfg.Catalog,
		names:    storage.NewNameGenerator(),
		log:      cfg.Logger,
		city:     cfg.City,
		fallback: cfg.Fallback,
		price:    cfg.Price,
		currency: cfg.Currency,
		publish:  cfg.Publish,
	}
	if imp.images == nil {
		imp.images = imgutil.PassthroughProcessor{}
	}
	if imp.prober == nil {
		imp.prober = video.AcceptAll{}
	}
	if imp.catalog == nil {
		imp.catalog = location.NewCatalog(nil, cfg.City)
	}
	if imp.log == nil {
		imp.log = zap.NewNop()
	}
	if imp.city == "" {
		imp.city = "Dubai"
	}
	if imp.fallback == "" {
		imp.fallback = "Downtown"
	}
	if imp.price <= 0 {
		imp.price = DefaultPlaceholderPrice
	}
	if imp.currency == "" {
		imp.currency = model.CurrencyAED
	}
	return imp
}

// ImageMode reports which image strategy is active.
func (i *Importer) ImageMode() imgutil.Mode {
	return i.images.Mode()
}

// ImportPath imports every property folder under root. Top-level problems (missing root,
// not a directory, nothing to import) are returned as errors before any folder is touched.
// Folder failures are recorded in the report and never stop the run. When ctx is done the
// run stops between folders and the partial report is returned together with ctx.Err().
func (i *Importer) ImportPath(ctx context.Context, root string) (*Report, error) {
	start := time.Now()

	folders, err := DiscoverFolders(root)
	if err != nil {
		return nil, err
	}

	report := newReport(uuid.NewString(), len(folders))
	log := i.log.With(zap.String("import_id", report.ID), zap.String("root", root))
	log.Info("Import started",
		zap.Int("folders", len(folders)),
		zap.String("image_mode", string(i.images.Mode())),
		zap.Bool("video_probe", i.prober.Available()),
	)

	defer func() {
		report.finish()
		metrics.ImportDuration.Observe(time.Since(start).Seconds())
		log.Info(report.Message, zap.Duration("elapsed", time.Since(start)))
	}()

	for _, dir := range folders {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		folder := filepath.Base(dir)
		created, err := i.importFolder(ctx, dir, log.With(zap.String("folder", folder)))
		switch {
		case err != nil:
			report.fail(folder, err)
			metrics.ImportFoldersTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
			log.Error("Folder import failed", zap.String("folder", folder), zap.Error(err))
		case created == nil:
			report.skip(folder)
			metrics.ImportFoldersTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
			log.Info("Folder has no importable media, skipped", zap.String("folder", folder))
		default:
			report.succeed(*created)
			metrics.ImportFoldersTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
		}
	}
	return report, nil
}

// resolveDistrict applies the fallback district when the folder name did not match.
func (i *Importer) resolveDistrict(fn FolderName, log *zap.Logger) location.District {
	if fn.Matched {
		d, _ := i.catalog.Lookup(fn.District)
		return d
	}
	log.Warn("Folder name does not match \"District - Name\", using fallback district",
		zap.String("fallback", i.fallback))
	if d, ok := i.catalog.Lookup(i.fallback); ok {
		return d
	}
	return location.District{Name: i.fallback, NameEn: i.fallback, Local: i.fallback, City: i.city}
}

// importFolder returns (nil, nil) when the folder has nothing to import.
func (i *Importer) importFolder(ctx context.Context, dir string, log *zap.Logger) (*Created, error) {
	buckets, err := Collect(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range buckets.Ignored {
		log.Debug("Unsupported file ignored", zap.String("file", e.Name))
	}

	videos := i.acceptVideos(ctx, buckets.Videos, log)
	if len(buckets.Images) == 0 && len(videos) == 0 && len(buckets.Documents) == 0 {
		return nil, nil
	}

	fn := ParseFolderName(filepath.Base(dir), i.catalog)
	district := i.resolveDistrict(fn, log)

	property := i.draft(fn.Name, district)

	var written []string
	cleanup := func() {
		for _, url := range written {
			if err := i.media.Remove(context.WithoutCancel(ctx), url); err != nil {
				log.Warn("Could not remove written file", zap.String("url", url), zap.Error(err))
			}
		}
	}

	images, err := i.writeImages(ctx, property.Title, buckets.Images, &written)
	if err != nil {
		cleanup()
		return nil, err
	}
	gallery, err := i.writeVideos(ctx, property.Title, videos, len(images), &written)
	if err != nil {
		cleanup()
		return nil, err
	}
	gallery = append(images, gallery...)
	if len(gallery) > 0 {
		gallery[0].IsMain = true
	}

	files, err := i.writeDocuments(ctx, buckets.Documents, &written)
	if err != nil {
		cleanup()
		return nil, err
	}

	property.Images = gallery
	property.Files = files

	if err := i.persist(ctx, property, district); err != nil {
		cleanup()
		return nil, err
	}

	log.Info("Property imported",
		zap.Uint("property_id", property.ID),
		zap.String("slug", property.Slug),
		zap.String("district", district.Name),
		zap.Bool("convention_matched", fn.Matched),
		zap.Int("images", len(images)),
		zap.Int("videos", len(videos)),
		zap.Int("files", len(files)),
	)

	return &Created{
		Folder: filepath.Base(dir),
		ID:     property.ID,
		Slug:   property.Slug,
		Images: len(images),
		Videos: len(videos),
		Files:  len(files),
	}, nil
}

// persist resolves the area and a free slug, then creates the rows. A slug lost to a
// concurrent import is re-resolved a bounded number of times.
func (i *Importer) persist(ctx context.Context, p *model.Property, district location.District) error {
	area, err := i.store.ResolveArea(ctx, district)
	if err != nil {
		return fmt.Errorf("resolve area %q: %w", district.Name, err)
	}
	p.AreaID = area.ID

	base := PropertySlug(district.Name, p.Title)
	for attempt := 1; ; attempt++ {
		s, err := UniqueSlug(ctx, base, i.store.SlugExists)
		if err != nil {
			return err
		}
		p.Slug = s

		err = i.store.CreateProperty(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrSlugTaken) || attempt == createAttempts {
			return fmt.Errorf("create property: %w", err)
		}
	}
}

func (i *Importer) draft(name string, d location.District) *model.Property {
	return &model.Property{
		Title:           name,
		Description:     describe(name, d),
		Price:           i.price,
		Currency:        i.currency,
		Type:            InferType(name),
		Status:          model.PropertyStatusAvailable,
		AreaSqm:         placeholderAreaSqm,
		Bedrooms:        placeholderBedrooms,
		Bathrooms:       placeholderBathrooms,
		Parking:         placeholderParking,
		City:            d.City,
		District:        d.Name,
		Address:         d.Name + ", " + d.City,
		MetaTitle:       fmt.Sprintf("%s in %s | %s Real Estate", name, d.Name, d.City),
		MetaDescription: fmt.Sprintf("Discover %s in %s, %s. Photos, videos, floor plans and brochures.", name, d.Name, d.City),
		IsPublished:     i.publish,
	}
}

func describe(name string, d location.District) string {
	return fmt.Sprintf("%s is a residential property in %s, %s. "+
		"Contact our team for pricing, floor plans and viewing availability.", name, d.Name, d.City)
}

var typeKeywords = []struct {
	word string
	typ  model.PropertyType
}{
	{"penthouse", model.PropertyTypePenthouse},
	{"townhouse", model.PropertyTypeTownhouse},
	{"villa", model.PropertyTypeVilla},
	{"duplex", model.PropertyTypeDuplex},
	{"studio", model.PropertyTypeStudio},
	{"office", model.PropertyTypeOffice},
}

// InferType picks a property type from keywords in the name, apartment otherwise.
func InferType(name string) model.PropertyType {
	lower := strings.ToLower(name)
	for _, k := range typeKeywords {
		if strings.Contains(lower, k.word) {
			return k.typ
		}
	}
	return model.PropertyTypeApartment
}

func (i *Importer) acceptVideos(ctx context.Context, entries []FileEntry, log *zap.Logger) []FileEntry {
	var accepted []FileEntry
	for _, e := range entries {
		ok, dim, err := video.Accept(ctx, i.prober, e.Path)
		switch {
		case err != nil:
			log.Warn("Video probe failed, file skipped", zap.String("file", e.Name), zap.Error(err))
			metrics.ImportMediaTotal.WithLabelValues(KindVideo.String(), "rejected").Inc()
		case !ok:
			log.Info("Video is not 16:9, file skipped",
				zap.String("file", e.Name), zap.Int("width", dim.Width), zap.Int("height", dim.Height))
			metrics.ImportMediaTotal.WithLabelValues(KindVideo.String(), "rejected").Inc()
		default:
			accepted = append(accepted, e)
		}
	}
	return accepted
}

// publishFile records the URL for cleanup; a file that could not be published is removed.
func (i *Importer) publishFile(ctx context.Context, path, contentType string, written *[]string) (string, error) {
	url, err := i.media.Publish(ctx, path, contentType)
	if err != nil {
		os.Remove(path)
		return "", err
	}
	*written = append(*written, url)
	return url, nil
}

func (i *Importer) writeImages(ctx context.Context, title string, entries []FileEntry, written *[]string) ([]model.PropertyImage, error) {
	layout := i.media.Layout
	images := make([]model.PropertyImage, 0, len(entries))

	for idx, e := range entries {
		generated := i.names.Next(e.Name)
		name := strings.TrimSuffix(generated, filepath.Ext(generated))

		out, err := i.images.Process(e.Path, layout.Dir(storage.DirImages), layout.Dir(storage.DirThumbnails), name)
		if err != nil {
			return nil, fmt.Errorf("process image %s: %w", e.Name, err)
		}

		url, err := i.publishFile(ctx, out.Path, out.ContentType, written)
		if err != nil {
			if out.ThumbnailPath != "" {
				os.Remove(out.ThumbnailPath)
			}
			return nil, err
		}
		var thumbURL string
		if out.ThumbnailPath != "" {
			if thumbURL, err = i.publishFile(ctx, out.ThumbnailPath, out.ContentType, written); err != nil {
				return nil, err
			}
		}

		images = append(images, model.PropertyImage{
			URL:          url,
			ThumbnailURL: thumbURL,
			Alt:          fmt.Sprintf("%s - image %d", title, idx+1),
			MediaType:    model.MediaTypeImage,
			Order:        idx,
		})
		metrics.ImportMediaTotal.WithLabelValues(KindImage.String(), string(i.images.Mode())).Inc()
	}
	return images, nil
}

// writeVideos copies accepted videos; their order continues after the images.
func (i *Importer) writeVideos(ctx context.Context, title string, entries []FileEntry, offset int, written *[]string) ([]model.PropertyImage, error) {
	dir := i.media.Layout.Dir(storage.DirVideos)
	videos := make([]model.PropertyImage, 0, len(entries))

	for idx, e := range entries {
		dst := filepath.Join(dir, i.names.Next(e.Name))
		if _, err := storage.CopyFile(e.Path, dst); err != nil {
			return nil, fmt.Errorf("copy video %s: %w", e.Name, err)
		}
		url, err := i.publishFile(ctx, dst, detectMime(dst), written)
		if err != nil {
			return nil, err
		}
		videos = append(videos, model.PropertyImage{
			URL:       url,
			Alt:       fmt.Sprintf("%s - video %d", title, idx+1),
			MediaType: model.MediaTypeVideo,
			Order:     offset + idx,
		})
		metrics.ImportMediaTotal.WithLabelValues(KindVideo.String(), "copied").Inc()
	}
	return videos, nil
}

func (i *Importer) writeDocuments(ctx context.Context, entries []FileEntry, written *[]string) ([]model.PropertyFile, error) {
	dir := i.media.Layout.Dir(storage.DirFiles)
	files := make([]model.PropertyFile, 0, len(entries))

	for idx, e := range entries {
		dst := filepath.Join(dir, i.names.Next(e.Name))
		size, err := storage.CopyFile(e.Path, dst)
		if err != nil {
			return nil, fmt.Errorf("copy document %s: %w", e.Name, err)
		}
		mime := detectMime(dst)
		url, err := i.publishFile(ctx, dst, mime, written)
		if err != nil {
			return nil, err
		}
		files = append(files, model.PropertyFile{
			URL:      url,
			Label:    DocumentLabel(e.Name),
			FileName: e.Name,
			Size:     size,
			MimeType: mime,
			Order:    idx,
		})
		metrics.ImportMediaTotal.WithLabelValues(KindDocument.String(), "copied").Inc()
	}
	return files, nil
}

func detectMime(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "application/octet-stream"
	}
	return mt.String()
}
