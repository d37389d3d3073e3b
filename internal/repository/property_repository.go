package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"estate_portal/internal/importer"
	"estate_portal/internal/model"
	"estate_portal/pkg/utils/location"
)

var ErrNotFound = errors.New("record not found")

// PropertyRepository is the gorm backed property store. It implements importer.Store.
type PropertyRepository struct {
	db *gorm.DB
}

var _ importer.Store = (*PropertyRepository)(nil)

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Galeri sırası her zaman order alanına göre
func orderedImages(db *gorm.DB) *gorm.DB {
	return db.Order("property_images.order ASC")
}

func orderedFiles(db *gorm.DB) *gorm.DB {
	return db.Order("property_files.order ASC")
}

// SlugExists counts soft deleted rows as well; the unique index covers them.
func (r *PropertyRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Property{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// ResolveArea matches the district against area names case-insensitively, falling back
// to creating the area on first reference.
func (r *PropertyRepository) ResolveArea(ctx context.Context, d location.District) (*model.Area, error) {
	db := r.db.WithContext(ctx)
	slug := importer.Slugify(d.Name)
	nameEn := d.NameEn
	if nameEn == "" {
		nameEn = d.Name
	}

	var area model.Area
	err := db.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(name_en) LIKE ? ESCAPE '\' OR slug = ?`,
		containsPattern(d.Name), containsPattern(nameEn), slug).
		Order("id ASC").
		First(&area).Error
	if err == nil {
		return &area, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Aynı anda iki import aynı bölgeyi oluşturabilir; slug üzerinden FirstOrCreate
	err = db.Where(model.Area{Slug: slug}).
		Attrs(model.Area{Name: d.Local, NameEn: nameEn, City: d.City}).
		FirstOrCreate(&area).Error
	if err != nil {
		return nil, fmt.Errorf("create area: %w", err)
	}
	return &area, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds a lower-case LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// CreateProperty inserts the property, then its gallery rows, then its files, in one
// transaction. A slug collision is reported as importer.ErrSlugTaken.
func (r *PropertyRepository) CreateProperty(ctx context.Context, p *model.Property) error {
	images, files := p.Images, p.Files

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].PropertyID = p.ID
		}
		for i := range files {
			files[i].PropertyID = p.ID
		}
		if len(images) > 0 {
			if err := tx.Omit("Property").Create(&images).Error; err != nil {
				return fmt.Errorf("insert images: %w", err)
			}
		}
		if len(files) > 0 {
			if err := tx.Omit("Property").Create(&files).Error; err != nil {
				return fmt.Errorf("insert files: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		p.ID = 0
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return importer.ErrSlugTaken
		}
		return err
	}
	p.Images, p.Files = images, files
	return nil
}

// ListFilter narrows property listings. Zero values mean "any".
type ListFilter struct {
	Page      int
	Limit     int
	Search    string
	District  string
	Type      model.PropertyType
	Status    model.PropertyStatus
	Published *bool
}

func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}

func (r *PropertyRepository) List(ctx context.Context, f ListFilter) ([]model.Property, int64, error) {
	f = f.normalize()
	q := r.db.WithContext(ctx).Model(&model.Property{})

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(district) LIKE ? OR slug LIKE ?", like, like, like)
	}
	if f.District != "" {
		q = q.Where("district = ?", f.District)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Published != nil {
		q = q.Where("is_published = ?", *f.Published)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []model.Property
	err := q.Preload("Images", orderedImages).
		Preload("Area").
		Order("created_at desc").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&properties).Error
	return properties, total, err
}

func (r *PropertyRepository) FindByID(ctx context.Context, id uint) (*model.Property, error) {
	var p model.Property
	err := r.db.WithContext(ctx).
		Preload("Images", orderedImages).
		Preload("Files", orderedFiles).
		Preload("Area").
		Preload("Developer").
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *PropertyRepository) FindPublishedBySlug(ctx context.Context, slug string) (*model.Property, error) {
	var p model.Property
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		Preload("Images", orderedImages).
		Preload("Files", orderedFiles).
		Preload("Area").
		Preload("Developer").
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Update saves the scalar columns of p; gallery and files are managed separately.
func (r *PropertyRepository) Update(ctx context.Context, p *model.Property) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return importer.ErrSlugTaken
	}
	return err
}

// Delete removes properties with their gallery and files and returns the removed rows so
// the caller can delete the media they reference.
func (r *PropertyRepository) Delete(ctx context.Context, ids ...uint) ([]model.Property, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var properties []model.Property
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Images").Preload("Files").Find(&properties, ids).Error; err != nil {
			return err
		}
		if len(properties) == 0 {
			return ErrNotFound
		}
		found := make([]uint, 0, len(properties))
		for _, p := range properties {
			found = append(found, p.ID)
		}
		if err := tx.Unscoped().Where("property_id IN ?", found).Delete(&model.PropertyImage{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("property_id IN ?", found).Delete(&model.PropertyFile{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("property_id IN ?", found).Delete(&model.PropertyView{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Property{}, found).Error
	})
	if err != nil {
		return nil, err
	}
	return properties, nil
}

// AddImage appends a gallery entry at the end; the first entry becomes the main one.
func (r *PropertyRepository) AddImage(ctx context.Context, img *model.PropertyImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.PropertyImage{}).Where("property_id = ?", img.PropertyID).Count(&count).Error; err != nil {
			return err
		}
		img.Order = int(count)
		img.IsMain = count == 0
		return tx.Omit("Property").Create(img).Error
	})
}

func (r *PropertyRepository) CountImages(ctx context.Context, propertyID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Count(&count).Error
	return count, err
}

func (r *PropertyRepository) AddFile(ctx context.Context, f *model.PropertyFile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.PropertyFile{}).Where("property_id = ?", f.PropertyID).Count(&count).Error; err != nil {
			return err
		}
		f.Order = int(count)
		return tx.Omit("Property").Create(f).Error
	})
}

// DeleteImage removes a gallery entry. When it was the main entry the next one in order
// is promoted.
func (r *PropertyRepository) DeleteImage(ctx context.Context, id uint) (*model.PropertyImage, error) {
	var img model.PropertyImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&img, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Unscoped().Delete(&img).Error; err != nil {
			return err
		}
		if !img.IsMain {
			return nil
		}
		var next model.PropertyImage
		err := tx.Where("property_id = ?", img.PropertyID).Order("\"order\" ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_main", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}
