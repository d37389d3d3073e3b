package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"estate_portal/internal/model"
	"estate_portal/pkg/utils/location"
)

var ErrDuplicate = errors.New("record already exists")

// CatalogRepository serves areas and developers.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// AreaWithCount is an area together with the number of properties in it.
type AreaWithCount struct {
	model.Area
	PropertyCount int64 `json:"property_count"`
}

func (r *CatalogRepository) Areas(ctx context.Context) ([]AreaWithCount, error) {
	var areas []AreaWithCount
	err := r.db.WithContext(ctx).Model(&model.Area{}).
		Select("areas.*, COUNT(properties.id) AS property_count").
		Joins("LEFT JOIN properties ON properties.area_id = areas.id AND properties.deleted_at IS NULL").
		Group("areas.id").
		Order("areas.name ASC").
		Scan(&areas).Error
	return areas, err
}

// SeedAreas makes sure every catalog district has an area row.
func (r *CatalogRepository) SeedAreas(ctx context.Context, districts []location.District, slugify func(string) string) (int, error) {
	created := 0
	for _, d := range districts {
		area := model.Area{}
		res := r.db.WithContext(ctx).
			Where(model.Area{Slug: slugify(d.Name)}).
			Attrs(model.Area{Name: d.Local, NameEn: d.NameEn, City: d.City}).
			FirstOrCreate(&area)
		if res.Error != nil {
			return created, res.Error
		}
		if res.RowsAffected > 0 {
			created++
		}
	}
	return created, nil
}

func (r *CatalogRepository) Developers(ctx context.Context) ([]model.Developer, error) {
	var developers []model.Developer
	err := r.db.WithContext(ctx).Order("name ASC").Find(&developers).Error
	return developers, err
}

func (r *CatalogRepository) CreateDeveloper(ctx context.Context, d *model.Developer) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *CatalogRepository) DeveloperExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Developer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
