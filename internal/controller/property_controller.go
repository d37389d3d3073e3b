package controller

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"estate_portal/internal/importer"
	"estate_portal/internal/middleware"
	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	"estate_portal/pkg/logger"
	"estate_portal/pkg/utils/storage"
	"estate_portal/pkg/utils/validation"
)

// PropertyStore is the property persistence used by the property and upload handlers.
type PropertyStore interface {
	List(ctx context.Context, f repository.ListFilter) ([]model.Property, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Property, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*model.Property, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, p *model.Property) error
	Delete(ctx context.Context, ids ...uint) ([]model.Property, error)
	AddImage(ctx context.Context, img *model.PropertyImage) error
	CountImages(ctx context.Context, propertyID uint) (int64, error)
	AddFile(ctx context.Context, f *model.PropertyFile) error
	DeleteImage(ctx context.Context, id uint) (*model.PropertyImage, error)
}

// ViewRecorder counts public detail page views.
type ViewRecorder interface {
	RecordView(ctx context.Context, propertyID uint, ip, userAgent string) error
}

var (
	properties PropertyStore
	media      *storage.Media
	views      ViewRecorder
)

func InitPropertyController(store PropertyStore, m *storage.Media, recorder ViewRecorder) {
	properties = store
	media = m
	views = recorder
}

// FindProperty adapts the configured store for middleware.LoadProperty.
func FindProperty(ctx context.Context, id uint) (*model.Property, error) {
	return properties.FindByID(ctx, id)
}

type PropertyInput struct {
	Title           *string               `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string               `json:"description"`
	Price           *float64              `json:"price" validate:"omitempty,gte=0"`
	Currency        *model.Currency       `json:"currency" validate:"omitempty,oneof=AED USD EUR GBP RUB"`
	Type            *model.PropertyType   `json:"type" validate:"omitempty,oneof=apartment villa townhouse penthouse studio office duplex land"`
	Status          *model.PropertyStatus `json:"status" validate:"omitempty,oneof=available sold rented reserved unavailable"`
	AreaSqm         *float64              `json:"area_sqm" validate:"omitempty,gte=0"`
	Bedrooms        *int                  `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms       *int                  `json:"bathrooms" validate:"omitempty,gte=0"`
	Parking         *int                  `json:"parking" validate:"omitempty,gte=0"`
	Address         *string               `json:"address"`
	DeveloperID     *uint                 `json:"developer_id"`
	Features        []string              `json:"features"`
	Amenities       []string              `json:"amenities"`
	Slug            *string               `json:"slug" validate:"omitempty,max=255"`
	MetaTitle       *string               `json:"meta_title" validate:"omitempty,max=255"`
	MetaDescription *string               `json:"meta_description"`
	IsPublished     *bool                 `json:"is_published"`
	IsFeatured      *bool                 `json:"is_featured"`
}

// apply copies the fields present in the request onto p.
func (in *PropertyInput) apply(p *model.Property) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.AreaSqm != nil {
		p.AreaSqm = *in.AreaSqm
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.Parking != nil {
		p.Parking = *in.Parking
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.DeveloperID != nil {
		if *in.DeveloperID == 0 {
			p.DeveloperID = nil
		} else {
			p.DeveloperID = in.DeveloperID
		}
	}
	if in.Features != nil {
		p.Features = in.Features
	}
	if in.Amenities != nil {
		p.Amenities = in.Amenities
	}
	if in.MetaTitle != nil {
		p.MetaTitle = *in.MetaTitle
	}
	if in.MetaDescription != nil {
		p.MetaDescription = *in.MetaDescription
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
}

func listFilter(c *fiber.Ctx) repository.ListFilter {
	return repository.ListFilter{
		Page:     c.QueryInt("page", 1),
		Limit:    c.QueryInt("limit", 20),
		Search:   c.Query("search"),
		District: c.Query("district"),
		Type:     model.PropertyType(c.Query("type")),
		Status:   model.PropertyStatus(c.Query("status")),
	}
}

func respondList(c *fiber.Ctx, f repository.ListFilter) error {
	items, total, err := properties.List(c.UserContext(), f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch properties",
		})
	}
	return c.JSON(fiber.Map{
		"properties": items,
		"total":      total,
		"page":       f.Page,
		"limit":      f.Limit,
	})
}

// ListProperties admin paneli için tüm ilanları listeler
func ListProperties(c *fiber.Ctx) error {
	f := listFilter(c)
	if v := c.Query("published"); v != "" {
		published, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "published must be true or false",
			})
		}
		f.Published = &published
	}
	return respondList(c, f)
}

// ListPublicProperties sadece yayındaki ilanları listeler
func ListPublicProperties(c *fiber.Ctx) error {
	f := listFilter(c)
	published := true
	f.Published = &published
	return respondList(c, f)
}

func GetProperty(c *fiber.Ctx) error {
	return c.JSON(middleware.Property(c))
}

// GetPublicProperty ilan detayını slug ile getirir ve görüntülenmeyi kaydeder
func GetPublicProperty(c *fiber.Ctx) error {
	property, err := properties.FindPublishedBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch property",
		})
	}

	if views != nil {
		if err := views.RecordView(c.UserContext(), property.ID, c.IP(), c.Get(fiber.HeaderUserAgent)); err != nil {
			logger.FromFiber(c).Warn("Could not record property view", zap.Uint("property_id", property.ID), zap.Error(err))
		}
	}

	return c.JSON(property)
}

// UpdateProperty emlak ilanını kısmi olarak günceller
func UpdateProperty(c *fiber.Ctx) error {
	property := middleware.Property(c)
	input := new(PropertyInput)

	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if errs := validation.Struct(input); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Invalid input",
			"fields": errs,
		})
	}

	if input.DeveloperID != nil && *input.DeveloperID != 0 && catalog != nil {
		ok, err := catalog.DeveloperExists(c.UserContext(), *input.DeveloperID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not check developer",
			})
		}
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown developer",
			})
		}
	}

	input.apply(property)

	if input.Slug != nil {
		slug := importer.Slugify(*input.Slug)
		if slug == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Slug must contain letters or digits",
			})
		}
		if slug != property.Slug {
			taken, err := properties.SlugExists(c.UserContext(), slug)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Could not check slug",
				})
			}
			if taken {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Slug is already in use",
				})
			}
			property.Slug = slug
		}
	}

	if err := properties.Update(c.UserContext(), property); err != nil {
		if errors.Is(err, importer.ErrSlugTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Slug is already in use",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update property",
		})
	}

	return c.JSON(property)
}

// DeleteProperty emlak ilanını ve dosyalarını siler
func DeleteProperty(c *fiber.Ctx) error {
	property := middleware.Property(c)

	deleted, err := properties.Delete(c.UserContext(), property.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete property",
		})
	}
	removeMedia(c, deleted)

	return c.SendStatus(fiber.StatusNoContent)
}

type BulkDeleteInput struct {
	IDs []uint `json:"ids" validate:"required,min=1,max=500,dive,gt=0"`
}

func BulkDeleteProperties(c *fiber.Ctx) error {
	input := new(BulkDeleteInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if errs := validation.Struct(input); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "ids must be a non-empty list of property IDs",
			"fields": errs,
		})
	}

	deleted, err := properties.Delete(c.UserContext(), input.IDs...)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No matching properties",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete properties",
		})
	}
	removeMedia(c, deleted)

	ids := make([]uint, 0, len(deleted))
	for _, p := range deleted {
		ids = append(ids, p.ID)
	}
	return c.JSON(fiber.Map{
		"deleted": len(deleted),
		"ids":     ids,
	})
}

// removeMedia deletes the stored files of removed properties. Failures are logged only:
// the rows are already gone.
func removeMedia(c *fiber.Ctx, deleted []model.Property) {
	log := logger.FromFiber(c)
	ctx := context.WithoutCancel(c.UserContext())
	remove := func(url string) {
		if url == "" {
			return
		}
		if err := media.Remove(ctx, url); err != nil {
			log.Warn("Could not delete media file", zap.String("url", url), zap.Error(err))
		}
	}
	for _, p := range deleted {
		for _, img := range p.Images {
			remove(img.URL)
			remove(img.ThumbnailURL)
		}
		for _, f := range p.Files {
			remove(f.URL)
		}
	}
}
