package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"estate_portal/internal/importer"
	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	"estate_portal/pkg/utils/location"
	"estate_portal/pkg/utils/validation"
)

// CatalogStore serves areas and developers.
type CatalogStore interface {
	Areas(ctx context.Context) ([]repository.AreaWithCount, error)
	Developers(ctx context.Context) ([]model.Developer, error)
	CreateDeveloper(ctx context.Context, d *model.Developer) error
	DeveloperExists(ctx context.Context, id uint) (bool, error)
}

var (
	catalog   CatalogStore
	districts *location.Catalog
)

func InitLocationController(store CatalogStore, c *location.Catalog) {
	catalog = store
	districts = c
}

// GetDistricts import sırasında tanınan bölge listesini döner
func GetDistricts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"districts": districts.All(),
	})
}

func ListAreas(c *fiber.Ctx) error {
	areas, err := catalog.Areas(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch areas",
		})
	}
	return c.JSON(areas)
}

func ListDevelopers(c *fiber.Ctx) error {
	developers, err := catalog.Developers(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch developers",
		})
	}
	return c.JSON(developers)
}

type DeveloperInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Logo    string `json:"logo" validate:"omitempty,url"`
	Website string `json:"website" validate:"omitempty,url"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
}

func CreateDeveloper(c *fiber.Ctx) error {
	input := new(DeveloperInput)
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

	slug := importer.Slugify(input.Name)
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name must contain letters or digits",
		})
	}

	developer := model.Developer{
		Name:    input.Name,
		Logo:    input.Logo,
		Website: input.Website,
		Email:   input.Email,
		Phone:   input.Phone,
		Slug:    slug,
	}
	if err := catalog.CreateDeveloper(c.UserContext(), &developer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Developer already exists",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create developer",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(developer)
}
