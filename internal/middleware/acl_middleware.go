package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"estate_portal/internal/model"
	"estate_portal/internal/repository"
)

// RequireRole sadece verilen rollerden birine sahip kullanıcıları geçirir
func RequireRole(roles ...model.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		for _, role := range roles {
			if model.UserRole(claims.Role) == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to perform this action",
		})
	}
}

// PropertyFinder loads a property by primary key.
type PropertyFinder func(ctx context.Context, id uint) (*model.Property, error)

// LoadProperty resolves the :id route parameter and stores the property in
// c.Locals("property").
func LoadProperty(find PropertyFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid property ID",
			})
		}

		property, err := find(c.UserContext(), uint(id))
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Property not found",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not fetch property",
			})
		}

		c.Locals("property", property)
		return c.Next()
	}
}

// Property returns the property stored by LoadProperty.
func Property(c *fiber.Ctx) *model.Property {
	p, _ := c.Locals("property").(*model.Property)
	return p
}
