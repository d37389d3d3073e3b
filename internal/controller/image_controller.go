package controller

import (
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"estate_portal/pkg/logger"
	imgutil "estate_portal/pkg/utils/image"
)

var resizer *imgutil.Resizer

func InitImageController(r *imgutil.Resizer) {
	resizer = r
}

// ResizeImage serves a stored image fitted to w x h as WebP.
// GET /api/images/resize?src=/uploads/properties/images/x.webp&w=400&h=300
func ResizeImage(c *fiber.Ctx) error {
	path, ok := media.Layout.Resolve(c.Query("src"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "src must be an uploaded image URL",
		})
	}

	data, err := resizer.Resize(path, c.QueryInt("w"), c.QueryInt("h"))
	switch {
	case errors.Is(err, imgutil.ErrInvalidSize):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, fs.ErrNotExist):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Image not found",
		})
	case err != nil:
		logger.FromFiber(c).Warn("Image resize failed", zap.String("path", path), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Could not resize image",
		})
	}

	c.Set(fiber.HeaderContentType, "image/webp")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}
