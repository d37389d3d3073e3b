package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"estate_portal/internal/importer"
	"estate_portal/internal/middleware"
	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	"estate_portal/pkg/logger"
	imgutil "estate_portal/pkg/utils/image"
	"estate_portal/pkg/utils/storage"
	"estate_portal/pkg/utils/validation"
)

const MaxPropertyImages = 100

var (
	imageProcessor imgutil.Processor
	uploadNames    = storage.NewNameGenerator()
	uploadTmpDir   string
)

func InitUploadController(p imgutil.Processor, tmpDir string) {
	imageProcessor = p
	uploadTmpDir = tmpDir
}

// UploadPropertyImage emlak ilanı için resim yükler; import ile aynı işlemciden geçer
func UploadPropertyImage(c *fiber.Ctx) error {
	property := middleware.Property(c)

	imageCount, err := properties.CountImages(c.UserContext(), property.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not count images",
		})
	}
	if imageCount >= MaxPropertyImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Maximum image limit reached (%d)", MaxPropertyImages),
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}
	if err := validation.ValidateImage(file); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// İşlemci dosya yolu ile çalışır: önce geçici dosyaya kaydet
	if err := os.MkdirAll(uploadTmpDir, 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}
	tmp, err := os.CreateTemp(uploadTmpDir, "upload-*"+strings.ToLower(filepath.Ext(file.Filename)))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}
	tmp.Close()
	defer os.Remove(tmp.Name())

	if err := c.SaveFile(file, tmp.Name()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}

	generated := uploadNames.Next(file.Filename)
	name := strings.TrimSuffix(generated, filepath.Ext(generated))
	layout := media.Layout
	out, err := imageProcessor.Process(tmp.Name(), layout.Dir(storage.DirImages), layout.Dir(storage.DirThumbnails), name)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not process image",
		})
	}

	var written []string
	rollback := func() {
		for _, url := range written {
			if err := media.Remove(context.WithoutCancel(c.UserContext()), url); err != nil {
				logger.FromFiber(c).Warn("Could not remove uploaded file", zap.String("url", url), zap.Error(err))
			}
		}
	}

	url, err := media.Publish(c.UserContext(), out.Path, out.ContentType)
	if err != nil {
		os.Remove(out.Path)
		if out.ThumbnailPath != "" {
			os.Remove(out.ThumbnailPath)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store image",
		})
	}
	written = append(written, url)

	image := model.PropertyImage{
		PropertyID: property.ID,
		URL:        url,
		Alt:        c.FormValue("alt", property.Title),
		MediaType:  model.MediaTypeImage,
	}
	if out.ThumbnailPath != "" {
		thumb, err := media.Publish(c.UserContext(), out.ThumbnailPath, out.ContentType)
		if err != nil {
			rollback()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not store thumbnail",
			})
		}
		written = append(written, thumb)
		image.ThumbnailURL = thumb
	}

	if err := properties.AddImage(c.UserContext(), &image); err != nil {
		rollback()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save image record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Image uploaded successfully",
		"image":   image,
	})
}

// UploadPropertyFile ilana doküman (broşür, kat planı, fiyat listesi) ekler
func UploadPropertyFile(c *fiber.Ctx) error {
	property := middleware.Property(c)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}
	mime, err := validation.ValidateDocument(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	dst := filepath.Join(media.Layout.Dir(storage.DirFiles), uploadNames.Next(file.Filename))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}
	if err := c.SaveFile(file, dst); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}

	url, err := media.Publish(c.UserContext(), dst, mime)
	if err != nil {
		os.Remove(dst)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not store file",
		})
	}

	record := model.PropertyFile{
		PropertyID: property.ID,
		URL:        url,
		Label:      c.FormValue("label", importer.DocumentLabel(file.Filename)),
		FileName:   file.Filename,
		Size:       file.Size,
		MimeType:   mime,
	}
	if err := properties.AddFile(c.UserContext(), &record); err != nil {
		if rerr := media.Remove(context.WithoutCancel(c.UserContext()), url); rerr != nil {
			logger.FromFiber(c).Warn("Could not remove uploaded file", zap.String("url", url), zap.Error(rerr))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file record",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "File uploaded successfully",
		"file":    record,
	})
}

// DeletePropertyImage emlak ilanı resmini siler
func DeletePropertyImage(c *fiber.Ctx) error {
	imageID, err := strconv.ParseUint(c.Params("image_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid image ID",
		})
	}

	image, err := properties.DeleteImage(c.UserContext(), uint(imageID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Image not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete image",
		})
	}

	removeMedia(c, []model.Property{{Images: []model.PropertyImage{*image}}})

	return c.SendStatus(fiber.StatusNoContent)
}
