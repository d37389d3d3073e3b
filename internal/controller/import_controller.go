package controller

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"estate_portal/internal/importer"
	"estate_portal/pkg/logger"
	"estate_portal/pkg/utils/validation"
)

// ReportNotifier delivers the report of a finished import run.
type ReportNotifier interface {
	SendImportReport(ctx context.Context, to, source string, r *importer.Report) error
}

var (
	folderImporter *importer.Importer
	uploadStager   *importer.Stager
	importTimeout  time.Duration

	reportNotifier ReportNotifier
	reportTo       string
)

func InitImportController(imp *importer.Importer, stager *importer.Stager, timeout time.Duration) {
	folderImporter = imp
	uploadStager = stager
	importTimeout = timeout
}

// InitImportNotifier enables report e-mails; a nil notifier disables them.
func InitImportNotifier(n ReportNotifier, to string) {
	reportNotifier = n
	reportTo = to
}

type ImportFolderInput struct {
	FolderPath string `json:"folderPath" validate:"required"`
}

// ImportFolder sunucu üzerindeki bir klasörü içe aktarır
func ImportFolder(c *fiber.Ctx) error {
	input := new(ImportFolderInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}
	if errs := validation.Struct(input); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "folderPath is required",
			"fields": errs,
		})
	}

	ctx, cancel := importContext(c)
	defer cancel()

	report, err := folderImporter.ImportPath(ctx, input.FolderPath)
	notifyImport(c, input.FolderPath, report)
	return respondImport(c, report, err)
}

// ImportFolderUpload tarayıcıdan seçilen klasörü (files + paths) veya bir zip arşivini
// geçici dizine yazar ve oradan içe aktarır
func ImportFolderUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Expected a multipart form",
		})
	}

	var root, staging string
	if archives := form.File["archive"]; len(archives) > 0 {
		root, staging, err = stageArchive(archives[0])
	} else {
		root, staging, err = uploadStager.StageFiles(uploadedFiles(form))
	}
	defer func() {
		if cerr := uploadStager.Cleanup(staging); cerr != nil {
			logger.FromFiber(c).Warn("Could not remove staging directory", zap.String("dir", staging), zap.Error(cerr))
		}
	}()
	if err != nil {
		return respondImport(c, nil, err)
	}

	ctx, cancel := importContext(c)
	defer cancel()

	report, err := folderImporter.ImportPath(ctx, root)
	notifyImport(c, "browser upload", report)
	return respondImport(c, report, err)
}

// uploadedFiles pairs form files with the parallel "paths" values. Browsers strip the
// directory from the multipart file name, so the relative path travels separately.
func uploadedFiles(form *multipart.Form) []importer.UploadedFile {
	headers := form.File["files"]
	paths := form.Value["paths"]

	files := make([]importer.UploadedFile, 0, len(headers))
	for i, fh := range headers {
		rel := fh.Filename
		if i < len(paths) && paths[i] != "" {
			rel = paths[i]
		}
		files = append(files, importer.UploadedFile{
			RelativePath: rel,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}

func stageArchive(fh *multipart.FileHeader) (string, string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	return uploadStager.StageArchive(f, fh.Size, fh.Filename)
}

func importContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx := logger.WithContext(c.UserContext(), logger.FromFiber(c))
	if importTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, importTimeout)
}

// notifyImport mails the report in the background; delivery failures are only logged.
func notifyImport(c *fiber.Ctx, source string, report *importer.Report) {
	if reportNotifier == nil || report == nil {
		return
	}
	log := logger.FromFiber(c)
	ctx := logger.WithContext(context.WithoutCancel(c.UserContext()), log)
	notifier, to := reportNotifier, reportTo
	go func() {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := notifier.SendImportReport(ctx, to, source, report); err != nil {
			log.Warn("Could not send import report", zap.String("report_id", report.ID), zap.Error(err))
		}
	}()
}

func respondImport(c *fiber.Ctx, report *importer.Report, err error) error {
	switch {
	case err == nil:
		return c.JSON(report)
	case errors.Is(err, importer.ErrRootMissing),
		errors.Is(err, importer.ErrRootNotDir),
		errors.Is(err, importer.ErrNoFolders),
		errors.Is(err, importer.ErrUnsafePath),
		errors.Is(err, importer.ErrEmptyUpload),
		errors.Is(err, importer.ErrBadArchive):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, importer.ErrUploadTooBig):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// Yarıda kalan import: o ana kadar işlenen klasörler raporda
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error":  "Import did not finish in time",
			"report": report,
		})
	}

	logger.FromFiber(c).Error("Folder import failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
