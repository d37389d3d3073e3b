package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"estate_portal/internal/importer"
	"estate_portal/internal/repository"
	"estate_portal/pkg/config"
	"estate_portal/pkg/database"
	"estate_portal/pkg/logger"
	imgutil "estate_portal/pkg/utils/image"
	"estate_portal/pkg/utils/location"
	"estate_portal/pkg/utils/storage"
	"estate_portal/pkg/utils/video"
)

const (
	exitFailure = 1
	exitPartial = 2
)

type importOptions struct {
	path    string
	dryRun  bool
	publish bool
}

func newImportCmd(cfg *config.Config) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import every property folder under a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.path, "path", "", "Root directory holding property folders (required)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print what would be imported without writing anything")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Publish imported properties immediately")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runImport(ctx context.Context, cfg *config.Config, opts importOptions, out io.Writer) error {
	log := logger.GetLogger()

	catalog, err := location.Load(cfg.Import.DistrictsFile, cfg.Import.Districts, cfg.Import.City)
	if err != nil {
		return withCode(exitFailure, err)
	}

	// Dry-run veritabanına bağlanmaz
	if opts.dryRun {
		imp := importer.New(importer.Config{
			Catalog:  catalog,
			Logger:   log,
			City:     cfg.Import.City,
			Fallback: cfg.Import.FallbackDistrict,
		})
		plans, err := imp.Plan(opts.path)
		if err != nil {
			return withCode(exitFailure, err)
		}
		return writeJSON(out, plans)
	}

	if err := database.InitDB(cfg.Database.URL); err != nil {
		return withCode(exitFailure, err)
	}
	if err := database.MigrateDatabase(database.Models()...); err != nil {
		return withCode(exitFailure, err)
	}

	processor, err := imgutil.NewProcessor(imgutil.Options{
		Transcode:    cfg.Image.Transcode,
		Quality:      cfg.Image.Quality,
		ThumbQuality: cfg.Image.ThumbQuality,
		ThumbSize:    cfg.Image.ThumbSize,
	})
	if err != nil {
		log.Warn("Images will be stored without transcoding", zap.Error(err))
	}

	var mirror storage.Mirror = storage.NopMirror{}
	if cfg.Mirror.Enabled() {
		mirror, err = storage.NewS3Mirror(ctx, storage.S3MirrorConfig{
			AccountID:  cfg.Mirror.AccountID,
			AccessKey:  cfg.Mirror.AccessKey,
			SecretKey:  cfg.Mirror.SecretKey,
			Bucket:     cfg.Mirror.Bucket,
			Endpoint:   cfg.Mirror.Endpoint,
			CDNBaseURL: cfg.Mirror.CDNBaseURL,
		})
		if err != nil {
			return withCode(exitFailure, err)
		}
	}

	uploadRoot, err := filepath.Abs(cfg.Upload.Dir)
	if err != nil {
		return withCode(exitFailure, err)
	}

	imp := importer.New(importer.Config{
		Store:    repository.NewPropertyRepository(database.GetDB()),
		Media:    storage.NewMedia(storage.Layout{Root: uploadRoot, URLPrefix: cfg.Upload.PublicURLPrefix}, mirror),
		Images:   processor,
		Prober:   video.NewProber(),
		Catalog:  catalog,
		Logger:   log,
		City:     cfg.Import.City,
		Fallback: cfg.Import.FallbackDistrict,
		Price:    cfg.Import.PlaceholderPrice,
		Publish:  opts.publish,
	})

	report, err := imp.ImportPath(ctx, opts.path)
	if report != nil {
		if werr := writeJSON(out, report); werr != nil {
			return withCode(exitFailure, werr)
		}
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return withCode(exitPartial, err)
	case err != nil:
		return withCode(exitFailure, err)
	}
	if report.Failed > 0 {
		log.Warn("Some folders failed to import", zap.Int("failed", report.Failed))
	}
	return nil
}
