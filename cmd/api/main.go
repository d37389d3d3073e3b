package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"estate_portal/internal/controller"
	"estate_portal/internal/importer"
	"estate_portal/internal/middleware"
	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	"estate_portal/pkg/config"
	"estate_portal/pkg/cron"
	"estate_portal/pkg/database"
	"estate_portal/pkg/email"
	"estate_portal/pkg/logger"
	"estate_portal/pkg/metrics"
	"estate_portal/pkg/seed"
	imgutil "estate_portal/pkg/utils/image"
	"estate_portal/pkg/utils/jwt"
	"estate_portal/pkg/utils/location"
	"estate_portal/pkg/utils/storage"
	"estate_portal/pkg/utils/video"
)

func setupRoutes(app *fiber.App, uploadDir, urlPrefix string) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/login", controller.Login)

	// Public Properties Routes
	publicProps := api.Group("/p")
	publicProps.Get("/properties", controller.ListPublicProperties)
	publicProps.Get("/properties/:slug", controller.GetPublicProperty)

	// Lookups
	api.Get("/areas", controller.ListAreas)
	api.Get("/developers", controller.ListDevelopers)
	api.Get("/locations/districts", controller.GetDistricts)
	api.Get("/images/resize", controller.ResizeImage)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	staff := middleware.RequireRole(model.RoleAdmin, model.RoleEditor)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	loadProperty := middleware.LoadProperty(controller.FindProperty)

	// Property Routes; sabit yollar :id'den önce
	properties := protected.Group("/properties", staff)
	properties.Post("/import-folder", adminOnly, controller.ImportFolder)
	properties.Post("/import-folder-upload", adminOnly, controller.ImportFolderUpload)
	properties.Post("/bulk-delete", adminOnly, controller.BulkDeleteProperties)
	properties.Delete("/images/:image_id", controller.DeletePropertyImage)
	properties.Get("/", controller.ListProperties)
	properties.Get("/:id", loadProperty, controller.GetProperty)
	properties.Put("/:id", loadProperty, controller.UpdateProperty)
	properties.Delete("/:id", adminOnly, loadProperty, controller.DeleteProperty)
	properties.Post("/:id/images", loadProperty, controller.UploadPropertyImage)
	properties.Post("/:id/files", loadProperty, controller.UploadPropertyFile)

	protected.Post("/developers", staff, controller.CreateDeveloper)

	// Dashboard routes
	dashboard := protected.Group("/dashboard", staff)
	dashboard.Get("/stats", controller.GetDashboardStats)

	// Settings routes
	settings := protected.Group("/settings")
	settings.Get("/profile", controller.GetProfile)
	settings.Put("/profile", controller.UpdateProfile)
	settings.Get("/login-history", controller.GetLoginHistory)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static(urlPrefix, uploadDir)
}

func newMirror(ctx context.Context, cfg config.MirrorConfig) (storage.Mirror, error) {
	if !cfg.Enabled() {
		return storage.NopMirror{}, nil
	}
	return storage.NewS3Mirror(ctx, storage.S3MirrorConfig{
		AccountID:  cfg.AccountID,
		AccessKey:  cfg.AccessKey,
		SecretKey:  cfg.SecretKey,
		Bucket:     cfg.Bucket,
		Endpoint:   cfg.Endpoint,
		CDNBaseURL: cfg.CDNBaseURL,
	})
}

func main() {
	cfg := config.Load()

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
		ServiceName: "estate-portal-api",
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwt.Init(cfg.JWT.Secret, cfg.JWT.TTL)

	if err := database.InitDB(cfg.Database.URL); err != nil {
		log.Fatal("Could not connect to database", zap.Error(err))
	}
	if err := database.MigrateDatabase(database.Models()...); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	db := database.GetDB()

	catalog, err := location.Load(cfg.Import.DistrictsFile, cfg.Import.Districts, cfg.Import.City)
	if err != nil {
		log.Fatal("Could not load district catalog", zap.Error(err))
	}

	propertyRepo := repository.NewPropertyRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	if err := seed.SeedAreas(ctx, catalogRepo, catalog); err != nil {
		log.Warn("Area seeding failed", zap.Error(err))
	}
	if err := seed.SeedAdmin(ctx, userRepo, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Warn("Admin seeding failed", zap.Error(err))
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
	log.Info("Image processor ready", zap.String("mode", string(processor.Mode())))

	prober := video.NewProber()
	if !prober.Available() {
		log.Warn("ffprobe not found, videos are imported without aspect ratio check")
	}

	mirror, err := newMirror(ctx, cfg.Mirror)
	if err != nil {
		log.Fatal("Could not configure object storage mirror", zap.Error(err))
	}

	uploadRoot, err := filepath.Abs(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("Invalid upload directory", zap.Error(err))
	}
	media := storage.NewMedia(storage.Layout{Root: uploadRoot, URLPrefix: cfg.Upload.PublicURLPrefix}, mirror)

	imp := importer.New(importer.Config{
		Store:    propertyRepo,
		Media:    media,
		Images:   processor,
		Prober:   prober,
		Catalog:  catalog,
		Logger:   log.Named("importer"),
		City:     cfg.Import.City,
		Fallback: cfg.Import.FallbackDistrict,
		Price:    cfg.Import.PlaceholderPrice,
	})
	stager := importer.NewStager(cfg.Upload.StagingDir, int64(cfg.Upload.MaxUploadBytes))

	scheduler, err := cron.InitStagingCleanupCron(stager, cfg.Upload.StagingMaxAge)
	if err != nil {
		log.Fatal("Could not schedule staging cleanup", zap.Error(err))
	}
	defer scheduler.Stop()

	resizer := imgutil.NewResizer(cfg.Image.CacheSize, cfg.Image.CacheTTL, cfg.Image.Quality)
	resizer.OnLookup(func(hit bool) {
		result := "miss"
		if hit {
			result = "hit"
		}
		metrics.ResizeCacheTotal.WithLabelValues(result).Inc()
	})

	controller.InitAuthController(userRepo)
	controller.InitPropertyController(propertyRepo, media, statsRepo)
	controller.InitUploadController(processor, filepath.Join(cfg.Upload.StagingDir, "uploads"))
	controller.InitImportController(imp, stager, cfg.Import.Timeout)
	if cfg.Notify.Enabled() {
		mailer, err := email.NewService(cfg.Notify.ResendAPIKey, cfg.Notify.From)
		if err != nil {
			log.Warn("Import report e-mails disabled", zap.Error(err))
		} else {
			controller.InitImportNotifier(mailer, cfg.Notify.To)
		}
	}
	controller.InitLocationController(catalogRepo, catalog)
	controller.InitStatsController(statsRepo)
	controller.InitImageController(resizer)

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Upload.MaxUploadBytes,
		// Import isteği klasör sayısına göre uzun sürebilir
		WriteTimeout: cfg.Import.Timeout + 30*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(cors.New())
	app.Use(logger.Middleware())

	setupRoutes(app, uploadRoot, cfg.Upload.PublicURLPrefix)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("Server is running", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
