package seed

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"estate_portal/internal/importer"
	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	"estate_portal/pkg/logger"
	"estate_portal/pkg/utils/location"
)

// SeedAreas her katalog bölgesi için bir Area kaydı oluşturur
func SeedAreas(ctx context.Context, repo *repository.CatalogRepository, catalog *location.Catalog) error {
	created, err := repo.SeedAreas(ctx, catalog.All(), importer.Slugify)
	if err != nil {
		return err
	}
	logger.GetLogger().Info("Areas seeded", zap.Int("created", created), zap.Int("districts", len(catalog.All())))
	return nil
}

// SeedAdmin creates the initial admin account when ADMIN_EMAIL and ADMIN_PASSWORD are set.
func SeedAdmin(ctx context.Context, repo *repository.UserRepository, email, password string) error {
	if email == "" || password == "" {
		logger.GetLogger().Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, admin user not seeded")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	created, err := repo.EnsureUser(ctx, &model.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: "Admin",
		Role:      model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	if created {
		logger.GetLogger().Info("Admin user created", zap.String("email", email))
	}
	return nil
}
