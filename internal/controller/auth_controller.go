package controller

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"estate_portal/internal/middleware"
	"estate_portal/internal/model"
	"estate_portal/internal/repository"
	"estate_portal/pkg/logger"
	"estate_portal/pkg/utils/jwt"
	"estate_portal/pkg/utils/validation"
)

// UserStore is the user persistence used by the auth and settings handlers.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	RecordLogin(ctx context.Context, entry *model.LoginHistory) error
	LoginHistory(ctx context.Context, userID uint, limit int) ([]model.LoginHistory, error)
}

var users UserStore

func InitAuthController(store UserStore) {
	users = store
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login kullanıcı girişi
func Login(c *fiber.Ctx) error {
	input := new(LoginInput)
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

	user, err := users.FindByEmail(c.UserContext(), input.Email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not fetch user",
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		recordLogin(c, user.ID, false)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}
	recordLogin(c, user.ID, true)

	token, err := jwt.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not generate token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user.GetPublicProfile(),
	})
}

func recordLogin(c *fiber.Ctx, userID uint, success bool) {
	entry := model.LoginHistory{
		UserID:  userID,
		Device:  model.DeviceLabel(c.Get(fiber.HeaderUserAgent)),
		IP:      c.IP(),
		Success: success,
	}
	if err := users.RecordLogin(c.UserContext(), &entry); err != nil {
		logger.FromFiber(c).Warn("Could not record login", zap.Uint("user_id", userID), zap.Error(err))
	}
}

// GetMe oturum açmış kullanıcının bilgilerini getirir
func GetMe(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	user, err := users.FindByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch user",
		})
	}

	return c.JSON(fiber.Map{
		"user": user.GetPublicProfile(),
	})
}
