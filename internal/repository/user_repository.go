package repository

import (
	"context"

	"gorm.io/gorm"

	"estate_portal/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// EnsureUser creates u unless a user with the same email exists. It reports whether a
// row was created.
func (r *UserRepository) EnsureUser(ctx context.Context, u *model.User) (bool, error) {
	res := r.db.WithContext(ctx).
		Where(model.User{Email: u.Email}).
		Attrs(*u).
		FirstOrCreate(u)
	return res.RowsAffected > 0, res.Error
}

// UpdateProfile writes the editable profile columns of u.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Model(u).Updates(map[string]interface{}{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"password":   u.Password,
	}).Error
}

func (r *UserRepository) RecordLogin(ctx context.Context, entry *model.LoginHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// LoginHistory returns the latest login attempts of a user, newest first.
func (r *UserRepository) LoginHistory(ctx context.Context, userID uint, limit int) ([]model.LoginHistory, error) {
	var entries []model.LoginHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
