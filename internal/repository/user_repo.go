package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"oragh/backend/internal/model"
)

// UserRepository account data access.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	// EmailTaken compares case-insensitively and ignores excludeID.
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	// ExistingIDs returns the subset of ids that belong to an account.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Musician").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Musician").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != "" {
		q = q.Where("user_id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Musician").Save(user).Error
}

func (r *userRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", id).
		Updates(fields).Error
}

func (r *userRepo) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id IN ?", ids).
		Pluck("user_id", &found).Error
	return found, err
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", id).
		Delete(&model.User{}).Error
}
