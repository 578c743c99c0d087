package repository

import (
	"context"

	"gorm.io/gorm"

	"oragh/backend/internal/model"
)

// DirectoryRepository forum directory data access.
type DirectoryRepository interface {
	Create(ctx context.Context, dir *model.Directory) error
	GetByID(ctx context.Context, id string) (*model.Directory, error)
	// ListAll loads every directory by (display_order, name); access checks
	// resolve ancestors from this one result.
	ListAll(ctx context.Context) ([]model.Directory, error)
	Update(ctx context.Context, dir *model.Directory) error
	Delete(ctx context.Context, id string) error
	CountChildren(ctx context.Context, id string) (int64, error)
}

type directoryRepo struct {
	db *gorm.DB
}

// NewDirectoryRepo creates a DirectoryRepository.
func NewDirectoryRepo(db *gorm.DB) DirectoryRepository {
	return &directoryRepo{db: db}
}

func (r *directoryRepo) Create(ctx context.Context, dir *model.Directory) error {
	return r.db.WithContext(ctx).Omit("Author").Create(dir).Error
}

func (r *directoryRepo) GetByID(ctx context.Context, id string) (*model.Directory, error) {
	var dir model.Directory
	err := r.db.WithContext(ctx).
		Where("directory_id = ?", id).
		First(&dir).Error
	if err != nil {
		return nil, err
	}
	return &dir, nil
}

func (r *directoryRepo) ListAll(ctx context.Context) ([]model.Directory, error) {
	var dirs []model.Directory
	err := r.db.WithContext(ctx).
		Order("display_order, name").
		Find(&dirs).Error
	return dirs, err
}

func (r *directoryRepo) Update(ctx context.Context, dir *model.Directory) error {
	return r.db.WithContext(ctx).Omit("Author").Save(dir).Error
}

func (r *directoryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("directory_id = ?", id).
		Delete(&model.Directory{}).Error
}

func (r *directoryRepo) CountChildren(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Directory{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}
