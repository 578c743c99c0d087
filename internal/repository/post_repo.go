package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"oragh/backend/internal/model"
)

// PostFilter narrows List.
type PostFilter struct {
	DirectoryID string
	Search      string
	Offset      int
	Limit       int
}

// PostRepository forum post data access.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// List returns pinned posts first, then most recently updated.
	List(ctx context.Context, f PostFilter) ([]model.Post, int64, error)
	Update(ctx context.Context, post *model.Post) error
	// Touch bumps updated_at without changing content.
	Touch(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountByDirectory(ctx context.Context, directoryID string) (int64, error)
	// CountByDirectories returns post counts keyed by directory id.
	CountByDirectories(ctx context.Context, directoryIDs []string) (map[string]int64, error)
}

type postRepo struct {
	db *gorm.DB
}

// NewPostRepo creates a PostRepository.
func NewPostRepo(db *gorm.DB) PostRepository {
	return &postRepo{db: db}
}

func (r *postRepo) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Author").Create(post).Error
}

func (r *postRepo) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) List(ctx context.Context, f PostFilter) ([]model.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("directory_id = ?", f.DirectoryID)
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, p, p)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	q = q.Preload("Author").Order("is_pinned DESC, updated_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postRepo) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Omit("Author").Save(post).Error
}

func (r *postRepo) Touch(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("post_id = ?", id).
		UpdateColumn("updated_at", at).Error
}

func (r *postRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", id).
		Delete(&model.Post{}).Error
}

func (r *postRepo) CountByDirectory(ctx context.Context, directoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("directory_id = ?", directoryID).
		Count(&count).Error
	return count, err
}

func (r *postRepo) CountByDirectories(ctx context.Context, directoryIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(directoryIDs))
	if len(directoryIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		DirectoryID string
		Total       int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Select("directory_id, COUNT(*) AS total").
		Where("directory_id IN ?", directoryIDs).
		Group("directory_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.DirectoryID] = row.Total
	}
	return counts, nil
}
