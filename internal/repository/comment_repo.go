package repository

import (
	"context"

	"gorm.io/gorm"

	"oragh/backend/internal/model"
)

// CommentRepository forum comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	// ListByPost returns a post's comments oldest first.
	ListByPost(ctx context.Context, postID string, offset, limit int) ([]model.Comment, int64, error)
	Update(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
	// CountByPosts returns comment counts keyed by post id.
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	// CountInDirectories counts comments under posts of the given directories.
	CountInDirectories(ctx context.Context, directoryIDs []string) (int64, error)
}

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepo creates a CommentRepository.
func NewCommentRepo(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

func (r *commentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("comment_id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) ListByPost(ctx context.Context, postID string, offset, limit int) ([]model.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	q = q.Preload("Author").Order("created_at ASC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *commentRepo) Update(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Save(comment).Error
}

func (r *commentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ?", id).
		Delete(&model.Comment{}).Error
}

func (r *commentRepo) DeleteByPost(ctx context.Context, postID string) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&model.Comment{}).Error
}

func (r *commentRepo) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostID string
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}

func (r *commentRepo) CountInDirectories(ctx context.Context, directoryIDs []string) (int64, error) {
	if len(directoryIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Joins("JOIN forum_posts ON forum_posts.post_id = forum_comments.post_id").
		Where("forum_posts.directory_id IN ?", directoryIDs).
		Count(&count).Error
	return count, err
}
