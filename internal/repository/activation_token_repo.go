package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oragh/backend/internal/model"
)

// ActivationTokenRepository activation token data access.
type ActivationTokenRepository interface {
	Create(ctx context.Context, token *model.ActivationToken) error
	GetByToken(ctx context.Context, token string) (*model.ActivationToken, error)
	// GetByTokenForUpdate locks the token row; call it on a transaction bound repository.
	GetByTokenForUpdate(ctx context.Context, token string) (*model.ActivationToken, error)
	MarkUsed(ctx context.Context, tokenID string, at time.Time) error
	Delete(ctx context.Context, tokenID string) error
	// ListPending lists unused tokens with their accounts, newest first.
	ListPending(ctx context.Context) ([]model.ActivationToken, error)
}

type activationTokenRepo struct {
	db *gorm.DB
}

// NewActivationTokenRepo creates an ActivationTokenRepository.
func NewActivationTokenRepo(db *gorm.DB) ActivationTokenRepository {
	return &activationTokenRepo{db: db}
}

func (r *activationTokenRepo) Create(ctx context.Context, token *model.ActivationToken) error {
	return r.db.WithContext(ctx).Omit("User").Create(token).Error
}

func (r *activationTokenRepo) GetByToken(ctx context.Context, token string) (*model.ActivationToken, error) {
	var t model.ActivationToken
	err := r.db.WithContext(ctx).
		Preload("User.Musician").
		Where("token = ?", token).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *activationTokenRepo) GetByTokenForUpdate(ctx context.Context, token string) (*model.ActivationToken, error) {
	var t model.ActivationToken
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("token = ?", token).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *activationTokenRepo) MarkUsed(ctx context.Context, tokenID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.ActivationToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_used":      true,
			"activated_at": at,
		}).Error
}

func (r *activationTokenRepo) Delete(ctx context.Context, tokenID string) error {
	return r.db.WithContext(ctx).
		Where("token_id = ?", tokenID).
		Delete(&model.ActivationToken{}).Error
}

func (r *activationTokenRepo) ListPending(ctx context.Context) ([]model.ActivationToken, error) {
	var tokens []model.ActivationToken
	err := r.db.WithContext(ctx).
		Preload("User.Musician").
		Where("is_used = ?", false).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}
