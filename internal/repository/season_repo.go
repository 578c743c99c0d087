package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oragh/backend/internal/model"
)

// SeasonFilter narrows List.
type SeasonFilter struct {
	Active *bool
	Search string
	Offset int
	Limit  int
}

// SeasonRepository season data access.
type SeasonRepository interface {
	Create(ctx context.Context, season *model.Season) error
	GetByID(ctx context.Context, id string) (*model.Season, error)
	// GetByIDForUpdate locks the row; call it on a transaction bound repository.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Season, error)
	NameTaken(ctx context.Context, name, excludeID string) (bool, error)
	List(ctx context.Context, f SeasonFilter) ([]model.Season, int64, error)
	ListActive(ctx context.Context) ([]model.Season, error)
	Update(ctx context.Context, season *model.Season) error
	// DeactivateOthers clears is_active on every season except keepID.
	DeactivateOthers(ctx context.Context, keepID string) error
	Delete(ctx context.Context, id string) error
}

type seasonRepo struct {
	db *gorm.DB
}

// NewSeasonRepo creates a SeasonRepository.
func NewSeasonRepo(db *gorm.DB) SeasonRepository {
	return &seasonRepo{db: db}
}

func (r *seasonRepo) Create(ctx context.Context, season *model.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *seasonRepo) GetByID(ctx context.Context, id string) (*model.Season, error) {
	var season model.Season
	err := r.db.WithContext(ctx).
		Where("season_id = ?", id).
		First(&season).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Season, error) {
	var season model.Season
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("season_id = ?", id).
		First(&season).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepo) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.Season{}).
		Where("name = ?", name)
	if excludeID != "" {
		q = q.Where("season_id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *seasonRepo) List(ctx context.Context, f SeasonFilter) ([]model.Season, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Season{})
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.Search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(f.Search))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var seasons []model.Season
	q = q.Order("start_date DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&seasons).Error; err != nil {
		return nil, 0, err
	}
	return seasons, total, nil
}

func (r *seasonRepo) ListActive(ctx context.Context) ([]model.Season, error) {
	var seasons []model.Season
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("start_date DESC").
		Find(&seasons).Error
	return seasons, err
}

func (r *seasonRepo) Update(ctx context.Context, season *model.Season) error {
	return r.db.WithContext(ctx).Save(season).Error
}

func (r *seasonRepo) DeactivateOthers(ctx context.Context, keepID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Season{}).
		Where("is_active = ? AND season_id <> ?", true, keepID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *seasonRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("season_id = ?", id).
		Delete(&model.Season{}).Error
}
