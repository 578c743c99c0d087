package repository

import (
	"context"

	"gorm.io/gorm"

	"oragh/backend/internal/model"
)

// MusicianFilter narrows ListActive.
type MusicianFilter struct {
	Instrument string
	Search     string
	Offset     int
	Limit      int
}

// MusicianRepository musician profile data access.
type MusicianRepository interface {
	Create(ctx context.Context, m *model.Musician) error
	GetByUserID(ctx context.Context, userID string) (*model.Musician, error)
	Update(ctx context.Context, m *model.Musician) error
	DeleteByUserID(ctx context.Context, userID string) error
	// ListActive lists active musicians with their accounts, by last then first name.
	ListActive(ctx context.Context, f MusicianFilter) ([]model.Musician, int64, error)
	// ActiveByIDs returns the active musicians among ids.
	ActiveByIDs(ctx context.Context, ids []string) ([]model.Musician, error)
	// AllActive returns every active musician.
	AllActive(ctx context.Context) ([]model.Musician, error)
	// AvailableForSeason returns active musicians not on the season roster.
	AvailableForSeason(ctx context.Context, seasonID string) ([]model.Musician, error)
	// UserIDs maps musician ids to their account ids.
	UserIDs(ctx context.Context, musicianIDs []string) ([]string, error)
}

type musicianRepo struct {
	db *gorm.DB
}

// NewMusicianRepo creates a MusicianRepository.
func NewMusicianRepo(db *gorm.DB) MusicianRepository {
	return &musicianRepo{db: db}
}

// activeWithUser is the shared base query: active musicians joined to their
// accounts and ordered by name.
func activeWithUser(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Musician{}).
		Joins("JOIN users ON users.user_id = musicians.user_id").
		Where("musicians.active = ?", true).
		Order("users.last_name, users.first_name, users.username")
}

func (r *musicianRepo) Create(ctx context.Context, m *model.Musician) error {
	return r.db.WithContext(ctx).Omit("User").Create(m).Error
}

func (r *musicianRepo) GetByUserID(ctx context.Context, userID string) (*model.Musician, error) {
	var m model.Musician
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *musicianRepo) Update(ctx context.Context, m *model.Musician) error {
	return r.db.WithContext(ctx).Omit("User").Save(m).Error
}

func (r *musicianRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Musician{}).Error
}

func (r *musicianRepo) ListActive(ctx context.Context, f MusicianFilter) ([]model.Musician, int64, error) {
	q := activeWithUser(r.db.WithContext(ctx))
	if f.Instrument != "" {
		q = q.Where("LOWER(musicians.instrument) = LOWER(?)", f.Instrument)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(`(LOWER(users.first_name) LIKE ? ESCAPE '\' OR LOWER(users.last_name) LIKE ? ESCAPE '\' OR LOWER(users.username) LIKE ? ESCAPE '\')`, p, p, p)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []model.Musician
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Preload("User").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *musicianRepo) ActiveByIDs(ctx context.Context, ids []string) ([]model.Musician, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Musician
	err := activeWithUser(r.db.WithContext(ctx)).Preload("User").
		Where("musicians.musician_id IN ?", ids).
		Find(&list).Error
	return list, err
}

func (r *musicianRepo) AllActive(ctx context.Context) ([]model.Musician, error) {
	var list []model.Musician
	err := activeWithUser(r.db.WithContext(ctx)).Preload("User").Find(&list).Error
	return list, err
}

func (r *musicianRepo) AvailableForSeason(ctx context.Context, seasonID string) ([]model.Musician, error) {
	onRoster := r.db.Model(&model.SeasonMusician{}).
		Select("musician_id").
		Where("season_id = ?", seasonID)

	var list []model.Musician
	err := activeWithUser(r.db.WithContext(ctx)).Preload("User").
		Where("musicians.musician_id NOT IN (?)", onRoster).
		Find(&list).Error
	return list, err
}

func (r *musicianRepo) UserIDs(ctx context.Context, musicianIDs []string) ([]string, error) {
	if len(musicianIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Musician{}).
		Where("musician_id IN ?", musicianIDs).
		Pluck("user_id", &ids).Error
	return ids, err
}
