package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oragh/backend/internal/model"
)

// ConcertFilter narrows List.
type ConcertFilter struct {
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string
	Offset   int
	Limit    int
}

// ConcertRepository concert and sign-up data access.
type ConcertRepository interface {
	Create(ctx context.Context, concert *model.Concert) error
	GetByID(ctx context.Context, id string) (*model.Concert, error)
	// GetByIDForUpdate locks the row; call it on a transaction bound repository.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Concert, error)
	// List returns concerts by date, then creation time.
	List(ctx context.Context, f ConcertFilter) ([]model.Concert, int64, error)
	Update(ctx context.Context, concert *model.Concert) error
	Delete(ctx context.Context, id string) error

	AddParticipant(ctx context.Context, concertID, musicianID string) error
	RemoveParticipant(ctx context.Context, concertID, musicianID string) (int64, error)
	IsParticipant(ctx context.Context, concertID, musicianID string) (bool, error)
	DeleteParticipants(ctx context.Context, concertID string) error
	// Participants lists signed up musicians with their accounts, by name.
	Participants(ctx context.Context, concertID string) ([]model.Musician, error)
	// CountParticipants returns sign-up counts keyed by concert id.
	CountParticipants(ctx context.Context, concertIDs []string) (map[string]int64, error)
	// RegisteredConcertIDs returns which of concertIDs the musician signed up for.
	RegisteredConcertIDs(ctx context.Context, musicianID string, concertIDs []string) ([]string, error)
}

type concertRepo struct {
	db *gorm.DB
}

// NewConcertRepo creates a ConcertRepository.
func NewConcertRepo(db *gorm.DB) ConcertRepository {
	return &concertRepo{db: db}
}

func (r *concertRepo) Create(ctx context.Context, concert *model.Concert) error {
	return r.db.WithContext(ctx).Omit("Creator").Create(concert).Error
}

func (r *concertRepo) GetByID(ctx context.Context, id string) (*model.Concert, error) {
	var concert model.Concert
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("concert_id = ?", id).
		First(&concert).Error
	if err != nil {
		return nil, err
	}
	return &concert, nil
}

func (r *concertRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Concert, error) {
	var concert model.Concert
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("concert_id = ?", id).
		First(&concert).Error
	if err != nil {
		return nil, err
	}
	return &concert, nil
}

func (r *concertRepo) List(ctx context.Context, f ConcertFilter) ([]model.Concert, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Concert{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", *f.DateTo)
	}
	if f.Search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(f.Search))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var concerts []model.Concert
	q = q.Preload("Creator").Order("date, created_at")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&concerts).Error; err != nil {
		return nil, 0, err
	}
	return concerts, total, nil
}

func (r *concertRepo) Update(ctx context.Context, concert *model.Concert) error {
	return r.db.WithContext(ctx).Omit("Creator").Save(concert).Error
}

func (r *concertRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("concert_id = ?", id).
		Delete(&model.Concert{}).Error
}

func (r *concertRepo) AddParticipant(ctx context.Context, concertID, musicianID string) error {
	row := model.ConcertParticipant{
		ConcertID:  concertID,
		MusicianID: musicianID,
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *concertRepo) RemoveParticipant(ctx context.Context, concertID, musicianID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("concert_id = ? AND musician_id = ?", concertID, musicianID).
		Delete(&model.ConcertParticipant{})
	return res.RowsAffected, res.Error
}

func (r *concertRepo) IsParticipant(ctx context.Context, concertID, musicianID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ConcertParticipant{}).
		Where("concert_id = ? AND musician_id = ?", concertID, musicianID).
		Count(&count).Error
	return count > 0, err
}

func (r *concertRepo) DeleteParticipants(ctx context.Context, concertID string) error {
	return r.db.WithContext(ctx).
		Where("concert_id = ?", concertID).
		Delete(&model.ConcertParticipant{}).Error
}

func (r *concertRepo) Participants(ctx context.Context, concertID string) ([]model.Musician, error) {
	var list []model.Musician
	err := r.db.WithContext(ctx).
		Model(&model.Musician{}).
		Preload("User").
		Joins("JOIN users ON users.user_id = musicians.user_id").
		Joins("JOIN concert_participants ON concert_participants.musician_id = musicians.musician_id").
		Where("concert_participants.concert_id = ?", concertID).
		Order("users.last_name, users.first_name, users.username").
		Find(&list).Error
	return list, err
}

func (r *concertRepo) CountParticipants(ctx context.Context, concertIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(concertIDs))
	if len(concertIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ConcertID string
		Total     int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.ConcertParticipant{}).
		Select("concert_id, COUNT(*) AS total").
		Where("concert_id IN ?", concertIDs).
		Group("concert_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ConcertID] = row.Total
	}
	return counts, nil
}

func (r *concertRepo) RegisteredConcertIDs(ctx context.Context, musicianID string, concertIDs []string) ([]string, error) {
	if musicianID == "" || len(concertIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.ConcertParticipant{}).
		Where("musician_id = ? AND concert_id IN ?", musicianID, concertIDs).
		Pluck("concert_id", &ids).Error
	return ids, err
}
