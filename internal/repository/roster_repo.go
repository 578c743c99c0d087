package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oragh/backend/internal/model"
)

// RosterRepository season membership data access.
type RosterRepository interface {
	// MemberIDs returns which of musicianIDs are already on the season roster.
	MemberIDs(ctx context.Context, seasonID string, musicianIDs []string) ([]string, error)
	// Add inserts roster rows, ignoring rows that already exist, and reports
	// how many were inserted.
	Add(ctx context.Context, seasonID string, musicianIDs []string) (int64, error)
	Remove(ctx context.Context, seasonID string, musicianIDs []string) (int64, error)
	Count(ctx context.Context, seasonID string) (int64, error)
	// ActiveMusicians lists active roster members with their accounts.
	ActiveMusicians(ctx context.Context, seasonID string) ([]model.Musician, error)
	// ActiveUserIDs lists the account ids of active roster members.
	ActiveUserIDs(ctx context.Context, seasonID string) ([]string, error)
	DeleteBySeason(ctx context.Context, seasonID string) error
	DeleteByMusician(ctx context.Context, musicianID string) error
}

type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo creates a RosterRepository.
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) MemberIDs(ctx context.Context, seasonID string, musicianIDs []string) ([]string, error) {
	if len(musicianIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.SeasonMusician{}).
		Where("season_id = ? AND musician_id IN ?", seasonID, musicianIDs).
		Pluck("musician_id", &ids).Error
	return ids, err
}

func (r *rosterRepo) Add(ctx context.Context, seasonID string, musicianIDs []string) (int64, error) {
	if len(musicianIDs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	rows := make([]model.SeasonMusician, 0, len(musicianIDs))
	for _, id := range musicianIDs {
		rows = append(rows, model.SeasonMusician{SeasonID: seasonID, MusicianID: id, CreatedAt: now})
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func (r *rosterRepo) Remove(ctx context.Context, seasonID string, musicianIDs []string) (int64, error) {
	if len(musicianIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("season_id = ? AND musician_id IN ?", seasonID, musicianIDs).
		Delete(&model.SeasonMusician{})
	return res.RowsAffected, res.Error
}

func (r *rosterRepo) Count(ctx context.Context, seasonID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.SeasonMusician{}).
		Where("season_id = ?", seasonID).
		Count(&count).Error
	return count, err
}

func (r *rosterRepo) ActiveMusicians(ctx context.Context, seasonID string) ([]model.Musician, error) {
	var list []model.Musician
	err := activeWithUser(r.db.WithContext(ctx)).Preload("User").
		Joins("JOIN season_musicians ON season_musicians.musician_id = musicians.musician_id").
		Where("season_musicians.season_id = ?", seasonID).
		Find(&list).Error
	return list, err
}

func (r *rosterRepo) ActiveUserIDs(ctx context.Context, seasonID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Musician{}).
		Joins("JOIN season_musicians ON season_musicians.musician_id = musicians.musician_id").
		Where("season_musicians.season_id = ? AND musicians.active = ?", seasonID, true).
		Pluck("musicians.user_id", &ids).Error
	return ids, err
}

func (r *rosterRepo) DeleteBySeason(ctx context.Context, seasonID string) error {
	return r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Delete(&model.SeasonMusician{}).Error
}

func (r *rosterRepo) DeleteByMusician(ctx context.Context, musicianID string) error {
	return r.db.WithContext(ctx).
		Where("musician_id = ?", musicianID).
		Delete(&model.SeasonMusician{}).Error
}
