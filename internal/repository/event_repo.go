package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"oragh/backend/internal/model"
)

// EventFilter narrows List. Every set field applies conjunctively.
type EventFilter struct {
	SeasonID string
	Type     string
	DateFrom *time.Time
	DateTo   *time.Time
	Month    int
	Search   string
	Offset   int
	Limit    int
}

// EventRepository event data access.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f EventFilter) ([]model.Event, int64, error)
	// ListBySeason returns the season's events by (date, created_at).
	// An empty eventType or month 0 disables that filter.
	ListBySeason(ctx context.Context, seasonID, eventType string, month int) ([]model.Event, error)
	IDsBySeason(ctx context.Context, seasonID string) ([]string, error)
	CountBySeason(ctx context.Context, seasonID string) (int64, error)
	DeleteBySeason(ctx context.Context, seasonID string) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository.
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Omit("Season", "Creator").Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Season").
		Preload("Creator").
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Omit("Season", "Creator").Save(event).Error
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.Event{}).Error
}

func (r *eventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, int64, error) {
	db := r.db.WithContext(ctx)
	q := db.Model(&model.Event{})
	if f.SeasonID != "" {
		q = q.Where("season_id = ?", f.SeasonID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.DateFrom != nil {
		q = q.Where("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("date <= ?", *f.DateTo)
	}
	if f.Month > 0 {
		q = q.Where(monthOf(db, "date")+" = ?", f.Month)
	}
	if f.Search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(f.Search))
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []model.Event
	q = q.Preload("Season").Preload("Creator").Order("date, created_at")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepo) ListBySeason(ctx context.Context, seasonID, eventType string, month int) ([]model.Event, error) {
	db := r.db.WithContext(ctx)
	q := db.Where("season_id = ?", seasonID)
	if eventType != "" {
		q = q.Where("type = ?", eventType)
	}
	if month > 0 {
		q = q.Where(monthOf(db, "date")+" = ?", month)
	}
	var events []model.Event
	err := q.Order("date, created_at").Find(&events).Error
	return events, err
}

func (r *eventRepo) IDsBySeason(ctx context.Context, seasonID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("season_id = ?", seasonID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *eventRepo) CountBySeason(ctx context.Context, seasonID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("season_id = ?", seasonID).
		Count(&count).Error
	return count, err
}

func (r *eventRepo) DeleteBySeason(ctx context.Context, seasonID string) error {
	return r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Delete(&model.Event{}).Error
}
