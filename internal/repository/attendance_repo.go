package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oragh/backend/internal/model"
)

// Record list type filters.
const (
	RecordTypePresent = "present"
	RecordTypeAbsent  = "absent"
	RecordTypeHalf    = "half"
	RecordTypeFull    = "full"
)

// AttendanceFilter narrows List.
type AttendanceFilter struct {
	UserID   string
	EventID  string
	SeasonID string
	Type     string
	Offset   int
	Limit    int
}

// AttendanceRepository attendance record data access.
type AttendanceRepository interface {
	// CreateAbsent inserts a 0.0 record for every (user, event) pair that has
	// none and returns the number inserted. Existing records are left alone.
	CreateAbsent(ctx context.Context, userIDs, eventIDs []string) (int64, error)
	// Upsert inserts records or overwrites present, marked_by and updated_at
	// on (user_id, event_id) conflict.
	Upsert(ctx context.Context, records []model.AttendanceRecord) error
	// MarkedUserIDs returns which of userIDs already have a record for the event.
	MarkedUserIDs(ctx context.Context, eventID string, userIDs []string) ([]string, error)
	ListByEventIDs(ctx context.Context, eventIDs []string) ([]model.AttendanceRecord, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.AttendanceRecord, error)
	List(ctx context.Context, f AttendanceFilter) ([]model.AttendanceRecord, int64, error)
	PresentValuesByEvent(ctx context.Context, eventID string) ([]float64, error)
	PresentValuesBySeason(ctx context.Context, seasonID string) ([]float64, error)
	// DeleteForSeasonUsers removes the users' records for this season's events only.
	DeleteForSeasonUsers(ctx context.Context, seasonID string, userIDs []string) (int64, error)
	DeleteByEvent(ctx context.Context, eventID string) error
	DeleteBySeason(ctx context.Context, seasonID string) error
	DeleteByUser(ctx context.Context, userID string) error
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

const attendanceBatchSize = 200

func (r *attendanceRepo) seasonEvents(seasonID string) *gorm.DB {
	return r.db.Model(&model.Event{}).Select("event_id").Where("season_id = ?", seasonID)
}

func (r *attendanceRepo) CreateAbsent(ctx context.Context, userIDs, eventIDs []string) (int64, error) {
	if len(userIDs) == 0 || len(eventIDs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	records := make([]model.AttendanceRecord, 0, len(userIDs)*len(eventIDs))
	for _, userID := range userIDs {
		for _, eventID := range eventIDs {
			records = append(records, model.AttendanceRecord{
				UserID:    userID,
				EventID:   eventID,
				Present:   model.PresentAbsent,
				BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
			})
		}
	}
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		CreateInBatches(&records, attendanceBatchSize)
	return res.RowsAffected, res.Error
}

func (r *attendanceRepo) Upsert(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"present", "marked_by", "updated_at"}),
		}).
		CreateInBatches(&records, attendanceBatchSize).Error
}

func (r *attendanceRepo) MarkedUserIDs(ctx context.Context, eventID string, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("event_id = ? AND user_id IN ?", eventID, userIDs).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *attendanceRepo) ListByEventIDs(ctx context.Context, eventIDs []string) ([]model.AttendanceRecord, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListByEvent(ctx context.Context, eventID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Marker").
		Joins("JOIN users ON users.user_id = attendance_records.user_id").
		Where("attendance_records.event_id = ?", eventID).
		Order("users.last_name, users.first_name").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) List(ctx context.Context, f AttendanceFilter) ([]model.AttendanceRecord, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.AttendanceRecord{})
	if f.UserID != "" {
		q = q.Where("attendance_records.user_id = ?", f.UserID)
	}
	if f.EventID != "" {
		q = q.Where("attendance_records.event_id = ?", f.EventID)
	}
	if f.SeasonID != "" {
		q = q.Where("attendance_records.event_id IN (?)", r.seasonEvents(f.SeasonID))
	}
	switch f.Type {
	case RecordTypePresent:
		q = q.Where("attendance_records.present > ?", 0)
	case RecordTypeAbsent:
		q = q.Where("attendance_records.present = ?", model.PresentAbsent)
	case RecordTypeHalf:
		q = q.Where("attendance_records.present = ?", model.PresentHalf)
	case RecordTypeFull:
		q = q.Where("attendance_records.present = ?", model.PresentFull)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.AttendanceRecord
	q = q.Preload("User").Preload("Event").Preload("Marker").
		Order("attendance_records.updated_at DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *attendanceRepo) PresentValuesByEvent(ctx context.Context, eventID string) ([]float64, error) {
	var values []float64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("event_id = ?", eventID).
		Pluck("present", &values).Error
	return values, err
}

func (r *attendanceRepo) PresentValuesBySeason(ctx context.Context, seasonID string) ([]float64, error) {
	var values []float64
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("event_id IN (?)", r.seasonEvents(seasonID)).
		Pluck("present", &values).Error
	return values, err
}

func (r *attendanceRepo) DeleteForSeasonUsers(ctx context.Context, seasonID string, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id IN ? AND event_id IN (?)", userIDs, r.seasonEvents(seasonID)).
		Delete(&model.AttendanceRecord{})
	return res.RowsAffected, res.Error
}

func (r *attendanceRepo) DeleteByEvent(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.AttendanceRecord{}).Error
}

func (r *attendanceRepo) DeleteBySeason(ctx context.Context, seasonID string) error {
	return r.db.WithContext(ctx).
		Where("event_id IN (?)", r.seasonEvents(seasonID)).
		Delete(&model.AttendanceRecord{}).Error
}

func (r *attendanceRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AttendanceRecord{}).Error
}
