package model

import "gorm.io/gorm"

// Attendance values. 0.5 is meant for rehearsals but is not restricted.
const (
	PresentAbsent = 0.0
	PresentHalf   = 0.5
	PresentFull   = 1.0
)

// ValidPresent reports whether v is one of the three attendance values.
func ValidPresent(v float64) bool {
	return v == PresentAbsent || v == PresentHalf || v == PresentFull
}

// AttendanceRecord is one account's participation in one event.
type AttendanceRecord struct {
	AttendanceID string  `gorm:"type:uuid;primaryKey"                                      json:"attendance_id"`
	UserID       string  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_event,priority:1" json:"user_id"`
	EventID      string  `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_user_event,priority:2;index" json:"event_id"`
	Present      float64 `gorm:"type:numeric(2,1);not null;default:0"                      json:"present"`
	MarkedBy     *string `gorm:"type:uuid"                                                 json:"marked_by,omitempty"`
	BaseModel

	User   *User  `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
	Event  *Event `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
	Marker *User  `gorm:"foreignKey:MarkedBy;references:UserID" json:"marker,omitempty"`
}

func (AttendanceRecord) TableName() string { return "attendance_records" }

func (a *AttendanceRecord) BeforeCreate(*gorm.DB) error {
	ensureID(&a.AttendanceID)
	return nil
}
