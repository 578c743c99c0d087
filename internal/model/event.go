package model

import (
	"time"

	"gorm.io/gorm"
)

// Event types.
const (
	EventTypeConcert    = "concert"
	EventTypeRehearsal  = "rehearsal"
	EventTypeSoundcheck = "soundcheck"
)

// ValidEventType reports whether t is a known event type.
func ValidEventType(t string) bool {
	switch t {
	case EventTypeConcert, EventTypeRehearsal, EventTypeSoundcheck:
		return true
	}
	return false
}

// Event is a dated activity of one season.
type Event struct {
	EventID   string    `gorm:"type:uuid;primaryKey"               json:"event_id"`
	Name      string    `gorm:"type:varchar(200);not null"         json:"name"`
	Date      time.Time `gorm:"type:date;not null"                 json:"date"`
	Type      string    `gorm:"type:varchar(20);not null"          json:"type"`
	SeasonID  string    `gorm:"type:uuid;not null;index"           json:"season_id"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	BaseModel

	Season  *Season `gorm:"foreignKey:SeasonID;references:SeasonID" json:"season,omitempty"`
	Creator *User   `gorm:"foreignKey:CreatedBy;references:UserID"  json:"creator,omitempty"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(*gorm.DB) error {
	ensureID(&e.EventID)
	return nil
}
