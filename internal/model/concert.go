package model

import (
	"time"

	"gorm.io/gorm"
)

// Concert statuses.
const (
	ConcertPlanned   = "planned"
	ConcertConfirmed = "confirmed"
	ConcertCompleted = "completed"
	ConcertCancelled = "cancelled"
)

// ValidConcertStatus reports whether s is a known concert status.
func ValidConcertStatus(s string) bool {
	switch s {
	case ConcertPlanned, ConcertConfirmed, ConcertCompleted, ConcertCancelled:
		return true
	}
	return false
}

// Concert is a performance musicians sign up for themselves, independent of
// the season attendance ledger.
type Concert struct {
	ConcertID   string    `gorm:"type:uuid;primaryKey"                        json:"concert_id"`
	Name        string    `gorm:"type:varchar(100);not null"                  json:"name"`
	Date        time.Time `gorm:"type:date;not null;index"                    json:"date"`
	Location    string    `gorm:"type:varchar(200);not null;default:''"       json:"location"`
	Description string    `gorm:"type:text;not null;default:''"               json:"description"`
	Setlist     string    `gorm:"type:text;not null;default:''"               json:"setlist"`
	Status      string    `gorm:"type:varchar(20);not null;default:'planned';index" json:"status"`
	CreatedBy   *string   `gorm:"type:uuid;index"                             json:"created_by,omitempty"`
	BaseModel

	Creator *User `gorm:"foreignKey:CreatedBy;references:UserID" json:"creator,omitempty"`
}

func (Concert) TableName() string { return "concerts" }

func (c *Concert) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ConcertID)
	return nil
}

// OpenForRegistration reports whether musicians may still sign up.
func (c *Concert) OpenForRegistration() bool {
	return c.Status == ConcertPlanned || c.Status == ConcertConfirmed
}

// ConcertParticipant is one sign-up row.
type ConcertParticipant struct {
	ConcertID  string    `gorm:"type:uuid;primaryKey" json:"concert_id"`
	MusicianID string    `gorm:"type:uuid;primaryKey" json:"musician_id"`
	CreatedAt  time.Time `gorm:"not null"             json:"created_at"`
}

func (ConcertParticipant) TableName() string { return "concert_participants" }
