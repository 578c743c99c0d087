package model

import (
	"time"

	"gorm.io/gorm"
)

// Musician is the orchestra profile of an account. Inactive musicians are
// excluded from rosters and grids but keep their history.
type Musician struct {
	MusicianID string     `gorm:"type:uuid;primaryKey"             json:"musician_id"`
	UserID     string     `gorm:"type:uuid;not null;unique"        json:"user_id"`
	Instrument string     `gorm:"type:varchar(20);not null"        json:"instrument"`
	Birthday   *time.Time `gorm:"type:date"                        json:"birthday,omitempty"`
	PhotoRef   *string    `gorm:"type:varchar(255)"                json:"photo_ref,omitempty"`
	Active     bool       `gorm:"not null;default:true"            json:"active"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (Musician) TableName() string { return "musicians" }

func (m *Musician) BeforeCreate(*gorm.DB) error {
	ensureID(&m.MusicianID)
	return nil
}
