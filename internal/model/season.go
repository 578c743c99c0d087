package model

import (
	"time"

	"gorm.io/gorm"
)

// Season scopes events and roster membership. At most one season is active.
type Season struct {
	SeasonID  string    `gorm:"type:uuid;primaryKey"                                                 json:"season_id"`
	Name      string    `gorm:"type:varchar(100);not null;unique"                                    json:"name"`
	StartDate time.Time `gorm:"type:date;not null"                                                   json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                                                   json:"end_date"`
	IsActive  bool      `gorm:"not null;default:false;index:idx_seasons_single_active,unique,where:is_active" json:"is_active"`
	BaseModel
}

func (Season) TableName() string { return "seasons" }

func (s *Season) BeforeCreate(*gorm.DB) error {
	ensureID(&s.SeasonID)
	return nil
}

// Contains reports whether day falls within [StartDate, EndDate].
func (s *Season) Contains(day time.Time) bool {
	d := day.Format(DateLayout)
	return d >= s.StartDate.Format(DateLayout) && d <= s.EndDate.Format(DateLayout)
}

// SeasonMusician is one roster row.
type SeasonMusician struct {
	SeasonID   string    `gorm:"type:uuid;primaryKey" json:"season_id"`
	MusicianID string    `gorm:"type:uuid;primaryKey" json:"musician_id"`
	CreatedAt  time.Time `gorm:"not null"             json:"created_at"`
}

func (SeasonMusician) TableName() string { return "season_musicians" }

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"
