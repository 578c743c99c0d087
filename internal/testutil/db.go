// Package testutil provides in-memory databases for repository and service tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"oragh/backend/internal/model"
)

// Models lists every table in migration order.
var Models = []interface{}{
	&model.User{},
	&model.Musician{},
	&model.ActivationToken{},
	&model.Season{},
	&model.SeasonMusician{},
	&model.Event{},
	&model.AttendanceRecord{},
	&model.Directory{},
	&model.Post{},
	&model.Comment{},
	&model.Concert{},
	&model.ConcertParticipant{},
}

// NewDB opens a private in-memory SQLite database with every table migrated.
// A single connection keeps the shared-cache database alive for the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(Models...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Date parses a YYYY-MM-DD literal as UTC midnight.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// CreateMusician inserts an active account with a musician profile.
func CreateMusician(t *testing.T, db *gorm.DB, username, first, last, instrument string) (*model.User, *model.Musician) {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    first,
		LastName:     last,
		PasswordHash: "x",
		IsActive:     true,
		Groups:       model.StringArray{"musician"},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	m := &model.Musician{UserID: user.UserID, Instrument: instrument, Active: true}
	if err := db.Omit("User").Create(m).Error; err != nil {
		t.Fatalf("create musician %s: %v", username, err)
	}
	user.Musician = m
	return user, m
}

// CreateSeason inserts a season.
func CreateSeason(t *testing.T, db *gorm.DB, name, start, end string, active bool) *model.Season {
	t.Helper()
	s := &model.Season{Name: name, StartDate: Date(t, start), EndDate: Date(t, end), IsActive: active}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("create season %s: %v", name, err)
	}
	return s
}

// CreateEvent inserts an event without attendance backfill.
func CreateEvent(t *testing.T, db *gorm.DB, seasonID, name, date, eventType string) *model.Event {
	t.Helper()
	e := &model.Event{SeasonID: seasonID, Name: name, Date: Date(t, date), Type: eventType}
	if err := db.Omit("Season", "Creator").Create(e).Error; err != nil {
		t.Fatalf("create event %s: %v", name, err)
	}
	return e
}
