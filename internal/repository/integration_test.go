//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
	"oragh/backend/pkg/database"
)

// ════════════════════════════════════════
// Test setup
// ════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=oragh password=oragh dbname=oragh_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "database handle: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func createSeason(t *testing.T, active bool) *model.Season {
	t.Helper()
	s := &model.Season{
		Name:      uniqueName("season"),
		StartDate: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  active,
	}
	if err := testDB.Create(s).Error; err != nil {
		t.Fatalf("create season: %v", err)
	}
	t.Cleanup(func() { testDB.Where("season_id = ?", s.SeasonID).Delete(&model.Season{}) })
	return s
}

// ════════════════════════════════════════
// Single active season
// ════════════════════════════════════════

func TestSeasons_PartialUniqueIndexRejectsSecondActive(t *testing.T) {
	testDB.Model(&model.Season{}).Where("is_active").Update("is_active", false)
	createSeason(t, true)

	second := &model.Season{
		Name:      uniqueName("season"),
		StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:  true,
	}
	err := repository.NewRepository(testDB).Season.Create(context.Background(), second)
	if err == nil {
		testDB.Where("season_id = ?", second.SeasonID).Delete(&model.Season{})
		t.Fatal("expected a unique violation for a second active season")
	}
	if !repository.IsDuplicate(err) {
		t.Errorf("expected IsDuplicate, got %v", err)
	}
}

func TestSeasons_CheckConstraintRejectsReversedDates(t *testing.T) {
	s := &model.Season{
		Name:      uniqueName("season"),
		StartDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := testDB.Create(s).Error; err == nil {
		testDB.Where("season_id = ?", s.SeasonID).Delete(&model.Season{})
		t.Fatal("expected the start < end check to fail")
	}
}

// ════════════════════════════════════════
// Attendance upsert
// ════════════════════════════════════════

func TestAttendance_UpsertAndCreateAbsentOnPostgres(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	season := createSeason(t, false)

	user := &model.User{
		Username:     uniqueName("user"),
		Email:        uniqueName("mail") + "@example.com",
		FirstName:    "Anna",
		LastName:     "Nowak",
		PasswordHash: "x",
		IsActive:     true,
		Groups:       model.StringArray{"musician"},
	}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { testDB.Where("user_id = ?", user.UserID).Delete(&model.User{}) })

	event := &model.Event{
		Name:     "Koncert",
		Date:     time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
		Type:     model.EventTypeConcert,
		SeasonID: season.SeasonID,
	}
	if err := repo.Event.Create(ctx, event); err != nil {
		t.Fatalf("create event: %v", err)
	}

	created, err := repo.Attendance.CreateAbsent(ctx, []string{user.UserID}, []string{event.EventID})
	if err != nil || created != 1 {
		t.Fatalf("CreateAbsent: created=%d err=%v", created, err)
	}
	created, err = repo.Attendance.CreateAbsent(ctx, []string{user.UserID}, []string{event.EventID})
	if err != nil || created != 0 {
		t.Fatalf("second CreateAbsent must insert nothing: created=%d err=%v", created, err)
	}

	if err := repo.Attendance.Upsert(ctx, []model.AttendanceRecord{
		{UserID: user.UserID, EventID: event.EventID, Present: model.PresentHalf},
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	values, err := repo.Attendance.PresentValuesByEvent(ctx, event.EventID)
	if err != nil {
		t.Fatalf("PresentValuesByEvent: %v", err)
	}
	if len(values) != 1 || values[0] != model.PresentHalf {
		t.Errorf("expected [0.5], got %v", values)
	}

	// Deleting the user cascades to the record.
	if err := repo.User.Delete(ctx, user.UserID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	values, _ = repo.Attendance.PresentValuesByEvent(ctx, event.EventID)
	if len(values) != 0 {
		t.Errorf("records must cascade with their account, got %v", values)
	}
}

// ════════════════════════════════════════
// Transactions
// ════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewRepository(testDB)
	season := createSeason(t, false)

	var eventID string
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		e := &model.Event{
			Name:     "Próba",
			Date:     time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
			Type:     model.EventTypeRehearsal,
			SeasonID: season.SeasonID,
		}
		if err := tx.Event.Create(ctx, e); err != nil {
			return err
		}
		eventID = e.EventID
		return fmt.Errorf("abort")
	})
	if err == nil {
		t.Fatal("expected the transaction error to surface")
	}
	if _, err := repo.Event.GetByID(ctx, eventID); !repository.IsNotFound(err) {
		t.Errorf("rolled back event must not exist, got %v", err)
	}
}
