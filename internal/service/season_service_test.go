package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/testutil"
)

func newSeasonService(t *testing.T) (*seasonService, *gorm.DB) {
	t.Helper()
	repo, db := setupRepo(t)
	return NewSeasonService(repo, nop).(*seasonService), db
}

func activeCount(t *testing.T, svc *seasonService) int {
	t.Helper()
	active, err := svc.repo.Season.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	return len(active)
}

func TestSeasonService_Create(t *testing.T) {
	svc, _ := newSeasonService(t)
	ctx := context.Background()

	got, err := svc.Create(ctx, &dto.CreateSeasonRequest{
		Name: "2024/2025", StartDate: "2024-09-01", EndDate: "2025-06-30",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.IsActive {
		t.Error("new season should not be active unless requested")
	}
	if got.StartDate != "2024-09-01" || got.EndDate != "2025-06-30" {
		t.Errorf("dates = %s..%s", got.StartDate, got.EndDate)
	}

	_, err = svc.Create(ctx, &dto.CreateSeasonRequest{
		Name: "2024/2025", StartDate: "2025-09-01", EndDate: "2026-06-30",
	})
	if !errors.Is(err, ErrSeasonNameTaken) {
		t.Errorf("duplicate name: want ErrSeasonNameTaken, got %v", err)
	}
}

func TestSeasonService_Create_InvalidDates(t *testing.T) {
	svc, _ := newSeasonService(t)

	tests := []struct {
		name  string
		start string
		end   string
		field string
	}{
		{"end before start", "2025-06-30", "2024-09-01", "end_date"},
		{"same day", "2024-09-01", "2024-09-01", "end_date"},
		{"bad start", "01.09.2024", "2025-06-30", "start_date"},
		{"bad end", "2024-09-01", "June", "end_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &dto.CreateSeasonRequest{
				Name: tt.name, StartDate: tt.start, EndDate: tt.end,
			})
			if !errors.Is(err, ErrSeasonDateInvalid) {
				t.Fatalf("want ErrSeasonDateInvalid, got %v", err)
			}
			appErr, _ := asBusiness(err)
			if _, ok := appErr.Fields[tt.field]; !ok {
				t.Errorf("want field %q in %v", tt.field, appErr.Fields)
			}
		})
	}
}

func TestSeasonService_SingleActive(t *testing.T) {
	svc, _ := newSeasonService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, &dto.CreateSeasonRequest{
		Name: "2023/2024", StartDate: "2023-09-01", EndDate: "2024-06-30", IsActive: true,
	})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := svc.Create(ctx, &dto.CreateSeasonRequest{
		Name: "2024/2025", StartDate: "2024-09-01", EndDate: "2025-06-30", IsActive: true,
	})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if !b.IsActive {
		t.Fatal("b should be active")
	}
	if n := activeCount(t, svc); n != 1 {
		t.Fatalf("active seasons = %d, want 1", n)
	}

	if _, err := svc.SetActive(ctx, a.ID); err != nil {
		t.Fatalf("SetActive(a): %v", err)
	}
	if n := activeCount(t, svc); n != 1 {
		t.Fatalf("after SetActive: active seasons = %d, want 1", n)
	}
	cur, err := svc.GetCurrent(ctx)
	if err != nil {
		t.Fatalf("GetCurrent: %v", err)
	}
	if cur.ID != a.ID {
		t.Errorf("current = %s, want %s", cur.Name, "2023/2024")
	}

	// Activating through Update behaves the same as SetActive.
	if _, err := svc.Update(ctx, b.ID, &dto.UpdateSeasonRequest{IsActive: ptr(true)}); err != nil {
		t.Fatalf("Update(is_active): %v", err)
	}
	if n := activeCount(t, svc); n != 1 {
		t.Fatalf("after Update: active seasons = %d, want 1", n)
	}
	cur, _ = svc.GetCurrent(ctx)
	if cur.ID != b.ID {
		t.Errorf("current = %s, want 2024/2025", cur.Name)
	}
}

func TestSeasonService_GetCurrent_NoneActive(t *testing.T) {
	svc, db := newSeasonService(t)
	testutil.CreateSeason(t, db, "2024/2025", "2024-09-01", "2025-06-30", false)

	if _, err := svc.GetCurrent(context.Background()); !errors.Is(err, ErrNoCurrentSeason) {
		t.Errorf("want ErrNoCurrentSeason, got %v", err)
	}
}

func TestSeasonService_GetCurrent_ComputedPerRequest(t *testing.T) {
	svc, db := newSeasonService(t)
	s := testutil.CreateSeason(t, db, "2024/2025", "2024-09-01", "2025-06-30", true)

	for _, today := range []string{"2024-10-01", "2026-01-01"} {
		svc.now = func() time.Time { return testutil.Date(t, today) }
		cur, err := svc.GetCurrent(context.Background())
		if err != nil {
			t.Fatalf("GetCurrent(%s): %v", today, err)
		}
		if cur.ID != s.SeasonID {
			t.Errorf("GetCurrent(%s) = %s", today, cur.Name)
		}
	}
}

func TestSeasonService_Delete_Cascades(t *testing.T) {
	svc, db := newSeasonService(t)
	ctx := context.Background()

	season := testutil.CreateSeason(t, db, "2024/2025", "2024-09-01", "2025-06-30", true)
	user, m := testutil.CreateMusician(t, db, "anna", "Anna", "Nowak", "flet")
	ev := testutil.CreateEvent(t, db, season.SeasonID, "Próba", "2024-10-01", model.EventTypeRehearsal)
	db.Create(&model.SeasonMusician{SeasonID: season.SeasonID, MusicianID: m.MusicianID})
	db.Create(&model.AttendanceRecord{UserID: user.UserID, EventID: ev.EventID, Present: 1})

	resp, err := svc.Delete(ctx, season.SeasonID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if resp.Warning == "" {
		t.Error("deleting the active season should warn")
	}

	if n := countRows(t, db, &model.Event{}, "season_id = ?", season.SeasonID); n != 0 {
		t.Errorf("events left: %d", n)
	}
	if n := countRows(t, db, &model.AttendanceRecord{}, "event_id = ?", ev.EventID); n != 0 {
		t.Errorf("records left: %d", n)
	}
	if n := countRows(t, db, &model.SeasonMusician{}, "season_id = ?", season.SeasonID); n != 0 {
		t.Errorf("roster rows left: %d", n)
	}
	if n := countRows(t, db, &model.Musician{}, "musician_id = ?", m.MusicianID); n != 1 {
		t.Error("musician must survive season deletion")
	}

	if _, err := svc.Delete(ctx, season.SeasonID); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("second delete: want ErrSeasonNotFound, got %v", err)
	}
}

func TestSeasonService_Get_Detail(t *testing.T) {
	svc, db := newSeasonService(t)

	season := testutil.CreateSeason(t, db, "2024/2025", "2024-09-01", "2025-06-30", true)
	user, m := testutil.CreateMusician(t, db, "anna", "Anna", "Nowak", "flet")
	ev := testutil.CreateEvent(t, db, season.SeasonID, "Próba", "2024-10-01", model.EventTypeRehearsal)
	db.Create(&model.SeasonMusician{SeasonID: season.SeasonID, MusicianID: m.MusicianID})
	db.Create(&model.AttendanceRecord{UserID: user.UserID, EventID: ev.EventID, Present: 0.5})

	got, err := svc.Get(context.Background(), season.SeasonID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.EventsCount != 1 || got.MusiciansCount != 1 {
		t.Errorf("counts = %d events, %d musicians", got.EventsCount, got.MusiciansCount)
	}
	if got.Stats.AttendanceRate != 50 {
		t.Errorf("rate = %v, want 50", got.Stats.AttendanceRate)
	}
}

func TestSeasonService_MalformedID(t *testing.T) {
	svc, _ := newSeasonService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, "42"); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("Get: got %v", err)
	}
	if _, err := svc.Update(ctx, "42", &dto.UpdateSeasonRequest{}); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("Update: got %v", err)
	}
	if _, err := svc.SetActive(ctx, "42"); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("SetActive: got %v", err)
	}
	if _, err := svc.Delete(ctx, "42"); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("Delete: got %v", err)
	}
}
