package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
	"oragh/backend/internal/testutil"
)

type attendanceFixture struct {
	db         *gorm.DB
	repo       *repository.Repository
	attendance AttendanceService
	events     EventService
	roster     RosterService
}

func setupAttendance(t *testing.T) *attendanceFixture {
	t.Helper()
	repo, db := setupRepo(t)
	return &attendanceFixture{
		db:         db,
		repo:       repo,
		attendance: NewAttendanceService(repo, nop),
		events:     NewEventService(repo, nop),
		roster:     NewRosterService(repo, nop),
	}
}

func gridCells(t *testing.T, grid *dto.GridResponse) map[string][]dto.GridCell {
	t.Helper()
	out := make(map[string][]dto.GridCell)
	for _, sec := range grid.Sections {
		for _, row := range sec.Rows {
			out[row.User.Username] = row.Cells
		}
	}
	return out
}

// A season with two roster musicians and one rehearsal: the event backfills
// two absent records, marking sets A=1.0 and B=0.5, the grid shows both and
// the event rate is their mean.
func TestAttendance_SeasonScenario(t *testing.T) {
	f := setupAttendance(t)
	ctx := context.Background()

	season := testutil.CreateSeason(t, f.db, "2024/2025", "2024-09-01", "2025-06-30", true)
	userA, a := testutil.CreateMusician(t, f.db, "a", "Adam", "Adamski", "flet")
	userB, b := testutil.CreateMusician(t, f.db, "b", "Beata", "Bąk", "trąbka")

	if _, err := f.roster.AddMusicians(ctx, season.SeasonID, []string{a.MusicianID, b.MusicianID}); err != nil {
		t.Fatalf("AddMusicians: %v", err)
	}

	ev, err := f.events.Create(ctx, &dto.CreateEventRequest{
		Name: "Próba", Date: "2024-10-01", Type: model.EventTypeRehearsal, SeasonID: season.SeasonID,
	}, "")
	if err != nil {
		t.Fatalf("Create event: %v", err)
	}
	if n := countRows(t, f.db, &model.AttendanceRecord{}, "event_id = ?", ev.ID); n != 2 {
		t.Fatalf("backfilled records = %d, want 2", n)
	}

	marked, err := f.attendance.Mark(ctx, ev.ID, []dto.MarkAttendanceEntry{
		{UserID: userA.UserID, Present: ptr(1.0)},
		{UserID: userB.UserID, Present: ptr(0.5)},
	}, "")
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if marked.Created != 0 || marked.Updated != 2 || len(marked.Skipped) != 0 {
		t.Errorf("mark result = %+v", marked)
	}

	grid, err := f.attendance.Grid(ctx, season.SeasonID, &dto.GridRequest{})
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	cells := gridCells(t, grid)
	if got := cells["a"][0].Present; got != 1.0 {
		t.Errorf("A = %v, want 1.0", got)
	}
	if got := cells["b"][0].Present; got != 0.5 {
		t.Errorf("B = %v, want 0.5", got)
	}

	stats, err := f.attendance.EventStats(ctx, ev.ID)
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}
	if stats.AttendanceRate != 75.0 {
		t.Errorf("event rate = %v, want 75.0", stats.AttendanceRate)
	}
}

func TestAttendance_Grid_Dense(t *testing.T) {
	f := setupAttendance(t)
	season := testutil.CreateSeason(t, f.db, "2024/2025", "2024-09-01", "2025-06-30", true)
	u1, m1 := testutil.CreateMusician(t, f.db, "u1", "Ala", "A", "flet")
	_, m2 := testutil.CreateMusician(t, f.db, "u2", "Ola", "B", "tuba")
	_, m3 := testutil.CreateMusician(t, f.db, "u3", "Ela", "C", "")
	for _, m := range []*model.Musician{m1, m2, m3} {
		f.db.Create(&model.SeasonMusician{SeasonID: season.SeasonID, MusicianID: m.MusicianID})
	}
	e1 := testutil.CreateEvent(t, f.db, season.SeasonID, "Próba 1", "2024-10-01", model.EventTypeRehearsal)
	testutil.CreateEvent(t, f.db, season.SeasonID, "Koncert", "2024-12-15", model.EventTypeConcert)
	f.db.Create(&model.AttendanceRecord{UserID: u1.UserID, EventID: e1.EventID, Present: 1})

	grid, err := f.attendance.Grid(context.Background(), season.SeasonID, &dto.GridRequest{})
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if grid.RosterFallback {
		t.Error("roster is not empty, fallback must be off")
	}
	if len(grid.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(grid.Events))
	}

	rows := 0
	for _, sec := range grid.Sections {
		for _, row := range sec.Rows {
			rows++
			if len(row.Cells) != 2 {
				t.Errorf("%s has %d cells, want 2", row.User.Username, len(row.Cells))
			}
			for i, c := range row.Cells {
				if c.EventID != grid.Events[i].ID {
					t.Errorf("cell %d of %s is out of event order", i, row.User.Username)
				}
			}
		}
	}
	if rows != 3 {
		t.Fatalf("rows = %d, want 3", rows)
	}

	cells := gridCells(t, grid)
	if c := cells["u1"][0]; c.Present != 1 || c.AttendanceID == nil {
		t.Errorf("recorded cell = %+v", c)
	}
	if c := cells["u2"][1]; c.Present != 0 || c.AttendanceID != nil {
		t.Errorf("missing record should read absent with no id, got %+v", c)
	}

	names := make([]string, 0, len(grid.Sections))
	for _, sec := range grid.Sections {
		names = append(names, sec.SectionName)
	}
	if len(names) != 3 || names[0] != "Flet" || names[1] != "Tuba" || names[2] != OtherSection {
		t.Errorf("sections = %v", names)
	}
}

func TestAttendance_Grid_RosterFallback(t *testing.T) {
	f := setupAttendance(t)
	season := testutil.CreateSeason(t, f.db, "2024/2025", "2024-09-01", "2025-06-30", true)
	testutil.CreateMusician(t, f.db, "u1", "Ala", "A", "flet")
	testutil.CreateMusician(t, f.db, "u2", "Ola", "B", "tuba")
	_, gone := testutil.CreateMusician(t, f.db, "u3", "Ela", "C", "fagot")
	f.db.Model(&model.Musician{}).Where("musician_id = ?", gone.MusicianID).Update("active", false)

	grid, err := f.attendance.Grid(context.Background(), season.SeasonID, &dto.GridRequest{})
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if !grid.RosterFallback {
		t.Error("empty roster should fall back to all active musicians")
	}
	cells := gridCells(t, grid)
	if len(cells) != 2 {
		t.Errorf("rows = %d, want 2 active musicians", len(cells))
	}
	if _, ok := cells["u3"]; ok {
		t.Error("inactive musician must not appear")
	}
}

func TestAttendance_Grid_Filters(t *testing.T) {
	f := setupAttendance(t)
	season := testutil.CreateSeason(t, f.db, "2024/2025", "2024-09-01", "2025-06-30", true)
	testutil.CreateMusician(t, f.db, "u1", "Ala", "A", "flet")
	testutil.CreateEvent(t, f.db, season.SeasonID, "Próba", "2024-10-01", model.EventTypeRehearsal)
	testutil.CreateEvent(t, f.db, season.SeasonID, "Próba 2", "2024-11-05", model.EventTypeRehearsal)
	testutil.CreateEvent(t, f.db, season.SeasonID, "Koncert", "2024-11-20", model.EventTypeConcert)

	tests := []struct {
		name string
		req  dto.GridRequest
		want int
	}{
		{"all", dto.GridRequest{EventType: "all"}, 3},
		{"rehearsals", dto.GridRequest{EventType: model.EventTypeRehearsal}, 2},
		{"november", dto.GridRequest{Month: 11}, 2},
		{"november concerts", dto.GridRequest{EventType: model.EventTypeConcert, Month: 11}, 1},
		{"december", dto.GridRequest{Month: 12}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := f.attendance.Grid(context.Background(), season.SeasonID, &tt.req)
			if err != nil {
				t.Fatalf("Grid: %v", err)
			}
			if len(grid.Events) != tt.want {
				t.Errorf("events = %d, want %d", len(grid.Events), tt.want)
			}
		})
	}

	if _, err := f.attendance.Grid(context.Background(), season.SeasonID, &dto.GridRequest{EventType: "party"}); !errors.Is(err, ErrInvalidEventType) {
		t.Errorf("unknown type: want ErrInvalidEventType, got %v", err)
	}
	if _, err := f.attendance.Grid(context.Background(), "missing", &dto.GridRequest{}); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("unknown season: want ErrSeasonNotFound, got %v", err)
	}
}

func TestAttendance_Mark(t *testing.T) {
	f := setupAttendance(t)
	ctx := context.Background()
	season := testutil.CreateSeason(t, f.db, "2024/2025", "2024-09-01", "2025-06-30", true)
	u1, _ := testutil.CreateMusician(t, f.db, "u1", "Ala", "A", "flet")
	u2, _ := testutil.CreateMusician(t, f.db, "u2", "Ola", "B", "tuba")
	ev := testutil.CreateEvent(t, f.db, season.SeasonID, "Próba", "2024-10-01", model.EventTypeRehearsal)

	t.Run("invalid value rejects the whole batch", func(t *testing.T) {
		_, err := f.attendance.Mark(ctx, ev.EventID, []dto.MarkAttendanceEntry{
			{UserID: u1.UserID, Present: ptr(1.0)},
			{UserID: u2.UserID, Present: ptr(0.7)},
		}, "")
		if !errors.Is(err, ErrInvalidAttendanceValue) {
			t.Fatalf("want ErrInvalidAttendanceValue, got %v", err)
		}
		appErr, _ := asBusiness(err)
		if _, ok := appErr.Fields["attendances[1].present"]; !ok {
			t.Errorf("fields = %v", appErr.Fields)
		}
		if n := countRows(t, f.db, &model.AttendanceRecord{}, "event_id = ?", ev.EventID); n != 0 {
			t.Errorf("nothing should be written, found %d", n)
		}
	})

	t.Run("unknown users are skipped", func(t *testing.T) {
		got, err := f.attendance.Mark(ctx, ev.EventID, []dto.MarkAttendanceEntry{
			{UserID: u1.UserID, Present: ptr(0.0)},
			{UserID: "ghost", Present: ptr(1.0)},
			{UserID: u1.UserID, Present: ptr(0.5)},
		}, u2.UserID)
		if err != nil {
			t.Fatalf("Mark: %v", err)
		}
		if got.Created != 1 || got.Updated != 0 {
			t.Errorf("created=%d updated=%d", got.Created, got.Updated)
		}
		if len(got.Skipped) != 1 || got.Skipped[0] != "ghost" {
			t.Errorf("skipped = %v", got.Skipped)
		}

		var rec model.AttendanceRecord
		f.db.Where("user_id = ? AND event_id = ?", u1.UserID, ev.EventID).First(&rec)
		if rec.Present != 0.5 {
			t.Errorf("later entry should win, present = %v", rec.Present)
		}
		if rec.MarkedBy == nil || *rec.MarkedBy != u2.UserID {
			t.Errorf("marked_by = %v", rec.MarkedBy)
		}
	})

	t.Run("upsert keeps one record", func(t *testing.T) {
		got, err := f.attendance.Mark(ctx, ev.EventID, []dto.MarkAttendanceEntry{
			{UserID: u1.UserID, Present: ptr(1.0)},
		}, "")
		if err != nil {
			t.Fatalf("Mark: %v", err)
		}
		if got.Updated != 1 || got.Created != 0 {
			t.Errorf("result = %+v", got)
		}
		if n := countRows(t, f.db, &model.AttendanceRecord{}, "user_id = ? AND event_id = ?", u1.UserID, ev.EventID); n != 1 {
			t.Errorf("records = %d, want 1", n)
		}
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := f.attendance.Mark(ctx, "missing", []dto.MarkAttendanceEntry{
			{UserID: u1.UserID, Present: ptr(1.0)},
		}, "")
		if !errors.Is(err, ErrEventNotFound) {
			t.Errorf("want ErrEventNotFound, got %v", err)
		}
	})
}

// Malformed ids must resolve like unknown ones; on PostgreSQL they would
// otherwise reach a uuid column and fail the query.
func TestAttendance_MalformedIDs(t *testing.T) {
	f := setupAttendance(t)
	ctx := context.Background()
	season := testutil.CreateSeason(t, f.db, "2024/2025", "2024-09-01", "2025-06-30", true)
	u1, _ := testutil.CreateMusician(t, f.db, "u1", "Ala", "A", "flet")
	ev := testutil.CreateEvent(t, f.db, season.SeasonID, "Próba", "2024-10-01", model.EventTypeRehearsal)
	stranger := uuid.NewString()

	got, err := f.attendance.Mark(ctx, ev.EventID, []dto.MarkAttendanceEntry{
		{UserID: "42", Present: ptr(1.0)},
		{UserID: u1.UserID, Present: ptr(1.0)},
		{UserID: stranger, Present: ptr(0.5)},
	}, "")
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if got.Created != 1 || len(got.Skipped) != 2 || got.Skipped[0] != "42" || got.Skipped[1] != stranger {
		t.Errorf("result = %+v", got)
	}

	if _, err := f.attendance.Mark(ctx, "42", []dto.MarkAttendanceEntry{
		{UserID: "42", Present: ptr(0.7)},
	}, ""); !errors.Is(err, ErrInvalidAttendanceValue) {
		t.Errorf("values are validated before ids, got %v", err)
	}
	if _, err := f.attendance.Mark(ctx, "42", []dto.MarkAttendanceEntry{
		{UserID: u1.UserID, Present: ptr(1.0)},
	}, ""); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Mark on malformed event: got %v", err)
	}
	if _, err := f.attendance.EventStats(ctx, "42"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("EventStats: got %v", err)
	}
	if _, err := f.attendance.Grid(ctx, "42", &dto.GridRequest{}); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("Grid: got %v", err)
	}
	if _, err := f.attendance.SeasonStats(ctx, "42"); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("SeasonStats: got %v", err)
	}
	if _, err := f.events.Get(ctx, "42"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("event Get: got %v", err)
	}
	if err := f.events.Delete(ctx, "42"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("event Delete: got %v", err)
	}
	if _, err := f.roster.Sections(ctx, "42"); !errors.Is(err, ErrSeasonNotFound) {
		t.Errorf("Sections: got %v", err)
	}
	if _, err := f.roster.AddMusicians(ctx, season.SeasonID, []string{"42"}); !errors.Is(err, ErrNoActiveMusicians) {
		t.Errorf("AddMusicians: got %v", err)
	}

	list, total, err := f.attendance.List(ctx, &dto.AttendanceListRequest{UserID: "42"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(list) != 0 {
		t.Errorf("malformed filter should match nothing, got %d", total)
	}
	events, total, err := f.events.List(ctx, &dto.EventListRequest{SeasonID: "42"})
	if err != nil {
		t.Fatalf("event List: %v", err)
	}
	if total != 0 || len(events) != 0 {
		t.Errorf("malformed season filter should match nothing, got %d", total)
	}
}

func TestAttendance_SeasonStatsAndList(t *testing.T) {
	f := setupAttendance(t)
	ctx := context.Background()
	season := testutil.CreateSeason(t, f.db, "2024/2025", "2024-09-01", "2025-06-30", true)
	u1, _ := testutil.CreateMusician(t, f.db, "u1", "Ala", "A", "flet")
	e1 := testutil.CreateEvent(t, f.db, season.SeasonID, "Próba", "2024-10-01", model.EventTypeRehearsal)
	e2 := testutil.CreateEvent(t, f.db, season.SeasonID, "Próba 2", "2024-10-08", model.EventTypeRehearsal)
	f.db.Create(&model.AttendanceRecord{UserID: u1.UserID, EventID: e1.EventID, Present: 1})
	f.db.Create(&model.AttendanceRecord{UserID: u1.UserID, EventID: e2.EventID, Present: 0})

	stats, err := f.attendance.SeasonStats(ctx, season.SeasonID)
	if err != nil {
		t.Fatalf("SeasonStats: %v", err)
	}
	if stats.TotalEvents != 2 || stats.Total != 2 || stats.AttendanceRate != 50 {
		t.Errorf("stats = %+v", stats)
	}

	list, total, err := f.attendance.List(ctx, &dto.AttendanceListRequest{SeasonID: season.SeasonID, Type: "absent"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].EventID != e2.EventID {
		t.Errorf("absent records = %d (%+v)", total, list)
	}
}
