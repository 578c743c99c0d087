package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"oragh/backend/internal/access"
	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/testutil"
)

type concertFixture struct {
	svc      ConcertService
	board    access.Principal
	anna     access.Principal
	ola      access.Principal
	noProfil access.Principal
}

func setupConcerts(t *testing.T) *concertFixture {
	t.Helper()
	repo, db := setupRepo(t)
	boardUser := createAccount(t, db, "prezes", "password123", true)
	anna, _ := testutil.CreateMusician(t, db, "anna", "Anna", "Nowak", "flet")
	ola, _ := testutil.CreateMusician(t, db, "ola", "Ola", "Kowal", "tuba")
	return &concertFixture{
		svc:      NewConcertService(repo, nop),
		board:    access.Principal{UserID: boardUser.UserID, Groups: []string{access.GroupBoard}},
		anna:     access.Principal{UserID: anna.UserID, Groups: []string{access.GroupMusician}},
		ola:      access.Principal{UserID: ola.UserID, Groups: []string{access.GroupMusician}},
		noProfil: access.Principal{UserID: boardUser.UserID, Groups: []string{access.GroupMusician}},
	}
}

func (f *concertFixture) create(t *testing.T, name, date string) *dto.ConcertResponse {
	t.Helper()
	c, err := f.svc.Create(context.Background(), f.board, &dto.CreateConcertRequest{
		Name: name, Date: date, Location: "Aula AGH",
	})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return c
}

func TestConcert_ManageIsBoardOnly(t *testing.T) {
	f := setupConcerts(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.anna, &dto.CreateConcertRequest{Name: "x", Date: "2025-05-01"}); !errors.Is(err, ErrConcertManageRequired) {
		t.Errorf("musician create: got %v", err)
	}
	if _, err := f.svc.Create(ctx, f.board, &dto.CreateConcertRequest{Name: "x", Date: "01.05.2025"}); !errors.Is(err, ErrInvalidConcertDate) {
		t.Errorf("bad date: got %v", err)
	}

	c := f.create(t, "Koncert noworoczny", "2025-01-10")
	if c.Status != model.ConcertPlanned || c.CreatedBy == nil || c.CreatedBy.Username != "prezes" || !c.CanEdit {
		t.Errorf("created = %+v", c)
	}

	if _, err := f.svc.Update(ctx, f.anna, c.ID, &dto.UpdateConcertRequest{Name: ptr("y")}); !errors.Is(err, ErrConcertManageRequired) {
		t.Errorf("musician update: got %v", err)
	}
	updated, err := f.svc.Update(ctx, f.board, c.ID, &dto.UpdateConcertRequest{
		Status: ptr(model.ConcertConfirmed), Setlist: ptr("Dvořák: IX Symfonia"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != model.ConcertConfirmed || updated.Setlist != "Dvořák: IX Symfonia" {
		t.Errorf("updated = %+v", updated)
	}
	if _, err := f.svc.Update(ctx, f.board, c.ID, &dto.UpdateConcertRequest{Status: ptr("postponed")}); !errors.Is(err, ErrInvalidConcertStatus) {
		t.Errorf("bad status: got %v", err)
	}

	if err := f.svc.Delete(ctx, f.anna, c.ID); !errors.Is(err, ErrConcertManageRequired) {
		t.Errorf("musician delete: got %v", err)
	}
	if _, err := f.svc.Register(ctx, f.anna, c.ID, dto.ConcertActionRegister); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := f.svc.Delete(ctx, f.board, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.anna, c.ID); !errors.Is(err, ErrConcertNotFound) {
		t.Errorf("deleted concert: got %v", err)
	}
	if _, err := f.svc.Get(ctx, f.anna, "42"); !errors.Is(err, ErrConcertNotFound) {
		t.Errorf("malformed id: got %v", err)
	}

	if !f.svc.Permissions(f.board).CanCreate || f.svc.Permissions(f.anna).CanCreate {
		t.Error("only the board can create concerts")
	}
}

func TestConcert_Registration(t *testing.T) {
	f := setupConcerts(t)
	ctx := context.Background()
	c := f.create(t, "Koncert wiosenny", "2025-04-12")

	got, err := f.svc.Register(ctx, f.anna, c.ID, dto.ConcertActionRegister)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !got.IsRegistered || got.ParticipantsCount != 1 {
		t.Errorf("register = %+v", got)
	}
	if _, err := f.svc.Register(ctx, f.anna, c.ID, dto.ConcertActionRegister); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second register: got %v", err)
	}
	if _, err := f.svc.Register(ctx, f.ola, c.ID, dto.ConcertActionUnregister); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("unregister without sign-up: got %v", err)
	}
	if _, err := f.svc.Register(ctx, f.noProfil, c.ID, dto.ConcertActionRegister); !errors.Is(err, ErrConcertNeedsMusician) {
		t.Errorf("no musician profile: got %v", err)
	}
	if _, err := f.svc.Register(ctx, f.anna, c.ID, "maybe"); !errors.Is(err, ErrInvalidConcertAction) {
		t.Errorf("unknown action: got %v", err)
	}
	if _, err := f.svc.Register(ctx, f.anna, "42", dto.ConcertActionRegister); !errors.Is(err, ErrConcertNotFound) {
		t.Errorf("malformed id: got %v", err)
	}

	detail, err := f.svc.Get(ctx, f.anna, c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !detail.IsRegistered || detail.CanEdit || len(detail.Participants) != 1 || detail.Participants[0].User.Username != "anna" {
		t.Errorf("detail for anna = %+v", detail)
	}
	list, _, err := f.svc.List(ctx, f.ola, &dto.ConcertListRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].IsRegistered || list[0].ParticipantsCount != 1 {
		t.Errorf("list for ola = %+v", list)
	}

	// Closed concerts refuse sign-ups but still allow leaving.
	if _, err := f.svc.Update(ctx, f.board, c.ID, &dto.UpdateConcertRequest{Status: ptr(model.ConcertCancelled)}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.Register(ctx, f.ola, c.ID, dto.ConcertActionRegister); !errors.Is(err, ErrRegistrationClosed) {
		t.Errorf("register on cancelled: got %v", err)
	}
	left, err := f.svc.Register(ctx, f.anna, c.ID, dto.ConcertActionUnregister)
	if err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if left.IsRegistered || left.ParticipantsCount != 0 {
		t.Errorf("unregister = %+v", left)
	}

	participants, err := f.svc.Participants(ctx, c.ID)
	if err != nil {
		t.Fatalf("Participants: %v", err)
	}
	if participants.Count != 0 || len(participants.Participants) != 0 {
		t.Errorf("participants = %+v", participants)
	}
}

func TestConcert_ConcurrentRegistrationCountsOnce(t *testing.T) {
	f := setupConcerts(t)
	ctx := context.Background()
	c := f.create(t, "Koncert jesienny", "2025-10-18")

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Register(ctx, f.anna, c.ID, dto.ConcertActionRegister)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, ErrAlreadyRegistered):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("successful registrations = %d, want 1", ok)
	}
	participants, err := f.svc.Participants(ctx, c.ID)
	if err != nil {
		t.Fatalf("Participants: %v", err)
	}
	if participants.Count != 1 {
		t.Errorf("participants = %d, want 1", participants.Count)
	}
}

func TestConcert_ListFilters(t *testing.T) {
	f := setupConcerts(t)
	ctx := context.Background()
	f.create(t, "Koncert noworoczny", "2025-01-10")
	spring := f.create(t, "Koncert wiosenny", "2025-04-12")
	f.create(t, "Koncert jesienny", "2025-10-18")
	if _, err := f.svc.Update(ctx, f.board, spring.ID, &dto.UpdateConcertRequest{Status: ptr(model.ConcertCompleted)}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	tests := []struct {
		name string
		req  dto.ConcertListRequest
		want []string
	}{
		{"all by date", dto.ConcertListRequest{}, []string{"Koncert noworoczny", "Koncert wiosenny", "Koncert jesienny"}},
		{"status", dto.ConcertListRequest{Status: model.ConcertCompleted}, []string{"Koncert wiosenny"}},
		{"range", dto.ConcertListRequest{DateFrom: "2025-02-01", DateTo: "2025-12-31"}, []string{"Koncert wiosenny", "Koncert jesienny"}},
		{"search", dto.ConcertListRequest{Search: "JESIEN"}, []string{"Koncert jesienny"}},
		{"page", dto.ConcertListRequest{PaginationRequest: dto.PaginationRequest{Page: 2, PageSize: 2}}, []string{"Koncert jesienny"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, total, err := f.svc.List(ctx, f.anna, &tt.req)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if tt.name != "page" && int(total) != len(tt.want) {
				t.Errorf("total = %d, want %d", total, len(tt.want))
			}
			if len(list) != len(tt.want) {
				t.Fatalf("got %d concerts, want %d", len(list), len(tt.want))
			}
			for i, name := range tt.want {
				if list[i].Name != name {
					t.Errorf("[%d] = %s, want %s", i, list[i].Name, name)
				}
			}
		})
	}

	if _, _, err := f.svc.List(ctx, f.anna, &dto.ConcertListRequest{Status: "postponed"}); !errors.Is(err, ErrInvalidConcertStatus) {
		t.Errorf("bad status filter: got %v", err)
	}
	if got := (&dto.ConcertListRequest{}).GetPageSize(); got != 10 {
		t.Errorf("default page size = %d", got)
	}
	if got := (&dto.ConcertListRequest{PaginationRequest: dto.PaginationRequest{PageSize: 80}}).GetPageSize(); got != 50 {
		t.Errorf("capped page size = %d", got)
	}
}
