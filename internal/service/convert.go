package service

import (
	"time"

	"github.com/google/uuid"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

// parseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func parseDate(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, s)
}

// validID reports whether id is a well formed UUID. Every primary key is
// one, so a malformed id can never name a row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// splitIDs separates well formed ids from malformed ones, keeping order.
func splitIDs(ids []string) (valid, invalid []string) {
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		} else {
			invalid = append(invalid, id)
		}
	}
	return valid, invalid
}

func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:        u.UserID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
	}
}

func toMusicianResponse(m *model.Musician) dto.MusicianResponse {
	resp := dto.MusicianResponse{
		ID:         m.MusicianID,
		UserID:     m.UserID,
		Instrument: m.Instrument,
		PhotoRef:   m.PhotoRef,
		Active:     m.Active,
		User:       toUserBrief(m.User),
	}
	if m.Birthday != nil {
		b := formatDate(*m.Birthday)
		resp.Birthday = &b
	}
	return resp
}

func toUserResponse(u *model.User) dto.UserResponse {
	groups := []string(u.Groups)
	if groups == nil {
		groups = []string{}
	}
	resp := dto.UserResponse{
		ID:          u.UserID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		Groups:      groups,
		DateJoined:  formatTime(u.CreatedAt),
	}
	if u.Musician != nil {
		m := toMusicianResponse(u.Musician)
		resp.Musician = &m
	}
	return resp
}

func toSeasonResponse(s *model.Season) dto.SeasonResponse {
	return dto.SeasonResponse{
		ID:        s.SeasonID,
		Name:      s.Name,
		StartDate: formatDate(s.StartDate),
		EndDate:   formatDate(s.EndDate),
		IsActive:  s.IsActive,
		CreatedAt: formatTime(s.CreatedAt),
		UpdatedAt: formatTime(s.UpdatedAt),
	}
}

func toEventResponse(e *model.Event) dto.EventResponse {
	resp := dto.EventResponse{
		ID:        e.EventID,
		Name:      e.Name,
		Date:      formatDate(e.Date),
		Type:      e.Type,
		SeasonID:  e.SeasonID,
		CreatedBy: toUserBrief(e.Creator),
		CreatedAt: formatTime(e.CreatedAt),
		UpdatedAt: formatTime(e.UpdatedAt),
	}
	if e.Season != nil {
		resp.SeasonName = e.Season.Name
	}
	return resp
}

func toEventResponses(events []model.Event) []dto.EventResponse {
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, toEventResponse(&events[i]))
	}
	return out
}

func toAttendanceResponse(a *model.AttendanceRecord) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:        a.AttendanceID,
		UserID:    a.UserID,
		User:      toUserBrief(a.User),
		EventID:   a.EventID,
		Present:   a.Present,
		MarkedBy:  toUserBrief(a.Marker),
		CreatedAt: formatTime(a.CreatedAt),
		UpdatedAt: formatTime(a.UpdatedAt),
	}
	if a.Event != nil {
		resp.EventName = a.Event.Name
	}
	return resp
}
