package service

import (
	"context"
	"fmt"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"oragh/backend/config"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// CalendarService publishes a season's events as an iCalendar feed that
// members can subscribe to.
type CalendarService interface {
	SeasonCalendar(ctx context.Context, seasonID string) ([]byte, string, error)
}

type calendarService struct {
	repo     *repository.Repository
	siteName string
	logger   *zap.Logger
}

// NewCalendarService creates a CalendarService.
func NewCalendarService(repo *repository.Repository, cfg *config.Config, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, siteName: cfg.App.SiteName, logger: logger}
}

var eventTypeLabels = map[string]string{
	model.EventTypeConcert:    "Koncert",
	model.EventTypeRehearsal:  "Próba",
	model.EventTypeSoundcheck: "Próba akustyczna",
}

// SeasonCalendar renders every event of the season as an all day VEVENT.
// UIDs are stable across exports so calendar clients update in place.
func (s *calendarService) SeasonCalendar(ctx context.Context, seasonID string) ([]byte, string, error) {
	season, err := loadSeason(ctx, s.repo, s.logger, seasonID)
	if err != nil {
		return nil, "", err
	}
	events, err := s.repo.Event.ListBySeason(ctx, seasonID, "", 0)
	if err != nil {
		s.logger.Error("list season events failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(fmt.Sprintf("-//%s//Season calendar//PL", s.siteName))
	cal.SetXWRCalName(fmt.Sprintf("%s %s", s.siteName, season.Name))

	for i := range events {
		ev := &events[i]
		vevent := cal.AddEvent(ev.EventID + "@" + s.siteName)
		vevent.SetSummary(ev.Name)
		vevent.SetAllDayStartAt(ev.Date)
		vevent.SetAllDayEndAt(ev.Date.AddDate(0, 0, 1))
		vevent.SetDtStampTime(ev.UpdatedAt)
		vevent.SetCreatedTime(ev.CreatedAt)
		vevent.SetModifiedAt(ev.UpdatedAt)
		if label, ok := eventTypeLabels[ev.Type]; ok {
			vevent.SetDescription(label)
			vevent.AddProperty(ics.ComponentPropertyCategories, ev.Type)
		}
	}

	s.logger.Debug("season calendar rendered",
		zap.String("season_id", seasonID), zap.Int("events", len(events)))

	return []byte(cal.Serialize()), fmt.Sprintf("%s.ics", fileSafe(season.Name)), nil
}
