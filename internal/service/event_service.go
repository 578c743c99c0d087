package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// EventService event registry.
type EventService interface {
	// Create stores the event and backfills absent records for active roster members.
	Create(ctx context.Context, req *dto.CreateEventRequest, createdBy string) (*dto.EventResponse, error)
	Get(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	SeasonEvents(ctx context.Context, seasonID, eventType string, month int) ([]dto.EventResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, id string) error
	Attendances(ctx context.Context, id string) ([]dto.AttendanceResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService creates an EventService.
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

func (s *eventService) load(ctx context.Context, id string) (*model.Event, error) {
	if !validID(id) {
		return nil, ErrEventNotFound
	}
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("load event failed", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, createdBy string) (*dto.EventResponse, error) {
	if !model.ValidEventType(req.Type) {
		return nil, ErrInvalidEventType.WithField("type", "Unknown event type")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidEventDate.WithField("date", "Use YYYY-MM-DD")
	}
	season, err := loadSeason(ctx, s.repo, s.logger, req.SeasonID)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		Name:     req.Name,
		Date:     date,
		Type:     req.Type,
		SeasonID: season.SeasonID,
	}
	if createdBy != "" {
		event.CreatedBy = &createdBy
	}

	var backfilled int64
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Event.Create(ctx, event); err != nil {
			return err
		}
		userIDs, err := tx.Roster.ActiveUserIDs(ctx, season.SeasonID)
		if err != nil {
			return err
		}
		backfilled, err = tx.Attendance.CreateAbsent(ctx, userIDs, []string{event.EventID})
		return err
	})
	if err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("event created",
		zap.String("event_id", event.EventID),
		zap.String("season_id", season.SeasonID),
		zap.Int64("records_created", backfilled),
	)
	event.Season = season
	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *eventService) Get(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	filter := repository.EventFilter{
		SeasonID: req.SeasonID,
		Type:     req.Type,
		Month:    req.Month,
		Search:   req.Search,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	}
	if req.Type != "" && !model.ValidEventType(req.Type) {
		return nil, 0, ErrInvalidEventType.WithField("type", "Unknown event type")
	}
	if req.DateFrom != "" {
		from, err := parseDate(req.DateFrom)
		if err != nil {
			return nil, 0, ErrInvalidEventDate.WithField("date_from", "Use YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := parseDate(req.DateTo)
		if err != nil {
			return nil, 0, ErrInvalidEventDate.WithField("date_to", "Use YYYY-MM-DD")
		}
		filter.DateTo = &to
	}

	if req.SeasonID != "" && !validID(req.SeasonID) {
		return []dto.EventResponse{}, 0, nil
	}

	events, total, err := s.repo.Event.List(ctx, filter)
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return nil, 0, err
	}
	return toEventResponses(events), total, nil
}

func (s *eventService) SeasonEvents(ctx context.Context, seasonID, eventType string, month int) ([]dto.EventResponse, error) {
	if _, err := loadSeason(ctx, s.repo, s.logger, seasonID); err != nil {
		return nil, err
	}
	eventType, err := normalizeEventTypeFilter(eventType)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.Event.ListBySeason(ctx, seasonID, eventType, month)
	if err != nil {
		s.logger.Error("list season events failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}
	return toEventResponses(events), nil
}

// normalizeEventTypeFilter treats "" and "all" as no filter.
func normalizeEventTypeFilter(t string) (string, error) {
	if t == "" || t == "all" {
		return "", nil
	}
	if !model.ValidEventType(t) {
		return "", ErrInvalidEventType.WithField("event_type", "Unknown event type")
	}
	return t, nil
}

// ────────────────────── Update / Delete ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, ErrInvalidEventDate.WithField("date", "Use YYYY-MM-DD")
		}
		event.Date = date
	}
	if req.Type != nil {
		if !model.ValidEventType(*req.Type) {
			return nil, ErrInvalidEventType.WithField("type", "Unknown event type")
		}
		event.Type = *req.Type
	}

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("update event failed", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrEventNotFound
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Event.GetByID(ctx, id); err != nil {
			if repository.IsNotFound(err) {
				return ErrEventNotFound
			}
			return err
		}
		if err := tx.Attendance.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		return tx.Event.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return err
		}
		s.logger.Error("delete event failed", zap.String("event_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("event deleted", zap.String("event_id", id))
	return nil
}

func (s *eventService) Attendances(ctx context.Context, id string) ([]dto.AttendanceResponse, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.repo.Attendance.ListByEvent(ctx, id)
	if err != nil {
		s.logger.Error("list event attendance failed", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	out := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		out = append(out, toAttendanceResponse(&records[i]))
	}
	return out, nil
}
