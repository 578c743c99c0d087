package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// AttendanceService attendance ledger: the season grid, marking and statistics.
type AttendanceService interface {
	// Grid builds the dense musicians x events matrix of a season. When the
	// season roster is empty every active musician is listed instead and the
	// response is flagged with RosterFallback.
	Grid(ctx context.Context, seasonID string, req *dto.GridRequest) (*dto.GridResponse, error)
	// Mark upserts attendance values for one event. Unknown user ids are
	// reported in Skipped rather than failing the request.
	Mark(ctx context.Context, eventID string, entries []dto.MarkAttendanceEntry, markedBy string) (*dto.MarkAttendanceResponse, error)
	EventStats(ctx context.Context, eventID string) (*dto.StatsResponse, error)
	SeasonStats(ctx context.Context, seasonID string) (*dto.SeasonStatsResponse, error)
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

// ════════════════════════════════════════
// Grid
// ════════════════════════════════════════

type cellKey struct {
	userID  string
	eventID string
}

func (s *attendanceService) Grid(ctx context.Context, seasonID string, req *dto.GridRequest) (*dto.GridResponse, error) {
	season, err := loadSeason(ctx, s.repo, s.logger, seasonID)
	if err != nil {
		return nil, err
	}
	eventType, err := normalizeEventTypeFilter(req.EventType)
	if err != nil {
		return nil, err
	}

	// 1. events
	events, err := s.repo.Event.ListBySeason(ctx, seasonID, eventType, req.Month)
	if err != nil {
		s.logger.Error("grid: load events failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}

	// 2. roster, falling back to every active musician
	musicians, err := s.repo.Roster.ActiveMusicians(ctx, seasonID)
	if err != nil {
		s.logger.Error("grid: load roster failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}
	fallback := len(musicians) == 0
	if fallback {
		musicians, err = s.repo.Musician.AllActive(ctx)
		if err != nil {
			s.logger.Error("grid: load musicians failed", zap.Error(err))
			return nil, err
		}
	}

	// 3. records
	eventIDs := make([]string, 0, len(events))
	for _, e := range events {
		eventIDs = append(eventIDs, e.EventID)
	}
	records, err := s.repo.Attendance.ListByEventIDs(ctx, eventIDs)
	if err != nil {
		s.logger.Error("grid: load records failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}
	index := make(map[cellKey]*model.AttendanceRecord, len(records))
	for i := range records {
		index[cellKey{records[i].UserID, records[i].EventID}] = &records[i]
	}

	// 4. sections and cells
	sections := SectionBy(musicians)
	gridSections := make([]dto.GridSection, 0, len(sections))
	for _, sec := range sections {
		rows := make([]dto.GridRow, 0, len(sec.Musicians))
		for i := range sec.Musicians {
			m := &sec.Musicians[i]
			row := dto.GridRow{
				Musician: toMusicianResponse(m),
				Cells:    make([]dto.GridCell, 0, len(events)),
			}
			if brief := toUserBrief(m.User); brief != nil {
				row.User = *brief
			}
			for _, e := range events {
				c := dto.GridCell{EventID: e.EventID, Present: model.PresentAbsent}
				if rec, ok := index[cellKey{m.UserID, e.EventID}]; ok {
					id := rec.AttendanceID
					c.Present = rec.Present
					c.AttendanceID = &id
				}
				row.Cells = append(row.Cells, c)
			}
			rows = append(rows, row)
		}
		gridSections = append(gridSections, dto.GridSection{SectionName: sec.Name, Rows: rows})
	}

	if fallback {
		s.logger.Debug("grid: season roster empty, listing all active musicians", zap.String("season_id", seasonID))
	}
	return &dto.GridResponse{
		Season:         toSeasonResponse(season),
		Events:         toEventResponses(events),
		Sections:       gridSections,
		RosterFallback: fallback,
	}, nil
}

// ════════════════════════════════════════
// Mark
// ════════════════════════════════════════

func (s *attendanceService) Mark(ctx context.Context, eventID string, entries []dto.MarkAttendanceEntry, markedBy string) (*dto.MarkAttendanceResponse, error) {
	for i, e := range entries {
		if e.Present == nil || !model.ValidPresent(*e.Present) {
			return nil, ErrInvalidAttendanceValue.WithField(
				fmt.Sprintf("attendances[%d].present", i), "Must be 0.0, 0.5 or 1.0")
		}
	}

	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	// Later entries for the same user win.
	values := make(map[string]float64, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, seen := values[e.UserID]; !seen {
			order = append(order, e.UserID)
		}
		values[e.UserID] = *e.Present
	}

	wellFormed, _ := splitIDs(order)
	known, err := s.repo.User.ExistingIDs(ctx, wellFormed)
	if err != nil {
		s.logger.Error("resolve users failed", zap.Error(err))
		return nil, err
	}
	knownSet := make(map[string]struct{}, len(known))
	for _, id := range known {
		knownSet[id] = struct{}{}
	}

	resp := &dto.MarkAttendanceResponse{Skipped: []string{}}
	userIDs := make([]string, 0, len(known))
	for _, id := range order {
		if _, ok := knownSet[id]; ok {
			userIDs = append(userIDs, id)
		} else {
			resp.Skipped = append(resp.Skipped, id)
		}
	}
	if len(userIDs) == 0 {
		return resp, nil
	}

	var marker *string
	if markedBy != "" {
		marker = &markedBy
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Attendance.MarkedUserIDs(ctx, eventID, userIDs)
		if err != nil {
			return err
		}
		resp.Updated = len(existing)
		resp.Created = len(userIDs) - len(existing)

		records := make([]model.AttendanceRecord, 0, len(userIDs))
		for _, id := range userIDs {
			records = append(records, model.AttendanceRecord{
				UserID:   id,
				EventID:  eventID,
				Present:  values[id],
				MarkedBy: marker,
			})
		}
		return tx.Attendance.Upsert(ctx, records)
	})
	if err != nil {
		s.logger.Error("mark attendance failed", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}

	if len(resp.Skipped) > 0 {
		s.logger.Warn("mark attendance skipped unknown users",
			zap.String("event_id", eventID),
			zap.Strings("skipped", resp.Skipped),
		)
	}
	return resp, nil
}

// ensureEvent checks the event exists.
func (s *attendanceService) ensureEvent(ctx context.Context, eventID string) error {
	if !validID(eventID) {
		return ErrEventNotFound
	}
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if repository.IsNotFound(err) {
			return ErrEventNotFound
		}
		s.logger.Error("load event failed", zap.String("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

// ════════════════════════════════════════
// Statistics & records
// ════════════════════════════════════════

func (s *attendanceService) EventStats(ctx context.Context, eventID string) (*dto.StatsResponse, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	values, err := s.repo.Attendance.PresentValuesByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("event stats failed", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	st := computeStats(values)
	return &st, nil
}

func (s *attendanceService) SeasonStats(ctx context.Context, seasonID string) (*dto.SeasonStatsResponse, error) {
	if _, err := loadSeason(ctx, s.repo, s.logger, seasonID); err != nil {
		return nil, err
	}
	return seasonStats(ctx, s.repo, s.logger, seasonID)
}

// seasonStats aggregates every record of the season's events.
func seasonStats(ctx context.Context, repo *repository.Repository, logger *zap.Logger, seasonID string) (*dto.SeasonStatsResponse, error) {
	events, err := repo.Event.CountBySeason(ctx, seasonID)
	if err != nil {
		logger.Error("count season events failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}
	values, err := repo.Attendance.PresentValuesBySeason(ctx, seasonID)
	if err != nil {
		logger.Error("season stats failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}
	return &dto.SeasonStatsResponse{
		StatsResponse: computeStats(values),
		TotalEvents:   events,
	}, nil
}

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error) {
	switch req.Type {
	case "", repository.RecordTypePresent, repository.RecordTypeAbsent, repository.RecordTypeHalf, repository.RecordTypeFull:
	default:
		return nil, 0, ErrInvalidRecordType.WithField("type", "Unknown record type")
	}

	for _, id := range []string{req.UserID, req.EventID, req.SeasonID} {
		if id != "" && !validID(id) {
			return []dto.AttendanceResponse{}, 0, nil
		}
	}

	records, total, err := s.repo.Attendance.List(ctx, repository.AttendanceFilter{
		UserID:   req.UserID,
		EventID:  req.EventID,
		SeasonID: req.SeasonID,
		Type:     req.Type,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list attendance failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		out = append(out, toAttendanceResponse(&records[i]))
	}
	return out, total, nil
}
