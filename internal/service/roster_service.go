package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// RosterService season membership.
type RosterService interface {
	// AddMusicians puts active musicians on the roster and backfills absent
	// records for every existing event of the season.
	AddMusicians(ctx context.Context, seasonID string, musicianIDs []string) (*dto.AddMusiciansResponse, error)
	// RemoveMusicians takes musicians off the roster and deletes their
	// records for this season's events. Irreversible.
	RemoveMusicians(ctx context.Context, seasonID string, musicianIDs []string) (*dto.RemoveMusiciansResponse, error)
	Sections(ctx context.Context, seasonID string) ([]dto.SectionResponse, error)
	Available(ctx context.Context, seasonID string) ([]dto.MusicianResponse, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRosterService creates a RosterService.
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ────────────────────── Add ──────────────────────

func (s *rosterService) AddMusicians(ctx context.Context, seasonID string, musicianIDs []string) (*dto.AddMusiciansResponse, error) {
	musicianIDs = dedupe(musicianIDs)
	if len(musicianIDs) == 0 {
		return nil, ErrNoMusiciansGiven
	}
	if _, err := loadSeason(ctx, s.repo, s.logger, seasonID); err != nil {
		return nil, err
	}

	musicianIDs, _ = splitIDs(musicianIDs)
	if len(musicianIDs) == 0 {
		return nil, ErrNoActiveMusicians
	}
	musicians, err := s.repo.Musician.ActiveByIDs(ctx, musicianIDs)
	if err != nil {
		s.logger.Error("load musicians failed", zap.Error(err))
		return nil, err
	}
	if len(musicians) == 0 {
		return nil, ErrNoActiveMusicians
	}

	resp := &dto.AddMusiciansResponse{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		activeIDs := make([]string, 0, len(musicians))
		for _, m := range musicians {
			activeIDs = append(activeIDs, m.MusicianID)
		}
		existing, err := tx.Roster.MemberIDs(ctx, seasonID, activeIDs)
		if err != nil {
			return err
		}
		onRoster := make(map[string]struct{}, len(existing))
		for _, id := range existing {
			onRoster[id] = struct{}{}
		}

		var newIDs, newUserIDs []string
		for _, m := range musicians {
			if _, ok := onRoster[m.MusicianID]; ok {
				continue
			}
			newIDs = append(newIDs, m.MusicianID)
			newUserIDs = append(newUserIDs, m.UserID)
		}
		if len(newIDs) == 0 {
			return ErrMusiciansAlreadyAdded
		}

		added, err := tx.Roster.Add(ctx, seasonID, newIDs)
		if err != nil {
			return err
		}
		eventIDs, err := tx.Event.IDsBySeason(ctx, seasonID)
		if err != nil {
			return err
		}
		created, err := tx.Attendance.CreateAbsent(ctx, newUserIDs, eventIDs)
		if err != nil {
			return err
		}
		total, err := tx.Roster.Count(ctx, seasonID)
		if err != nil {
			return err
		}

		resp.Added = int(added)
		resp.AttendanceRecordsCreated = created
		resp.TotalMusicians = total
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrMusiciansAlreadyAdded) {
			return nil, err
		}
		s.logger.Error("add musicians failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}

	resp.Message = fmt.Sprintf("Added %d musicians to the season, created %d attendance records.",
		resp.Added, resp.AttendanceRecordsCreated)
	s.logger.Info("roster extended",
		zap.String("season_id", seasonID),
		zap.Int("added", resp.Added),
		zap.Int64("records_created", resp.AttendanceRecordsCreated),
	)
	return resp, nil
}

// ────────────────────── Remove ──────────────────────

func (s *rosterService) RemoveMusicians(ctx context.Context, seasonID string, musicianIDs []string) (*dto.RemoveMusiciansResponse, error) {
	musicianIDs = dedupe(musicianIDs)
	if len(musicianIDs) == 0 {
		return nil, ErrNoMusiciansGiven
	}
	if _, err := loadSeason(ctx, s.repo, s.logger, seasonID); err != nil {
		return nil, err
	}

	musicianIDs, _ = splitIDs(musicianIDs)

	resp := &dto.RemoveMusiciansResponse{}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		members, err := tx.Roster.MemberIDs(ctx, seasonID, musicianIDs)
		if err != nil {
			return err
		}
		userIDs, err := tx.Musician.UserIDs(ctx, members)
		if err != nil {
			return err
		}

		deleted, err := tx.Attendance.DeleteForSeasonUsers(ctx, seasonID, userIDs)
		if err != nil {
			return err
		}
		removed, err := tx.Roster.Remove(ctx, seasonID, members)
		if err != nil {
			return err
		}
		total, err := tx.Roster.Count(ctx, seasonID)
		if err != nil {
			return err
		}

		resp.Removed = int(removed)
		resp.AttendanceRecordsDeleted = deleted
		resp.TotalMusicians = total
		return nil
	})
	if err != nil {
		s.logger.Error("remove musicians failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}

	resp.Message = fmt.Sprintf("Removed %d musicians from the season and permanently deleted %d attendance records.",
		resp.Removed, resp.AttendanceRecordsDeleted)
	s.logger.Warn("roster reduced",
		zap.String("season_id", seasonID),
		zap.Int("removed", resp.Removed),
		zap.Int64("records_deleted", resp.AttendanceRecordsDeleted),
	)
	return resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *rosterService) Sections(ctx context.Context, seasonID string) ([]dto.SectionResponse, error) {
	if _, err := loadSeason(ctx, s.repo, s.logger, seasonID); err != nil {
		return nil, err
	}
	musicians, err := s.repo.Roster.ActiveMusicians(ctx, seasonID)
	if err != nil {
		s.logger.Error("load roster failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}

	sections := SectionBy(musicians)
	out := make([]dto.SectionResponse, 0, len(sections))
	for _, sec := range sections {
		out = append(out, dto.SectionResponse{
			SectionName: sec.Name,
			Musicians:   toMusicianResponses(sec.Musicians),
		})
	}
	return out, nil
}

func (s *rosterService) Available(ctx context.Context, seasonID string) ([]dto.MusicianResponse, error) {
	if _, err := loadSeason(ctx, s.repo, s.logger, seasonID); err != nil {
		return nil, err
	}
	musicians, err := s.repo.Musician.AvailableForSeason(ctx, seasonID)
	if err != nil {
		s.logger.Error("load available musicians failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, err
	}
	return toMusicianResponses(musicians), nil
}

func toMusicianResponses(musicians []model.Musician) []dto.MusicianResponse {
	out := make([]dto.MusicianResponse, 0, len(musicians))
	for i := range musicians {
		out = append(out, toMusicianResponse(&musicians[i]))
	}
	return out
}
