package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// SeasonService season lifecycle. At most one season is active at a time and
// activation always goes through SetActive's transactional path.
type SeasonService interface {
	Create(ctx context.Context, req *dto.CreateSeasonRequest) (*dto.SeasonResponse, error)
	Get(ctx context.Context, id string) (*dto.SeasonDetailResponse, error)
	// GetCurrent picks the active season containing today, else any active season.
	GetCurrent(ctx context.Context) (*dto.SeasonResponse, error)
	List(ctx context.Context, req *dto.SeasonListRequest) ([]dto.SeasonResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateSeasonRequest) (*dto.SeasonResponse, error)
	SetActive(ctx context.Context, id string) (*dto.SeasonResponse, error)
	Delete(ctx context.Context, id string) (*dto.DeleteSeasonResponse, error)
}

type seasonService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewSeasonService creates a SeasonService.
func NewSeasonService(repo *repository.Repository, logger *zap.Logger) SeasonService {
	return &seasonService{repo: repo, logger: logger, now: time.Now}
}

// errActivation marks failures of the activation step so that a unique
// violation there is not mistaken for a duplicate name.
var errActivation = errors.New("season activation")

// loadSeason fetches a season through repo, mapping a missing row.
func loadSeason(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Season, error) {
	if !validID(id) {
		return nil, ErrSeasonNotFound
	}
	season, err := repo.Season.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSeasonNotFound
		}
		logger.Error("load season failed", zap.String("season_id", id), zap.Error(err))
		return nil, err
	}
	return season, nil
}

// ────────────────────── Create ──────────────────────

func (s *seasonService) Create(ctx context.Context, req *dto.CreateSeasonRequest) (*dto.SeasonResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrSeasonDateInvalid.WithField("start_date", "Use YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, ErrSeasonDateInvalid.WithField("end_date", "Use YYYY-MM-DD")
	}
	if !start.Before(end) {
		return nil, ErrSeasonDateInvalid.WithField("end_date", "Must be after start_date")
	}

	taken, err := s.repo.Season.NameTaken(ctx, req.Name, "")
	if err != nil {
		s.logger.Error("check season name failed", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrSeasonNameTaken.WithField("name", "Already exists")
	}

	season := &model.Season{Name: req.Name, StartDate: start, EndDate: end}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Season.Create(ctx, season); err != nil {
			return err
		}
		if !req.IsActive {
			return nil
		}
		activated, err := s.activate(ctx, tx, season.SeasonID)
		if err != nil {
			return err
		}
		season = activated
		return nil
	})
	if err != nil {
		return nil, s.translateWriteError(err, "create season failed")
	}

	s.logger.Info("season created",
		zap.String("season_id", season.SeasonID),
		zap.String("name", season.Name),
		zap.Bool("active", season.IsActive),
	)
	resp := toSeasonResponse(season)
	return &resp, nil
}

// ────────────────────── Read ──────────────────────

func (s *seasonService) Get(ctx context.Context, id string) (*dto.SeasonDetailResponse, error) {
	season, err := loadSeason(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	musicians, err := s.repo.Roster.Count(ctx, id)
	if err != nil {
		s.logger.Error("count roster failed", zap.String("season_id", id), zap.Error(err))
		return nil, err
	}
	stats, err := seasonStats(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	return &dto.SeasonDetailResponse{
		SeasonResponse: toSeasonResponse(season),
		EventsCount:    stats.TotalEvents,
		MusiciansCount: musicians,
		Stats:          *stats,
	}, nil
}

func (s *seasonService) GetCurrent(ctx context.Context) (*dto.SeasonResponse, error) {
	active, err := s.repo.Season.ListActive(ctx)
	if err != nil {
		s.logger.Error("list active seasons failed", zap.Error(err))
		return nil, err
	}
	if len(active) == 0 {
		return nil, ErrNoCurrentSeason
	}

	today := s.now()
	current := &active[0]
	for i := range active {
		if active[i].Contains(today) {
			current = &active[i]
			break
		}
	}
	resp := toSeasonResponse(current)
	return &resp, nil
}

func (s *seasonService) List(ctx context.Context, req *dto.SeasonListRequest) ([]dto.SeasonResponse, int64, error) {
	seasons, total, err := s.repo.Season.List(ctx, repository.SeasonFilter{
		Active: req.Active,
		Search: req.Search,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list seasons failed", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.SeasonResponse, 0, len(seasons))
	for i := range seasons {
		out = append(out, toSeasonResponse(&seasons[i]))
	}
	return out, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *seasonService) Update(ctx context.Context, id string, req *dto.UpdateSeasonRequest) (*dto.SeasonResponse, error) {
	season, err := loadSeason(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != season.Name {
		taken, err := s.repo.Season.NameTaken(ctx, *req.Name, id)
		if err != nil {
			s.logger.Error("check season name failed", zap.Error(err))
			return nil, err
		}
		if taken {
			return nil, ErrSeasonNameTaken.WithField("name", "Already exists")
		}
		season.Name = *req.Name
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, ErrSeasonDateInvalid.WithField("start_date", "Use YYYY-MM-DD")
		}
		season.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrSeasonDateInvalid.WithField("end_date", "Use YYYY-MM-DD")
		}
		season.EndDate = end
	}
	if !season.StartDate.Before(season.EndDate) {
		return nil, ErrSeasonDateInvalid.WithField("end_date", "Must be after start_date")
	}

	activate := req.IsActive != nil && *req.IsActive && !season.IsActive
	if req.IsActive != nil && !*req.IsActive {
		season.IsActive = false
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Season.Update(ctx, season); err != nil {
			return err
		}
		if !activate {
			return nil
		}
		activated, err := s.activate(ctx, tx, id)
		if err != nil {
			return err
		}
		season = activated
		return nil
	})
	if err != nil {
		return nil, s.translateWriteError(err, "update season failed")
	}

	resp := toSeasonResponse(season)
	return &resp, nil
}

// ────────────────────── SetActive ──────────────────────

func (s *seasonService) SetActive(ctx context.Context, id string) (*dto.SeasonResponse, error) {
	var season *model.Season
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		activated, err := s.activate(ctx, tx, id)
		if err != nil {
			return err
		}
		season = activated
		return nil
	})
	if err != nil {
		return nil, s.translateWriteError(err, "activate season failed")
	}

	s.logger.Info("season activated", zap.String("season_id", id))
	resp := toSeasonResponse(season)
	return &resp, nil
}

// activate locks the target, clears every other active flag and sets the
// target's. It must run on a transaction bound repository.
func (s *seasonService) activate(ctx context.Context, tx *repository.Repository, id string) (*model.Season, error) {
	if !validID(id) {
		return nil, ErrSeasonNotFound
	}
	season, err := tx.Season.GetByIDForUpdate(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrSeasonNotFound
		}
		return nil, err
	}
	if err := tx.Season.DeactivateOthers(ctx, id); err != nil {
		return nil, errors.Join(errActivation, err)
	}
	season.IsActive = true
	if err := tx.Season.Update(ctx, season); err != nil {
		return nil, errors.Join(errActivation, err)
	}
	return season, nil
}

// translateWriteError maps unique violations to business errors and logs the rest.
func (s *seasonService) translateWriteError(err error, msg string) error {
	if errors.Is(err, ErrSeasonNotFound) {
		return err
	}
	if repository.IsDuplicate(err) {
		if errors.Is(err, errActivation) {
			return ErrSeasonActivation
		}
		return ErrSeasonNameTaken.WithField("name", "Already exists")
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

// ────────────────────── Delete ──────────────────────

func (s *seasonService) Delete(ctx context.Context, id string) (*dto.DeleteSeasonResponse, error) {
	if !validID(id) {
		return nil, ErrSeasonNotFound
	}
	var wasActive bool
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		season, err := tx.Season.GetByIDForUpdate(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrSeasonNotFound
			}
			return err
		}
		wasActive = season.IsActive

		if err := tx.Attendance.DeleteBySeason(ctx, id); err != nil {
			return err
		}
		if err := tx.Event.DeleteBySeason(ctx, id); err != nil {
			return err
		}
		if err := tx.Roster.DeleteBySeason(ctx, id); err != nil {
			return err
		}
		return tx.Season.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, ErrSeasonNotFound) {
			return nil, err
		}
		s.logger.Error("delete season failed", zap.String("season_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("season deleted", zap.String("season_id", id), zap.Bool("was_active", wasActive))
	resp := &dto.DeleteSeasonResponse{}
	if wasActive {
		resp.Warning = "The active season was deleted. No season is current until another one is activated."
	}
	return resp, nil
}
