package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"oragh/backend/internal/access"
	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// ConcertService concert planning and self service sign-up. The board
// manages concerts; a musician may register while a concert is planned or
// confirmed and unregister at any time.
type ConcertService interface {
	List(ctx context.Context, p access.Principal, req *dto.ConcertListRequest) ([]dto.ConcertResponse, int64, error)
	Get(ctx context.Context, p access.Principal, id string) (*dto.ConcertResponse, error)
	Create(ctx context.Context, p access.Principal, req *dto.CreateConcertRequest) (*dto.ConcertResponse, error)
	Update(ctx context.Context, p access.Principal, id string, req *dto.UpdateConcertRequest) (*dto.ConcertResponse, error)
	Delete(ctx context.Context, p access.Principal, id string) error
	// Register applies a register or unregister action for the caller's
	// musician profile under a row lock on the concert.
	Register(ctx context.Context, p access.Principal, id, action string) (*dto.ConcertRegistrationResponse, error)
	Participants(ctx context.Context, id string) (*dto.ConcertParticipantsResponse, error)
	Permissions(p access.Principal) *dto.ConcertPermissionsResponse
}

type concertService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConcertService creates a ConcertService.
func NewConcertService(repo *repository.Repository, logger *zap.Logger) ConcertService {
	return &concertService{repo: repo, logger: logger}
}

func canManageConcerts(p access.Principal) bool {
	return p.HasPerm(access.PermManageConcerts)
}

func (s *concertService) load(ctx context.Context, id string) (*model.Concert, error) {
	if !validID(id) {
		return nil, ErrConcertNotFound
	}
	concert, err := s.repo.Concert.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrConcertNotFound
		}
		s.logger.Error("load concert failed", zap.String("concert_id", id), zap.Error(err))
		return nil, err
	}
	return concert, nil
}

// musicianOf resolves the caller's musician profile id, "" when there is none.
func (s *concertService) musicianOf(ctx context.Context, p access.Principal) (string, error) {
	if !validID(p.UserID) {
		return "", nil
	}
	m, err := s.repo.Musician.GetByUserID(ctx, p.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", nil
		}
		s.logger.Error("load musician failed", zap.String("user_id", p.UserID), zap.Error(err))
		return "", err
	}
	return m.MusicianID, nil
}

func toConcertResponse(c *model.Concert, participants int64, registered, canEdit bool) dto.ConcertResponse {
	return dto.ConcertResponse{
		ID:                c.ConcertID,
		Name:              c.Name,
		Date:              formatDate(c.Date),
		Location:          c.Location,
		Description:       c.Description,
		Setlist:           c.Setlist,
		Status:            c.Status,
		ParticipantsCount: participants,
		IsRegistered:      registered,
		CanEdit:           canEdit,
		CreatedBy:         toUserBrief(c.Creator),
		CreatedAt:         formatTime(c.CreatedAt),
		UpdatedAt:         formatTime(c.UpdatedAt),
	}
}

// ────────────────────── Read ──────────────────────

func (s *concertService) List(ctx context.Context, p access.Principal, req *dto.ConcertListRequest) ([]dto.ConcertResponse, int64, error) {
	filter := repository.ConcertFilter{
		Search: req.Search,
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
	}
	if req.Status != "" {
		if !model.ValidConcertStatus(req.Status) {
			return nil, 0, ErrInvalidConcertStatus.WithField("status", "Unknown status")
		}
		filter.Status = req.Status
	}
	if req.DateFrom != "" {
		from, err := parseDate(req.DateFrom)
		if err != nil {
			return nil, 0, ErrInvalidConcertDate.WithField("date_from", "Use YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := parseDate(req.DateTo)
		if err != nil {
			return nil, 0, ErrInvalidConcertDate.WithField("date_to", "Use YYYY-MM-DD")
		}
		filter.DateTo = &to
	}

	concerts, total, err := s.repo.Concert.List(ctx, filter)
	if err != nil {
		s.logger.Error("list concerts failed", zap.Error(err))
		return nil, 0, err
	}

	ids := make([]string, 0, len(concerts))
	for i := range concerts {
		ids = append(ids, concerts[i].ConcertID)
	}
	counts, err := s.repo.Concert.CountParticipants(ctx, ids)
	if err != nil {
		s.logger.Error("count participants failed", zap.Error(err))
		return nil, 0, err
	}
	musicianID, err := s.musicianOf(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	registered, err := s.repo.Concert.RegisteredConcertIDs(ctx, musicianID, ids)
	if err != nil {
		s.logger.Error("load registrations failed", zap.Error(err))
		return nil, 0, err
	}
	mine := make(map[string]struct{}, len(registered))
	for _, id := range registered {
		mine[id] = struct{}{}
	}

	canEdit := canManageConcerts(p)
	out := make([]dto.ConcertResponse, 0, len(concerts))
	for i := range concerts {
		c := &concerts[i]
		_, isMine := mine[c.ConcertID]
		out = append(out, toConcertResponse(c, counts[c.ConcertID], isMine, canEdit))
	}
	return out, total, nil
}

func (s *concertService) Get(ctx context.Context, p access.Principal, id string) (*dto.ConcertResponse, error) {
	concert, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, p, concert)
}

// detail renders a concert with its participant list.
func (s *concertService) detail(ctx context.Context, p access.Principal, concert *model.Concert) (*dto.ConcertResponse, error) {
	participants, err := s.repo.Concert.Participants(ctx, concert.ConcertID)
	if err != nil {
		s.logger.Error("load participants failed", zap.String("concert_id", concert.ConcertID), zap.Error(err))
		return nil, err
	}
	musicianID, err := s.musicianOf(ctx, p)
	if err != nil {
		return nil, err
	}
	registered := false
	for i := range participants {
		if participants[i].MusicianID == musicianID {
			registered = true
			break
		}
	}
	resp := toConcertResponse(concert, int64(len(participants)), registered, canManageConcerts(p))
	resp.Participants = toMusicianResponses(participants)
	return &resp, nil
}

func (s *concertService) Participants(ctx context.Context, id string) (*dto.ConcertParticipantsResponse, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	participants, err := s.repo.Concert.Participants(ctx, id)
	if err != nil {
		s.logger.Error("load participants failed", zap.String("concert_id", id), zap.Error(err))
		return nil, err
	}
	return &dto.ConcertParticipantsResponse{
		Participants: toMusicianResponses(participants),
		Count:        len(participants),
	}, nil
}

func (s *concertService) Permissions(p access.Principal) *dto.ConcertPermissionsResponse {
	return &dto.ConcertPermissionsResponse{CanCreate: canManageConcerts(p)}
}

// ────────────────────── Write ──────────────────────

func (s *concertService) Create(ctx context.Context, p access.Principal, req *dto.CreateConcertRequest) (*dto.ConcertResponse, error) {
	if !canManageConcerts(p) {
		return nil, ErrConcertManageRequired
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidConcertDate.WithField("date", "Use YYYY-MM-DD")
	}
	status := req.Status
	if status == "" {
		status = model.ConcertPlanned
	}
	if !model.ValidConcertStatus(status) {
		return nil, ErrInvalidConcertStatus.WithField("status", "Unknown status")
	}

	concert := &model.Concert{
		Name:        strings.TrimSpace(req.Name),
		Date:        date,
		Location:    strings.TrimSpace(req.Location),
		Description: req.Description,
		Setlist:     req.Setlist,
		Status:      status,
	}
	if validID(p.UserID) {
		creator := p.UserID
		concert.CreatedBy = &creator
	}
	if err := s.repo.Concert.Create(ctx, concert); err != nil {
		s.logger.Error("create concert failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("concert created", zap.String("concert_id", concert.ConcertID), zap.String("date", formatDate(date)))

	created, err := s.load(ctx, concert.ConcertID)
	if err != nil {
		return nil, err
	}
	resp := toConcertResponse(created, 0, false, true)
	return &resp, nil
}

func (s *concertService) Update(ctx context.Context, p access.Principal, id string, req *dto.UpdateConcertRequest) (*dto.ConcertResponse, error) {
	if !canManageConcerts(p) {
		return nil, ErrConcertManageRequired
	}
	concert, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		concert.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, ErrInvalidConcertDate.WithField("date", "Use YYYY-MM-DD")
		}
		concert.Date = date
	}
	if req.Location != nil {
		concert.Location = strings.TrimSpace(*req.Location)
	}
	if req.Description != nil {
		concert.Description = *req.Description
	}
	if req.Setlist != nil {
		concert.Setlist = *req.Setlist
	}
	if req.Status != nil {
		if !model.ValidConcertStatus(*req.Status) {
			return nil, ErrInvalidConcertStatus.WithField("status", "Unknown status")
		}
		concert.Status = *req.Status
	}

	if err := s.repo.Concert.Update(ctx, concert); err != nil {
		s.logger.Error("update concert failed", zap.String("concert_id", id), zap.Error(err))
		return nil, err
	}
	return s.detail(ctx, p, concert)
}

func (s *concertService) Delete(ctx context.Context, p access.Principal, id string) error {
	if !canManageConcerts(p) {
		return ErrConcertManageRequired
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Concert.DeleteParticipants(ctx, id); err != nil {
			return err
		}
		return tx.Concert.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("delete concert failed", zap.String("concert_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("concert deleted", zap.String("concert_id", id))
	return nil
}

// ────────────────────── Registration ──────────────────────

func (s *concertService) Register(ctx context.Context, p access.Principal, id, action string) (*dto.ConcertRegistrationResponse, error) {
	if action != dto.ConcertActionRegister && action != dto.ConcertActionUnregister {
		return nil, ErrInvalidConcertAction.WithField("action", "Use register or unregister")
	}
	if !validID(id) {
		return nil, ErrConcertNotFound
	}
	musicianID, err := s.musicianOf(ctx, p)
	if err != nil {
		return nil, err
	}
	if musicianID == "" {
		return nil, ErrConcertNeedsMusician
	}

	resp := &dto.ConcertRegistrationResponse{}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		concert, err := tx.Concert.GetByIDForUpdate(ctx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrConcertNotFound
			}
			return err
		}
		registered, err := tx.Concert.IsParticipant(ctx, id, musicianID)
		if err != nil {
			return err
		}

		if action == dto.ConcertActionRegister {
			if !concert.OpenForRegistration() {
				return ErrRegistrationClosed
			}
			if registered {
				return ErrAlreadyRegistered
			}
			if err := tx.Concert.AddParticipant(ctx, id, musicianID); err != nil {
				return err
			}
			resp.Message = "Registered for the concert"
			resp.IsRegistered = true
		} else {
			if !registered {
				return ErrNotRegistered
			}
			if _, err := tx.Concert.RemoveParticipant(ctx, id, musicianID); err != nil {
				return err
			}
			resp.Message = "Unregistered from the concert"
		}

		counts, err := tx.Concert.CountParticipants(ctx, []string{id})
		if err != nil {
			return err
		}
		resp.ParticipantsCount = counts[id]
		return nil
	})
	if err != nil {
		if _, ok := asBusiness(err); ok {
			return nil, err
		}
		if repository.IsDuplicate(err) {
			return nil, ErrAlreadyRegistered
		}
		s.logger.Error("concert registration failed", zap.String("concert_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("concert registration changed",
		zap.String("concert_id", id),
		zap.String("musician_id", musicianID),
		zap.String("action", action),
	)
	return resp, nil
}
