package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"oragh/backend/internal/access"
	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// MinPasswordLength is enforced on registration and password change.
const MinPasswordLength = 8

// Registration statuses.
const (
	StatusPendingActivation = "pending_activation"
)

// ActivationService registration and administrator approval. An account is
// PENDING after registration and ends ACTIVATED, EXPIRED or REJECTED.
type ActivationService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Preview(ctx context.Context, token string) (*dto.ActivationPreviewResponse, error)
	Activate(ctx context.Context, token string) (*dto.ActivationResponse, error)
	Reject(ctx context.Context, token string) error
	Pending(ctx context.Context) ([]dto.PendingActivationResponse, error)
}

type activationService struct {
	repo     *repository.Repository
	notifier Notifier
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewActivationService creates an ActivationService. ttl is the activation link lifetime.
func NewActivationService(repo *repository.Repository, notifier Notifier, ttl time.Duration, logger *zap.Logger) ActivationService {
	return &activationService{repo: repo, notifier: notifier, ttl: ttl, logger: logger, now: time.Now}
}

// ────────────────────── Register ──────────────────────

func (s *activationService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if req.Password1 != req.Password2 {
		return nil, ErrPasswordMismatch.WithField("password2", "Passwords do not match")
	}
	if len(req.Password1) < MinPasswordLength {
		return nil, ErrPasswordTooShort.WithField("password1", "At least 8 characters")
	}
	if !ValidInstrument(req.Instrument) {
		return nil, ErrInvalidInstrument.WithField("instrument", "Unknown instrument")
	}
	var birthday *time.Time
	if req.Birthday != nil && *req.Birthday != "" {
		b, err := parseDate(*req.Birthday)
		if err != nil {
			return nil, ErrInvalidBirthday.WithField("birthday", "Use YYYY-MM-DD")
		}
		birthday = &b
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	taken, err := s.repo.User.UsernameTaken(ctx, username)
	if err != nil {
		s.logger.Error("check username failed", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken.WithField("username", "Already taken")
	}
	taken, err = s.repo.User.EmailTaken(ctx, email, "")
	if err != nil {
		s.logger.Error("check email failed", zap.Error(err))
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken.WithField("email", "Already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hash),
		IsActive:     false,
		Groups:       model.StringArray{access.GroupMusician},
	}
	musician := &model.Musician{
		Instrument: normalizeInstrument(req.Instrument),
		Birthday:   birthday,
		Active:     true,
	}
	token := &model.ActivationToken{}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		musician.UserID = user.UserID
		if err := tx.Musician.Create(ctx, musician); err != nil {
			return err
		}
		token.UserID = user.UserID
		return tx.ActivationToken.Create(ctx, token)
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, s.registrationConflict(ctx, err, email)
		}
		s.logger.Error("register failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("account registered", zap.String("user_id", user.UserID), zap.String("username", user.Username))
	s.notifier.RegistrationReceived(ctx, user, musician.Instrument, token.Token)

	return &dto.RegisterResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Status:   StatusPendingActivation,
	}, nil
}

// emailIndex is the case-insensitive unique index on users.email.
const emailIndex = "idx_users_email_lower"

// registrationConflict maps a unique violation raised by a concurrent
// registration to the field that collided. Translated driver errors lose the
// constraint name, so the email is checked again when it is missing.
func (s *activationService) registrationConflict(ctx context.Context, err error, email string) error {
	if strings.Contains(err.Error(), emailIndex) {
		return ErrEmailTaken.WithField("email", "Already registered")
	}
	if taken, checkErr := s.repo.User.EmailTaken(ctx, email, ""); checkErr == nil && taken {
		return ErrEmailTaken.WithField("email", "Already registered")
	}
	return ErrUsernameTaken.WithField("username", "Already taken")
}

// ────────────────────── Preview / Activate ──────────────────────

// check validates a token's state at now.
func (s *activationService) check(t *model.ActivationToken) error {
	if t.IsUsed {
		return ErrActivationTokenUsed
	}
	if t.IsExpired(s.now(), s.ttl) {
		return ErrActivationTokenExpired
	}
	return nil
}

func (s *activationService) Preview(ctx context.Context, token string) (*dto.ActivationPreviewResponse, error) {
	if !validID(token) {
		return nil, ErrActivationTokenNotFound
	}
	t, err := s.repo.ActivationToken.GetByToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrActivationTokenNotFound
		}
		s.logger.Error("load activation token failed", zap.Error(err))
		return nil, err
	}
	if err := s.check(t); err != nil {
		return nil, err
	}
	if t.User == nil {
		return nil, ErrActivationTokenNotFound
	}

	resp := &dto.ActivationPreviewResponse{
		Token:     t.Token,
		User:      toUserResponse(t.User),
		CreatedAt: formatTime(t.CreatedAt),
		ExpiresAt: formatTime(t.CreatedAt.Add(s.ttl)),
	}
	if t.User.Musician != nil {
		resp.Instrument = t.User.Musician.Instrument
	}
	return resp, nil
}

func (s *activationService) Activate(ctx context.Context, token string) (*dto.ActivationResponse, error) {
	if !validID(token) {
		return nil, ErrActivationTokenNotFound
	}
	var user *model.User
	var activatedAt time.Time
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		t, err := tx.ActivationToken.GetByTokenForUpdate(ctx, token)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrActivationTokenNotFound
			}
			return err
		}
		if err := s.check(t); err != nil {
			return err
		}

		activatedAt = s.now().UTC()
		if err := tx.User.UpdateFields(ctx, t.UserID, map[string]interface{}{"is_active": true}); err != nil {
			return err
		}
		if err := tx.ActivationToken.MarkUsed(ctx, t.TokenID, activatedAt); err != nil {
			return err
		}
		user, err = tx.User.GetByID(ctx, t.UserID)
		return err
	})
	if err != nil {
		if _, ok := asBusiness(err); ok {
			return nil, err
		}
		s.logger.Error("activate account failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("account activated", zap.String("user_id", user.UserID))
	s.notifier.AccountActivated(ctx, user)

	return &dto.ActivationResponse{
		User:        toUserResponse(user),
		ActivatedAt: formatTime(activatedAt),
	}, nil
}

// ────────────────────── Reject ──────────────────────

func (s *activationService) Reject(ctx context.Context, token string) error {
	if !validID(token) {
		return ErrActivationTokenNotFound
	}
	var user *model.User
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		t, err := tx.ActivationToken.GetByTokenForUpdate(ctx, token)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrActivationTokenNotFound
			}
			return err
		}
		if t.IsUsed {
			return ErrActivationTokenUsed
		}
		user, err = tx.User.GetByID(ctx, t.UserID)
		if err != nil {
			return err
		}

		if err := tx.ActivationToken.Delete(ctx, t.TokenID); err != nil {
			return err
		}
		if err := tx.Attendance.DeleteByUser(ctx, user.UserID); err != nil {
			return err
		}
		if user.Musician != nil {
			if err := tx.Roster.DeleteByMusician(ctx, user.Musician.MusicianID); err != nil {
				return err
			}
			if err := tx.Musician.DeleteByUserID(ctx, user.UserID); err != nil {
				return err
			}
		}
		return tx.User.Delete(ctx, user.UserID)
	})
	if err != nil {
		if _, ok := asBusiness(err); ok {
			return err
		}
		s.logger.Error("reject account failed", zap.Error(err))
		return err
	}

	s.logger.Info("registration rejected", zap.String("username", user.Username))
	s.notifier.AccountRejected(ctx, user)
	return nil
}

// ────────────────────── Pending ──────────────────────

func (s *activationService) Pending(ctx context.Context) ([]dto.PendingActivationResponse, error) {
	tokens, err := s.repo.ActivationToken.ListPending(ctx)
	if err != nil {
		s.logger.Error("list pending activations failed", zap.Error(err))
		return nil, err
	}

	now := s.now()
	out := make([]dto.PendingActivationResponse, 0, len(tokens))
	for i := range tokens {
		t := &tokens[i]
		if t.User == nil {
			continue
		}
		entry := dto.PendingActivationResponse{
			Token:     t.Token,
			User:      toUserResponse(t.User),
			CreatedAt: formatTime(t.CreatedAt),
			ExpiresAt: formatTime(t.CreatedAt.Add(s.ttl)),
			IsExpired: t.IsExpired(now, s.ttl),
		}
		if t.User.Musician != nil {
			entry.Instrument = t.User.Musician.Instrument
		}
		out = append(out, entry)
	}
	return out, nil
}
