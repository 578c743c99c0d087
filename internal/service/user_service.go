package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"oragh/backend/internal/access"
	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
)

// UserService profile and account management.
type UserService interface {
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	Permissions(p access.Principal) *dto.PermissionsResponse
	ListMusicians(ctx context.Context, req *dto.MusicianListRequest) ([]dto.MusicianResponse, int64, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	SetGroups(ctx context.Context, userID string, groups []string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) load(ctx context.Context, userID string) (*model.User, error) {
	if !validID(userID) {
		return nil, ErrUserNotFound
	}
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("load user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Permissions(p access.Principal) *dto.PermissionsResponse {
	groups := p.Groups
	if groups == nil {
		groups = []string{}
	}
	return &dto.PermissionsResponse{
		Groups:      groups,
		Permissions: p.Permissions(),
		IsBoard:     p.IsBoard(),
		IsStaff:     p.IsStaff,
		IsSuperuser: p.IsSuperuser,
	}
}

func (s *userService) ListMusicians(ctx context.Context, req *dto.MusicianListRequest) ([]dto.MusicianResponse, int64, error) {
	musicians, total, err := s.repo.Musician.ListActive(ctx, repository.MusicianFilter{
		Instrument: normalizeInstrument(req.Instrument),
		Search:     req.Search,
		Offset:     req.GetOffset(),
		Limit:      req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("list musicians failed", zap.Error(err))
		return nil, 0, err
	}
	return toMusicianResponses(musicians), total, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		taken, err := s.repo.User.EmailTaken(ctx, email, userID)
		if err != nil {
			s.logger.Error("check email failed", zap.Error(err))
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken.WithField("email", "Already registered")
		}
		user.Email = email
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}

	musician := user.Musician
	if req.Instrument != nil || req.Birthday != nil {
		if musician == nil {
			return nil, ErrMusicianNotLinked
		}
		if req.Instrument != nil {
			if !ValidInstrument(*req.Instrument) {
				return nil, ErrInvalidInstrument.WithField("instrument", "Unknown instrument")
			}
			musician.Instrument = normalizeInstrument(*req.Instrument)
		}
		if req.Birthday != nil {
			if *req.Birthday == "" {
				musician.Birthday = nil
			} else {
				b, err := parseDate(*req.Birthday)
				if err != nil {
					return nil, ErrInvalidBirthday.WithField("birthday", "Use YYYY-MM-DD")
				}
				musician.Birthday = &b
			}
		}
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if musician != nil {
			return tx.Musician.Update(ctx, musician)
		}
		return nil
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrEmailTaken.WithField("email", "Already registered")
		}
		s.logger.Error("update profile failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword.WithField("old_password", "Incorrect")
	}
	if req.NewPassword1 != req.NewPassword2 {
		return ErrPasswordMismatch.WithField("new_password2", "Passwords do not match")
	}
	if len(req.NewPassword1) < MinPasswordLength {
		return ErrPasswordTooShort.WithField("new_password1", "At least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword1), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}
	if err := s.repo.User.UpdateFields(ctx, userID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		s.logger.Error("change password failed", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	s.logger.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *userService) SetGroups(ctx context.Context, userID string, groups []string) (*dto.UserResponse, error) {
	seen := make(map[string]struct{}, len(groups))
	clean := make(model.StringArray, 0, len(groups))
	for _, g := range groups {
		if !access.ValidGroup(g) {
			return nil, ErrInvalidGroup.WithField("groups", "Unknown group "+g)
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		clean = append(clean, g)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.User.UpdateFields(ctx, userID, map[string]interface{}{"groups": clean}); err != nil {
		s.logger.Error("set groups failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	user.Groups = clean

	s.logger.Info("groups changed", zap.String("user_id", userID), zap.Strings("groups", clean))
	resp := toUserResponse(user)
	return &resp, nil
}
