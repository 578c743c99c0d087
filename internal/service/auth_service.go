package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
	"oragh/backend/internal/repository"
	"oragh/backend/pkg/jwt"
)

// TokenBlacklist revokes token ids until they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService login, token refresh and logout.
type AuthService interface {
	// Login checks the password before the active flag, so a pending account
	// is only revealed to someone who knows its password.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revokes an access token id until expiresAt.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil, in which case
// logout and refresh rotation are not enforced server side.
func NewAuthService(repo *repository.Repository, jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) AuthService {
	return &authService{repo: repo, jwtMgr: jwtMgr, blacklist: blacklist, logger: logger}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// compareDummy spends the same bcrypt work as a real check so that unknown
// usernames cannot be told apart by timing.
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if repository.IsNotFound(err) {
			compareDummy(req.Password)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountPending
	}

	now := time.Now().UTC()
	if err := s.repo.User.UpdateFields(ctx, user.UserID, map[string]interface{}{"last_login": now}); err != nil {
		s.logger.Warn("stamp last login failed", zap.String("user_id", user.UserID), zap.Error(err))
	}
	user.LastLogin = &now

	return s.issue(user)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("check refresh token failed", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		s.logger.Error("load user failed", zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountPending
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	// Rotate: the presented refresh token cannot be used again.
	if s.blacklist != nil && claims.ExpiresAt != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("revoke rotated refresh token failed", zap.Error(err))
		}
	}
	return resp, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil {
		s.logger.Warn("logout without token blacklist, access token stays valid until expiry")
		return nil
	}
	if jti == "" {
		return errors.New("token id missing")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) issue(user *model.User) (*dto.TokenResponse, error) {
	sub := jwt.Subject{
		UserID:      user.UserID,
		Username:    user.Username,
		Groups:      []string(user.Groups),
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
	access, err := s.jwtMgr.GenerateAccessToken(sub)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}
	refresh, err := s.jwtMgr.GenerateRefreshToken(sub)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}
