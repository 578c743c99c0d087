package service

import (
	"go.uber.org/zap"

	"oragh/backend/config"
	"oragh/backend/internal/repository"
	"oragh/backend/pkg/jwt"
	"oragh/backend/pkg/mailer"
)

// Service aggregates every module service.
type Service struct {
	Auth       AuthService
	Activation ActivationService
	User       UserService
	Season     SeasonService
	Roster     RosterService
	Event      EventService
	Attendance AttendanceService
	Forum      ForumService
	Concert    ConcertService
	Export     ExportService
	Calendar   CalendarService
}

// NewService wires the services. blacklist may be nil when Redis is not
// configured; logout then only expires tokens naturally.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	sender mailer.Sender,
	logger *zap.Logger,
) *Service {
	attendance := NewAttendanceService(repo, logger)
	return &Service{
		Auth:       NewAuthService(repo, jwtMgr, blacklist, logger),
		Activation: NewActivationService(repo, NewNotifier(sender, cfg, logger), cfg.Auth.ActivationTokenTTL, logger),
		User:       NewUserService(repo, logger),
		Season:     NewSeasonService(repo, logger),
		Roster:     NewRosterService(repo, logger),
		Event:      NewEventService(repo, logger),
		Attendance: attendance,
		Forum:      NewForumService(repo, logger),
		Concert:    NewConcertService(repo, logger),
		Export:     NewExportService(attendance, logger),
		Calendar:   NewCalendarService(repo, cfg, logger),
	}
}
