package handler

import "oragh/backend/internal/service"

// Handler is the aggregate of every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	Activation *ActivationHandler
	User       *UserHandler
	Season     *SeasonHandler
	Event      *EventHandler
	Attendance *AttendanceHandler
	Forum      *ForumHandler
	Concert    *ConcertHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Activation: NewActivationHandler(svc.Activation),
		User:       NewUserHandler(svc.User),
		Season:     NewSeasonHandler(svc.Season, svc.Roster, svc.Event, svc.Attendance, svc.Export, svc.Calendar),
		Event:      NewEventHandler(svc.Event, svc.Attendance),
		Attendance: NewAttendanceHandler(svc.Attendance),
		Forum:      NewForumHandler(svc.Forum),
		Concert:    NewConcertHandler(svc.Concert),
	}
}
