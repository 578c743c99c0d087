package service

import (
	apperr "oragh/backend/pkg/errors"
)

// ── Auth ──

var (
	ErrInvalidCredentials  = apperr.Unauthorized(11001, "Invalid username or password")
	ErrAccountPending      = apperr.Permission(11002, "Account is awaiting administrator activation")
	ErrInvalidRefreshToken = apperr.Unauthorized(11003, "Invalid or expired refresh token")
)

// ── Registration & activation ──

var (
	ErrActivationTokenNotFound = apperr.NotFound(12001, "Activation link is invalid")
	ErrActivationTokenUsed     = apperr.StateConflict(12002, "Account has already been activated")
	ErrActivationTokenExpired  = apperr.StateConflict(12003, "Activation link has expired")
	ErrUsernameTaken           = apperr.Validation(12004, "Username is already taken")
	ErrEmailTaken              = apperr.Validation(12005, "Email address is already registered")
	ErrPasswordMismatch        = apperr.Validation(12006, "Passwords do not match")
	ErrPasswordTooShort        = apperr.Validation(12007, "Password must be at least 8 characters")
	ErrInvalidInstrument       = apperr.Validation(12008, "Unknown instrument")
	ErrInvalidBirthday         = apperr.Validation(12009, "Birthday must be a date in YYYY-MM-DD format")
)

// ── Users ──

var (
	ErrUserNotFound      = apperr.NotFound(13001, "User not found")
	ErrWrongOldPassword  = apperr.Validation(13002, "Current password is incorrect")
	ErrInvalidGroup      = apperr.Validation(13003, "Unknown group")
	ErrMusicianNotLinked = apperr.NotFound(13004, "Account has no musician profile")
)

// ── Seasons ──

var (
	ErrSeasonNotFound    = apperr.NotFound(14001, "Season not found")
	ErrSeasonDateInvalid = apperr.Validation(14002, "Season end date must be after its start date")
	ErrSeasonNameTaken   = apperr.Validation(14003, "A season with this name already exists")
	ErrSeasonActivation  = apperr.StateConflict(14004, "Another season was activated concurrently")
	ErrNoCurrentSeason   = apperr.NotFound(14005, "No active season")
)

// ── Roster ──

var (
	ErrNoMusiciansGiven      = apperr.Validation(15001, "musician_ids must not be empty")
	ErrNoActiveMusicians     = apperr.NotFound(15002, "No active musicians found for the given ids")
	ErrMusiciansAlreadyAdded = apperr.StateConflict(15003, "All selected musicians are already in this season")
)

// ── Events ──

var (
	ErrEventNotFound    = apperr.NotFound(16001, "Event not found")
	ErrInvalidEventType = apperr.Validation(16002, "Event type must be concert, rehearsal or soundcheck")
	ErrInvalidEventDate = apperr.Validation(16003, "Event date must be in YYYY-MM-DD format")
)

// ── Attendance ──

var (
	ErrInvalidAttendanceValue = apperr.Validation(17001, "Attendance value must be 0.0, 0.5 or 1.0")
	ErrInvalidRecordType      = apperr.Validation(17002, "type must be present, absent, half or full")
)

// ── Forum ──

var (
	ErrDirectoryNotFound     = apperr.NotFound(18001, "Directory not found")
	ErrPostNotFound          = apperr.NotFound(18002, "Post not found")
	ErrDirectoryAccessDenied = apperr.Permission(18003, "You do not have access to this directory")
	ErrForumManageRequired   = apperr.Permission(18004, "Board rights are required")
	ErrDirectoryCycle        = apperr.Validation(18005, "A directory cannot be moved into itself or its subdirectory")
	ErrDirectoryNotEmpty     = apperr.StateConflict(18006, "Directory still contains posts or subdirectories")
	ErrPostLocked            = apperr.Permission(18007, "Post is locked")
	ErrNotPostAuthor         = apperr.Permission(18008, "Only the author or a moderator can change this post")
	ErrCommentNotFound       = apperr.NotFound(18009, "Comment not found")
	ErrCommentsLocked        = apperr.StateConflict(18010, "Post is locked, comments cannot be added or edited")
	ErrNotCommentAuthor      = apperr.Permission(18011, "Only the author or a moderator can change this comment")
	ErrCommentEmpty          = apperr.Validation(18012, "Comment must not be empty")
)

// ── Export ──

var (
	ErrExportGenerateFail = apperr.StateConflict(19001, "Failed to generate export file")
)

// ── Concerts ──

var (
	ErrConcertNotFound       = apperr.NotFound(20001, "Concert not found")
	ErrConcertManageRequired = apperr.Permission(20002, "Board rights are required to manage concerts")
	ErrInvalidConcertStatus  = apperr.Validation(20003, "Status must be planned, confirmed, completed or cancelled")
	ErrInvalidConcertDate    = apperr.Validation(20004, "Concert date must be in YYYY-MM-DD format")
	ErrRegistrationClosed    = apperr.StateConflict(20005, "Registration for this concert is closed")
	ErrAlreadyRegistered     = apperr.StateConflict(20006, "You are already registered for this concert")
	ErrNotRegistered         = apperr.StateConflict(20007, "You are not registered for this concert")
	ErrConcertNeedsMusician  = apperr.Validation(20008, "A musician profile is required to register for a concert")
	ErrInvalidConcertAction  = apperr.Validation(20009, "action must be register or unregister")
)

// asBusiness reports whether err carries a typed business error.
func asBusiness(err error) (*apperr.AppError, bool) {
	return apperr.As(err)
}
